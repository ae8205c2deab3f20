package repository

import (
	"testing"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestOrder(number string, product *model.Product, qty int) *model.Order {
	line := product.Price.Mul(decimal.NewFromInt(int64(qty)))
	return &model.Order{
		OrderNumber:   number,
		CustomerName:  "Camille Laurent",
		CustomerEmail: "camille@example.com",
		CustomerPhone: "+33600000000",
		AddressLine1:  "12 rue des Lilas",
		City:          "Lyon",
		Country:       "FR",
		Subtotal:      line,
		Total:         line,
		Status:        model.OrderStatusPending,
		PaymentMethod: model.PaymentCashOnDelivery,
		OrderItems: []model.OrderItem{{
			ProductID:      product.ID,
			ProductName:    product.Name,
			UnitPrice:      product.Price,
			FinalUnitPrice: product.Price,
			Quantity:       qty,
			LineTotal:      line,
		}},
	}
}

func TestOrderRepository_CreateAndFind(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewOrderRepository(testDB)
	product := createProduct(t, testDB, "Neroli", 70, 5)

	order := newTestOrder("ORD-000001", product, 2)
	require.NoError(t, repo.Create(order))
	assert.NotZero(t, order.ID)

	found, err := repo.FindByOrderNumber("ORD-000001")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	require.Len(t, found.OrderItems, 1)
	assert.Equal(t, 2, found.OrderItems[0].Quantity)
	assert.True(t, found.Total.Equal(decimal.NewFromInt(140)))

	_, err = repo.FindByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderRepository_DuplicateOrderNumber(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewOrderRepository(testDB)
	product := createProduct(t, testDB, "Neroli", 70, 5)

	require.NoError(t, repo.Create(newTestOrder("ORD-000007", product, 1)))
	assert.Error(t, repo.Create(newTestOrder("ORD-000007", product, 1)))
}

func TestOrderRepository_NextSequence(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewOrderRepository(testDB)

	first, err := repo.NextSequence(model.OrderCounterName)
	require.NoError(t, err)
	second, err := repo.NextSequence(model.OrderCounterName)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)

	fresh, err := repo.NextSequence("invoice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresh)
}

func TestOrderRepository_FindWithFilter(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewOrderRepository(testDB)
	product := createProduct(t, testDB, "Neroli", 70, 5)

	require.NoError(t, repo.Create(newTestOrder("ORD-000001", product, 1)))
	shipped := newTestOrder("ORD-000002", product, 1)
	shipped.Status = model.OrderStatusShipped
	require.NoError(t, repo.Create(shipped))

	orders, total, err := repo.FindWithFilter(model.OrderFilter{Status: model.OrderStatusShipped, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-000002", orders[0].OrderNumber)

	orders, total, err = repo.FindWithFilter(model.OrderFilter{Search: "ord-00000", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, orders, 2)
}

func TestOrderRepository_UpdateFieldsAndStats(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewOrderRepository(testDB)
	product := createProduct(t, testDB, "Neroli", 70, 5)

	order := newTestOrder("ORD-000001", product, 1)
	require.NoError(t, repo.Create(order))
	cancelled := newTestOrder("ORD-000002", product, 2)
	require.NoError(t, repo.Create(cancelled))

	require.NoError(t, repo.UpdateFields(cancelled.ID, map[string]interface{}{
		"status": model.OrderStatusCancelled,
	}))
	assert.ErrorIs(t, repo.UpdateFields(9999, map[string]interface{}{"status": model.OrderStatusShipped}), gorm.ErrRecordNotFound)

	counts, err := repo.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[model.OrderStatusPending])
	assert.Equal(t, int64(1), counts[model.OrderStatusCancelled])
	assert.Equal(t, int64(0), counts[model.OrderStatusShipped])

	revenue, err := repo.Revenue()
	require.NoError(t, err)
	assert.True(t, revenue.Equal(decimal.NewFromInt(70)), revenue.String())
}

func TestOrderRepository_Delete(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewOrderRepository(testDB)
	product := createProduct(t, testDB, "Neroli", 70, 5)

	order := newTestOrder("ORD-000001", product, 1)
	require.NoError(t, repo.Create(order))
	require.NoError(t, repo.Delete(order.ID))

	_, err := repo.FindByID(order.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
