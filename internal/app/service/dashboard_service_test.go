package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func setupDashboardServiceTest(t *testing.T) (DashboardService, *orderFixture) {
	f := setupOrderServiceTest(t)
	dashboard := NewDashboardService(DashboardRepos{
		Orders:    repository.NewOrderRepository(f.db),
		Products:  f.productRepo,
		Reviews:   repository.NewReviewRepository(f.db),
		Comments:  repository.NewCommentRepository(f.db),
		Questions: repository.NewQuestionRepository(f.db),
		Contacts:  repository.NewContactRepository(f.db),
		Blogs:     repository.NewBlogRepository(f.db),
		Users:     repository.NewUserRepository(f.db),
		Settings:  repository.NewSettingsRepository(f.db),
	})
	return dashboard, f
}

func TestDashboardService_Summary(t *testing.T) {
	dashboard, f := setupDashboardServiceTest(t)
	product := createProduct(t, f.db, "Gardenia", 100, 4)
	createUser(t, f.db, "shopper@example.com", model.RoleUser)
	createUser(t, f.db, "boss@example.com", model.RoleAdmin)

	kept, err := f.service.CreateOrder(context.Background(), nil, orderRequest(orderLine(product.ID, 1)))
	require.NoError(t, err)
	cancelled, err := f.service.CreateOrder(context.Background(), nil, orderRequest(orderLine(product.ID, 1)))
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(context.Background(), cancelled.ID,
		model.UpdateOrderStatusRequest{Status: model.OrderStatusCancelled})
	require.NoError(t, err)

	summary, err := dashboard.Summary()
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.TotalOrders)
	assert.EqualValues(t, 1, summary.OrdersByStatus[model.OrderStatusPending])
	assert.EqualValues(t, 1, summary.OrdersByStatus[model.OrderStatusCancelled])
	assert.True(t, kept.Total.Equal(summary.Revenue))
	assert.True(t, decimal.NewFromInt(100).Equal(summary.Revenue))
	assert.EqualValues(t, 1, summary.Customers)
	assert.Len(t, summary.RecentOrders, 2)
	require.Len(t, summary.LowStock, 1)
	assert.Equal(t, product.ID, summary.LowStock[0].ID)
}

func TestDashboardService_ExportOrders(t *testing.T) {
	dashboard, f := setupDashboardServiceTest(t)
	product := createProduct(t, f.db, "Magnolia", 30, 10)
	for i := 0; i < 3; i++ {
		_, err := f.service.CreateOrder(context.Background(), nil, orderRequest(orderLine(product.ID, 2)))
		require.NoError(t, err)
	}

	data, err := dashboard.ExportOrders(model.OrderFilter{Page: 2, Limit: 1})
	require.NoError(t, err)

	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer workbook.Close()

	rows, err := workbook.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, rows, 4, "header plus every order regardless of paging")
	assert.Equal(t, "Order number", rows[0][0])
	assert.Equal(t, "ORD-000003", rows[1][0])
	assert.Equal(t, "2", rows[1][7])
	assert.Equal(t, "camille@example.com", rows[1][4])
}
