package repository

import (
	"testing"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCartRepository_AddQuantityMerges(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewCartRepository(testDB)
	user := createUser(t, testDB, "cart@example.com", model.RoleUser)
	product := createProduct(t, testDB, "Tonka", 55, 10)

	require.NoError(t, repo.AddQuantity(user.ID, product.ID, 2))
	require.NoError(t, repo.AddQuantity(user.ID, product.ID, 3))

	items, err := repo.ListByUser(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, "Tonka", items[0].Product.Name)
}

func TestCartRepository_OwnerScope(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewCartRepository(testDB)
	owner := createUser(t, testDB, "cart@example.com", model.RoleUser)
	other := createUser(t, testDB, "other@example.com", model.RoleUser)
	product := createProduct(t, testDB, "Tonka", 55, 10)

	require.NoError(t, repo.AddQuantity(owner.ID, product.ID, 1))
	line, err := repo.FindLine(owner.ID, product.ID)
	require.NoError(t, err)

	_, err = repo.FindOwned(other.ID, line.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.SetQuantity(other.ID, line.ID, 9), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(other.ID, line.ID), gorm.ErrRecordNotFound)

	require.NoError(t, repo.SetQuantity(owner.ID, line.ID, 4))
	owned, err := repo.FindOwned(owner.ID, line.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, owned.Quantity)

	require.NoError(t, repo.Delete(owner.ID, line.ID))
	assert.ErrorIs(t, repo.Delete(owner.ID, line.ID), gorm.ErrRecordNotFound)
}

func TestCartRepository_DeletedProductsDropOut(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewCartRepository(testDB)
	user := createUser(t, testDB, "cart@example.com", model.RoleUser)
	kept := createProduct(t, testDB, "Tonka", 55, 10)
	gone := createProduct(t, testDB, "Vetiver", 70, 10)

	require.NoError(t, repo.AddQuantity(user.ID, kept.ID, 1))
	require.NoError(t, repo.AddQuantity(user.ID, gone.ID, 1))
	require.NoError(t, testDB.Delete(gone).Error)

	items, err := repo.ListByUser(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, kept.ID, items[0].ProductID)
}

func TestCartRepository_DeleteByUserID(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewCartRepository(testDB)
	user := createUser(t, testDB, "cart@example.com", model.RoleUser)
	other := createUser(t, testDB, "other@example.com", model.RoleUser)
	product := createProduct(t, testDB, "Tonka", 55, 10)

	require.NoError(t, repo.AddQuantity(user.ID, product.ID, 1))
	require.NoError(t, repo.AddQuantity(other.ID, product.ID, 1))

	require.NoError(t, repo.DeleteByUserID(user.ID))

	items, err := repo.ListByUser(user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = repo.ListByUser(other.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
