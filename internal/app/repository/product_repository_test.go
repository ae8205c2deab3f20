package repository

import (
	"testing"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestProductRepository_CreateAndFind(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewProductRepository(testDB)

	product := &model.Product{
		Name:            "Oud Nocturne",
		Slug:            "oud-nocturne",
		Price:           decimal.NewFromInt(120),
		DiscountPercent: 25,
		StockQuantity:   4,
		Images:          model.StringList{"https://cdn.example.com/oud.jpg"},
		TopNotes:        model.StringList{"saffron", "bergamot"},
		IsActive:        true,
	}
	require.NoError(t, repo.Create(product))
	assert.NotZero(t, product.ID)

	found, err := repo.FindBySlug("oud-nocturne")
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)
	assert.True(t, found.FinalPrice.Equal(decimal.NewFromInt(90)))
	assert.True(t, found.InStock)
	assert.Equal(t, []string{"saffron", "bergamot"}, []string(found.TopNotes))

	_, err = repo.FindByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_FindWithFilter(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewProductRepository(testDB)

	createProduct(t, testDB, "Amber Veil", 80, 3)
	createProduct(t, testDB, "Rose Smoke", 150, 0)
	createProduct(t, testDB, "Vetiver Field", 60, 10)

	inactive := createProduct(t, testDB, "Hidden Musk", 70, 10)
	require.NoError(t, testDB.Model(inactive).Update("is_active", false).Error)

	products, total, err := repo.FindWithFilter(model.ProductFilter{
		Sort:  model.ProductSortPriceAsc,
		Page:  1,
		Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, products, 3)
	assert.Equal(t, "Vetiver Field", products[0].Name)
	assert.Equal(t, "Rose Smoke", products[2].Name)

	products, total, err = repo.FindWithFilter(model.ProductFilter{
		Search:  "rose",
		InStock: true,
		Page:    1,
		Limit:   10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, products)

	min := decimal.NewFromInt(70)
	products, _, err = repo.FindWithFilter(model.ProductFilter{
		MinPrice: &min,
		Page:     1,
		Limit:    10,
	})
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestProductRepository_DecrementStock(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewProductRepository(testDB)
	product := createProduct(t, testDB, "Iris Poudre", 95, 2)

	ok, err := repo.DecrementStock(product.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementStock(product.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok, "stock must never go below zero")

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.StockQuantity)
	assert.Equal(t, 2, found.SoldCount)

	require.NoError(t, repo.IncrementStock(product.ID, 2))
	found, err = repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.StockQuantity)
}

func TestProductRepository_FindLowStock(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewProductRepository(testDB)

	createProduct(t, testDB, "Low One", 50, 1)
	createProduct(t, testDB, "Plenty", 50, 40)

	low, err := repo.FindLowStock(5)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Low One", low[0].Name)
}

func TestProductRepository_Delete(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewProductRepository(testDB)
	product := createProduct(t, testDB, "Cedar", 40, 3)

	require.NoError(t, repo.Delete(product.ID))
	_, err := repo.FindByID(product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(product.ID), gorm.ErrRecordNotFound)

	exists, err := repo.SlugExists(product.Slug, 0)
	require.NoError(t, err)
	assert.True(t, exists, "soft-deleted slugs stay reserved")
}
