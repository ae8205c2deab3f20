package repository

import (
	"fmt"
	"testing"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createUser(t *testing.T, testDB *gorm.DB, email string, role model.UserRole) *model.User {
	user := &model.User{
		Email:        email,
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         role,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createProduct(t *testing.T, testDB *gorm.DB, name string, price int64, stock int) *model.Product {
	product := &model.Product{
		Name:          name,
		Slug:          fmt.Sprintf("%s-%d", name, price),
		Brand:         "Maison Noir",
		Price:         decimal.NewFromInt(price),
		StockQuantity: stock,
		IsActive:      true,
		Gender:        model.GenderUnisex,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}
