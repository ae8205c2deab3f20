package controller

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/internal/app/service"
	apperrors "github.com/noirparfum/noir-backend/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type productTest struct {
	router     *gin.Engine
	db         *gorm.DB
	adminToken string
	userToken  string
}

func setupProductControllerTest(t *testing.T) *productTest {
	router, authMiddleware := newTestRouter()
	testDB := setupTestDB(t)

	productRepo := repository.NewProductRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	ctrl := NewProductController(service.NewProductService(productRepo, categoryRepo))

	router.GET("/products", ctrl.ListProducts)
	router.GET("/products/featured", ctrl.GetFeaturedProducts)
	router.GET("/products/:slug", ctrl.GetProduct)

	admin := router.Group("/admin", authMiddleware.Authenticate(), authMiddleware.RequireRole("admin"))
	admin.GET("/products", ctrl.AdminListProducts)
	admin.GET("/products/:id", ctrl.AdminGetProduct)
	admin.POST("/products", ctrl.CreateProduct)
	admin.PUT("/products/:id", ctrl.UpdateProduct)
	admin.PATCH("/products/:id/stock", ctrl.AdjustStock)
	admin.DELETE("/products/:id", ctrl.DeleteProduct)

	return &productTest{
		router:     router,
		db:         testDB,
		adminToken: tokenFor(t, createUser(t, testDB, "admin@example.com", model.RoleAdmin)),
		userToken:  tokenFor(t, createUser(t, testDB, "camille@example.com", model.RoleUser)),
	}
}

func TestProductController_ListProducts(t *testing.T) {
	pt := setupProductControllerTest(t)
	createProduct(t, pt.db, "Oud Nocturne", 120, 4)
	createProduct(t, pt.db, "Fleur de Sel", 80, 0)
	hidden := createProduct(t, pt.db, "Draft Accord", 60, 10)
	require.NoError(t, pt.db.Model(hidden).Update("is_active", false).Error)

	t.Run("only active products with meta", func(t *testing.T) {
		w := doJSON(pt.router, http.MethodGet, "/products?limit=1", nil, "")

		require.Equal(t, http.StatusOK, w.Code)
		var products []model.Product
		body := decodeSuccess(t, w, &products)
		assert.Len(t, products, 1)
		require.NotNil(t, body.Meta)
		assert.Equal(t, int64(2), body.Meta.Total)
		assert.Equal(t, 1, body.Meta.Limit)
	})

	t.Run("in stock filter", func(t *testing.T) {
		w := doJSON(pt.router, http.MethodGet, "/products?in_stock=true", nil, "")

		require.Equal(t, http.StatusOK, w.Code)
		var products []model.Product
		decodeSuccess(t, w, &products)
		require.Len(t, products, 1)
		assert.Equal(t, "oud-nocturne", products[0].Slug)
		assert.True(t, products[0].InStock)
	})

	t.Run("bad price filter", func(t *testing.T) {
		w := doJSON(pt.router, http.MethodGet, "/products?min_price=cheap", nil, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).Fields, "min_price")
	})

	t.Run("admin sees inactive", func(t *testing.T) {
		w := doJSON(pt.router, http.MethodGet, "/admin/products", nil, pt.adminToken)

		require.Equal(t, http.StatusOK, w.Code)
		var products []model.Product
		decodeSuccess(t, w, &products)
		assert.Len(t, products, 3)
	})
}

func TestProductController_GetProduct(t *testing.T) {
	pt := setupProductControllerTest(t)
	product := createProduct(t, pt.db, "Oud Nocturne", 120, 4)
	hidden := createProduct(t, pt.db, "Draft Accord", 60, 10)
	require.NoError(t, pt.db.Model(hidden).Update("is_active", false).Error)

	t.Run("by slug", func(t *testing.T) {
		w := doJSON(pt.router, http.MethodGet, "/products/oud-nocturne", nil, "")

		require.Equal(t, http.StatusOK, w.Code)
		var got model.Product
		decodeSuccess(t, w, &got)
		assert.Equal(t, product.ID, got.ID)
		assert.True(t, decimal.NewFromInt(120).Equal(got.FinalPrice))
	})

	t.Run("inactive is hidden from the storefront", func(t *testing.T) {
		w := doJSON(pt.router, http.MethodGet, "/products/draft-accord", nil, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperrors.ProductNotFound, decodeError(t, w).Error)
	})

	t.Run("inactive is visible to admins", func(t *testing.T) {
		w := doJSON(pt.router, http.MethodGet, "/admin/products/"+uintPath(hidden.ID), nil, pt.adminToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestProductController_CreateProduct(t *testing.T) {
	t.Run("success derives slug", func(t *testing.T) {
		pt := setupProductControllerTest(t)

		w := doJSON(pt.router, http.MethodPost, "/admin/products", model.CreateProductRequest{
			Name:            "Ambre Sauvage",
			Brand:           "Maison Noir",
			Price:           decimal.NewFromInt(95),
			DiscountPercent: 20,
			StockQuantity:   12,
			SizeML:          100,
			Gender:          model.GenderWomen,
			TopNotes:        []string{"bergamot"},
		}, pt.adminToken)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var got model.Product
		decodeSuccess(t, w, &got)
		assert.Equal(t, "ambre-sauvage", got.Slug)
		assert.True(t, decimal.NewFromInt(76).Equal(got.FinalPrice), got.FinalPrice.String())
		assert.True(t, got.IsActive)
	})

	t.Run("customers cannot create", func(t *testing.T) {
		pt := setupProductControllerTest(t)

		w := doJSON(pt.router, http.MethodPost, "/admin/products", model.CreateProductRequest{
			Name:  "Ambre Sauvage",
			Price: decimal.NewFromInt(95),
		}, pt.userToken)

		assert.Equal(t, http.StatusForbidden, w.Code)
		var count int64
		pt.db.Model(&model.Product{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("zero price", func(t *testing.T) {
		pt := setupProductControllerTest(t)

		w := doJSON(pt.router, http.MethodPost, "/admin/products", model.CreateProductRequest{
			Name:  "Ambre Sauvage",
			Price: decimal.Zero,
		}, pt.adminToken)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("discount above 100", func(t *testing.T) {
		pt := setupProductControllerTest(t)

		w := doJSON(pt.router, http.MethodPost, "/admin/products", model.CreateProductRequest{
			Name:            "Ambre Sauvage",
			Price:           decimal.NewFromInt(95),
			DiscountPercent: 120,
		}, pt.adminToken)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).Fields, "discount_percent")
	})
}

func TestProductController_AdjustStock(t *testing.T) {
	pt := setupProductControllerTest(t)
	product := createProduct(t, pt.db, "Oud Nocturne", 120, 4)
	path := "/admin/products/" + uintPath(product.ID) + "/stock"

	t.Run("delta", func(t *testing.T) {
		w := doJSON(pt.router, http.MethodPatch, path, model.AdjustStockRequest{Delta: 6}, pt.adminToken)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var got model.Product
		decodeSuccess(t, w, &got)
		assert.Equal(t, 10, got.StockQuantity)
	})

	t.Run("cannot go negative", func(t *testing.T) {
		w := doJSON(pt.router, http.MethodPatch, path, model.AdjustStockRequest{Delta: -50}, pt.adminToken)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var stored model.Product
		require.NoError(t, pt.db.First(&stored, product.ID).Error)
		assert.Equal(t, 10, stored.StockQuantity)
	})

	t.Run("unknown product", func(t *testing.T) {
		w := doJSON(pt.router, http.MethodPatch, "/admin/products/9999/stock", model.AdjustStockRequest{Delta: 1}, pt.adminToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestProductController_DeleteProduct(t *testing.T) {
	pt := setupProductControllerTest(t)
	product := createProduct(t, pt.db, "Oud Nocturne", 120, 4)

	w := doJSON(pt.router, http.MethodDelete, "/admin/products/"+uintPath(product.ID), nil, pt.adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(pt.router, http.MethodGet, "/products/oud-nocturne", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
