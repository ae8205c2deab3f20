package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/service"
	apperrors "github.com/noirparfum/noir-backend/internal/errors"
	"github.com/noirparfum/noir-backend/internal/middleware"
	"github.com/noirparfum/noir-backend/pkg/response"
	"github.com/shopspring/decimal"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// productFilter reads the catalog query string; it answers 400 itself on bad prices
func productFilter(c *gin.Context) (model.ProductFilter, bool) {
	p := pagination(c)
	filter := model.ProductFilter{
		CategorySlug: c.Query("category"),
		Search:       c.Query("search"),
		Brand:        c.Query("brand"),
		Gender:       model.Gender(c.Query("gender")),
		InStock:      c.Query("in_stock") == "true",
		Sort:         model.ProductSort(c.Query("sort")),
		Page:         p.Page,
		Limit:        p.Limit,
	}
	if v := c.Query("featured"); v != "" {
		featured := v == "true"
		filter.Featured = &featured
	}
	for param, dst := range map[string]**decimal.Decimal{
		"min_price": &filter.MinPrice,
		"max_price": &filter.MaxPrice,
	} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			apperrors.RespondWithValidationError(c, map[string]string{param: "must be a positive number"})
			return filter, false
		}
		*dst = &d
	}
	return filter, true
}

// ListProducts returns active products matching the filters
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	filter, ok := productFilter(c)
	if !ok {
		return
	}

	products, total, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		respondError(c, err, "list products")
		return
	}

	response.Paginated(c, products, pagination(c), total)
}

// GetFeaturedProducts returns the featured selection
// GET /api/v1/products/featured
func (ctrl *ProductController) GetFeaturedProducts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "8"))
	if err != nil || limit < 1 {
		limit = 8
	}

	products, err := ctrl.productService.GetFeaturedProducts(limit)
	if err != nil {
		respondError(c, err, "list products")
		return
	}

	response.OK(c, products)
}

// GetProduct returns a product by slug or id
// GET /api/v1/products/:slug
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	product, err := ctrl.productService.GetProduct(c.Param("slug"), false)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	response.OK(c, product)
}

// AdminListProducts includes inactive products
// GET /api/v1/admin/products
func (ctrl *ProductController) AdminListProducts(c *gin.Context) {
	filter, ok := productFilter(c)
	if !ok {
		return
	}
	filter.IncludeInactive = true

	products, total, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		respondError(c, err, "list products")
		return
	}

	response.Paginated(c, products, pagination(c), total)
}

// AdminGetProduct returns any product by id
// GET /api/v1/admin/products/:id
func (ctrl *ProductController) AdminGetProduct(c *gin.Context) {
	product, err := ctrl.productService.GetProduct(c.Param("id"), true)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	response.OK(c, product)
}

// CreateProduct creates a new product
// POST /api/v1/admin/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req model.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	product, err := ctrl.productService.CreateProduct(req)
	if err != nil {
		respondError(c, err, "create product")
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})

	response.Created(c, product)
}

// UpdateProduct applies a partial update
// PUT /api/v1/admin/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	product, err := ctrl.productService.UpdateProduct(id, req)
	if err != nil {
		respondError(c, err, "update product")
		return
	}

	response.OK(c, product)
}

// AdjustStock adds a delta to, or replaces, the stock quantity
// PATCH /api/v1/admin/products/:id/stock
func (ctrl *ProductController) AdjustStock(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	product, err := ctrl.productService.AdjustStock(id, req)
	if err != nil {
		respondError(c, err, "update product")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Stock adjusted", map[string]interface{}{
		"product_id": id,
		"stock":      product.StockQuantity,
	})

	response.OK(c, product)
}

// DeleteProduct soft-deletes a product
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(id); err != nil {
		respondError(c, err, "delete product")
		return
	}

	response.Message(c, "Product deleted")
}
