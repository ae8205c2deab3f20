package repository

import (
	"strings"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	FindByIDs(ids []uint) ([]model.Product, error)
	FindWithFilter(filter model.ProductFilter) ([]model.Product, int64, error)
	FindLowStock(threshold int) ([]model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
	DecrementStock(id uint, quantity int) (bool, error)
	IncrementStock(id uint, quantity int) error
	IncrementViewCount(id uint) error
	UpdateRatingSummary(id uint, summary model.RatingSummary) error
	CountByCategoryIDs(categoryIDs []uint) (int64, error)
	SlugExists(slug string, excludeID uint) (bool, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name": product.Name,
		"slug": product.Slug,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"slug": product.Slug,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("Category").First(&product, id).Error; err != nil {
		logger.Debug("Product not found by ID", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("Category").Where("slug = ?", slug).First(&product).Error; err != nil {
		logger.Debug("Product not found by slug", map[string]interface{}{
			"slug":  slug,
			"error": err.Error(),
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByIDs(ids []uint) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		logger.Error("Failed to find products by IDs", err, map[string]interface{}{
			"count": len(ids),
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindWithFilter(filter model.ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category_ids": filter.CategoryIDs,
		"search":       filter.Search,
		"sort":         filter.Sort,
		"page":         filter.Page,
		"limit":        filter.Limit,
	})

	query := r.db.Model(&model.Product{})

	if !filter.IncludeInactive {
		query = query.Where("products.is_active = ?", true)
	}
	if len(filter.CategoryIDs) > 0 {
		query = query.Where("products.category_id IN ?", filter.CategoryIDs)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(products.name) LIKE ? OR LOWER(products.brand) LIKE ? OR LOWER(products.description) LIKE ?", like, like, like)
	}
	if filter.Brand != "" {
		query = query.Where("LOWER(products.brand) = ?", strings.ToLower(filter.Brand))
	}
	if filter.Gender != "" {
		query = query.Where("products.gender = ?", filter.Gender)
	}
	if filter.Featured != nil {
		query = query.Where("products.is_featured = ?", *filter.Featured)
	}
	if filter.InStock {
		query = query.Where("products.stock_quantity > 0")
	}
	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count products", err)
		return nil, 0, err
	}

	switch filter.Sort {
	case model.ProductSortPriceAsc:
		query = query.Order("products.price ASC")
	case model.ProductSortPriceDesc:
		query = query.Order("products.price DESC")
	case model.ProductSortPopular:
		query = query.Order("products.sold_count DESC").Order("products.view_count DESC")
	case model.ProductSortRating:
		query = query.Order("products.average_rating DESC").Order("products.review_count DESC")
	}
	query = query.Order("products.created_at DESC").Order("products.id DESC")

	query = query.Scopes(paginate(filter.Page, filter.Limit))

	var products []model.Product
	if err := query.Preload("Category").Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err)
		return nil, 0, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) FindLowStock(threshold int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("is_active = ? AND stock_quantity <= ?", true, threshold).
		Order("stock_quantity ASC").
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to find low stock products", err, map[string]interface{}{
			"threshold": threshold,
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	if err := r.db.Omit("Category").Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	result := r.db.Delete(&model.Product{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete product from database", result.Error, map[string]interface{}{
			"product_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementStock removes quantity units only if that many are available.
// It reports false when the row was not updated.
func (r *productRepository) DecrementStock(id uint, quantity int) (bool, error) {
	result := r.db.Model(&model.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
			"sold_count":     gorm.Expr("sold_count + ?", quantity),
		})
	if result.Error != nil {
		logger.Error("Failed to decrement product stock", result.Error, map[string]interface{}{
			"product_id": id,
			"quantity":   quantity,
		})
		return false, result.Error
	}

	logger.Debug("Product stock decremented", map[string]interface{}{
		"product_id": id,
		"quantity":   quantity,
		"applied":    result.RowsAffected == 1,
	})
	return result.RowsAffected == 1, nil
}

func (r *productRepository) IncrementStock(id uint, quantity int) error {
	err := r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity + ?", quantity),
			"sold_count":     gorm.Expr("CASE WHEN sold_count >= ? THEN sold_count - ? ELSE 0 END", quantity, quantity),
		}).Error
	if err != nil {
		logger.Error("Failed to increment product stock", err, map[string]interface{}{
			"product_id": id,
			"quantity":   quantity,
		})
	}
	return err
}

func (r *productRepository) IncrementViewCount(id uint) error {
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *productRepository) UpdateRatingSummary(id uint, summary model.RatingSummary) error {
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"review_count":   summary.Count,
			"average_rating": summary.Average,
		}).Error
}

func (r *productRepository) CountByCategoryIDs(categoryIDs []uint) (int64, error) {
	var count int64
	if len(categoryIDs) == 0 {
		return 0, nil
	}
	err := r.db.Model(&model.Product{}).Where("category_id IN ?", categoryIDs).Count(&count).Error
	return count, err
}

func (r *productRepository) SlugExists(slug string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Unscoped().Model(&model.Product{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&count).Error
	return count > 0, err
}
