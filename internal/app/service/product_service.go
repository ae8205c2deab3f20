package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidPrice      = errors.New("price must be greater than zero")
	ErrInvalidStock      = errors.New("stock quantity cannot be negative")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type ProductService interface {
	ListProducts(filter model.ProductFilter) ([]model.Product, int64, error)
	GetFeaturedProducts(limit int) ([]model.Product, error)
	GetProduct(slugOrID string, includeInactive bool) (*model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	CreateProduct(req model.CreateProductRequest) (*model.Product, error)
	UpdateProduct(id uint, req model.UpdateProductRequest) (*model.Product, error)
	DeleteProduct(id uint) error
	AdjustStock(id uint, req model.AdjustStockRequest) (*model.Product, error)
	GetLowStockProducts(threshold int) ([]model.Product, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productService) ListProducts(filter model.ProductFilter) ([]model.Product, int64, error) {
	if filter.CategorySlug != "" {
		category, err := s.categoryRepo.FindBySlug(filter.CategorySlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return []model.Product{}, 0, nil
			}
			return nil, 0, err
		}
		ids := []uint{category.ID}
		for _, child := range category.Children {
			ids = append(ids, child.ID)
		}
		filter.CategoryIDs = ids
	}

	products, total, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list products", err, map[string]interface{}{
			"category": filter.CategorySlug,
			"search":   filter.Search,
		})
		return nil, 0, err
	}
	return products, total, nil
}

func (s *productService) GetFeaturedProducts(limit int) ([]model.Product, error) {
	featured := true
	products, _, err := s.productRepo.FindWithFilter(model.ProductFilter{
		Featured: &featured,
		Sort:     model.ProductSortNewest,
		Page:     1,
		Limit:    limit,
	})
	return products, err
}

// GetProduct resolves a slug or a numeric id and counts the view
func (s *productService) GetProduct(slugOrID string, includeInactive bool) (*model.Product, error) {
	var (
		product *model.Product
		err     error
	)
	if id, convErr := strconv.ParseUint(slugOrID, 10, 32); convErr == nil {
		product, err = s.productRepo.FindByID(uint(id))
	} else {
		product, err = s.productRepo.FindBySlug(slugOrID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product": slugOrID,
		})
		return nil, err
	}
	if !product.IsActive && !includeInactive {
		return nil, ErrProductNotFound
	}

	if !includeInactive {
		if err := s.productRepo.IncrementViewCount(product.ID); err != nil {
			logger.Warn("Failed to increment product views", map[string]interface{}{
				"product_id": product.ID,
				"error":      err.Error(),
			})
		}
	}
	return product, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) ensureCategory(id *uint) error {
	if id == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindByID(*id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}

func (s *productService) CreateProduct(req model.CreateProductRequest) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"name": req.Name,
	})

	if !req.Price.GreaterThan(decimal.Zero) {
		return nil, ErrInvalidPrice
	}
	if err := s.ensureCategory(req.CategoryID); err != nil {
		return nil, err
	}

	base := req.Slug
	if base == "" {
		base = req.Name
	}
	slug, err := uniqueSlug(base, 0, s.productRepo.SlugExists)
	if err != nil {
		return nil, err
	}

	gender := req.Gender
	if gender == "" {
		gender = model.GenderUnisex
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	product := &model.Product{
		Name:            strings.TrimSpace(req.Name),
		Slug:            slug,
		Description:     req.Description,
		Brand:           strings.TrimSpace(req.Brand),
		Price:           req.Price.Round(2),
		DiscountPercent: req.DiscountPercent,
		StockQuantity:   req.StockQuantity,
		Images:          model.StringList(req.Images),
		CategoryID:      req.CategoryID,
		IsFeatured:      req.IsFeatured,
		IsActive:        active,
		SizeML:          req.SizeML,
		Gender:          gender,
		Concentration:   req.Concentration,
		TopNotes:        model.StringList(req.TopNotes),
		HeartNotes:      model.StringList(req.HeartNotes),
		BaseNotes:       model.StringList(req.BaseNotes),
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return s.GetProductByID(product.ID)
}

func (s *productService) UpdateProduct(id uint, req model.UpdateProductRequest) (*model.Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil && slugChanged(product.Slug, *req.Slug) {
		slug, err := uniqueSlug(*req.Slug, product.ID, s.productRepo.SlugExists)
		if err != nil {
			return nil, err
		}
		product.Slug = slug
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Brand != nil {
		product.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.Price != nil {
		if !req.Price.GreaterThan(decimal.Zero) {
			return nil, ErrInvalidPrice
		}
		product.Price = req.Price.Round(2)
	}
	if req.DiscountPercent != nil {
		product.DiscountPercent = *req.DiscountPercent
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.Images != nil {
		product.Images = model.StringList(req.Images)
	}
	if req.CategoryID != nil {
		if err := s.ensureCategory(req.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = req.CategoryID
		product.Category = nil
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.SizeML != nil {
		product.SizeML = *req.SizeML
	}
	if req.Gender != nil {
		product.Gender = *req.Gender
	}
	if req.Concentration != nil {
		product.Concentration = *req.Concentration
	}
	if req.TopNotes != nil {
		product.TopNotes = model.StringList(req.TopNotes)
	}
	if req.HeartNotes != nil {
		product.HeartNotes = model.StringList(req.HeartNotes)
	}
	if req.BaseNotes != nil {
		product.BaseNotes = model.StringList(req.BaseNotes)
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": product.ID,
	})
	return s.GetProductByID(product.ID)
}

func slugChanged(current, requested string) bool {
	return requested != "" && requested != current
}

func (s *productService) DeleteProduct(id uint) error {
	if err := s.productRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

// AdjustStock sets or shifts the stock level; the result can never be negative
func (s *productService) AdjustStock(id uint, req model.AdjustStockRequest) (*model.Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	next := product.StockQuantity + req.Delta
	if req.Set != nil {
		next = *req.Set
	}
	if next < 0 {
		return nil, ErrInvalidStock
	}

	previous := product.StockQuantity
	product.StockQuantity = next
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	logger.Info("Product stock adjusted", map[string]interface{}{
		"product_id": id,
		"previous":   previous,
		"current":    next,
	})
	return s.GetProductByID(id)
}

func (s *productService) GetLowStockProducts(threshold int) ([]model.Product, error) {
	return s.productRepo.FindLowStock(threshold)
}
