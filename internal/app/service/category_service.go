package service

import (
	"errors"
	"strings"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrInvalidParent       = errors.New("parent category must be a top-level category")
	ErrCategoryHasChildren = errors.New("category still has sub-categories")
	ErrCategoryInUse       = errors.New("category still has products")
)

type CategoryService interface {
	GetTree() ([]model.Category, error)
	GetAll() ([]model.Category, error)
	GetBySlug(slug string) (*model.Category, error)
	Create(req model.CreateCategoryRequest) (*model.Category, error)
	Update(id uint, req model.UpdateCategoryRequest) (*model.Category, error)
	Delete(id uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// GetTree returns top-level categories with children and product counts
func (s *categoryService) GetTree() ([]model.Category, error) {
	categories, err := s.categoryRepo.FindTopLevel()
	if err != nil {
		return nil, err
	}
	for i := range categories {
		ids := []uint{categories[i].ID}
		for j := range categories[i].Children {
			child := &categories[i].Children[j]
			ids = append(ids, child.ID)
			if child.ProductCount, err = s.productRepo.CountByCategoryIDs([]uint{child.ID}); err != nil {
				return nil, err
			}
		}
		if categories[i].ProductCount, err = s.productRepo.CountByCategoryIDs(ids); err != nil {
			return nil, err
		}
	}
	return categories, nil
}

func (s *categoryService) GetAll() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *categoryService) GetBySlug(slug string) (*model.Category, error) {
	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	ids := []uint{category.ID}
	for _, child := range category.Children {
		ids = append(ids, child.ID)
	}
	if category.ProductCount, err = s.productRepo.CountByCategoryIDs(ids); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) findByID(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// validateParent enforces the single level of nesting
func (s *categoryService) validateParent(selfID uint, parentID uint) error {
	if selfID != 0 && parentID == selfID {
		return ErrInvalidParent
	}
	parent, err := s.findByID(parentID)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return ErrInvalidParent
		}
		return err
	}
	if parent.ParentID != nil {
		return ErrInvalidParent
	}
	return nil
}

func (s *categoryService) Create(req model.CreateCategoryRequest) (*model.Category, error) {
	if req.ParentID != nil {
		if err := s.validateParent(0, *req.ParentID); err != nil {
			return nil, err
		}
	}

	base := req.Slug
	if base == "" {
		base = req.Name
	}
	slug, err := uniqueSlug(base, 0, s.categoryRepo.SlugExists)
	if err != nil {
		return nil, err
	}

	category := &model.Category{
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: req.Description,
		Image:       req.Image,
		ParentID:    req.ParentID,
		SortOrder:   req.SortOrder,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"slug":        category.Slug,
	})
	return s.findByID(category.ID)
}

func (s *categoryService) Update(id uint, req model.UpdateCategoryRequest) (*model.Category, error) {
	category, err := s.findByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil && slugChanged(category.Slug, *req.Slug) {
		slug, err := uniqueSlug(*req.Slug, category.ID, s.categoryRepo.SlugExists)
		if err != nil {
			return nil, err
		}
		category.Slug = slug
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Image != nil {
		category.Image = *req.Image
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}
	if req.ClearParent {
		category.ParentID = nil
	} else if req.ParentID != nil {
		// a category with children cannot itself become a child
		if len(category.Children) > 0 {
			return nil, ErrInvalidParent
		}
		if err := s.validateParent(category.ID, *req.ParentID); err != nil {
			return nil, err
		}
		category.ParentID = req.ParentID
	}
	category.Parent = nil
	category.Children = nil

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return s.findByID(category.ID)
}

func (s *categoryService) Delete(id uint) error {
	category, err := s.findByID(id)
	if err != nil {
		return err
	}
	if len(category.Children) > 0 {
		return ErrCategoryHasChildren
	}
	count, err := s.productRepo.CountByCategoryIDs([]uint{id})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	logger.Info("Category deleted", map[string]interface{}{
		"category_id": id,
	})
	return nil
}
