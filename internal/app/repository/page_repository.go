package repository

import (
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"gorm.io/gorm"
)

type PageRepository interface {
	Create(page *model.Page) error
	FindBySlug(slug string) (*model.Page, error)
	FindAll(publishedOnly bool) ([]model.Page, error)
	Update(page *model.Page) error
	DeleteBySlug(slug string) error
}

type pageRepository struct {
	db *gorm.DB
}

func NewPageRepository(db *gorm.DB) PageRepository {
	return &pageRepository{db: db}
}

func (r *pageRepository) Create(page *model.Page) error {
	if err := r.db.Create(page).Error; err != nil {
		logger.Error("Failed to create page", err, map[string]interface{}{
			"slug": page.Slug,
		})
		return err
	}
	return nil
}

func (r *pageRepository) FindBySlug(slug string) (*model.Page, error) {
	var page model.Page
	if err := r.db.Where("slug = ?", slug).First(&page).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) FindAll(publishedOnly bool) ([]model.Page, error) {
	query := r.db.Order("slug ASC")
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	var pages []model.Page
	err := query.Find(&pages).Error
	return pages, err
}

func (r *pageRepository) Update(page *model.Page) error {
	if err := r.db.Save(page).Error; err != nil {
		logger.Error("Failed to update page", err, map[string]interface{}{
			"slug": page.Slug,
		})
		return err
	}
	return nil
}

func (r *pageRepository) DeleteBySlug(slug string) error {
	result := r.db.Where("slug = ?", slug).Delete(&model.Page{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
