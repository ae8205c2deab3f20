package repository

import (
	"math"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	WithTx(tx *gorm.DB) ReviewRepository
	Create(review *model.Review) error
	CreateBatch(reviews []model.Review) error
	FindByID(id uint) (*model.Review, error)
	FindWithFilter(filter model.ReviewFilter) ([]model.Review, int64, error)
	UpdateStatus(id uint, status model.ModerationStatus) error
	Delete(id uint) error
	ProductRatingSummary(productID uint) (model.RatingSummary, error)
	CountByStatus(status model.ModerationStatus) (int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) WithTx(tx *gorm.DB) ReviewRepository {
	return &reviewRepository{db: tx}
}

func (r *reviewRepository) Create(review *model.Review) error {
	logger.Debug("Creating review in database", map[string]interface{}{
		"product_id": review.ProductID,
		"blog_id":    review.BlogID,
		"rating":     review.Rating,
	})

	if err := r.db.Omit("Product", "Blog").Create(review).Error; err != nil {
		logger.Error("Failed to create review in database", err)
		return err
	}
	return nil
}

func (r *reviewRepository) CreateBatch(reviews []model.Review) error {
	if len(reviews) == 0 {
		return nil
	}
	if err := r.db.Omit("Product", "Blog").CreateInBatches(&reviews, 100).Error; err != nil {
		logger.Error("Failed to create review batch", err, map[string]interface{}{
			"count": len(reviews),
		})
		return err
	}
	return nil
}

func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindWithFilter(filter model.ReviewFilter) ([]model.Review, int64, error) {
	query := r.db.Model(&model.Review{})
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.BlogID != nil {
		query = query.Where("blog_id = ?", *filter.BlogID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count reviews", err)
		return nil, 0, err
	}

	var reviews []model.Review
	err := query.Order("created_at DESC").Order("id DESC").
		Scopes(paginate(filter.Page, filter.Limit)).
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to find reviews with filter", err)
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) UpdateStatus(id uint, status model.ModerationStatus) error {
	result := r.db.Model(&model.Review{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to update review status", result.Error, map[string]interface{}{
			"review_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reviewRepository) Delete(id uint) error {
	result := r.db.Delete(&model.Review{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ProductRatingSummary counts and averages approved reviews of a product
func (r *reviewRepository) ProductRatingSummary(productID uint) (model.RatingSummary, error) {
	var row struct {
		Count   int64
		Average float64
	}
	err := r.db.Model(&model.Review{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
		Where("product_id = ? AND status = ?", productID, model.ModerationApproved).
		Scan(&row).Error
	if err != nil {
		logger.Error("Failed to compute rating summary", err, map[string]interface{}{
			"product_id": productID,
		})
		return model.RatingSummary{}, err
	}
	return model.RatingSummary{
		Count:   row.Count,
		Average: math.Round(row.Average*10) / 10,
	}, nil
}

func (r *reviewRepository) CountByStatus(status model.ModerationStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.Review{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
