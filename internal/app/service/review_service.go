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
	ErrReviewNotFound  = errors.New("review not found")
	ErrReviewsDisabled = errors.New("reviews are disabled")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrInvalidStatus   = errors.New("invalid moderation status")
)

// ProductReviews is the storefront view of a product's reviews
type ProductReviews struct {
	Reviews []model.Review      `json:"reviews"`
	Summary model.RatingSummary `json:"summary"`
}

type ReviewService interface {
	SubmitProductReview(productID uint, userID *uint, req model.CreateReviewRequest) (*model.Review, error)
	SubmitBlogReview(blogSlug string, userID *uint, req model.CreateReviewRequest) (*model.Review, error)
	ListProductReviews(productID uint, page, limit int) (*ProductReviews, int64, error)
	ListBlogReviews(blogSlug string, page, limit int) ([]model.Review, int64, error)
	List(filter model.ReviewFilter) ([]model.Review, int64, error)
	Moderate(id uint, status model.ModerationStatus) (*model.Review, error)
	Delete(id uint) error
}

type reviewService struct {
	reviewRepo   repository.ReviewRepository
	productRepo  repository.ProductRepository
	blogRepo     repository.BlogRepository
	settingsRepo repository.SettingsRepository
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	blogRepo repository.BlogRepository,
	settingsRepo repository.SettingsRepository,
) ReviewService {
	return &reviewService{
		reviewRepo:   reviewRepo,
		productRepo:  productRepo,
		blogRepo:     blogRepo,
		settingsRepo: settingsRepo,
	}
}

func (s *reviewService) reviewsEnabled() error {
	settings, err := s.settingsRepo.Get()
	if err != nil {
		return err
	}
	if !settings.EnableReviews {
		return ErrReviewsDisabled
	}
	return nil
}

func newReview(userID *uint, req model.CreateReviewRequest) (*model.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}
	return &model.Review{
		UserID:  userID,
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Rating:  req.Rating,
		Title:   strings.TrimSpace(req.Title),
		Comment: strings.TrimSpace(req.Comment),
		Status:  model.ModerationPending,
	}, nil
}

// SubmitProductReview stores the review as pending until moderated
func (s *reviewService) SubmitProductReview(productID uint, userID *uint, req model.CreateReviewRequest) (*model.Review, error) {
	review, err := newReview(userID, req)
	if err != nil {
		return nil, err
	}
	if err := s.reviewsEnabled(); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}

	review.ProductID = &product.ID
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	logger.Info("Product review submitted", map[string]interface{}{
		"review_id":  review.ID,
		"product_id": productID,
		"rating":     review.Rating,
	})
	return review, nil
}

func (s *reviewService) publishedBlog(slug string) (*model.Blog, error) {
	blog, err := s.blogRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	if blog.Status != model.BlogStatusPublished {
		return nil, ErrBlogNotFound
	}
	return blog, nil
}

func (s *reviewService) SubmitBlogReview(blogSlug string, userID *uint, req model.CreateReviewRequest) (*model.Review, error) {
	review, err := newReview(userID, req)
	if err != nil {
		return nil, err
	}
	if err := s.reviewsEnabled(); err != nil {
		return nil, err
	}
	blog, err := s.publishedBlog(blogSlug)
	if err != nil {
		return nil, err
	}

	review.BlogID = &blog.ID
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	logger.Info("Blog review submitted", map[string]interface{}{
		"review_id": review.ID,
		"blog_id":   blog.ID,
	})
	return review, nil
}

func hideEmails(reviews []model.Review) {
	for i := range reviews {
		reviews[i].Email = ""
	}
}

func (s *reviewService) ListProductReviews(productID uint, page, limit int) (*ProductReviews, int64, error) {
	reviews, total, err := s.reviewRepo.FindWithFilter(model.ReviewFilter{
		ProductID: &productID,
		Status:    model.ModerationApproved,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, 0, err
	}
	summary, err := s.reviewRepo.ProductRatingSummary(productID)
	if err != nil {
		return nil, 0, err
	}
	hideEmails(reviews)
	return &ProductReviews{Reviews: reviews, Summary: summary}, total, nil
}

func (s *reviewService) ListBlogReviews(blogSlug string, page, limit int) ([]model.Review, int64, error) {
	blog, err := s.publishedBlog(blogSlug)
	if err != nil {
		return nil, 0, err
	}
	reviews, total, err := s.reviewRepo.FindWithFilter(model.ReviewFilter{
		BlogID: &blog.ID,
		Status: model.ModerationApproved,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, 0, err
	}
	hideEmails(reviews)
	return reviews, total, nil
}

func (s *reviewService) List(filter model.ReviewFilter) ([]model.Review, int64, error) {
	return s.reviewRepo.FindWithFilter(filter)
}

func (s *reviewService) refreshRating(productID *uint) {
	if productID == nil {
		return
	}
	summary, err := s.reviewRepo.ProductRatingSummary(*productID)
	if err == nil {
		err = s.productRepo.UpdateRatingSummary(*productID, summary)
	}
	if err != nil {
		logger.Error("Failed to refresh product rating", err, map[string]interface{}{
			"product_id": *productID,
		})
	}
}

// Moderate changes visibility and refreshes the product's cached rating
func (s *reviewService) Moderate(id uint, status model.ModerationStatus) (*model.Review, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if err := s.reviewRepo.UpdateStatus(id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	review, err := s.reviewRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.refreshRating(review.ProductID)

	logger.Info("Review moderated", map[string]interface{}{
		"review_id": id,
		"status":    status,
	})
	return review, nil
}

func (s *reviewService) Delete(id uint) error {
	review, err := s.reviewRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if err := s.reviewRepo.Delete(id); err != nil {
		return err
	}
	s.refreshRating(review.ProductID)
	return nil
}
