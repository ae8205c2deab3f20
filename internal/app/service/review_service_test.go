package service

import (
	"testing"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReviewServiceTest(t *testing.T) (ReviewService, repository.ProductRepository, *gorm.DB) {
	testDB := setupTestDB(t)

	productRepo := repository.NewProductRepository(testDB)
	reviewService := NewReviewService(
		repository.NewReviewRepository(testDB),
		productRepo,
		repository.NewBlogRepository(testDB),
		repository.NewSettingsRepository(testDB),
	)
	return reviewService, productRepo, testDB
}

func reviewRequest(rating int) model.CreateReviewRequest {
	return model.CreateReviewRequest{
		Name:    "Lea",
		Email:   "Lea@Example.com",
		Rating:  rating,
		Title:   "Lovely",
		Comment: "Lasts all day on skin.",
	}
}

func TestReviewService_SubmitProductReview(t *testing.T) {
	reviewService, _, testDB := setupReviewServiceTest(t)
	product := createProduct(t, testDB, "Vanille Noire", 75, 5)

	review, err := reviewService.SubmitProductReview(product.ID, nil, reviewRequest(5))
	require.NoError(t, err)
	assert.Equal(t, model.ModerationPending, review.Status)
	assert.Equal(t, "lea@example.com", review.Email)

	_, err = reviewService.SubmitProductReview(product.ID, nil, reviewRequest(6))
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = reviewService.SubmitProductReview(product.ID, nil, reviewRequest(0))
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = reviewService.SubmitProductReview(9999, nil, reviewRequest(4))
	assert.ErrorIs(t, err, ErrProductNotFound)

	updateSettings(t, testDB, func(s *model.Settings) { s.EnableReviews = false })
	_, err = reviewService.SubmitProductReview(product.ID, nil, reviewRequest(4))
	assert.ErrorIs(t, err, ErrReviewsDisabled)
}

func TestReviewService_ModerationUpdatesRating(t *testing.T) {
	reviewService, productRepo, testDB := setupReviewServiceTest(t)
	product := createProduct(t, testDB, "Ciste Labdanum", 75, 5)

	five, err := reviewService.SubmitProductReview(product.ID, nil, reviewRequest(5))
	require.NoError(t, err)
	three, err := reviewService.SubmitProductReview(product.ID, nil, reviewRequest(3))
	require.NoError(t, err)

	listed, total, err := reviewService.ListProductReviews(product.ID, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total, "pending reviews are hidden")
	assert.Empty(t, listed.Reviews)

	_, err = reviewService.Moderate(five.ID, model.ModerationApproved)
	require.NoError(t, err)
	_, err = reviewService.Moderate(three.ID, model.ModerationApproved)
	require.NoError(t, err)

	stored, err := productRepo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.ReviewCount)
	assert.InDelta(t, 4.0, stored.AverageRating, 0.001)

	listed, total, err = reviewService.ListProductReviews(product.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.EqualValues(t, 2, listed.Summary.Count)
	for _, review := range listed.Reviews {
		assert.Empty(t, review.Email)
	}

	_, err = reviewService.Moderate(five.ID, model.ModerationRejected)
	require.NoError(t, err)
	stored, err = productRepo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ReviewCount)
	assert.InDelta(t, 3.0, stored.AverageRating, 0.001)

	require.NoError(t, reviewService.Delete(three.ID))
	stored, err = productRepo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.ReviewCount)

	_, err = reviewService.Moderate(three.ID, model.ModerationApproved)
	assert.ErrorIs(t, err, ErrReviewNotFound)
	_, err = reviewService.Moderate(five.ID, "spam")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestReviewService_BlogReviews(t *testing.T) {
	reviewService, _, testDB := setupReviewServiceTest(t)
	blogService := NewBlogService(repository.NewBlogRepository(testDB))

	draft, err := blogService.Create(model.CreateBlogRequest{Title: "Draft Notes", Content: "wip"})
	require.NoError(t, err)
	_, err = reviewService.SubmitBlogReview(draft.Slug, nil, reviewRequest(4))
	assert.ErrorIs(t, err, ErrBlogNotFound)

	post, err := blogService.Create(model.CreateBlogRequest{
		Title:   "Layering Fragrances",
		Content: "Start light, finish deep.",
		Status:  model.BlogStatusPublished,
	})
	require.NoError(t, err)

	review, err := reviewService.SubmitBlogReview(post.Slug, nil, reviewRequest(4))
	require.NoError(t, err)
	require.NotNil(t, review.BlogID)
	assert.Nil(t, review.ProductID)

	_, err = reviewService.Moderate(review.ID, model.ModerationApproved)
	require.NoError(t, err)

	reviews, total, err := reviewService.ListBlogReviews(post.Slug, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, reviews, 1)
	assert.Empty(t, reviews[0].Email)
}
