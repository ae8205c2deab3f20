package repository

import (
	"testing"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewRepository_ProductRatingSummary(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewReviewRepository(testDB)
	product := createProduct(t, testDB, "Santal", 110, 3)

	for _, r := range []struct {
		rating int
		status model.ModerationStatus
	}{
		{5, model.ModerationApproved},
		{4, model.ModerationApproved},
		{1, model.ModerationPending},
		{1, model.ModerationRejected},
	} {
		require.NoError(t, repo.Create(&model.Review{
			ProductID: &product.ID,
			Name:      "Reviewer",
			Email:     "reviewer@example.com",
			Rating:    r.rating,
			Comment:   "Lovely dry down",
			Status:    r.status,
		}))
	}

	summary, err := repo.ProductRatingSummary(product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Count)
	assert.InDelta(t, 4.5, summary.Average, 0.001)

	pending, err := repo.CountByStatus(model.ModerationPending)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)
}

func TestReviewRepository_RejectsOutOfRangeRating(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewReviewRepository(testDB)
	product := createProduct(t, testDB, "Santal", 110, 3)

	err := repo.Create(&model.Review{
		ProductID: &product.ID,
		Name:      "Reviewer",
		Email:     "reviewer@example.com",
		Rating:    6,
		Comment:   "Too strong",
		Status:    model.ModerationPending,
	})
	assert.Error(t, err)
}
