package repository

import (
	"testing"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRepository_SingleRow(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewSettingsRepository(testDB)

	settings, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, model.SettingsID, settings.ID)
	assert.True(t, settings.EnableReviews)

	settings.ShippingFee = decimal.NewFromFloat(7.5)
	settings.EnableReviews = false
	settings.ID = 42
	require.NoError(t, repo.Save(settings))

	reloaded, err := repo.Get()
	require.NoError(t, err)
	assert.True(t, reloaded.ShippingFee.Equal(decimal.NewFromFloat(7.5)))
	assert.False(t, reloaded.EnableReviews)

	var count int64
	require.NoError(t, testDB.Model(&model.Settings{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
