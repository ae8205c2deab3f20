package service

import (
	"testing"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settingsRequest() model.UpdateSettingsRequest {
	return model.UpdateSettingsRequest{
		SiteName:          "Noir Parfum Paris",
		Currency:          "EUR",
		TaxRate:           decimal.NewFromInt(20),
		ShippingFee:       decimal.RequireFromString("6.90"),
		FreeShippingMin:   decimal.NewFromInt(150),
		LowStockThreshold: 3,
		EnableReviews:     true,
	}
}

func TestSettingsService_GetDefaults(t *testing.T) {
	testDB := setupTestDB(t)
	settingsService := NewSettingsService(repository.NewSettingsRepository(testDB))

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, "EUR", settings.Currency)
	assert.True(t, settings.EnableGuestCheckout)
}

func TestSettingsService_Update(t *testing.T) {
	testDB := setupTestDB(t)
	settingsService := NewSettingsService(repository.NewSettingsRepository(testDB))

	updated, err := settingsService.Update(settingsRequest())
	require.NoError(t, err)
	assert.Equal(t, "Noir Parfum Paris", updated.SiteName)
	assert.False(t, updated.EnableGuestCheckout)
	assert.False(t, updated.EnableComments)

	reloaded, err := settingsService.Get()
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("6.90").Equal(reloaded.ShippingFee))
	assert.False(t, reloaded.EnableGuestCheckout)
	assert.Equal(t, 3, reloaded.LowStockThreshold)
}

func TestSettingsService_UpdateValidation(t *testing.T) {
	testDB := setupTestDB(t)
	settingsService := NewSettingsService(repository.NewSettingsRepository(testDB))

	tests := []struct {
		name   string
		mutate func(*model.UpdateSettingsRequest)
	}{
		{name: "Tax above 100", mutate: func(r *model.UpdateSettingsRequest) { r.TaxRate = decimal.NewFromInt(101) }},
		{name: "Negative tax", mutate: func(r *model.UpdateSettingsRequest) { r.TaxRate = decimal.NewFromInt(-1) }},
		{name: "Negative shipping", mutate: func(r *model.UpdateSettingsRequest) { r.ShippingFee = decimal.NewFromInt(-2) }},
		{name: "Negative free shipping minimum", mutate: func(r *model.UpdateSettingsRequest) { r.FreeShippingMin = decimal.NewFromInt(-10) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := settingsRequest()
			tt.mutate(&req)
			_, err := settingsService.Update(req)
			assert.ErrorIs(t, err, ErrInvalidSettings)
		})
	}

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, "Noir Parfum", settings.SiteName)
}
