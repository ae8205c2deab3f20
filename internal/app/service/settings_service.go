package service

import (
	"errors"
	"fmt"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

var ErrInvalidSettings = errors.New("invalid settings")

var maxTaxRate = decimal.NewFromInt(100)

type SettingsService interface {
	Get() (*model.Settings, error)
	Update(req model.UpdateSettingsRequest) (*model.Settings, error)
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

func (s *settingsService) Get() (*model.Settings, error) {
	return s.settingsRepo.Get()
}

func validateSettings(req model.UpdateSettingsRequest) error {
	if req.TaxRate.IsNegative() || req.TaxRate.GreaterThan(maxTaxRate) {
		return fmt.Errorf("%w: tax_rate must be between 0 and 100", ErrInvalidSettings)
	}
	if req.ShippingFee.IsNegative() {
		return fmt.Errorf("%w: shipping_fee cannot be negative", ErrInvalidSettings)
	}
	if req.FreeShippingMin.IsNegative() {
		return fmt.Errorf("%w: free_shipping_min cannot be negative", ErrInvalidSettings)
	}
	return nil
}

// Update replaces every editable field on the singleton row
func (s *settingsService) Update(req model.UpdateSettingsRequest) (*model.Settings, error) {
	if err := validateSettings(req); err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, err
	}

	settings.SiteName = req.SiteName
	settings.Tagline = req.Tagline
	settings.ContactEmail = req.ContactEmail
	settings.ContactPhone = req.ContactPhone
	settings.WhatsAppNumber = req.WhatsAppNumber
	settings.Address = req.Address
	settings.Currency = req.Currency
	settings.TaxRate = req.TaxRate.Round(2)
	settings.ShippingFee = req.ShippingFee.Round(2)
	settings.FreeShippingMin = req.FreeShippingMin.Round(2)
	settings.LowStockThreshold = req.LowStockThreshold
	settings.InstagramURL = req.InstagramURL
	settings.FacebookURL = req.FacebookURL
	settings.TikTokURL = req.TikTokURL
	settings.MetaTitle = req.MetaTitle
	settings.MetaDescription = req.MetaDescription
	settings.MaintenanceMode = req.MaintenanceMode
	settings.EnableReviews = req.EnableReviews
	settings.EnableComments = req.EnableComments
	settings.EnableGuestCheckout = req.EnableGuestCheckout
	settings.EnableEmailNotify = req.EnableEmailNotify
	settings.EnableWhatsAppNotify = req.EnableWhatsAppNotify

	if err := s.settingsRepo.Save(settings); err != nil {
		return nil, err
	}
	logger.Info("Settings updated", map[string]interface{}{
		"site_name":   settings.SiteName,
		"maintenance": settings.MaintenanceMode,
	})
	return settings, nil
}
