package service

import (
	"context"

	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/pkg/logger"
)

// StockReportService emails the admin the products at or below the low-stock threshold
type StockReportService interface {
	Run(ctx context.Context) (int, error)
}

type stockReportService struct {
	productRepo  repository.ProductRepository
	settingsRepo repository.SettingsRepository
	notifier     NotificationService
}

func NewStockReportService(productRepo repository.ProductRepository, settingsRepo repository.SettingsRepository, notifier NotificationService) StockReportService {
	return &stockReportService{
		productRepo:  productRepo,
		settingsRepo: settingsRepo,
		notifier:     notifier,
	}
}

// Run returns how many products were reported; nothing is sent when none are low
func (s *stockReportService) Run(ctx context.Context) (int, error) {
	settings, err := s.settingsRepo.Get()
	if err != nil {
		return 0, err
	}
	products, err := s.productRepo.FindLowStock(settings.LowStockThreshold)
	if err != nil {
		return 0, err
	}
	if len(products) == 0 {
		logger.Debug("No low stock products to report")
		return 0, nil
	}
	if err := s.notifier.SendLowStockReport(ctx, settings.LowStockThreshold, products); err != nil {
		return 0, err
	}
	return len(products), nil
}
