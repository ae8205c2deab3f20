package repository

import (
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"gorm.io/gorm"
)

type NotificationLogFilter struct {
	OrderID *uint
	Channel model.NotificationChannel
	Kind    model.NotificationKind
	Page    int
	Limit   int
}

type NotificationLogRepository interface {
	Create(entry *model.NotificationLog) error
	FindWithFilter(filter NotificationLogFilter) ([]model.NotificationLog, int64, error)
}

type notificationLogRepository struct {
	db *gorm.DB
}

func NewNotificationLogRepository(db *gorm.DB) NotificationLogRepository {
	return &notificationLogRepository{db: db}
}

func (r *notificationLogRepository) Create(entry *model.NotificationLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		logger.Error("Failed to write notification log", err, map[string]interface{}{
			"channel": entry.Channel,
			"kind":    entry.Kind,
		})
		return err
	}
	return nil
}

func (r *notificationLogRepository) FindWithFilter(filter NotificationLogFilter) ([]model.NotificationLog, int64, error) {
	query := r.db.Model(&model.NotificationLog{})
	if filter.OrderID != nil {
		query = query.Where("order_id = ?", *filter.OrderID)
	}
	if filter.Channel != "" {
		query = query.Where("channel = ?", filter.Channel)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.NotificationLog
	err := query.Order("created_at DESC").Order("id DESC").
		Scopes(paginate(filter.Page, filter.Limit)).
		Find(&entries).Error
	return entries, total, err
}
