package repository

import (
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"gorm.io/gorm"
)

type ContactRepository interface {
	Create(message *model.ContactMessage) error
	FindByID(id uint) (*model.ContactMessage, error)
	FindWithFilter(status model.ContactStatus, page, limit int) ([]model.ContactMessage, int64, error)
	Update(message *model.ContactMessage) error
	Delete(id uint) error
	CountByStatus(status model.ContactStatus) (int64, error)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(message *model.ContactMessage) error {
	if err := r.db.Create(message).Error; err != nil {
		logger.Error("Failed to create contact message in database", err, map[string]interface{}{
			"email": message.Email,
		})
		return err
	}
	return nil
}

func (r *contactRepository) FindByID(id uint) (*model.ContactMessage, error) {
	var message model.ContactMessage
	if err := r.db.First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *contactRepository) FindWithFilter(status model.ContactStatus, page, limit int) ([]model.ContactMessage, int64, error) {
	query := r.db.Model(&model.ContactMessage{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []model.ContactMessage
	err := query.Order("created_at DESC").Order("id DESC").
		Scopes(paginate(page, limit)).
		Find(&messages).Error
	if err != nil {
		logger.Error("Failed to list contact messages", err)
		return nil, 0, err
	}
	return messages, total, nil
}

func (r *contactRepository) Update(message *model.ContactMessage) error {
	if err := r.db.Save(message).Error; err != nil {
		logger.Error("Failed to update contact message", err, map[string]interface{}{
			"message_id": message.ID,
		})
		return err
	}
	return nil
}

func (r *contactRepository) Delete(id uint) error {
	result := r.db.Delete(&model.ContactMessage{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *contactRepository) CountByStatus(status model.ContactStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.ContactMessage{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
