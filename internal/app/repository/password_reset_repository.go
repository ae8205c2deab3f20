package repository

import (
	"time"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"gorm.io/gorm"
)

type PasswordResetRepository interface {
	Create(reset *model.PasswordReset) error
	FindByTokenHash(hash string) (*model.PasswordReset, error)
	MarkUsed(id uint, at time.Time) error
	InvalidateForUser(userID uint, at time.Time) error
}

type passwordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(reset *model.PasswordReset) error {
	return r.db.Create(reset).Error
}

func (r *passwordResetRepository) FindByTokenHash(hash string) (*model.PasswordReset, error) {
	var reset model.PasswordReset
	if err := r.db.Where("token_hash = ?", hash).First(&reset).Error; err != nil {
		return nil, err
	}
	return &reset, nil
}

// MarkUsed only succeeds for an unused token so two concurrent resets cannot both win
func (r *passwordResetRepository) MarkUsed(id uint, at time.Time) error {
	result := r.db.Model(&model.PasswordReset{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// InvalidateForUser burns every outstanding token of a user
func (r *passwordResetRepository) InvalidateForUser(userID uint, at time.Time) error {
	return r.db.Model(&model.PasswordReset{}).
		Where("user_id = ? AND used_at IS NULL", userID).
		Update("used_at", at).Error
}
