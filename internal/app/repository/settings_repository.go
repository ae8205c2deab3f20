package repository

import (
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"gorm.io/gorm"
)

type SettingsRepository interface {
	WithTx(tx *gorm.DB) SettingsRepository
	Get() (*model.Settings, error)
	Save(settings *model.Settings) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) WithTx(tx *gorm.DB) SettingsRepository {
	return &settingsRepository{db: tx}
}

// Get loads the settings row, creating it with defaults on first use
func (r *settingsRepository) Get() (*model.Settings, error) {
	settings := model.DefaultSettings()
	err := r.db.Where(model.Settings{ID: model.SettingsID}).FirstOrCreate(&settings).Error
	if err != nil {
		logger.Error("Failed to load settings", err)
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Save(settings *model.Settings) error {
	settings.ID = model.SettingsID
	if err := r.db.Save(settings).Error; err != nil {
		logger.Error("Failed to save settings", err)
		return err
	}
	return nil
}
