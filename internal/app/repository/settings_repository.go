package repository

import (
	"github.com/petstoryclub/petstory-backend/internal/app/model"
	"github.com/petstoryclub/petstory-backend/pkg/logger"
	"gorm.io/gorm"
)

type SettingsRepository interface {
	Get() (*model.SiteSettings, error)
	Update(settings *model.SiteSettings) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// Get returns the singleton row, creating it empty if migration seeding was
// skipped.
func (r *settingsRepository) Get() (*model.SiteSettings, error) {
	settings := model.SiteSettings{ID: model.SiteSettingsID}
	if err := r.db.Where("id = ?", model.SiteSettingsID).FirstOrCreate(&settings).Error; err != nil {
		logger.Error("Failed to load site settings from database", err)
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Update(settings *model.SiteSettings) error {
	settings.ID = model.SiteSettingsID

	if err := r.db.Save(settings).Error; err != nil {
		logger.Error("Failed to update site settings in database", err)
		return err
	}
	return nil
}
