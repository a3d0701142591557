package repository

import (
	"github.com/petstoryclub/petstory-backend/internal/app/model"
	"github.com/petstoryclub/petstory-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	FirstOrCreate(profile *model.Profile) error
	FindByID(id uint) (*model.Profile, error)
	FindAll() ([]model.Profile, error)
	Update(profile *model.Profile) error
	UpdateRole(id uint, role model.UserRole) error
	Count() (int64, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// FirstOrCreate provisions the local profile row for an identity-provider
// subject on first contact. Existing rows are loaded, not overwritten.
func (r *profileRepository) FirstOrCreate(profile *model.Profile) error {
	if err := r.db.Where("id = ?", profile.ID).FirstOrCreate(profile).Error; err != nil {
		logger.Error("Failed to provision profile in database", err, map[string]interface{}{
			"user_id": profile.ID,
		})
		return err
	}
	return nil
}

func (r *profileRepository) FindByID(id uint) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.First(&profile, id).Error; err != nil {
		logger.Error("Failed to find profile by ID in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindAll() ([]model.Profile, error) {
	var profiles []model.Profile
	if err := r.db.Order("created_at DESC").Find(&profiles).Error; err != nil {
		logger.Error("Failed to find all profiles in database", err)
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepository) Update(profile *model.Profile) error {
	if err := r.db.Save(profile).Error; err != nil {
		logger.Error("Failed to update profile in database", err, map[string]interface{}{
			"user_id": profile.ID,
		})
		return err
	}
	return nil
}

func (r *profileRepository) UpdateRole(id uint, role model.UserRole) error {
	logger.Debug("Updating profile role in database", map[string]interface{}{
		"user_id": id,
		"role":    role,
	})

	if err := r.db.Model(&model.Profile{}).
		Where("id = ?", id).
		Update("role", role).Error; err != nil {
		logger.Error("Failed to update profile role in database", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}
	return nil
}

func (r *profileRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Profile{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count profiles", err)
		return 0, err
	}
	return count, nil
}
