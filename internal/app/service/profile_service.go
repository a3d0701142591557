package service

import (
	"errors"

	"github.com/petstoryclub/petstory-backend/internal/app/model"
	"github.com/petstoryclub/petstory-backend/internal/app/repository"
	"github.com/petstoryclub/petstory-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidRole     = errors.New("unknown user role")
)

type ProfileInput struct {
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url"`
}

type ProfileService interface {
	GetOrCreateProfile(userID uint) (*model.Profile, error)
	UpdateProfile(userID uint, input ProfileInput) (*model.Profile, error)
	ListUsers() ([]model.Profile, error)
	UpdateUserRole(adminID, userID uint, role model.UserRole) error
}

type profileService struct {
	profileRepo repository.ProfileRepository
}

func NewProfileService(profileRepo repository.ProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

// GetOrCreateProfile provisions a local row the first time a token subject
// shows up, so profile data survives independently of the identity provider.
func (s *profileService) GetOrCreateProfile(userID uint) (*model.Profile, error) {
	profile := &model.Profile{ID: userID, Role: model.RoleUser}
	if err := s.profileRepo.FirstOrCreate(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) UpdateProfile(userID uint, input ProfileInput) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	profile.FullName = input.FullName
	profile.Phone = input.Phone
	profile.AvatarURL = input.AvatarURL

	if err := s.profileRepo.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) ListUsers() ([]model.Profile, error) {
	return s.profileRepo.FindAll()
}

// UpdateUserRole promotes or demotes a user. Admins cannot demote
// themselves, which keeps at least the acting admin in place.
func (s *profileService) UpdateUserRole(adminID, userID uint, role model.UserRole) error {
	if role != model.RoleUser && role != model.RoleAdmin {
		return ErrInvalidRole
	}

	if adminID == userID && role != model.RoleAdmin {
		logger.Warn("Admin attempted to demote themselves", map[string]interface{}{
			"user_id": adminID,
		})
		return ErrInvalidRole
	}

	if _, err := s.profileRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileNotFound
		}
		return err
	}

	return s.profileRepo.UpdateRole(userID, role)
}
