package service

import (
	"context"

	"github.com/petstoryclub/petstory-backend/internal/app/model"
	"github.com/petstoryclub/petstory-backend/internal/app/repository"
	"github.com/petstoryclub/petstory-backend/internal/storage"
	"github.com/petstoryclub/petstory-backend/pkg/logger"
)

// SiteAssetKinds enumerates the uploadable branding slots on the settings
// page.
var SiteAssetKinds = map[string]bool{
	"hero_bg":    true,
	"hero_image": true,
	"logo":       true,
}

type SettingsInput struct {
	HeroBgURL         string `json:"hero_bg_url"`
	HeroImageURL      string `json:"hero_image_url"`
	LogoURL           string `json:"logo_url"`
	BankName          string `json:"bank_name"`
	BankAccountNumber string `json:"bank_account_number"`
	BankAccountName   string `json:"bank_account_name"`
	PromptPayID       string `json:"promptpay_id"`
}

type SettingsService interface {
	GetSettings() (*model.SiteSettings, error)
	UpdateSettings(input SettingsInput) (*model.SiteSettings, error)
	UploadSiteAsset(ctx context.Context, kind string, upload ImageUpload) (*model.SiteSettings, error)
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
	store        *storage.S3Storage
}

func NewSettingsService(settingsRepo repository.SettingsRepository, store *storage.S3Storage) SettingsService {
	return &settingsService{
		settingsRepo: settingsRepo,
		store:        store,
	}
}

func (s *settingsService) GetSettings() (*model.SiteSettings, error) {
	return s.settingsRepo.Get()
}

func (s *settingsService) UpdateSettings(input SettingsInput) (*model.SiteSettings, error) {
	logger.Info("Updating site settings", nil)

	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, err
	}

	settings.HeroBgURL = input.HeroBgURL
	settings.HeroImageURL = input.HeroImageURL
	settings.LogoURL = input.LogoURL
	settings.BankName = input.BankName
	settings.BankAccountNumber = input.BankAccountNumber
	settings.BankAccountName = input.BankAccountName
	settings.PromptPayID = input.PromptPayID

	if err := s.settingsRepo.Update(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// UploadSiteAsset stores a branding image and points the matching settings
// field at it.
func (s *settingsService) UploadSiteAsset(ctx context.Context, kind string, upload ImageUpload) (*model.SiteSettings, error) {
	if !SiteAssetKinds[kind] {
		return nil, ErrInvalidUpload
	}

	if err := s.store.ValidateContentType(upload.ContentType, storage.AllowedImageTypes); err != nil {
		return nil, ErrInvalidUpload
	}
	if err := s.store.ValidateFileSize(upload.Size, storage.MaxUploadSize); err != nil {
		return nil, ErrInvalidUpload
	}

	key := storage.SiteAssetKey(kind, upload.Filename)
	url, err := s.store.Upload(ctx, key, upload.ContentType, upload.Body)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, err
	}

	switch kind {
	case "hero_bg":
		settings.HeroBgURL = url
	case "hero_image":
		settings.HeroImageURL = url
	case "logo":
		settings.LogoURL = url
	}

	if err := s.settingsRepo.Update(settings); err != nil {
		return nil, err
	}

	logger.Info("Site asset updated", map[string]interface{}{
		"kind": kind,
	})
	return settings, nil
}
