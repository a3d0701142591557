package service

import (
	"context"
	"errors"

	"github.com/petstoryclub/petstory-backend/internal/app/model"
	"github.com/petstoryclub/petstory-backend/internal/app/repository"
	"github.com/petstoryclub/petstory-backend/internal/storage"
	"github.com/petstoryclub/petstory-backend/pkg/logger"
	"github.com/petstoryclub/petstory-backend/pkg/util"
	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryInput struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

type CategoryService interface {
	ListCategories() ([]model.Category, error)
	GetCategoryBySlug(slug string) (*model.Category, error)
	CreateCategory(input CategoryInput) (*model.Category, error)
	UpdateCategory(id uint, input CategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
	SetCategoryImage(ctx context.Context, id uint, upload ImageUpload) (*model.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	store        *storage.S3Storage
}

func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	store *storage.S3Storage,
) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		store:        store,
	}
}

func (s *categoryService) ListCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *categoryService) GetCategoryBySlug(slug string) (*model.Category, error) {
	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) getCategoryByID(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) CreateCategory(input CategoryInput) (*model.Category, error) {
	logger.Info("Creating category", map[string]interface{}{
		"name": input.Name,
	})

	slug := input.Slug
	if slug == "" {
		slug = util.Slugify(input.Name)
	}

	category := model.Category{
		Name:        input.Name,
		Slug:        slug,
		Description: input.Description,
		SortOrder:   input.SortOrder,
	}

	if err := s.categoryRepo.Create(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *categoryService) UpdateCategory(id uint, input CategoryInput) (*model.Category, error) {
	category, err := s.getCategoryByID(id)
	if err != nil {
		return nil, err
	}

	category.Name = input.Name
	if input.Slug != "" {
		category.Slug = input.Slug
	}
	category.Description = input.Description
	category.SortOrder = input.SortOrder

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory detaches every product in the category, removes the stored
// category image (best effort), then deletes the row. Products survive with
// a NULL category.
func (s *categoryService) DeleteCategory(ctx context.Context, id uint) error {
	logger.Info("Deleting category", map[string]interface{}{
		"category_id": id,
	})

	category, err := s.getCategoryByID(id)
	if err != nil {
		return err
	}

	if err := s.productRepo.ClearCategory(id); err != nil {
		return err
	}

	if category.ImageURL != "" {
		if key := s.store.KeyFromURL(category.ImageURL); key != "" {
			if err := s.store.Remove(ctx, key); err != nil {
				logger.Warn("Failed to remove category image object, continuing", map[string]interface{}{
					"category_id": id,
					"key":         key,
				})
			}
		}
	}

	return s.categoryRepo.Delete(id)
}

func (s *categoryService) SetCategoryImage(ctx context.Context, id uint, upload ImageUpload) (*model.Category, error) {
	category, err := s.getCategoryByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.store.ValidateContentType(upload.ContentType, storage.AllowedImageTypes); err != nil {
		return nil, ErrInvalidUpload
	}
	if err := s.store.ValidateFileSize(upload.Size, storage.MaxUploadSize); err != nil {
		return nil, ErrInvalidUpload
	}

	key := storage.CategoryImageKey(id, upload.Filename)
	url, err := s.store.Upload(ctx, key, upload.ContentType, upload.Body)
	if err != nil {
		return nil, err
	}

	category.ImageURL = url
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}
