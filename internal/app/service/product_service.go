package service

import (
	"context"
	"errors"
	"io"

	"github.com/petstoryclub/petstory-backend/internal/app/model"
	"github.com/petstoryclub/petstory-backend/internal/app/repository"
	"github.com/petstoryclub/petstory-backend/internal/storage"
	"github.com/petstoryclub/petstory-backend/pkg/logger"
	"github.com/petstoryclub/petstory-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidUpload   = errors.New("invalid upload")
)

// ProductInput carries the admin form for creating or updating a product.
// Size is the comma-separated list of offered size options, empty for
// one-size products.
type ProductInput struct {
	Name         string   `json:"name" binding:"required"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description"`
	Price        float64  `json:"price" binding:"required"`
	ComparePrice *float64 `json:"compare_price"`
	Stock        int      `json:"stock"`
	Size         string   `json:"size"`
	CategoryID   *uint    `json:"category_id"`
	IsFeatured   bool     `json:"is_featured"`
	IsNew        bool     `json:"is_new"`
	IsSale       bool     `json:"is_sale"`
	IsActive     bool     `json:"is_active"`
	SortOrder    int      `json:"sort_order"`
}

// ImageUpload is one file from a multipart form, handed down from the
// controller.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ProductService interface {
	ListProducts(filter repository.ProductFilter) ([]model.Product, error)
	GetProductBySlug(slug string) (*model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	CreateProduct(input ProductInput) (*model.Product, error)
	UpdateProduct(id uint, input ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	ReplaceProductImages(ctx context.Context, id uint, uploads []ImageUpload) (*model.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
	store       *storage.S3Storage
}

func NewProductService(productRepo repository.ProductRepository, store *storage.S3Storage) ProductService {
	return &productService{
		productRepo: productRepo,
		store:       store,
	}
}

func (s *productService) ListProducts(filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindWithFilter(filter)
}

func (s *productService) GetProductBySlug(slug string) (*model.Product, error) {
	product, err := s.productRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func applyProductInput(product *model.Product, input ProductInput) {
	product.Name = input.Name
	product.Slug = input.Slug
	if product.Slug == "" {
		product.Slug = util.Slugify(input.Name)
	}
	product.Description = input.Description
	product.Price = input.Price
	product.ComparePrice = input.ComparePrice
	product.Stock = input.Stock
	product.Size = input.Size
	product.CategoryID = input.CategoryID
	product.IsFeatured = input.IsFeatured
	product.IsNew = input.IsNew
	product.IsSale = input.IsSale
	product.IsActive = input.IsActive
	product.SortOrder = input.SortOrder
}

func (s *productService) CreateProduct(input ProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"name": input.Name,
	})

	if input.Price < 0 {
		return nil, ErrInvalidPrice
	}
	if input.Stock < 0 {
		input.Stock = 0
	}

	var product model.Product
	applyProductInput(&product, input)

	if err := s.productRepo.Create(&product); err != nil {
		return nil, err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return &product, nil
}

func (s *productService) UpdateProduct(id uint, input ProductInput) (*model.Product, error) {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": id,
	})

	if input.Price < 0 {
		return nil, ErrInvalidPrice
	}

	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	applyProductInput(product, input)

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes the product's stored images from the object store
// (best effort), then its image rows, then the product itself. Order items
// keep their snapshot; their product reference goes NULL via the FK.
func (s *productService) DeleteProduct(ctx context.Context, id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	product, err := s.GetProductByID(id)
	if err != nil {
		return err
	}

	for _, img := range product.Images {
		key := s.store.KeyFromURL(img.URL)
		if key == "" {
			continue
		}
		if err := s.store.Remove(ctx, key); err != nil {
			logger.Warn("Failed to remove product image object, continuing", map[string]interface{}{
				"product_id": id,
				"key":        key,
			})
		}
	}

	return s.productRepo.Delete(id)
}

// ReplaceProductImages uploads the submitted files under deterministic keys
// and swaps the product's image rows for the new set.
func (s *productService) ReplaceProductImages(ctx context.Context, id uint, uploads []ImageUpload) (*model.Product, error) {
	logger.Info("Replacing product images", map[string]interface{}{
		"product_id": id,
		"count":      len(uploads),
	})

	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	images := make([]model.ProductImage, 0, len(uploads))
	for i, upload := range uploads {
		if err := s.store.ValidateContentType(upload.ContentType, storage.AllowedImageTypes); err != nil {
			return nil, ErrInvalidUpload
		}
		if err := s.store.ValidateFileSize(upload.Size, storage.MaxUploadSize); err != nil {
			return nil, ErrInvalidUpload
		}

		key := storage.ProductImageKey(id, i, upload.Filename)
		url, err := s.store.Upload(ctx, key, upload.ContentType, upload.Body)
		if err != nil {
			return nil, err
		}

		images = append(images, model.ProductImage{
			ProductID: id,
			URL:       url,
			IsPrimary: i == 0,
			SortOrder: i,
		})
	}

	if err := s.productRepo.ReplaceImages(id, images); err != nil {
		return nil, err
	}

	product.Images = images
	return product, nil
}
