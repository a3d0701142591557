package repository

import (
	"fmt"

	"github.com/petstoryclub/petstory-backend/internal/app/model"
	"github.com/petstoryclub/petstory-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortNewest    ProductSort = "newest"
	ProductSortPriceAsc  ProductSort = "price_asc"
	ProductSortPriceDesc ProductSort = "price_desc"
	ProductSortName      ProductSort = "name"
)

// ProductFilter narrows and orders catalog reads. Zero values mean "no
// constraint"; ActiveOnly is set by the storefront and left unset by admin.
type ProductFilter struct {
	CategorySlug string
	Search       string
	MaxPrice     *float64
	FeaturedOnly bool
	ActiveOnly   bool
	SortBy       ProductSort
	Limit        int
	Offset       int
}

type ProductRepository interface {
	Create(product *model.Product) error
	BulkCreate(products []model.Product, batchSize int) error
	FindWithFilter(filter ProductFilter) ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
	CountActive() (int64, error)
	ReplaceImages(productID uint, images []model.ProductImage) error
	DeleteImages(productID uint) error
	ClearCategory(categoryID uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Product{}).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.sort_order ASC")
		})
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name": product.Name,
		"slug": product.Slug,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
			"slug": product.Slug,
		})
		return err
	}
	return nil
}

func (r *productRepository) BulkCreate(products []model.Product, batchSize int) error {
	if len(products) == 0 {
		return nil
	}
	if err := r.db.CreateInBatches(products, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create products", err, map[string]interface{}{
			"count": len(products),
		})
		return err
	}
	return nil
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category_slug": filter.CategorySlug,
		"search":        filter.Search,
		"max_price":     filter.MaxPrice,
		"featured_only": filter.FeaturedOnly,
		"active_only":   filter.ActiveOnly,
		"sort_by":       filter.SortBy,
		"limit":         filter.Limit,
		"offset":        filter.Offset,
	})

	query := r.baseQuery()

	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("products.name LIKE ? OR products.description LIKE ?", like, like)
	}

	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}

	if filter.FeaturedOnly {
		query = query.Where("products.is_featured = ?", true)
	}

	if filter.ActiveOnly {
		query = query.Where("products.is_active = ?", true)
	}

	switch filter.SortBy {
	case ProductSortPriceAsc:
		query = query.Order("products.price ASC")
	case ProductSortPriceDesc:
		query = query.Order("products.price DESC")
	case ProductSortName:
		query = query.Order("products.name ASC")
	case ProductSortNewest:
		fallthrough
	default:
		query = query.Order("products.created_at DESC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"category_slug": filter.CategorySlug,
			"search":        filter.Search,
		})
		return nil, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.baseQuery().First(&product, id).Error; err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	var product model.Product
	if err := r.baseQuery().Where("products.slug = ?", slug).First(&product).Error; err != nil {
		logger.Error("Failed to find product by slug in database", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Where("product_id = ?", id).Delete(&model.ProductImage{}).Error; err != nil {
		logger.Error("Failed to delete product images from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

func (r *productRepository) CountActive() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Product{}).
		Where("is_active = ?", true).
		Count(&count).Error; err != nil {
		logger.Error("Failed to count active products", err)
		return 0, err
	}
	return count, nil
}

// ReplaceImages swaps the full image set of a product. Upload paths are
// deterministic, so the object-store side overwrites; only the rows need
// replacing here.
func (r *productRepository) ReplaceImages(productID uint, images []model.ProductImage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		if len(images) == 0 {
			return nil
		}
		return tx.Create(&images).Error
	})
}

func (r *productRepository) DeleteImages(productID uint) error {
	return r.db.Where("product_id = ?", productID).Delete(&model.ProductImage{}).Error
}

// ClearCategory nulls the category reference on every product in the
// category. Category deletion never cascades to products.
func (r *productRepository) ClearCategory(categoryID uint) error {
	if err := r.db.Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Update("category_id", nil).Error; err != nil {
		logger.Error("Failed to clear category from products", err, map[string]interface{}{
			"category_id": categoryID,
		})
		return err
	}
	return nil
}
