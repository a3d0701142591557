package repository

import (
	"github.com/petstoryclub/petstory-backend/internal/app/model"
	"github.com/petstoryclub/petstory-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(item *model.CartItem) error
	FindByUser(userID uint) ([]model.CartItem, error)
	FindByID(id uint) (*model.CartItem, error)
	FindByUserProductSize(userID, productID uint, selectedSize string) (*model.CartItem, error)
	Update(item *model.CartItem) error
	Delete(id uint) error
	DeleteByUser(userID uint) error
	CountByUser(userID uint) (int64, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(item *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"user_id":       item.UserID,
		"product_id":    item.ProductID,
		"quantity":      item.Quantity,
		"selected_size": item.SelectedSize,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"user_id":    item.UserID,
			"product_id": item.ProductID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) FindByUser(userID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := r.db.
		Preload("Product").
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.sort_order ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		logger.Error("Failed to find cart items by user in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) FindByID(id uint) (*model.CartItem, error) {
	var item model.CartItem
	if err := r.db.Preload("Product").First(&item, id).Error; err != nil {
		logger.Error("Failed to find cart item by ID in database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return nil, err
	}
	return &item, nil
}

// FindByUserProductSize looks up the one cart row a (user, product, size)
// combination may occupy. Returns gorm.ErrRecordNotFound when the user has
// no such row yet.
func (r *cartRepository) FindByUserProductSize(userID, productID uint, selectedSize string) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.
		Where("user_id = ? AND product_id = ? AND selected_size = ?", userID, productID, selectedSize).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) Update(item *model.CartItem) error {
	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update cart item in database", err, map[string]interface{}{
			"cart_item_id": item.ID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.CartItem{}, id).Error; err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteByUser(userID uint) error {
	logger.Debug("Clearing cart for user", map[string]interface{}{
		"user_id": userID,
	})

	if err := r.db.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to clear cart for user", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.CartItem{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		logger.Error("Failed to count cart items for user", err, map[string]interface{}{
			"user_id": userID,
		})
		return 0, err
	}
	return count, nil
}
