package service

import (
	"context"
	"errors"

	"github.com/petstoryclub/petstory-backend/internal/app/model"
	"github.com/petstoryclub/petstory-backend/internal/app/repository"
	"github.com/petstoryclub/petstory-backend/pkg/logger"
	"github.com/petstoryclub/petstory-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("insufficient product stock")
	ErrSizeRequired      = errors.New("size selection required for this product")
	ErrInvalidSize       = errors.New("selected size is not offered for this product")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
)

type CartService interface {
	GetUserCart(userID uint) ([]model.CartItem, error)
	GetCartCount(userID uint) (int64, error)
	AddToCart(userID, productID uint, selectedSize string, quantity int) error
	UpdateCartItem(userID, cartItemID uint, quantity int) error
	RemoveFromCart(userID, cartItemID uint) error
	ClearCart(userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetUserCart(userID uint) ([]model.CartItem, error) {
	logger.Debug("Fetching user cart", map[string]interface{}{
		"user_id": userID,
	})

	cartItems, err := s.cartRepo.FindByUser(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User cart fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(cartItems),
	})
	return cartItems, nil
}

// GetCartCount returns the number of distinct cart rows for the badge,
// serving from cache when possible and repopulating it on a miss.
func (s *cartService) GetCartCount(userID uint) (int64, error) {
	ctx := context.Background()

	if count, ok := redis.GetCartCount(ctx, userID); ok {
		return count, nil
	}

	count, err := s.cartRepo.CountByUser(userID)
	if err != nil {
		return 0, err
	}

	redis.SetCartCount(ctx, userID, count)
	return count, nil
}

// validateSize enforces the size rule: products that declare size options
// require one of them; products without options take no size at all.
func validateSize(product *model.Product, selectedSize string) error {
	options := product.SizeOptions()
	if len(options) == 0 {
		if selectedSize != "" {
			return ErrInvalidSize
		}
		return nil
	}
	if selectedSize == "" {
		return ErrSizeRequired
	}
	if !product.HasSizeOption(selectedSize) {
		return ErrInvalidSize
	}
	return nil
}

func (s *cartService) AddToCart(userID, productID uint, selectedSize string, quantity int) error {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":       userID,
		"product_id":    productID,
		"selected_size": selectedSize,
		"quantity":      quantity,
	})

	if quantity < 1 {
		return ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	if !product.IsActive {
		logger.Warn("Cannot add to cart: product is not active", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return ErrProductNotFound
	}

	if err := validateSize(product, selectedSize); err != nil {
		logger.Warn("Cannot add to cart: size validation failed", map[string]interface{}{
			"user_id":       userID,
			"product_id":    productID,
			"selected_size": selectedSize,
		})
		return err
	}

	existingItem, err := s.cartRepo.FindByUserProductSize(userID, productID, selectedSize)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing cart item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	requestedQuantity := quantity
	if existingItem != nil {
		requestedQuantity = existingItem.Quantity + quantity
	}

	if product.Stock < requestedQuantity {
		logger.Warn("Cannot add to cart: insufficient stock", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"requested":  requestedQuantity,
			"available":  product.Stock,
		})
		return ErrInsufficientStock
	}

	if existingItem != nil {
		logger.Debug("Merging into existing cart item", map[string]interface{}{
			"cart_item_id": existingItem.ID,
			"old_qty":      existingItem.Quantity,
			"new_qty":      requestedQuantity,
		})
		existingItem.Quantity = requestedQuantity
		if err := s.cartRepo.Update(existingItem); err != nil {
			logger.Error("Failed to update cart item", err, map[string]interface{}{
				"cart_item_id": existingItem.ID,
			})
			return err
		}
		redis.ResetCartCount(context.Background(), userID)
		return nil
	}

	cartItem := &model.CartItem{
		UserID:       userID,
		ProductID:    productID,
		SelectedSize: selectedSize,
		Quantity:     quantity,
	}

	if err := s.cartRepo.Create(cartItem); err != nil {
		logger.Error("Failed to create cart item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	redis.ResetCartCount(context.Background(), userID)

	logger.Info("Cart item added successfully", map[string]interface{}{
		"cart_item_id": cartItem.ID,
	})
	return nil
}

func (s *cartService) UpdateCartItem(userID, cartItemID uint, quantity int) error {
	logger.Info("Updating cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
		"quantity":     quantity,
	})

	if quantity < 1 {
		return ErrInvalidQuantity
	}

	cartItem, err := s.cartRepo.FindByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found", map[string]interface{}{
				"cart_item_id": cartItemID,
			})
			return ErrCartItemNotFound
		}
		logger.Error("Failed to fetch cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	if cartItem.UserID != userID {
		logger.Warn("Cart item access denied: ownership mismatch", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
			"owner_id":     cartItem.UserID,
		})
		return ErrCartItemNotFound
	}

	product, err := s.productRepo.FindByID(cartItem.ProductID)
	if err != nil {
		logger.Error("Failed to fetch product for stock check", err, map[string]interface{}{
			"cart_item_id": cartItemID,
			"product_id":   cartItem.ProductID,
		})
		return err
	}

	if product.Stock < quantity {
		logger.Warn("Cannot update cart item: insufficient stock", map[string]interface{}{
			"cart_item_id": cartItemID,
			"requested":    quantity,
			"available":    product.Stock,
		})
		return ErrInsufficientStock
	}

	cartItem.Quantity = quantity
	if err := s.cartRepo.Update(cartItem); err != nil {
		logger.Error("Failed to update cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	redis.ResetCartCount(context.Background(), userID)

	logger.Info("Cart item updated successfully", map[string]interface{}{
		"cart_item_id": cartItemID,
	})
	return nil
}

func (s *cartService) RemoveFromCart(userID, cartItemID uint) error {
	logger.Info("Removing cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
	})

	cartItem, err := s.cartRepo.FindByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found for removal", map[string]interface{}{
				"cart_item_id": cartItemID,
			})
			return ErrCartItemNotFound
		}
		logger.Error("Failed to fetch cart item for removal", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	if cartItem.UserID != userID {
		logger.Warn("Cart item removal denied: ownership mismatch", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
			"owner_id":     cartItem.UserID,
		})
		return ErrCartItemNotFound
	}

	if err := s.cartRepo.Delete(cartItemID); err != nil {
		logger.Error("Failed to delete cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	redis.ResetCartCount(context.Background(), userID)

	logger.Info("Cart item removed", map[string]interface{}{
		"cart_item_id": cartItemID,
	})
	return nil
}

func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing user cart", map[string]interface{}{
		"user_id": userID,
	})

	if err := s.cartRepo.DeleteByUser(userID); err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	redis.ResetCartCount(context.Background(), userID)

	logger.Info("User cart cleared", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
