package controller

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/petstoryclub/petstory-backend/internal/app/model"
	"github.com/petstoryclub/petstory-backend/internal/app/service"
	"github.com/petstoryclub/petstory-backend/internal/errors"
	"github.com/petstoryclub/petstory-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID    uint   `json:"product_id" binding:"required"`
	SelectedSize string `json:"selected_size"`
	Quantity     int    `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func requireUserID(c *gin.Context) (uint, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return 0, false
	}
	return userID, true
}

func cartTotal(items []model.CartItem) float64 {
	var total float64
	for _, item := range items {
		if item.Product != nil {
			total += item.Product.Price * float64(item.Quantity)
		}
	}
	return total
}

// GetCart returns the user's cart with its running subtotal
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	items, err := ctrl.cartService.GetUserCart(userID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
		"total": cartTotal(items),
	})
}

// GetCartCount returns the badge count
// GET /api/v1/cart/count
func (ctrl *CartController) GetCartCount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	count, err := ctrl.cartService.GetCartCount(userID)
	if err != nil {
		log.Error("Failed to fetch cart count", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": count,
	})
}

// AddToCart adds a product (with optional size) to the cart
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "ข้อมูลไม่ถูกต้อง")
		return
	}

	err := ctrl.cartService.AddToCart(userID, req.ProductID, req.SelectedSize, req.Quantity)
	if err != nil {
		ctrl.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "เพิ่มสินค้าลงตะกร้าแล้ว",
	})
}

// UpdateCartItem sets the quantity of one cart row
// PUT /api/v1/cart/:id
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "จำนวนไม่ถูกต้อง")
		return
	}

	if err := ctrl.cartService.UpdateCartItem(userID, id, req.Quantity); err != nil {
		ctrl.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "อัปเดตตะกร้าแล้ว",
	})
}

// RemoveFromCart deletes one cart row
// DELETE /api/v1/cart/:id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.cartService.RemoveFromCart(userID, id); err != nil {
		ctrl.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "ลบสินค้าออกจากตะกร้าแล้ว",
	})
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := ctrl.cartService.ClearCart(userID); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "ล้างตะกร้าแล้ว",
	})
}

func (ctrl *CartController) respondCartError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case stderrors.Is(err, service.ErrProductNotFound):
		errors.NotFound(c, errors.ProductNotFound, "ไม่พบสินค้า")
	case stderrors.Is(err, service.ErrCartItemNotFound):
		errors.NotFound(c, errors.CartItemNotFound, "ไม่พบสินค้าในตะกร้า")
	case stderrors.Is(err, service.ErrInsufficientStock):
		errors.BadRequest(c, errors.CartInsufficientStock, "สินค้าในสต็อกไม่เพียงพอ")
	case stderrors.Is(err, service.ErrSizeRequired):
		errors.BadRequest(c, errors.CartSizeRequired, "กรุณาเลือกขนาดสินค้า")
	case stderrors.Is(err, service.ErrInvalidSize):
		errors.BadRequest(c, errors.CartInvalidSize, "ขนาดที่เลือกไม่ถูกต้อง")
	case stderrors.Is(err, service.ErrInvalidQuantity):
		errors.BadRequest(c, errors.ValidationInvalidRange, "จำนวนต้องมากกว่า 0")
	default:
		log.Error("Cart operation failed", err, nil)
		errors.InternalError(c, "")
	}
}
