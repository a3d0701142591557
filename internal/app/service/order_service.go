package service

import (
	"errors"

	"github.com/petstoryclub/petstory-backend/internal/app/model"
	"github.com/petstoryclub/petstory-backend/internal/app/repository"
	"github.com/petstoryclub/petstory-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrCartEmpty               = errors.New("cart is empty")
	ErrIncompleteAddress       = errors.New("shipping address is incomplete")
	ErrInvalidPaymentMethod    = errors.New("unsupported payment method")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)

// CheckoutInput carries everything the checkout form submits. The slip URL
// is set by the controller after the upload attempt; it stays empty when the
// upload failed or the customer skipped it.
type CheckoutInput struct {
	ShippingAddress model.ShippingAddress
	PaymentMethod   string
	Notes           string
	PaymentSlipURL  string
}

// DashboardStats aggregates the admin dashboard cards.
type DashboardStats struct {
	TotalOrders    int64   `json:"total_orders"`
	PendingOrders  int64   `json:"pending_orders"`
	TotalRevenue   float64 `json:"total_revenue"`
	ActiveProducts int64   `json:"active_products"`
	TotalUsers     int64   `json:"total_users"`
}

// OrderNotifier pushes order events to connected admin consoles. A nil
// notifier disables the feed.
type OrderNotifier interface {
	NotifyOrderCreated(order *model.Order)
	NotifyOrderStatusChanged(orderID uint, status model.OrderStatus)
}

type OrderService interface {
	CreateOrderFromCart(userID uint, input CheckoutInput) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint, isAdmin bool) (*model.Order, error)
	AttachPaymentSlip(userID, orderID uint, slipURL string) error
	ListOrders(status model.OrderStatus) ([]model.Order, error)
	UpdateOrderStatus(orderID uint, next model.OrderStatus) (*model.Order, error)
	GetDashboardStats() (*DashboardStats, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	profileRepo repository.ProfileRepository
	notifier    OrderNotifier
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	profileRepo repository.ProfileRepository,
	notifier OrderNotifier,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		profileRepo: profileRepo,
		notifier:    notifier,
	}
}

func validateShippingAddress(addr model.ShippingAddress) error {
	if addr.Name == "" || addr.Phone == "" || addr.AddressLine == "" || addr.PostalCode == "" {
		return ErrIncompleteAddress
	}
	return nil
}

// CreateOrderFromCart turns the user's entire cart into a pending order.
// Prices and names are snapshotted from the live products at this moment;
// stock is verified but not decremented. The order insert and the cart
// clear happen in one transaction.
func (s *orderService) CreateOrderFromCart(userID uint, input CheckoutInput) (*model.Order, error) {
	logger.Info("Creating order from cart", map[string]interface{}{
		"user_id":        userID,
		"payment_method": input.PaymentMethod,
	})

	if err := validateShippingAddress(input.ShippingAddress); err != nil {
		logger.Warn("Checkout rejected: incomplete shipping address", map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if !model.IsValidPaymentMethod(input.PaymentMethod) {
		logger.Warn("Checkout rejected: unsupported payment method", map[string]interface{}{
			"user_id":        userID,
			"payment_method": input.PaymentMethod,
		})
		return nil, ErrInvalidPaymentMethod
	}

	cartItems, err := s.cartRepo.FindByUser(userID)
	if err != nil {
		logger.Error("Failed to load cart for checkout", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if len(cartItems) == 0 {
		logger.Warn("Checkout rejected: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrCartEmpty
	}

	var total float64
	orderItems := make([]model.OrderItem, 0, len(cartItems))
	for _, item := range cartItems {
		product := item.Product
		if product == nil {
			logger.Warn("Checkout rejected: cart references missing product", map[string]interface{}{
				"user_id":      userID,
				"cart_item_id": item.ID,
			})
			return nil, ErrProductNotFound
		}
		// Stock and active flags are cart-mutation-time constraints only.
		// Checkout prices and snapshots whatever the cart holds.
		snapshotSize := item.SelectedSize
		if snapshotSize == "" {
			snapshotSize = product.Size
		}

		productID := product.ID
		orderItems = append(orderItems, model.OrderItem{
			ProductID: &productID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			ProductSnapshot: model.ProductSnapshot{
				Name:     product.Name,
				Price:    product.Price,
				Size:     snapshotSize,
				ImageURL: product.PrimaryImageURL(),
			},
		})
		total += product.Price * float64(item.Quantity)
	}

	order := &model.Order{
		UserID:          userID,
		Status:          model.OrderStatusPending,
		TotalAmount:     total,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		PaymentSlipURL:  input.PaymentSlipURL,
		Notes:           input.Notes,
		OrderItems:      orderItems,
	}

	if err := s.orderRepo.CreateFromCart(order, userID); err != nil {
		logger.Error("Failed to persist order", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyOrderCreated(order)
	}

	logger.Info("Order created successfully", map[string]interface{}{
		"order_id":     order.ID,
		"user_id":      userID,
		"total_amount": order.TotalAmount,
		"item_count":   len(order.OrderItems),
	})
	return order, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByUser(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

// GetOrderByID enforces ownership: customers see only their own orders,
// admins see all. An order owned by someone else reads as not found.
func (s *orderService) GetOrderByID(userID, orderID uint, isAdmin bool) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	if !isAdmin && order.UserID != userID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}

	return order, nil
}

// AttachPaymentSlip lets a customer add or replace the transfer slip on a
// pending order, covering the case where the upload failed during checkout.
func (s *orderService) AttachPaymentSlip(userID, orderID uint, slipURL string) error {
	order, err := s.GetOrderByID(userID, orderID, false)
	if err != nil {
		return err
	}

	if order.Status != model.OrderStatusPending {
		logger.Warn("Payment slip rejected: order already confirmed", map[string]interface{}{
			"order_id": orderID,
			"status":   order.Status,
		})
		return ErrInvalidStatusTransition
	}

	if err := s.orderRepo.UpdatePaymentSlip(orderID, slipURL); err != nil {
		return err
	}

	logger.Info("Payment slip attached to order", map[string]interface{}{
		"order_id": orderID,
	})
	return nil
}

func (s *orderService) ListOrders(status model.OrderStatus) ([]model.Order, error) {
	if status != "" && !status.IsValid() {
		return nil, ErrInvalidStatusTransition
	}
	return s.orderRepo.FindAll(status)
}

// UpdateOrderStatus moves an order one step along the fulfilment chain or
// cancels it, rejecting skips, reversals, and changes to terminal orders.
func (s *orderService) UpdateOrderStatus(orderID uint, next model.OrderStatus) (*model.Order, error) {
	logger.Info("Updating order status", map[string]interface{}{
		"order_id": orderID,
		"next":     next,
	})

	if !next.IsValid() {
		return nil, ErrInvalidStatusTransition
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order for status update", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	if !order.Status.CanTransitionTo(next) {
		logger.Warn("Order status transition rejected", map[string]interface{}{
			"order_id": orderID,
			"current":  order.Status,
			"next":     next,
		})
		return nil, ErrInvalidStatusTransition
	}

	if err := s.orderRepo.UpdateStatus(orderID, next); err != nil {
		return nil, err
	}

	order.Status = next

	if s.notifier != nil {
		s.notifier.NotifyOrderStatusChanged(orderID, next)
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   next,
	})
	return order, nil
}

func (s *orderService) GetDashboardStats() (*DashboardStats, error) {
	orderStats, err := s.orderRepo.Stats()
	if err != nil {
		return nil, err
	}

	activeProducts, err := s.productRepo.CountActive()
	if err != nil {
		return nil, err
	}

	totalUsers, err := s.profileRepo.Count()
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalOrders:    orderStats.TotalOrders,
		PendingOrders:  orderStats.PendingOrders,
		TotalRevenue:   orderStats.TotalRevenue,
		ActiveProducts: activeProducts,
		TotalUsers:     totalUsers,
	}, nil
}
