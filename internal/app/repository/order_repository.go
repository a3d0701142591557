package repository

import (
	"time"

	"github.com/petstoryclub/petstory-backend/internal/app/model"
	"github.com/petstoryclub/petstory-backend/pkg/logger"
	"gorm.io/gorm"
)

// OrderStats backs the admin dashboard cards.
type OrderStats struct {
	TotalOrders   int64
	PendingOrders int64
	TotalRevenue  float64
}

type OrderRepository interface {
	CreateFromCart(order *model.Order, userID uint) error
	FindByID(id uint) (*model.Order, error)
	FindByUser(userID uint) ([]model.Order, error)
	FindAll(status model.OrderStatus) ([]model.Order, error)
	UpdateStatus(id uint, status model.OrderStatus) error
	UpdatePaymentSlip(id uint, slipURL string) error
	Stats() (*OrderStats, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func preloadOrder(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Profile").
		Preload("OrderItems").
		Preload("OrderItems.Product")
}

// CreateFromCart persists the order with its items and empties the user's
// cart in a single transaction. Either the order exists and the cart is
// empty, or neither happened.
func (r *orderRepository) CreateFromCart(order *model.Order, userID uint) error {
	logger.Debug("Creating order from cart in database", map[string]interface{}{
		"user_id":      userID,
		"total_amount": order.TotalAmount,
		"item_count":   len(order.OrderItems),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
	})
	if err != nil {
		logger.Error("Failed to create order from cart in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Debug("Order created from cart", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  userID,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	if err := preloadOrder(r.db).First(&order, id).Error; err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUser(userID uint) ([]model.Order, error) {
	var orders []model.Order
	if err := preloadOrder(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by user in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

// FindAll lists every order for the admin console, newest first. An empty
// status returns all statuses.
func (r *orderRepository) FindAll(status model.OrderStatus) ([]model.Order, error) {
	query := preloadOrder(r.db).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []model.Order
	if err := query.Find(&orders).Error; err != nil {
		logger.Error("Failed to find all orders in database", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(id uint, status model.OrderStatus) error {
	logger.Debug("Updating order status in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	if err := r.db.Model(&model.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error; err != nil {
		logger.Error("Failed to update order status in database", err, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return err
	}
	return nil
}

func (r *orderRepository) UpdatePaymentSlip(id uint, slipURL string) error {
	if err := r.db.Model(&model.Order{}).
		Where("id = ?", id).
		Update("payment_slip_url", slipURL).Error; err != nil {
		logger.Error("Failed to update payment slip on order", err, map[string]interface{}{
			"order_id": id,
		})
		return err
	}
	return nil
}

func (r *orderRepository) Stats() (*OrderStats, error) {
	var stats OrderStats

	if err := r.db.Model(&model.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		logger.Error("Failed to count orders for stats", err)
		return nil, err
	}

	if err := r.db.Model(&model.Order{}).
		Where("status = ?", model.OrderStatusPending).
		Count(&stats.PendingOrders).Error; err != nil {
		logger.Error("Failed to count pending orders for stats", err)
		return nil, err
	}

	// Cancelled orders never count toward revenue.
	if err := r.db.Model(&model.Order{}).
		Where("status <> ?", model.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.TotalRevenue).Error; err != nil {
		logger.Error("Failed to sum revenue for stats", err)
		return nil, err
	}

	return &stats, nil
}
