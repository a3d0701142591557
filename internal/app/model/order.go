package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

const (
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodPromptPay    = "promptpay"
)

// StatusProgression is the fulfillment success path, in order. The buyer
// progress view renders the index of the current status within this list.
var StatusProgression = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// IsValidPaymentMethod reports whether method is one of the accepted
// payment methods.
func IsValidPaymentMethod(method string) bool {
	return method == PaymentMethodBankTransfer || method == PaymentMethodPromptPay
}

// IsValid reports whether s is one of the known order statuses.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// ProgressIndex returns the position of s on the success path, or -1 for
// cancelled (which renders a distinct terminal view instead of progress).
func (s OrderStatus) ProgressIndex() int {
	for i, status := range StatusProgression {
		if status == s {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether no further transition is allowed from s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether next is a legal move from s: exactly one
// forward step along the success path, or cancellation from any non-terminal
// state. Everything else (skips, backward moves, leaving a terminal state)
// is rejected.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return s.ProgressIndex() >= 0 && next.ProgressIndex() == s.ProgressIndex()+1
}

// ShippingAddress is the address snapshot embedded in an order. Name, phone,
// address line and postal code are mandatory at checkout.
type ShippingAddress struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	AddressLine string `json:"address_line"`
	District    string `json:"district"`
	Province    string `json:"province"`
	PostalCode  string `json:"postal_code"`
}

// ProductSnapshot is the value-copy of product display data taken at order
// time. It has no live link back to the catalog, so historical orders stay
// accurate when products change or disappear.
type ProductSnapshot struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Size     string  `json:"size,omitempty"`
	ImageURL string  `json:"image_url,omitempty"`
}

type Order struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	Status          OrderStatus     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	TotalAmount     float64         `gorm:"not null" json:"total_amount"` // fixed at creation, never recomputed
	ShippingAddress ShippingAddress `gorm:"serializer:json;type:text" json:"shipping_address"`
	PaymentMethod   string          `gorm:"type:varchar(30);not null" json:"payment_method"`
	PaymentSlipURL  string          `json:"payment_slip_url,omitempty"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	Profile    *Profile    `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	OrderID         uint            `gorm:"not null;index" json:"order_id"`
	ProductID       *uint           `gorm:"index" json:"product_id,omitempty"` // nullable: the product may be deleted later
	Quantity        int             `gorm:"not null" json:"quantity"`
	UnitPrice       float64         `gorm:"not null" json:"unit_price"` // fixed at order time
	ProductSnapshot ProductSnapshot `gorm:"serializer:json;type:text" json:"product_snapshot"`
	CreatedAt       time.Time       `json:"created_at"`

	Order   Order    `gorm:"foreignKey:OrderID" json:"-"`
	Product *Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
