package model

import (
	"time"

	"gorm.io/gorm"
)

// CartItem is one staged purchase line. At most one row exists per
// (user, product, selected size) triple; adds against an existing triple
// merge into it instead of inserting.
type CartItem struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	ProductID    uint           `gorm:"not null;index" json:"product_id"`
	Quantity     int            `gorm:"not null;default:1" json:"quantity"`
	SelectedSize string         `json:"selected_size"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Profile *Profile `gorm:"foreignKey:UserID" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
