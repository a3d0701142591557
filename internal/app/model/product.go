package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Slug         string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description  string         `gorm:"type:text" json:"description"`
	Price        float64        `gorm:"not null" json:"price"`
	ComparePrice *float64       `json:"compare_price,omitempty"` // strike-through price, optional
	Stock        int            `gorm:"not null;default:0" json:"stock"`
	Size         string         `json:"size"` // declared size options, comma separated (e.g. "S, M, L")
	CategoryID   *uint          `gorm:"index" json:"category_id,omitempty"`
	IsFeatured   bool           `gorm:"default:false" json:"is_featured"`
	IsNew        bool           `gorm:"default:false" json:"is_new"`
	IsSale       bool           `gorm:"default:false" json:"is_sale"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	SortOrder    int            `gorm:"default:0" json:"sort_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category *Category      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`
	Images   []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// SizeOptions returns the declared size choices, empty when the product has none.
func (p *Product) SizeOptions() []string {
	if strings.TrimSpace(p.Size) == "" {
		return nil
	}
	parts := strings.Split(p.Size, ",")
	options := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			options = append(options, trimmed)
		}
	}
	return options
}

// HasSizeOption reports whether size is one of the declared options.
func (p *Product) HasSizeOption(size string) bool {
	for _, option := range p.SizeOptions() {
		if option == size {
			return true
		}
	}
	return false
}

// PrimaryImageURL returns the primary image URL, falling back to the first image.
func (p *Product) PrimaryImageURL() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}

type ProductImage struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	URL       string `gorm:"not null" json:"url"`
	IsPrimary bool   `gorm:"default:false" json:"is_primary"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`
}

func (ProductImage) TableName() string {
	return "product_images"
}
