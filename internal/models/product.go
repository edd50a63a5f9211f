package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Catalog domain models
type Product struct {
	ID          uint            `gorm:"primaryKey;column:product_id" json:"product_id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_price"`
	Material    string          `gorm:"size:100" json:"material"`
	// Archived products keep their row (order history references it) but are
	// hidden from the public catalog.
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Variants die with the product; only order history blocks a hard delete.
	Variants []Variant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
}

type Variant struct {
	ID        uint   `gorm:"primaryKey;column:variant_id" json:"variant_id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	SKU       string `gorm:"size:100;uniqueIndex;not null" json:"sku"`
	Color     string `gorm:"size:50" json:"color"`
	Size      string `gorm:"size:50" json:"size"`
	// Added to the product base price; may be negative.
	PriceModifier decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price_modifier"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	IsAvailable   bool            `gorm:"not null;default:true" json:"is_available"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
