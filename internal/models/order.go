package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderShipped   OrderStatus = "Shipped"
	OrderCompleted OrderStatus = "Completed"
	OrderCancelled OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderShipped, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentOnline PaymentMethod = "Online"
)

func (m PaymentMethod) Valid() bool { return m == PaymentCOD || m == PaymentOnline }

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
)

func (s PaymentStatus) Valid() bool { return s == PaymentPending || s == PaymentPaid }

// Order is immutable after creation except for Status and PaymentStatus;
// the store only ever updates those two columns.
type Order struct {
	ID              uint            `gorm:"primaryKey;column:order_id" json:"order_id"`
	Reference       string          `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	CustomerName    string          `gorm:"size:255;not null" json:"customer_name"`
	CustomerEmail   string          `gorm:"size:255" json:"customer_email"`
	ShippingAddress string          `gorm:"not null" json:"shipping_address"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status          OrderStatus     `gorm:"size:20;not null;default:'Pending'" json:"status"`
	PaymentMethod   PaymentMethod   `gorm:"size:20;not null;default:'COD'" json:"payment_method"`
	PaymentStatus   PaymentStatus   `gorm:"size:20;not null;default:'Pending'" json:"payment_status"`
	// Client-generated token; a resubmission with the same key returns the
	// original order instead of inserting a duplicate.
	IdempotencyKey *string   `gorm:"size:64;uniqueIndex" json:"-"`
	CreatedAt      time.Time `json:"created_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem rows are write-once: they are the permanent purchase record even
// if the referenced product is later archived.
type OrderItem struct {
	ID        uint     `gorm:"primaryKey;column:order_item_id" json:"order_item_id"`
	OrderID   uint     `gorm:"not null;index" json:"order_id"`
	ProductID uint     `gorm:"not null;index" json:"product_id"`
	Product   Product  `json:"-"`
	VariantID *uint    `json:"variant_id,omitempty"`
	Variant   *Variant `json:"-"`
	// Snapshots taken at purchase time, independent of later catalog edits.
	ProductName     string          `gorm:"size:255;not null" json:"name"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_at_purchase"`
}
