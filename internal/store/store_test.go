package store

import (
	"testing"

	"github.com/sajidk/furniture-store/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a unique in-memory database per test. Foreign keys are
// switched on explicitly; the archive fallback depends on them firing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Variant{},
		&models.Order{}, &models.OrderItem{}, &models.Review{},
		&models.ContactMessage{}, &models.OutboxEvent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string) models.Product {
	t.Helper()
	p := models.Product{Name: name, BasePrice: decimal.NewFromInt(100), IsActive: true}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func seedVariant(t *testing.T, db *gorm.DB, productID uint, sku string, stock int) models.Variant {
	t.Helper()
	v := models.Variant{ProductID: productID, SKU: sku, StockQuantity: stock, IsAvailable: true}
	if err := db.Create(&v).Error; err != nil {
		t.Fatalf("seed variant: %v", err)
	}
	return v
}

// seedOrderFor inserts an order with one line item referencing the product,
// giving it the order history that blocks a hard delete.
func seedOrderFor(t *testing.T, db *gorm.DB, p models.Product) models.Order {
	t.Helper()
	o := models.Order{
		Reference:       "ref-" + t.Name(),
		CustomerName:    "Jane",
		ShippingAddress: "1 Main St",
		TotalAmount:     decimal.NewFromInt(100),
		Status:          models.OrderPending,
		PaymentMethod:   models.PaymentCOD,
		PaymentStatus:   models.PaymentPending,
	}
	if err := db.Create(&o).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	item := models.OrderItem{
		OrderID:         o.ID,
		ProductID:       p.ID,
		ProductName:     p.Name,
		Quantity:        1,
		PriceAtPurchase: p.BasePrice,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed order item: %v", err)
	}
	return o
}
