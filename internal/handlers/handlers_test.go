package handlers

import (
	"net/http"
	"testing"

	"github.com/sajidk/furniture-store/internal/images"
	"github.com/sajidk/furniture-store/internal/models"
	"github.com/sajidk/furniture-store/internal/store"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setVar(r *http.Request, key, val string) *http.Request {
	return mux.SetURLVars(r, map[string]string{key: val})
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
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

func newTestProductHandler(t *testing.T, db *gorm.DB) *ProductHandler {
	t.Helper()
	imgs, err := images.New(t.TempDir())
	if err != nil {
		t.Fatalf("images dir: %v", err)
	}
	return NewProductHandler(store.NewCatalogStore(db), nil, imgs)
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

func seedOrderFor(t *testing.T, db *gorm.DB, p models.Product) {
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
}
