package store

import (
	"context"
	"errors"
	"testing"

	"github.com/sajidk/furniture-store/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRemoveDeletesUnreferencedProduct(t *testing.T) {
	db := setupTestDB(t)
	s := NewCatalogStore(db)
	p := seedProduct(t, db, "Oak Table")
	seedVariant(t, db, p.ID, "OAK-1", 5)

	outcome, err := s.Remove(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, RemoveDeleted, outcome)

	var count int64
	db.Model(&models.Product{}).Count(&count)
	require.Zero(t, count)
	// variants go down with the product
	db.Model(&models.Variant{}).Count(&count)
	require.Zero(t, count)
}

func TestRemoveDeleteCascadesVariantsAndReviews(t *testing.T) {
	db := setupTestDB(t)
	s := NewCatalogStore(db)
	p := seedProduct(t, db, "Side Table")
	seedVariant(t, db, p.ID, "SIDE-1", 2)
	review := models.Review{ProductID: p.ID, CustomerName: "Bo", Rating: 4, Content: "nice", Status: models.ReviewApproved}
	require.NoError(t, db.Create(&review).Error)

	outcome, err := s.Remove(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, RemoveDeleted, outcome)

	var count int64
	db.Model(&models.Variant{}).Count(&count)
	require.Zero(t, count)
	db.Model(&models.Review{}).Count(&count)
	require.Zero(t, count)
}

// Catalog edits after a sale must never rewrite what the customer paid.
func TestBasePriceEditLeavesPriceAtPurchase(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogStore(db)
	orders := NewOrderStore(db)
	p := seedProduct(t, db, "Console")

	order := models.Order{
		Reference:       "ref-price",
		CustomerName:    "Jane",
		ShippingAddress: "1 Main St",
		TotalAmount:     decimal.NewFromInt(100),
		Status:          models.OrderPending,
		PaymentMethod:   models.PaymentCOD,
		PaymentStatus:   models.PaymentPending,
	}
	items := []models.OrderItem{{
		ProductID:       p.ID,
		ProductName:     p.Name,
		Quantity:        1,
		PriceAtPurchase: decimal.NewFromInt(100),
	}}
	require.NoError(t, orders.Place(context.Background(), &order, items))

	p.BasePrice = decimal.NewFromInt(999)
	require.NoError(t, catalog.Update(context.Background(), &p))

	got, err := orders.Get(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.True(t, got.Items[0].PriceAtPurchase.Equal(decimal.NewFromInt(100)))

	reloaded, err := catalog.Get(context.Background(), p.ID)
	require.NoError(t, err)
	require.True(t, reloaded.BasePrice.Equal(decimal.NewFromInt(999)))
}

func TestRemoveArchivesProductWithOrderHistory(t *testing.T) {
	db := setupTestDB(t)
	s := NewCatalogStore(db)
	p := seedProduct(t, db, "Walnut Chair")
	seedOrderFor(t, db, p)

	outcome, err := s.Remove(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, RemoveArchived, outcome)

	// The row survives, hidden from the catalog, and the order line still
	// resolves to it.
	got, err := s.Get(context.Background(), p.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	var items int64
	db.Model(&models.OrderItem{}).Where("product_id = ?", p.ID).Count(&items)
	require.EqualValues(t, 1, items)
}

func TestRemoveArchiveIsRepeatable(t *testing.T) {
	db := setupTestDB(t)
	s := NewCatalogStore(db)
	p := seedProduct(t, db, "Pine Desk")
	seedOrderFor(t, db, p)

	for i := 0; i < 2; i++ {
		outcome, err := s.Remove(context.Background(), p.ID)
		require.NoError(t, err)
		require.Equal(t, RemoveArchived, outcome)
	}
}

func TestRemoveMissingProduct(t *testing.T) {
	db := setupTestDB(t)
	s := NewCatalogStore(db)

	_, err := s.Remove(context.Background(), 404)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListActiveExcludesArchived(t *testing.T) {
	db := setupTestDB(t)
	s := NewCatalogStore(db)
	active := seedProduct(t, db, "Visible")
	archived := seedProduct(t, db, "Hidden")
	seedOrderFor(t, db, archived)

	_, err := s.Remove(context.Background(), archived.ID)
	require.NoError(t, err)

	products, err := s.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, active.ID, products[0].ID)

	// the back office still sees both
	all, err := s.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestCreateVariantErrors(t *testing.T) {
	db := setupTestDB(t)
	s := NewCatalogStore(db)
	p := seedProduct(t, db, "Sofa")
	seedVariant(t, db, p.ID, "SOFA-GREY", 3)

	dup := models.Variant{ProductID: p.ID, SKU: "SOFA-GREY"}
	err := s.CreateVariant(context.Background(), &dup)
	require.ErrorIs(t, err, ErrDuplicateKey)

	orphan := models.Variant{ProductID: 999, SKU: "SOFA-BLUE"}
	err = s.CreateVariant(context.Background(), &orphan)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetMissingProduct(t *testing.T) {
	db := setupTestDB(t)
	s := NewCatalogStore(db)

	_, err := s.Get(context.Background(), 12345)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
