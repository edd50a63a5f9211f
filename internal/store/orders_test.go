package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sajidk/furniture-store/internal/events"
	"github.com/sajidk/furniture-store/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newOrder(key string) models.Order {
	o := models.Order{
		Reference:       "ref-" + key,
		CustomerName:    "Sam",
		ShippingAddress: "2 Side St",
		TotalAmount:     decimal.NewFromInt(300),
		Status:          models.OrderPending,
		PaymentMethod:   models.PaymentCOD,
		PaymentStatus:   models.PaymentPending,
	}
	if key != "" {
		o.IdempotencyKey = &key
	}
	return o
}

func TestPlaceCommitsOrderItemsStockAndOutbox(t *testing.T) {
	db := setupTestDB(t)
	s := NewOrderStore(db)
	p := seedProduct(t, db, "Bookshelf")
	v := seedVariant(t, db, p.ID, "BOOK-1", 10)

	order := newOrder("")
	items := []models.OrderItem{{
		ProductID:       p.ID,
		VariantID:       &v.ID,
		ProductName:     p.Name,
		Quantity:        3,
		PriceAtPurchase: decimal.NewFromInt(100),
	}}
	require.NoError(t, s.Place(context.Background(), &order, items))
	require.NotZero(t, order.ID)

	got, err := s.Get(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.Equal(t, 3, got.Items[0].Quantity)
	require.True(t, got.Items[0].PriceAtPurchase.Equal(decimal.NewFromInt(100)))

	var variant models.Variant
	require.NoError(t, db.First(&variant, v.ID).Error)
	require.Equal(t, 7, variant.StockQuantity)

	pending, err := s.PendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, events.TopicOrderPlaced, pending[0].Topic)
	var ev events.OrderPlaced
	require.NoError(t, json.Unmarshal(pending[0].Payload, &ev))
	require.Equal(t, order.ID, ev.OrderID)
	require.Equal(t, order.Reference, ev.Reference)
}

func TestPlaceInsufficientStockRollsBackEverything(t *testing.T) {
	db := setupTestDB(t)
	s := NewOrderStore(db)
	p := seedProduct(t, db, "Lamp")
	v := seedVariant(t, db, p.ID, "LAMP-1", 2)

	order := newOrder("")
	items := []models.OrderItem{{
		ProductID:       p.ID,
		VariantID:       &v.ID,
		ProductName:     p.Name,
		Quantity:        5,
		PriceAtPurchase: decimal.NewFromInt(60),
	}}
	err := s.Place(context.Background(), &order, items)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// nothing committed: no order, no items, no outbox row, stock untouched
	var count int64
	db.Model(&models.Order{}).Count(&count)
	require.Zero(t, count)
	db.Model(&models.OrderItem{}).Count(&count)
	require.Zero(t, count)
	db.Model(&models.OutboxEvent{}).Count(&count)
	require.Zero(t, count)

	var variant models.Variant
	require.NoError(t, db.First(&variant, v.ID).Error)
	require.Equal(t, 2, variant.StockQuantity)
}

func TestPlaceUnknownProductRollsBack(t *testing.T) {
	db := setupTestDB(t)
	s := NewOrderStore(db)

	order := newOrder("")
	items := []models.OrderItem{{
		ProductID:       9999,
		ProductName:     "Ghost",
		Quantity:        1,
		PriceAtPurchase: decimal.NewFromInt(10),
	}}
	err := s.Place(context.Background(), &order, items)
	require.ErrorIs(t, err, ErrNotFound)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	require.Zero(t, count)
	db.Model(&models.OutboxEvent{}).Count(&count)
	require.Zero(t, count)
}

// A dangling variant id is a missing item, not an out-of-stock one.
func TestPlaceUnknownVariantRollsBack(t *testing.T) {
	db := setupTestDB(t)
	s := NewOrderStore(db)
	p := seedProduct(t, db, "Ottoman")

	ghost := uint(9999)
	order := newOrder("")
	items := []models.OrderItem{{
		ProductID:       p.ID,
		VariantID:       &ghost,
		ProductName:     p.Name,
		Quantity:        1,
		PriceAtPurchase: decimal.NewFromInt(300),
	}}
	err := s.Place(context.Background(), &order, items)
	require.ErrorIs(t, err, ErrNotFound)
	require.NotErrorIs(t, err, ErrInsufficientStock)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	require.Zero(t, count)
}

func TestPlaceDuplicateIdempotencyKey(t *testing.T) {
	db := setupTestDB(t)
	s := NewOrderStore(db)
	p := seedProduct(t, db, "Stool")

	items := func() []models.OrderItem {
		return []models.OrderItem{{
			ProductID:       p.ID,
			ProductName:     p.Name,
			Quantity:        1,
			PriceAtPurchase: decimal.NewFromInt(300),
		}}
	}
	first := newOrder("key-1")
	require.NoError(t, s.Place(context.Background(), &first, items()))

	second := newOrder("key-1")
	second.Reference = "ref-other"
	err := s.Place(context.Background(), &second, items())
	require.ErrorIs(t, err, ErrDuplicateKey)

	found, err := s.FindByIdempotencyKey(context.Background(), "key-1")
	require.NoError(t, err)
	require.Equal(t, first.ID, found.ID)
}

func TestUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	s := NewOrderStore(db)
	p := seedProduct(t, db, "Bench")
	order := seedOrderFor(t, db, p)

	paid := models.PaymentPaid
	require.NoError(t, s.UpdateStatus(context.Background(), order.ID, models.OrderShipped, &paid))

	got, err := s.Get(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderShipped, got.Status)
	require.Equal(t, models.PaymentPaid, got.PaymentStatus)
	// immutable fields stay put
	require.Equal(t, order.Reference, got.Reference)
	require.True(t, got.TotalAmount.Equal(order.TotalAmount))

	err = s.UpdateStatus(context.Background(), 404, models.OrderShipped, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOutboxLifecycle(t *testing.T) {
	db := setupTestDB(t)
	s := NewOrderStore(db)
	p := seedProduct(t, db, "Cabinet")

	order := newOrder("")
	items := []models.OrderItem{{
		ProductID:       p.ID,
		ProductName:     p.Name,
		Quantity:        1,
		PriceAtPurchase: decimal.NewFromInt(300),
	}}
	require.NoError(t, s.Place(context.Background(), &order, items))

	pending, err := s.PendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, s.MarkOutboxDone(context.Background(), []uint{pending[0].ID}))

	pending, err = s.PendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, pending)
}
