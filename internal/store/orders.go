package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sajidk/furniture-store/internal/events"
	"github.com/sajidk/furniture-store/internal/models"

	"gorm.io/gorm"
)

// OrderStore owns orders, order items, and the order outbox.
type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore { return &OrderStore{db: db} }

// Place commits the order header, all line items, the stock decrements, and
// the outbox event as one transaction. Any failure rolls the whole unit back;
// readers never observe a partial order. The header insert completes before
// any item insert because items need the generated order id.
func (s *OrderStore) Place(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		// Decrement variant stock with a floor guard: the predicate matching
		// no row means the variant is short (or gone) and the whole order is
		// rejected rather than letting the count cross zero.
		for _, it := range items {
			if it.VariantID == nil {
				continue
			}
			res := tx.Model(&models.Variant{}).
				Where("variant_id = ? AND stock_quantity >= ?", *it.VariantID, it.Quantity).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", it.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Tell a short variant apart from one that does not exist.
				var count int64
				if err := tx.Model(&models.Variant{}).Where("variant_id = ?", *it.VariantID).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return ErrNotFound
				}
				return ErrInsufficientStock
			}
		}
		payload, err := json.Marshal(orderPlacedEvent(order, items))
		if err != nil {
			return err
		}
		return tx.Create(&models.OutboxEvent{
			Topic:   events.TopicOrderPlaced,
			Payload: payload,
			Status:  models.OutboxPending,
		}).Error
	})
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return ErrDuplicateKey
	case isForeignKeyViolation(err):
		// a line item pointing at a product or variant that is not there
		return ErrNotFound
	}
	return err
}

func orderPlacedEvent(order *models.Order, items []models.OrderItem) events.OrderPlaced {
	ev := events.OrderPlaced{
		OrderID:     order.ID,
		Reference:   order.Reference,
		TotalAmount: order.TotalAmount,
	}
	for _, it := range items {
		ev.Items = append(ev.Items, events.OrderPlacedItem{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
		})
	}
	return ev
}

func (s *OrderStore) Get(ctx context.Context, id uint) (models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return o, ErrNotFound
	}
	return o, err
}

// FindByIdempotencyKey returns the order previously committed under key, or
// ErrNotFound when the key is unseen.
func (s *OrderStore) FindByIdempotencyKey(ctx context.Context, key string) (models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("idempotency_key = ?", key).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return o, ErrNotFound
	}
	return o, err
}

func (s *OrderStore) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Order("order_id desc").
		Find(&orders).Error
	return orders, err
}

// UpdateStatus touches only the two mutable columns of an order. A nil
// payment status leaves payment_status as-is.
func (s *OrderStore) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus, payment *models.PaymentStatus) error {
	updates := map[string]any{"status": status}
	if payment != nil {
		updates["payment_status"] = *payment
	}
	res := s.db.WithContext(ctx).Model(&models.Order{}).Where("order_id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PendingOutbox implements events.OutboxSource.
func (s *OrderStore) PendingOutbox(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	var rows []models.OutboxEvent
	err := s.db.WithContext(ctx).
		Where("status = ?", models.OutboxPending).
		Order("id").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// MarkOutboxDone implements events.OutboxSource.
func (s *OrderStore) MarkOutboxDone(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.OutboxEvent{}).
		Where("id IN ?", ids).
		Update("status", models.OutboxDone).Error
}
