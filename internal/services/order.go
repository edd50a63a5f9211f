package services

import (
	"context"
	"errors"

	"github.com/sajidk/furniture-store/internal/models"
	"github.com/sajidk/furniture-store/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyCart rejects a placement with no line items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrTotalMismatch rejects a submitted total that does not equal the sum
	// of the submitted line items.
	ErrTotalMismatch = errors.New("total does not match line items")
	// ErrInvalidItem rejects a line item with a bad quantity or price.
	ErrInvalidItem = errors.New("invalid cart item")
)

type CartItem struct {
	ProductID uint
	VariantID *uint
	Name      string
	Quantity  int
	Price     decimal.Decimal
}

type PlaceOrderInput struct {
	CustomerName    string
	CustomerEmail   string
	ShippingAddress string
	TotalAmount     decimal.Decimal
	PaymentMethod   models.PaymentMethod
	PaymentStatus   models.PaymentStatus
	IdempotencyKey  string
	Items           []CartItem
}

// OrderService turns a submitted cart into one durable order.
type OrderService struct {
	orders *store.OrderStore
}

func NewOrderService(orders *store.OrderStore) *OrderService {
	return &OrderService{orders: orders}
}

// Place validates the cart, checks the submitted total against the line
// items, and commits the order atomically. The item prices are trusted as
// price-at-purchase snapshots; only their sum is verified. The returned bool
// is false when an idempotency key matched an already committed order.
func (s *OrderService) Place(ctx context.Context, in PlaceOrderInput) (*models.Order, bool, error) {
	if len(in.Items) == 0 {
		return nil, false, ErrEmptyCart
	}
	sum := decimal.Zero
	for _, it := range in.Items {
		if it.Quantity < 1 || it.Price.IsNegative() {
			return nil, false, ErrInvalidItem
		}
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	if !sum.Equal(in.TotalAmount) {
		return nil, false, ErrTotalMismatch
	}

	if in.IdempotencyKey != "" {
		existing, err := s.orders.FindByIdempotencyKey(ctx, in.IdempotencyKey)
		if err == nil {
			return &existing, false, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, false, err
		}
	}

	method := in.PaymentMethod
	if method == "" {
		method = models.PaymentCOD
	}
	payStatus := in.PaymentStatus
	if payStatus == "" {
		payStatus = models.PaymentPending
	}

	order := models.Order{
		Reference:       uuid.NewString(),
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		ShippingAddress: in.ShippingAddress,
		TotalAmount:     in.TotalAmount,
		Status:          models.OrderPending,
		PaymentMethod:   method,
		PaymentStatus:   payStatus,
	}
	if in.IdempotencyKey != "" {
		key := in.IdempotencyKey
		order.IdempotencyKey = &key
	}
	items := make([]models.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, models.OrderItem{
			ProductID:       it.ProductID,
			VariantID:       it.VariantID,
			ProductName:     it.Name,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.Price,
		})
	}

	err := s.orders.Place(ctx, &order, items)
	if err == nil {
		order.Items = items
		return &order, true, nil
	}
	// Two submissions with the same key can race past the lookup above; the
	// unique index decides, and the loser returns the winner's order.
	if errors.Is(err, store.ErrDuplicateKey) && in.IdempotencyKey != "" {
		existing, ferr := s.orders.FindByIdempotencyKey(ctx, in.IdempotencyKey)
		if ferr == nil {
			return &existing, false, nil
		}
	}
	return nil, false, err
}
