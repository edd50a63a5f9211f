package handlers

import (
	"errors"
	"net/http"

	"github.com/sajidk/furniture-store/httpx"
	"github.com/sajidk/furniture-store/internal/models"
	"github.com/sajidk/furniture-store/internal/services"
	"github.com/sajidk/furniture-store/internal/store"
	"github.com/sajidk/furniture-store/validation"

	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	Svc    *services.OrderService
	Orders *store.OrderStore
}

func NewOrderHandler(svc *services.OrderService, orders *store.OrderStore) *OrderHandler {
	return &OrderHandler{Svc: svc, Orders: orders}
}

type orderItemInput struct {
	ProductID uint            `json:"product_id"`
	VariantID *uint           `json:"variant_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type createOrderInput struct {
	CustomerName    string               `json:"customer_name"`
	CustomerEmail   string               `json:"customer_email"`
	ShippingAddress string               `json:"shipping_address"`
	TotalAmount     decimal.Decimal      `json:"total_amount"`
	PaymentMethod   models.PaymentMethod `json:"payment_method,omitempty"`
	PaymentStatus   models.PaymentStatus `json:"payment_status,omitempty"`
	IdempotencyKey  string               `json:"idempotency_key,omitempty"`
	Items           []orderItemInput     `json:"items"`
}

// Create places an order. Rollbacks surface as a server error, never as a
// partial success; an idempotent replay answers 200 with the original order.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input createOrderInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("customer_name", input.CustomerName, v)
	validation.Required("shipping_address", input.ShippingAddress, v)
	if input.CustomerEmail != "" {
		validation.Email("customer_email", input.CustomerEmail, v)
	}
	validation.NonNegativeDecimal("total_amount", input.TotalAmount, v)
	if input.PaymentMethod != "" && !input.PaymentMethod.Valid() {
		v["payment_method"] = "invalid"
	}
	if input.PaymentStatus != "" && !input.PaymentStatus.Valid() {
		v["payment_status"] = "invalid"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	in := services.PlaceOrderInput{
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		ShippingAddress: input.ShippingAddress,
		TotalAmount:     input.TotalAmount,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   input.PaymentStatus,
		IdempotencyKey:  input.IdempotencyKey,
	}
	for _, it := range input.Items {
		in.Items = append(in.Items, services.CartItem{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	order, created, err := h.Svc.Place(r.Context(), in)
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		httpx.JSONError(w, http.StatusBadRequest, "empty_cart", nil)
		return
	case errors.Is(err, services.ErrInvalidItem):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_item", nil)
		return
	case errors.Is(err, services.ErrTotalMismatch):
		httpx.JSONError(w, http.StatusBadRequest, "total_mismatch", nil)
		return
	case errors.Is(err, store.ErrNotFound):
		httpx.JSONError(w, http.StatusBadRequest, "item_not_found", nil)
		return
	case errors.Is(err, store.ErrInsufficientStock):
		httpx.JSONError(w, http.StatusConflict, "insufficient_stock", nil)
		return
	case err != nil:
		// Anything else rolled back; the caller is expected to retry.
		httpx.JSONError(w, http.StatusInternalServerError, "order_failed", nil)
		return
	}
	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	httpx.JSON(w, status, map[string]any{
		"order_id":  order.ID,
		"reference": order.Reference,
		"message":   "Order placed successfully",
	})
}

// List serves the back-office order table, line items included.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.List(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_orders", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.Orders.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_order", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

type updateStatusInput struct {
	Status        models.OrderStatus    `json:"status"`
	PaymentStatus *models.PaymentStatus `json:"payment_status,omitempty"`
}

// UpdateStatus mutates the only two fields an order allows after creation.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input updateStatusInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if !input.Status.Valid() {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_status", nil)
		return
	}
	if input.PaymentStatus != nil && !input.PaymentStatus.Valid() {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_payment_status", nil)
		return
	}
	err := h.Orders.UpdateStatus(r.Context(), id, input.Status, input.PaymentStatus)
	if errors.Is(err, store.ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Order status updated"})
}
