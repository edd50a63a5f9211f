package events

import "github.com/shopspring/decimal"

// TopicOrderPlaced carries one event per committed order for downstream
// inventory and fulfilment consumers.
const TopicOrderPlaced = "orders.placed"

type OrderPlaced struct {
	OrderID     uint              `json:"order_id"`
	Reference   string            `json:"reference"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Items       []OrderPlacedItem `json:"items"`
}

type OrderPlacedItem struct {
	ProductID uint  `json:"product_id"`
	VariantID *uint `json:"variant_id,omitempty"`
	Quantity  int   `json:"quantity"`
}
