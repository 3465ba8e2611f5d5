package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mkurbatov/craftmarket/internal/domain/model"
)

const (
	TypeOrderCreated   = "OrderCreated"
	TypeOrderPaid      = "OrderPaid"
	TypeOrderDelivered = "OrderDelivered"
)

const producerName = "craftmarket"

// Envelope is the wire format of one order event. Payload holds the
// type-specific body as raw JSON.
type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	OrderID      int64           `json:"order_id"`
	Payload      json.RawMessage `json:"payload"`
}

// OrderLine mirrors a frozen order line in event payloads.
type OrderLine struct {
	ProductID  int64  `json:"product_id"`
	Shop       string `json:"shop"`
	Quantity   int64  `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

// OrderCreatedPayload describes a freshly settled order.
type OrderCreatedPayload struct {
	OrderID       int64       `json:"order_id"`
	BuyerID       int64       `json:"buyer_id"`
	Lines         []OrderLine `json:"lines"`
	SellerShops   []string    `json:"seller_shops"`
	ItemsCents    int64       `json:"items_cents"`
	ShippingCents int64       `json:"shipping_cents"`
	TotalCents    int64       `json:"total_cents"`
}

// OrderTransitionPayload describes a paid or delivered transition.
type OrderTransitionPayload struct {
	OrderID int64      `json:"order_id"`
	Status  string     `json:"status"`
	At      *time.Time `json:"at,omitempty"`
}

// NewOrderCreated builds the settlement event for a committed order.
func NewOrderCreated(order *model.Order) Envelope {
	lines := make([]OrderLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, OrderLine{
			ProductID:  item.ProductID,
			Shop:       item.Shop,
			Quantity:   item.Quantity,
			PriceCents: item.UnitPrice,
		})
	}
	return newEnvelope(TypeOrderCreated, order.ID, OrderCreatedPayload{
		OrderID:       order.ID,
		BuyerID:       order.BuyerID,
		Lines:         lines,
		SellerShops:   order.SellerShops,
		ItemsCents:    order.ItemsPrice,
		ShippingCents: order.ShippingPrice,
		TotalCents:    order.TotalPrice,
	})
}

// NewOrderPaid builds the payment confirmation event.
func NewOrderPaid(order *model.Order) Envelope {
	return newEnvelope(TypeOrderPaid, order.ID, OrderTransitionPayload{
		OrderID: order.ID,
		Status:  string(model.OrderStatusPaid),
		At:      order.PaidAt,
	})
}

// NewOrderDelivered builds the delivery confirmation event.
func NewOrderDelivered(order *model.Order) Envelope {
	return newEnvelope(TypeOrderDelivered, order.ID, OrderTransitionPayload{
		OrderID: order.ID,
		Status:  string(model.OrderStatusDelivered),
		At:      order.DeliveredAt,
	})
}

func newEnvelope(eventType string, orderID int64, payload any) Envelope {
	raw, err := json.Marshal(payload)
	if err != nil {
		// Payload types are plain structs; marshalling cannot fail.
		panic(err)
	}
	return Envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     producerName,
		OrderID:      orderID,
		Payload:      raw,
	}
}
