package model

import "time"

// OrderStatus describes the order lifecycle: created, paid, delivered.
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// OrderItem is a frozen copy of one settled cart line. It stays unchanged
// when the underlying product is mutated later.
type OrderItem struct {
	ProductID int64
	Name      string
	Shop      string
	Quantity  int64
	UnitPrice int64
}

// Subtotal returns the line total in cents.
func (i OrderItem) Subtotal() int64 {
	return i.Quantity * i.UnitPrice
}

// ShippingAddress is the destination captured at checkout.
type ShippingAddress struct {
	FullName   string
	Address    string
	City       string
	PostalCode string
	Country    string
}

// Order is the immutable settlement record. Only the paid/delivered pairs are
// mutated after creation, and never reversed.
type Order struct {
	ID              int64
	BuyerID         int64
	Items           []OrderItem
	SellerShops     []string
	ItemsPrice      int64
	ShippingPrice   int64
	TotalPrice      int64
	PaymentMethod   string
	ShippingAddress ShippingAddress
	IsPaid          bool
	PaidAt          *time.Time
	IsDelivered     bool
	DeliveredAt     *time.Time
	CreatedAt       time.Time
}

// Status derives the lifecycle state from the transition flags.
func (o *Order) Status() OrderStatus {
	switch {
	case o.IsDelivered:
		return OrderStatusDelivered
	case o.IsPaid:
		return OrderStatusPaid
	default:
		return OrderStatusCreated
	}
}
