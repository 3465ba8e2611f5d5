package dto

import (
	"time"

	"github.com/mkurbatov/craftmarket/internal/domain/model"
)

// CartLineRequest is one checkout line. Quantity must be positive; the unit
// price, if sent, is the client's display price and is recorded for audit
// only: the charge is always repriced from the catalog.
type CartLineRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int64 `json:"quantity" binding:"required"`
	UnitPrice int64 `json:"unit_price"`
}

// ShippingAddressRequest is the checkout destination.
type ShippingAddressRequest struct {
	FullName   string `json:"full_name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// PlaceOrderRequest describes the checkout payload.
type PlaceOrderRequest struct {
	Lines           []CartLineRequest      `json:"lines" binding:"required"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
}

// CartLines converts the request lines into domain cart lines.
func (r PlaceOrderRequest) CartLines() []model.CartLine {
	lines := make([]model.CartLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, model.CartLine{
			ProductID:        l.ProductID,
			Quantity:         l.Quantity,
			ClaimedUnitPrice: l.UnitPrice,
		})
	}
	return lines
}

// Address converts the request address into the domain value.
func (r PlaceOrderRequest) Address() model.ShippingAddress {
	return model.ShippingAddress{
		FullName:   r.ShippingAddress.FullName,
		Address:    r.ShippingAddress.Address,
		City:       r.ShippingAddress.City,
		PostalCode: r.ShippingAddress.PostalCode,
		Country:    r.ShippingAddress.Country,
	}
}

// OrderItemResponse is one frozen order line.
type OrderItemResponse struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Shop      string `json:"shop"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// OrderResponse is the public order representation.
type OrderResponse struct {
	ID            int64               `json:"id"`
	Status        string              `json:"status"`
	Items         []OrderItemResponse `json:"items"`
	SellerShops   []string            `json:"seller_shops"`
	ItemsPrice    int64               `json:"items_price"`
	ShippingPrice int64               `json:"shipping_price"`
	TotalPrice    int64               `json:"total_price"`
	PaymentMethod string              `json:"payment_method"`
	IsPaid        bool                `json:"is_paid"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	IsDelivered   bool                `json:"is_delivered"`
	DeliveredAt   *time.Time          `json:"delivered_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// NewOrderResponse maps a domain order onto the response shape.
func NewOrderResponse(order *model.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, OrderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Shop:      it.Shop,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return OrderResponse{
		ID:            order.ID,
		Status:        string(order.Status()),
		Items:         items,
		SellerShops:   order.SellerShops,
		ItemsPrice:    order.ItemsPrice,
		ShippingPrice: order.ShippingPrice,
		TotalPrice:    order.TotalPrice,
		PaymentMethod: order.PaymentMethod,
		IsPaid:        order.IsPaid,
		PaidAt:        order.PaidAt,
		IsDelivered:   order.IsDelivered,
		DeliveredAt:   order.DeliveredAt,
		CreatedAt:     order.CreatedAt,
	}
}

// SalesSummaryResponse is the seller reporting projection.
type SalesSummaryResponse struct {
	Shop    string `json:"shop"`
	Sales   int64  `json:"sales"`
	Revenue int64  `json:"revenue"`
}
