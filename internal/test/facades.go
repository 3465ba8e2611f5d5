package test

import (
	"context"
	"sync"

	"github.com/mkurbatov/craftmarket/internal/adapter/events"
	"github.com/mkurbatov/craftmarket/internal/domain/model"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	PlaceOrderFn      func(context.Context, int64, []model.CartLine, model.ShippingAddress, string) (*model.Order, error)
	OrderFn           func(context.Context, int64) (*model.Order, error)
	OrdersForBuyerFn  func(context.Context, int64) ([]model.Order, error)
	OrdersForSellerFn func(context.Context, string) ([]model.Order, error)
	MarkPaidFn        func(context.Context, int64) (*model.Order, error)
	MarkDeliveredFn   func(context.Context, int64) (*model.Order, error)
}

// PlaceOrder delegates to provided function or returns a default order.
func (s OrderFacadeStub) PlaceOrder(ctx context.Context, buyerID int64, lines []model.CartLine, addr model.ShippingAddress, paymentMethod string) (*model.Order, error) {
	if s.PlaceOrderFn != nil {
		return s.PlaceOrderFn(ctx, buyerID, lines, addr, paymentMethod)
	}
	return &model.Order{ID: 1, BuyerID: buyerID, PaymentMethod: paymentMethod}, nil
}

// Order returns configured order by id.
func (s OrderFacadeStub) Order(ctx context.Context, id int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return &model.Order{ID: id}, nil
}

// OrdersForBuyer returns predefined orders for given buyer.
func (s OrderFacadeStub) OrdersForBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	if s.OrdersForBuyerFn != nil {
		return s.OrdersForBuyerFn(ctx, buyerID)
	}
	return []model.Order{{ID: 1, BuyerID: buyerID}}, nil
}

// OrdersForSeller returns predefined orders for given shop.
func (s OrderFacadeStub) OrdersForSeller(ctx context.Context, shop string) ([]model.Order, error) {
	if s.OrdersForSellerFn != nil {
		return s.OrdersForSellerFn(ctx, shop)
	}
	return []model.Order{{ID: 1, SellerShops: []string{shop}}}, nil
}

// MarkPaid executes configured payment handler.
func (s OrderFacadeStub) MarkPaid(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.MarkPaidFn != nil {
		return s.MarkPaidFn(ctx, orderID)
	}
	return &model.Order{ID: orderID, IsPaid: true}, nil
}

// MarkDelivered executes configured delivery handler.
func (s OrderFacadeStub) MarkDelivered(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.MarkDeliveredFn != nil {
		return s.MarkDeliveredFn(ctx, orderID)
	}
	return &model.Order{ID: orderID, IsPaid: true, IsDelivered: true}, nil
}

// CatalogFacadeStub simulates catalog reads.
type CatalogFacadeStub struct {
	ProductsFn     func(context.Context) ([]model.Product, error)
	ProductFn      func(context.Context, int64) (*model.Product, error)
	SalesSummaryFn func(context.Context, string) (*model.SalesSummary, error)
}

// Products returns stored catalog or default data.
func (s CatalogFacadeStub) Products(ctx context.Context) ([]model.Product, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx)
	}
	return []model.Product{{ID: 1, Shop: "shop", Name: "item", Price: 100, Stock: 1}}, nil
}

// Product returns one catalog item.
func (s CatalogFacadeStub) Product(ctx context.Context, id int64) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, id)
	}
	return &model.Product{ID: id, Shop: "shop", Name: "item", Price: 100, Stock: 1}, nil
}

// SalesSummary returns preconfigured projection.
func (s CatalogFacadeStub) SalesSummary(ctx context.Context, shop string) (*model.SalesSummary, error) {
	if s.SalesSummaryFn != nil {
		return s.SalesSummaryFn(ctx, shop)
	}
	return &model.SalesSummary{Shop: shop, Sales: 2, Revenue: 200}, nil
}

// MarketFacadeStub aggregates facade dependencies for HTTP layer tests.
type MarketFacadeStub struct {
	AuthFacadeStub
	OrderFacadeStub
	CatalogFacadeStub
}

// EventsRecorder captures order event notifications for assertions.
type EventsRecorder struct {
	mu        sync.Mutex
	Created   []int64
	Paid      []int64
	Delivered []int64
}

// OrderCreated records the created order id.
func (r *EventsRecorder) OrderCreated(_ context.Context, order *model.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Created = append(r.Created, order.ID)
}

// OrderPaid records the paid order id.
func (r *EventsRecorder) OrderPaid(_ context.Context, order *model.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Paid = append(r.Paid, order.ID)
}

// OrderDelivered records the delivered order id.
func (r *EventsRecorder) OrderDelivered(_ context.Context, order *model.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Delivered = append(r.Delivered, order.ID)
}

// PublisherStub collects published envelopes.
type PublisherStub struct {
	mu        sync.Mutex
	Published []events.Envelope
	PublishFn func(context.Context, events.Envelope) error
	CloseErr  error
}

// Publish stores the envelope or delegates to override.
func (p *PublisherStub) Publish(ctx context.Context, evt events.Envelope) error {
	if p.PublishFn != nil {
		return p.PublishFn(ctx, evt)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Published = append(p.Published, evt)
	return nil
}

// Close returns the configured error.
func (p *PublisherStub) Close() error { return p.CloseErr }

// Events returns a copy of the collected envelopes.
func (p *PublisherStub) Events() []events.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Envelope(nil), p.Published...)
}

// SummaryCacheStub stores summaries in a map for cache-aside tests.
type SummaryCacheStub struct {
	Data map[string]*model.SalesSummary
	Sets int
	Gets int
}

// NewSummaryCacheStub constructs the stub with an initialized map.
func NewSummaryCacheStub() *SummaryCacheStub {
	return &SummaryCacheStub{Data: make(map[string]*model.SalesSummary)}
}

// Get returns the stored summary when present.
func (s *SummaryCacheStub) Get(_ context.Context, shop string) (*model.SalesSummary, bool) {
	s.Gets++
	summary, ok := s.Data[shop]
	return summary, ok
}

// Set stores the summary.
func (s *SummaryCacheStub) Set(_ context.Context, shop string, summary *model.SalesSummary) {
	s.Sets++
	s.Data[shop] = summary
}
