package usecase

import (
	"context"

	"github.com/mkurbatov/craftmarket/internal/domain/model"
	"github.com/mkurbatov/craftmarket/internal/domain/repository"
)

// SummaryCache is a best-effort cache for seller sales summaries. A miss or
// a cache failure falls through to the repository.
type SummaryCache interface {
	Get(ctx context.Context, shop string) (*model.SalesSummary, bool)
	Set(ctx context.Context, shop string, summary *model.SalesSummary)
}

// NopSummaryCache never hits.
type NopSummaryCache struct{}

func (NopSummaryCache) Get(context.Context, string) (*model.SalesSummary, bool) { return nil, false }
func (NopSummaryCache) Set(context.Context, string, *model.SalesSummary)        {}

// QueryUseCase serves the read paths: orders by id/buyer/seller, catalog
// reads and the seller sales summary projection.
type QueryUseCase struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	cache    SummaryCache
}

// NewQueryUseCase constructs QueryUseCase.
func NewQueryUseCase(orders repository.OrderRepository, products repository.ProductRepository, cache SummaryCache) *QueryUseCase {
	if cache == nil {
		cache = NopSummaryCache{}
	}
	return &QueryUseCase{orders: orders, products: products, cache: cache}
}

// Order returns one order by id.
func (u *QueryUseCase) Order(ctx context.Context, id int64) (*model.Order, error) {
	return u.orders.GetByID(ctx, id)
}

// OrdersForBuyer returns the buyer's orders, newest first.
func (u *QueryUseCase) OrdersForBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	return u.orders.ListForBuyer(ctx, buyerID)
}

// OrdersForSeller returns orders that touched the given shop, newest first.
func (u *QueryUseCase) OrdersForSeller(ctx context.Context, shop string) ([]model.Order, error) {
	return u.orders.ListForSeller(ctx, shop)
}

// Products returns the catalog.
func (u *QueryUseCase) Products(ctx context.Context) ([]model.Product, error) {
	return u.products.List(ctx)
}

// Product returns one catalog item by id.
func (u *QueryUseCase) Product(ctx context.Context, id int64) (*model.Product, error) {
	return u.products.GetByID(ctx, id)
}

// SalesSummary aggregates cumulative sales and revenue for one shop,
// cache-aside over the catalog counters.
func (u *QueryUseCase) SalesSummary(ctx context.Context, shop string) (*model.SalesSummary, error) {
	if summary, ok := u.cache.Get(ctx, shop); ok {
		return summary, nil
	}
	summary, err := u.products.SalesSummary(ctx, shop)
	if err != nil {
		return nil, err
	}
	u.cache.Set(ctx, shop, summary)
	return summary, nil
}
