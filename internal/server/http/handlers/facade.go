package handlers

import (
	"context"

	"github.com/mkurbatov/craftmarket/internal/domain/model"
	pkgAuth "github.com/mkurbatov/craftmarket/internal/pkg/auth"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, name, email, password string, role model.Role, shop string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (*pkgAuth.Claims, error)
}

// OrderFacade encapsulates the settlement and lifecycle operations exposed
// via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, buyerID int64, lines []model.CartLine, addr model.ShippingAddress, paymentMethod string) (*model.Order, error)
	Order(ctx context.Context, id int64) (*model.Order, error)
	OrdersForBuyer(ctx context.Context, buyerID int64) ([]model.Order, error)
	OrdersForSeller(ctx context.Context, shop string) ([]model.Order, error)
	MarkPaid(ctx context.Context, orderID int64) (*model.Order, error)
	MarkDelivered(ctx context.Context, orderID int64) (*model.Order, error)
}

// CatalogFacade provides catalog reads and the seller summary projection.
type CatalogFacade interface {
	Products(ctx context.Context) ([]model.Product, error)
	Product(ctx context.Context, id int64) (*model.Product, error)
	SalesSummary(ctx context.Context, shop string) (*model.SalesSummary, error)
}

// MarketFacade aggregates the full set of operations used across handlers.
type MarketFacade interface {
	AuthFacade
	OrderFacade
	CatalogFacade
}
