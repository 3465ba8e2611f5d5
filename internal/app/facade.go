package app

import (
	"context"

	"github.com/mkurbatov/craftmarket/internal/domain/model"
	pkgAuth "github.com/mkurbatov/craftmarket/internal/pkg/auth"
	"github.com/mkurbatov/craftmarket/internal/usecase"
)

type MarketplaceFacade struct {
	auth       *usecase.AuthUseCase
	settlement *usecase.SettlementUseCase
	lifecycle  *usecase.LifecycleUseCase
	queries    *usecase.QueryUseCase
}

func NewMarketplaceFacade(auth *usecase.AuthUseCase, settlement *usecase.SettlementUseCase, lifecycle *usecase.LifecycleUseCase, queries *usecase.QueryUseCase) *MarketplaceFacade {
	return &MarketplaceFacade{auth: auth, settlement: settlement, lifecycle: lifecycle, queries: queries}
}

func (f *MarketplaceFacade) Register(ctx context.Context, name, email, password string, role model.Role, shop string) (string, error) {
	_, token, err := f.auth.Register(ctx, name, email, password, role, shop)
	return token, err
}

func (f *MarketplaceFacade) Authenticate(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *MarketplaceFacade) ParseToken(token string) (*pkgAuth.Claims, error) {
	return f.auth.ParseToken(token)
}

func (f *MarketplaceFacade) PlaceOrder(ctx context.Context, buyerID int64, lines []model.CartLine, addr model.ShippingAddress, paymentMethod string) (*model.Order, error) {
	return f.settlement.PlaceOrder(ctx, buyerID, lines, addr, paymentMethod)
}

func (f *MarketplaceFacade) Order(ctx context.Context, id int64) (*model.Order, error) {
	return f.queries.Order(ctx, id)
}

func (f *MarketplaceFacade) OrdersForBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	return f.queries.OrdersForBuyer(ctx, buyerID)
}

func (f *MarketplaceFacade) OrdersForSeller(ctx context.Context, shop string) ([]model.Order, error) {
	return f.queries.OrdersForSeller(ctx, shop)
}

func (f *MarketplaceFacade) MarkPaid(ctx context.Context, orderID int64) (*model.Order, error) {
	return f.lifecycle.MarkPaid(ctx, orderID)
}

func (f *MarketplaceFacade) MarkDelivered(ctx context.Context, orderID int64) (*model.Order, error) {
	return f.lifecycle.MarkDelivered(ctx, orderID)
}

func (f *MarketplaceFacade) Products(ctx context.Context) ([]model.Product, error) {
	return f.queries.Products(ctx)
}

func (f *MarketplaceFacade) Product(ctx context.Context, id int64) (*model.Product, error) {
	return f.queries.Product(ctx, id)
}

func (f *MarketplaceFacade) SalesSummary(ctx context.Context, shop string) (*model.SalesSummary, error) {
	return f.queries.SalesSummary(ctx, shop)
}
