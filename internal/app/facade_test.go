package app

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/mkurbatov/craftmarket/internal/domain/errors"
	"github.com/mkurbatov/craftmarket/internal/domain/model"
	testhelpers "github.com/mkurbatov/craftmarket/internal/test"
	"github.com/mkurbatov/craftmarket/internal/usecase"
)

func newTestFacade() (*MarketplaceFacade, *testhelpers.Ledger, *testhelpers.OrderRepositoryStub) {
	accounts := testhelpers.NewAccountRepositoryStub()
	authUC := usecase.NewAuthUseCase(accounts, testhelpers.HasherStub{}, &testhelpers.StrategyStub{}, 1000)

	ledger := testhelpers.NewLedger()
	ledger.AddAccount(model.Account{ID: 1, Name: "buyer", Email: "buyer@example.com", Role: model.RoleBuyer, Balance: 1000})
	ledger.AddAccount(model.Account{ID: 2, Name: "seller", Email: "seller@example.com", Role: model.RoleSeller, Shop: "workshop"})
	ledger.AddProduct(model.Product{ID: 10, Shop: "workshop", Name: "chair", Price: 50, Stock: 5})
	settlementUC := usecase.NewSettlementUseCase(ledger, usecase.ShippingPolicy{FreeThreshold: 1, FlatFee: 0}, 0, nil)

	orders := testhelpers.NewOrderRepositoryStub(&model.Order{ID: 7, BuyerID: 1, SellerShops: []string{"workshop"}})
	lifecycleUC := usecase.NewLifecycleUseCase(orders, nil)

	products := &testhelpers.ProductRepositoryStub{Products: []model.Product{{ID: 10, Shop: "workshop", Name: "chair", Price: 50, Stock: 5}}}
	queryUC := usecase.NewQueryUseCase(orders, products, nil)

	return NewMarketplaceFacade(authUC, settlementUC, lifecycleUC, queryUC), ledger, orders
}

func TestMarketplaceFacadeAuth(t *testing.T) {
	facade, _, _ := newTestFacade()

	token, err := facade.Register(context.Background(), "Jane", "jane@example.com", "pw", model.RoleBuyer, "")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if token != "token" {
		t.Fatalf("unexpected token %q", token)
	}

	if _, err := facade.Authenticate(context.Background(), "jane@example.com", "pw"); err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if _, err := facade.Authenticate(context.Background(), "jane@example.com", "bad"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	claims, err := facade.ParseToken("anything")
	if err != nil {
		t.Fatalf("parse token returned error: %v", err)
	}
	if claims.AccountID != 1 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestMarketplaceFacadeSettlement(t *testing.T) {
	facade, ledger, _ := newTestFacade()

	order, err := facade.PlaceOrder(context.Background(), 1, []model.CartLine{{ProductID: 10, Quantity: 2}}, model.ShippingAddress{}, "card")
	if err != nil {
		t.Fatalf("place order returned error: %v", err)
	}
	if order.TotalPrice != 100 {
		t.Fatalf("unexpected total: %d", order.TotalPrice)
	}

	buyer, _ := ledger.Account(1)
	if buyer.Balance != 900 {
		t.Fatalf("expected buyer debited, balance %d", buyer.Balance)
	}
	seller, _ := ledger.Account(2)
	if seller.Balance != 100 {
		t.Fatalf("expected seller credited, balance %d", seller.Balance)
	}
}

func TestMarketplaceFacadeLifecycleAndQueries(t *testing.T) {
	facade, _, _ := newTestFacade()

	order, err := facade.MarkPaid(context.Background(), 7)
	if err != nil || !order.IsPaid {
		t.Fatalf("unexpected mark paid result: %+v %v", order, err)
	}
	order, err = facade.MarkDelivered(context.Background(), 7)
	if err != nil || !order.IsDelivered {
		t.Fatalf("unexpected mark delivered result: %+v %v", order, err)
	}

	if _, err := facade.Order(context.Background(), 7); err != nil {
		t.Fatalf("order lookup failed: %v", err)
	}
	mine, err := facade.OrdersForBuyer(context.Background(), 1)
	if err != nil || len(mine) != 1 {
		t.Fatalf("unexpected buyer orders: %v %v", mine, err)
	}
	sold, err := facade.OrdersForSeller(context.Background(), "workshop")
	if err != nil || len(sold) != 1 {
		t.Fatalf("unexpected seller orders: %v %v", sold, err)
	}

	products, err := facade.Products(context.Background())
	if err != nil || len(products) != 1 {
		t.Fatalf("unexpected products: %v %v", products, err)
	}
	if _, err := facade.Product(context.Background(), 10); err != nil {
		t.Fatalf("product lookup failed: %v", err)
	}
	summary, err := facade.SalesSummary(context.Background(), "workshop")
	if err != nil || summary.Shop != "workshop" {
		t.Fatalf("unexpected summary: %v %v", summary, err)
	}
}
