package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/mkurbatov/craftmarket/internal/domain/errors"
	"github.com/mkurbatov/craftmarket/internal/domain/model"
	testhelpers "github.com/mkurbatov/craftmarket/internal/test"
)

func TestQueryOrderReads(t *testing.T) {
	repo := testhelpers.NewOrderRepositoryStub(
		&model.Order{ID: 1, BuyerID: 5, SellerShops: []string{"alpha"}},
		&model.Order{ID: 2, BuyerID: 5, SellerShops: []string{"beta"}},
		&model.Order{ID: 3, BuyerID: 6, SellerShops: []string{"alpha", "beta"}},
	)
	uc := NewQueryUseCase(repo, &testhelpers.ProductRepositoryStub{}, nil)

	order, err := uc.Order(context.Background(), 1)
	if err != nil || order.ID != 1 {
		t.Fatalf("unexpected result: %v %v", order, err)
	}
	if _, err := uc.Order(context.Background(), 99); !errors.Is(err, domainErrors.ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", err)
	}

	mine, err := uc.OrdersForBuyer(context.Background(), 5)
	if err != nil || len(mine) != 2 {
		t.Fatalf("expected two buyer orders, got %d (%v)", len(mine), err)
	}
	sold, err := uc.OrdersForSeller(context.Background(), "alpha")
	if err != nil || len(sold) != 2 {
		t.Fatalf("expected two shop orders, got %d (%v)", len(sold), err)
	}
}

func TestQueryCatalogReads(t *testing.T) {
	products := &testhelpers.ProductRepositoryStub{Products: []model.Product{
		{ID: 1, Shop: "alpha", Name: "chair", Price: 50, Stock: 3},
		{ID: 2, Shop: "beta", Name: "vase", Price: 30, Stock: 1},
	}}
	uc := NewQueryUseCase(testhelpers.NewOrderRepositoryStub(), products, nil)

	list, err := uc.Products(context.Background())
	if err != nil || len(list) != 2 {
		t.Fatalf("expected two products, got %d (%v)", len(list), err)
	}
	p, err := uc.Product(context.Background(), 2)
	if err != nil || p.Name != "vase" {
		t.Fatalf("unexpected product: %v %v", p, err)
	}
	if _, err := uc.Product(context.Background(), 42); !errors.Is(err, domainErrors.ErrItemNotFound) {
		t.Fatalf("expected item not found, got %v", err)
	}
}

func TestQuerySalesSummaryCacheAside(t *testing.T) {
	products := &testhelpers.ProductRepositoryStub{Summary: &model.SalesSummary{Shop: "alpha", Sales: 4, Revenue: 180}}
	cache := testhelpers.NewSummaryCacheStub()
	uc := NewQueryUseCase(testhelpers.NewOrderRepositoryStub(), products, cache)

	first, err := uc.SalesSummary(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Sales != 4 || first.Revenue != 180 {
		t.Fatalf("unexpected summary: %+v", first)
	}
	if cache.Sets != 1 {
		t.Fatalf("expected summary to be cached, sets=%d", cache.Sets)
	}

	if _, err := uc.SalesSummary(context.Background(), "alpha"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if products.SummaryCalls != 1 {
		t.Fatalf("expected repository hit once, got %d", products.SummaryCalls)
	}
}

func TestQuerySalesSummaryNilCache(t *testing.T) {
	products := &testhelpers.ProductRepositoryStub{Summary: &model.SalesSummary{Shop: "beta", Sales: 1, Revenue: 30}}
	uc := NewQueryUseCase(testhelpers.NewOrderRepositoryStub(), products, nil)

	for i := 0; i < 2; i++ {
		if _, err := uc.SalesSummary(context.Background(), "beta"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if products.SummaryCalls != 2 {
		t.Fatalf("nop cache must fall through every time, got %d calls", products.SummaryCalls)
	}
}
