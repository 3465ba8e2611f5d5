package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	domainErrors "github.com/mkurbatov/craftmarket/internal/domain/errors"
	"github.com/mkurbatov/craftmarket/internal/domain/model"
	testhelpers "github.com/mkurbatov/craftmarket/internal/test"
)

const (
	buyerID       = int64(1)
	sellerAlphaID = int64(2)
	sellerBetaID  = int64(3)
)

func newTestLedger(buyerBalance int64) *testhelpers.Ledger {
	ledger := testhelpers.NewLedger()
	ledger.AddAccount(model.Account{ID: buyerID, Name: "buyer", Email: "buyer@example.com", Role: model.RoleBuyer, Balance: buyerBalance})
	ledger.AddAccount(model.Account{ID: sellerAlphaID, Name: "alpha owner", Email: "alpha@example.com", Role: model.RoleSeller, Shop: "alpha", Balance: 0})
	ledger.AddAccount(model.Account{ID: sellerBetaID, Name: "beta owner", Email: "beta@example.com", Role: model.RoleSeller, Shop: "beta", Balance: 0})
	ledger.AddProduct(model.Product{ID: 10, Shop: "alpha", Name: "chair", Price: 50, Stock: 5})
	ledger.AddProduct(model.Product{ID: 11, Shop: "beta", Name: "vase", Price: 30, Stock: 5})
	ledger.AddProduct(model.Product{ID: 12, Shop: "alpha", Name: "lamp", Price: 20, Stock: 5})
	return ledger
}

func testAddress() model.ShippingAddress {
	return model.ShippingAddress{FullName: "Jane Doe", Address: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US"}
}

func TestSettlementPlaceOrderTotals(t *testing.T) {
	ledger := newTestLedger(140)
	recorder := &testhelpers.EventsRecorder{}
	uc := NewSettlementUseCase(ledger, ShippingPolicy{FreeThreshold: 200, FlatFee: 10}, 0, recorder)

	order, err := uc.PlaceOrder(context.Background(), buyerID, []model.CartLine{
		{ProductID: 10, Quantity: 2},
		{ProductID: 11, Quantity: 1},
	}, testAddress(), "card")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.ItemsPrice != 130 || order.ShippingPrice != 10 || order.TotalPrice != 140 {
		t.Fatalf("unexpected totals: items=%d shipping=%d total=%d", order.ItemsPrice, order.ShippingPrice, order.TotalPrice)
	}
	if order.Status() != model.OrderStatusCreated {
		t.Fatalf("expected created status, got %s", order.Status())
	}
	if len(order.SellerShops) != 2 || order.SellerShops[0] != "alpha" || order.SellerShops[1] != "beta" {
		t.Fatalf("unexpected seller shops: %v", order.SellerShops)
	}

	buyer, _ := ledger.Account(buyerID)
	if buyer.Balance != 0 {
		t.Fatalf("expected buyer balance 0, got %d", buyer.Balance)
	}
	alpha, _ := ledger.Account(sellerAlphaID)
	if alpha.Balance != 100 {
		t.Fatalf("expected alpha credited 100, got %d", alpha.Balance)
	}
	beta, _ := ledger.Account(sellerBetaID)
	if beta.Balance != 30 {
		t.Fatalf("expected beta credited 30, got %d", beta.Balance)
	}

	chair, _ := ledger.Product(10)
	if chair.Stock != 3 || chair.Sales != 2 || chair.Revenue != 100 {
		t.Fatalf("unexpected chair counters: %+v", chair)
	}
	vase, _ := ledger.Product(11)
	if vase.Stock != 4 || vase.Sales != 1 || vase.Revenue != 30 {
		t.Fatalf("unexpected vase counters: %+v", vase)
	}

	if len(recorder.Created) != 1 || recorder.Created[0] != order.ID {
		t.Fatalf("expected created event for order %d, got %v", order.ID, recorder.Created)
	}
}

func TestSettlementFreeShippingAboveThreshold(t *testing.T) {
	ledger := newTestLedger(1000)
	uc := NewSettlementUseCase(ledger, ShippingPolicy{FreeThreshold: 100, FlatFee: 10}, 0, nil)

	order, err := uc.PlaceOrder(context.Background(), buyerID, []model.CartLine{
		{ProductID: 10, Quantity: 2},
	}, testAddress(), "card")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ShippingPrice != 0 || order.TotalPrice != 100 {
		t.Fatalf("expected free shipping at threshold, got shipping=%d total=%d", order.ShippingPrice, order.TotalPrice)
	}
}

func TestSettlementRepricesFromCatalog(t *testing.T) {
	ledger := newTestLedger(1000)
	uc := NewSettlementUseCase(ledger, ShippingPolicy{FreeThreshold: 10000, FlatFee: 10}, 0, nil)

	// The claimed unit price on the line must never influence the charge.
	order, err := uc.PlaceOrder(context.Background(), buyerID, []model.CartLine{
		{ProductID: 11, Quantity: 1, ClaimedUnitPrice: 1},
	}, testAddress(), "card")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ItemsPrice != 30 {
		t.Fatalf("expected catalog price 30, got %d", order.ItemsPrice)
	}
	if order.Items[0].UnitPrice != 30 {
		t.Fatalf("expected frozen catalog unit price 30, got %d", order.Items[0].UnitPrice)
	}
}

func TestSettlementSellerAttribution(t *testing.T) {
	ledger := newTestLedger(1000)
	uc := NewSettlementUseCase(ledger, ShippingPolicy{FreeThreshold: 1, FlatFee: 0}, 0, nil)

	// Lines deliberately interleave shops so that any positional pairing of
	// deduplicated product and seller lists would pay the wrong account.
	_, err := uc.PlaceOrder(context.Background(), buyerID, []model.CartLine{
		{ProductID: 11, Quantity: 2}, // beta, 60
		{ProductID: 10, Quantity: 1}, // alpha, 50
		{ProductID: 12, Quantity: 3}, // alpha, 60
	}, testAddress(), "card")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	alpha, _ := ledger.Account(sellerAlphaID)
	if alpha.Balance != 110 {
		t.Fatalf("expected alpha credited 110, got %d", alpha.Balance)
	}
	beta, _ := ledger.Account(sellerBetaID)
	if beta.Balance != 60 {
		t.Fatalf("expected beta credited 60, got %d", beta.Balance)
	}
}

func TestSettlementInsufficientBalanceMutatesNothing(t *testing.T) {
	ledger := newTestLedger(100)
	recorder := &testhelpers.EventsRecorder{}
	uc := NewSettlementUseCase(ledger, ShippingPolicy{FreeThreshold: 10000, FlatFee: 10}, 0, recorder)

	_, err := uc.PlaceOrder(context.Background(), buyerID, []model.CartLine{
		{ProductID: 10, Quantity: 2},
		{ProductID: 11, Quantity: 1},
	}, testAddress(), "card")
	if !errors.Is(err, domainErrors.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}

	buyer, _ := ledger.Account(buyerID)
	if buyer.Balance != 100 {
		t.Fatalf("buyer balance changed on failed settlement: %d", buyer.Balance)
	}
	chair, _ := ledger.Product(10)
	if chair.Stock != 5 || chair.Sales != 0 {
		t.Fatalf("product counters changed on failed settlement: %+v", chair)
	}
	if ledger.OrderCount() != 0 {
		t.Fatal("order persisted despite failed settlement")
	}
	if len(recorder.Created) != 0 {
		t.Fatal("event published despite failed settlement")
	}
}

func TestSettlementInsufficientStock(t *testing.T) {
	ledger := newTestLedger(10000)
	uc := NewSettlementUseCase(ledger, ShippingPolicy{FreeThreshold: 1, FlatFee: 0}, 0, nil)

	_, err := uc.PlaceOrder(context.Background(), buyerID, []model.CartLine{
		{ProductID: 10, Quantity: 6},
	}, testAddress(), "card")
	if !errors.Is(err, domainErrors.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	chair, _ := ledger.Product(10)
	if chair.Stock != 5 {
		t.Fatalf("stock changed on failed settlement: %d", chair.Stock)
	}
	if ledger.OrderCount() != 0 {
		t.Fatal("order persisted despite failed settlement")
	}
}

func TestSettlementAggregatesDuplicateLines(t *testing.T) {
	ledger := newTestLedger(10000)
	uc := NewSettlementUseCase(ledger, ShippingPolicy{FreeThreshold: 1, FlatFee: 0}, 0, nil)

	// Two lines for the same product must be checked against stock together.
	_, err := uc.PlaceOrder(context.Background(), buyerID, []model.CartLine{
		{ProductID: 10, Quantity: 3},
		{ProductID: 10, Quantity: 3},
	}, testAddress(), "card")
	if !errors.Is(err, domainErrors.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock for aggregated lines, got %v", err)
	}
}

func TestSettlementMissingItem(t *testing.T) {
	ledger := newTestLedger(10000)
	uc := NewSettlementUseCase(ledger, ShippingPolicy{}, 0, nil)

	_, err := uc.PlaceOrder(context.Background(), buyerID, []model.CartLine{
		{ProductID: 99, Quantity: 1},
	}, testAddress(), "card")
	if !errors.Is(err, domainErrors.ErrItemNotFound) {
		t.Fatalf("expected item not found, got %v", err)
	}
}

func TestSettlementMissingSeller(t *testing.T) {
	ledger := newTestLedger(10000)
	ledger.AddProduct(model.Product{ID: 13, Shop: "orphan", Name: "ghost", Price: 10, Stock: 5})
	uc := NewSettlementUseCase(ledger, ShippingPolicy{}, 0, nil)

	_, err := uc.PlaceOrder(context.Background(), buyerID, []model.CartLine{
		{ProductID: 13, Quantity: 1},
	}, testAddress(), "card")
	if !errors.Is(err, domainErrors.ErrSellerNotFound) {
		t.Fatalf("expected seller not found, got %v", err)
	}
	if ledger.OrderCount() != 0 {
		t.Fatal("order persisted despite failed settlement")
	}
}

func TestSettlementCartValidation(t *testing.T) {
	ledger := newTestLedger(10000)
	uc := NewSettlementUseCase(ledger, ShippingPolicy{}, 0, nil)

	if _, err := uc.PlaceOrder(context.Background(), buyerID, nil, testAddress(), "card"); !errors.Is(err, domainErrors.ErrEmptyCart) {
		t.Fatalf("expected empty cart error, got %v", err)
	}
	if _, err := uc.PlaceOrder(context.Background(), buyerID, []model.CartLine{{ProductID: 10, Quantity: 0}}, testAddress(), "card"); !errors.Is(err, domainErrors.ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity error, got %v", err)
	}
	if _, err := uc.PlaceOrder(context.Background(), buyerID, []model.CartLine{{ProductID: 0, Quantity: 1}}, testAddress(), "card"); !errors.Is(err, domainErrors.ErrItemNotFound) {
		t.Fatalf("expected item not found error, got %v", err)
	}
}

func TestSettlementRetriesOnConflict(t *testing.T) {
	ledger := newTestLedger(1000)
	ledger.Conflicts = 2
	uc := NewSettlementUseCase(ledger, ShippingPolicy{FreeThreshold: 1, FlatFee: 0}, 3, nil)

	order, err := uc.PlaceOrder(context.Background(), buyerID, []model.CartLine{
		{ProductID: 10, Quantity: 1},
	}, testAddress(), "card")
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if order == nil || order.ID == 0 {
		t.Fatal("expected committed order after retries")
	}
}

func TestSettlementConflictBudgetExhausted(t *testing.T) {
	ledger := newTestLedger(1000)
	ledger.Conflicts = 10
	recorder := &testhelpers.EventsRecorder{}
	uc := NewSettlementUseCase(ledger, ShippingPolicy{FreeThreshold: 1, FlatFee: 0}, 2, recorder)

	_, err := uc.PlaceOrder(context.Background(), buyerID, []model.CartLine{
		{ProductID: 10, Quantity: 1},
	}, testAddress(), "card")
	if !errors.Is(err, domainErrors.ErrConcurrentModification) {
		t.Fatalf("expected concurrent modification error, got %v", err)
	}
	if len(recorder.Created) != 0 {
		t.Fatal("event published despite exhausted retries")
	}
}

func TestSettlementConcurrentLastUnit(t *testing.T) {
	ledger := newTestLedger(10000)
	ledger.AddProduct(model.Product{ID: 20, Shop: "alpha", Name: "one-off", Price: 40, Stock: 1})
	uc := NewSettlementUseCase(ledger, ShippingPolicy{FreeThreshold: 1, FlatFee: 0}, 0, nil)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.PlaceOrder(context.Background(), buyerID, []model.CartLine{
				{ProductID: 20, Quantity: 1},
			}, testAddress(), "card")
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, domainErrors.ErrInsufficientStock):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 || lost != 1 {
		t.Fatalf("expected exactly one winner, got %d winners and %d losers", won, lost)
	}

	p, _ := ledger.Product(20)
	if p.Stock != 0 || p.Sales != 1 {
		t.Fatalf("unexpected counters after race: %+v", p)
	}
	if ledger.OrderCount() != 1 {
		t.Fatalf("expected single committed order, got %d", ledger.OrderCount())
	}
}
