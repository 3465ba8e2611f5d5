package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/mkurbatov/craftmarket/internal/domain/errors"
	"github.com/mkurbatov/craftmarket/internal/domain/model"
	"github.com/mkurbatov/craftmarket/internal/domain/repository"
)

// Ledger is an in-memory settlement store. Each WithinSettlement call runs
// under one lock against a snapshot: a returned error rolls every mutation
// back, mirroring the transactional contract of the real store.
type Ledger struct {
	mu sync.Mutex

	Accounts map[int64]*model.Account
	Products map[int64]*model.Product
	Orders   []*model.Order

	NextOrderID int64

	// Conflicts makes the next N settlement attempts fail with
	// ErrConcurrentModification before the callback runs.
	Conflicts int
	// Err, when set, fails every settlement attempt.
	Err error
}

// NewLedger constructs an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		Accounts:    make(map[int64]*model.Account),
		Products:    make(map[int64]*model.Product),
		NextOrderID: 1,
	}
}

// AddAccount stores a copy of the account.
func (l *Ledger) AddAccount(acc model.Account) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Accounts[acc.ID] = &acc
}

// AddProduct stores a copy of the product.
func (l *Ledger) AddProduct(p model.Product) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Products[p.ID] = &p
}

// Account returns a copy of the stored account.
func (l *Ledger) Account(id int64) (model.Account, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acc, ok := l.Accounts[id]
	if !ok {
		return model.Account{}, false
	}
	return *acc, true
}

// Product returns a copy of the stored product.
func (l *Ledger) Product(id int64) (model.Product, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.Products[id]
	if !ok {
		return model.Product{}, false
	}
	return *p, true
}

// OrderCount reports how many orders committed.
func (l *Ledger) OrderCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Orders)
}

// WithinSettlement implements repository.UnitOfWork over the in-memory state.
func (l *Ledger) WithinSettlement(ctx context.Context, fn func(ctx context.Context, tx repository.SettlementTx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Err != nil {
		return l.Err
	}
	if l.Conflicts > 0 {
		l.Conflicts--
		return domainErrors.ErrConcurrentModification
	}

	snapshot := l.snapshot()
	if err := fn(ctx, &ledgerTx{ledger: l}); err != nil {
		l.restore(snapshot)
		return err
	}
	return nil
}

type ledgerState struct {
	accounts    map[int64]*model.Account
	products    map[int64]*model.Product
	orders      []*model.Order
	nextOrderID int64
}

func (l *Ledger) snapshot() ledgerState {
	s := ledgerState{
		accounts:    make(map[int64]*model.Account, len(l.Accounts)),
		products:    make(map[int64]*model.Product, len(l.Products)),
		orders:      append([]*model.Order(nil), l.Orders...),
		nextOrderID: l.NextOrderID,
	}
	for id, acc := range l.Accounts {
		cp := *acc
		s.accounts[id] = &cp
	}
	for id, p := range l.Products {
		cp := *p
		s.products[id] = &cp
	}
	return s
}

func (l *Ledger) restore(s ledgerState) {
	l.Accounts = s.accounts
	l.Products = s.products
	l.Orders = s.orders
	l.NextOrderID = s.nextOrderID
}

type ledgerTx struct {
	ledger *Ledger
}

func (t *ledgerTx) BuyerForUpdate(ctx context.Context, id int64) (*model.Account, error) {
	acc, ok := t.ledger.Accounts[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (t *ledgerTx) ProductsForUpdate(ctx context.Context, ids []int64) ([]model.Product, error) {
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		p, ok := t.ledger.Products[id]
		if !ok {
			return nil, domainErrors.ErrItemNotFound
		}
		out = append(out, *p)
	}
	return out, nil
}

func (t *ledgerTx) SellersByShop(ctx context.Context, shops []string) (map[string]*model.Account, error) {
	out := make(map[string]*model.Account, len(shops))
	for _, shop := range shops {
		var found *model.Account
		for _, acc := range t.ledger.Accounts {
			if acc.IsSeller() && acc.Shop == shop {
				cp := *acc
				found = &cp
				break
			}
		}
		if found == nil {
			return nil, domainErrors.ErrSellerNotFound
		}
		out[shop] = found
	}
	return out, nil
}

func (t *ledgerTx) ReserveAndSell(ctx context.Context, productID, quantity, unitRevenue int64) (*model.ProductCounters, error) {
	p, ok := t.ledger.Products[productID]
	if !ok {
		return nil, domainErrors.ErrItemNotFound
	}
	if p.Stock < quantity {
		return nil, domainErrors.ErrInsufficientStock
	}
	p.Stock -= quantity
	p.Sales += quantity
	p.Revenue += quantity * unitRevenue
	return &model.ProductCounters{Stock: p.Stock, Sales: p.Sales, Revenue: p.Revenue}, nil
}

func (t *ledgerTx) Debit(ctx context.Context, accountID, amount int64) (int64, error) {
	acc, ok := t.ledger.Accounts[accountID]
	if !ok {
		return 0, domainErrors.ErrNotFound
	}
	if acc.Balance < amount {
		return 0, domainErrors.ErrInsufficientBalance
	}
	acc.Balance -= amount
	return acc.Balance, nil
}

func (t *ledgerTx) Credit(ctx context.Context, accountID, amount int64) (int64, error) {
	acc, ok := t.ledger.Accounts[accountID]
	if !ok {
		return 0, domainErrors.ErrNotFound
	}
	acc.Balance += amount
	return acc.Balance, nil
}

func (t *ledgerTx) InsertOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	cp := *order
	cp.ID = t.ledger.NextOrderID
	t.ledger.NextOrderID++
	cp.CreatedAt = time.Now()
	cp.Items = append([]model.OrderItem(nil), order.Items...)
	cp.SellerShops = append([]string(nil), order.SellerShops...)
	t.ledger.Orders = append(t.ledger.Orders, &cp)
	result := cp
	return &result, nil
}

var _ repository.UnitOfWork = (*Ledger)(nil)
