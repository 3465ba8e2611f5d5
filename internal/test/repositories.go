package test

import (
	"context"
	"time"

	domainErrors "github.com/mkurbatov/craftmarket/internal/domain/errors"
	"github.com/mkurbatov/craftmarket/internal/domain/model"
)

// AccountRepositoryStub stores accounts in-memory for tests.
type AccountRepositoryStub struct {
	ByEmail map[string]*model.Account
	ByID    map[int64]*model.Account
	Next    int64
	Err     error
}

// NewAccountRepositoryStub constructs stub repository with initialized maps.
func NewAccountRepositoryStub() *AccountRepositoryStub {
	return &AccountRepositoryStub{
		ByEmail: make(map[string]*model.Account),
		ByID:    make(map[int64]*model.Account),
		Next:    1,
	}
}

// Create registers account unless email is taken or stub has explicit error.
func (s *AccountRepositoryStub) Create(ctx context.Context, name, email, passwordHash string, role model.Role, shop string, startingBalance int64) (*model.Account, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.ByEmail == nil {
		s.ByEmail = make(map[string]*model.Account)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.Account)
	}
	if _, exists := s.ByEmail[email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	acc := &model.Account{
		ID:           s.Next,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Shop:         shop,
		Balance:      startingBalance,
		CreatedAt:    time.Now(),
	}
	s.Next++
	s.ByEmail[email] = acc
	s.ByID[acc.ID] = acc
	return acc, nil
}

// GetByEmail fetches account by email or returns not found.
func (s *AccountRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if acc, ok := s.ByEmail[email]; ok {
		return acc, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches account by identifier or returns not found.
func (s *AccountRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if acc, ok := s.ByID[id]; ok {
		return acc, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ProductRepositoryStub serves catalog reads from configured data.
type ProductRepositoryStub struct {
	GetByIDFn      func(context.Context, int64) (*model.Product, error)
	ListFn         func(context.Context) ([]model.Product, error)
	SalesSummaryFn func(context.Context, string) (*model.SalesSummary, error)

	Products     []model.Product
	Summary      *model.SalesSummary
	SummaryCalls int
}

// GetByID returns matched product either via override or stored slice.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	for _, p := range s.Products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, domainErrors.ErrItemNotFound
}

// List returns products from configured slice.
func (s *ProductRepositoryStub) List(ctx context.Context) ([]model.Product, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return s.Products, nil
}

// SalesSummary counts invocations and returns configured summary.
func (s *ProductRepositoryStub) SalesSummary(ctx context.Context, shop string) (*model.SalesSummary, error) {
	s.SummaryCalls++
	if s.SalesSummaryFn != nil {
		return s.SalesSummaryFn(ctx, shop)
	}
	if s.Summary != nil {
		return s.Summary, nil
	}
	return &model.SalesSummary{Shop: shop}, nil
}

// OrderRepositoryStub keeps orders in-memory and mimics the conditional
// lifecycle writes of the real store.
type OrderRepositoryStub struct {
	GetByIDFn       func(context.Context, int64) (*model.Order, error)
	ListForBuyerFn  func(context.Context, int64) ([]model.Order, error)
	ListForSellerFn func(context.Context, string) ([]model.Order, error)
	MarkPaidFn      func(context.Context, int64) (*model.Order, bool, error)
	MarkDeliveredFn func(context.Context, int64) (*model.Order, bool, error)

	Orders map[int64]*model.Order
}

// NewOrderRepositoryStub constructs stub repository with initialized map.
func NewOrderRepositoryStub(orders ...*model.Order) *OrderRepositoryStub {
	s := &OrderRepositoryStub{Orders: make(map[int64]*model.Order)}
	for _, o := range orders {
		s.Orders[o.ID] = o
	}
	return s
}

// GetByID fetches order by identifier or returns not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	if o, ok := s.Orders[id]; ok {
		return o, nil
	}
	return nil, domainErrors.ErrOrderNotFound
}

// ListForBuyer returns stored orders belonging to the buyer.
func (s *OrderRepositoryStub) ListForBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	if s.ListForBuyerFn != nil {
		return s.ListForBuyerFn(ctx, buyerID)
	}
	var out []model.Order
	for _, o := range s.Orders {
		if o.BuyerID == buyerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

// ListForSeller returns stored orders touching the shop.
func (s *OrderRepositoryStub) ListForSeller(ctx context.Context, shop string) ([]model.Order, error) {
	if s.ListForSellerFn != nil {
		return s.ListForSellerFn(ctx, shop)
	}
	var out []model.Order
	for _, o := range s.Orders {
		for _, owned := range o.SellerShops {
			if owned == shop {
				out = append(out, *o)
				break
			}
		}
	}
	return out, nil
}

// MarkPaid flips the paid flag once; repeated calls report no transition.
func (s *OrderRepositoryStub) MarkPaid(ctx context.Context, id int64) (*model.Order, bool, error) {
	if s.MarkPaidFn != nil {
		return s.MarkPaidFn(ctx, id)
	}
	o, ok := s.Orders[id]
	if !ok {
		return nil, false, domainErrors.ErrOrderNotFound
	}
	if o.IsPaid {
		return o, false, nil
	}
	now := time.Now()
	o.IsPaid = true
	o.PaidAt = &now
	return o, true, nil
}

// MarkDelivered flips the delivered flag for paid orders only.
func (s *OrderRepositoryStub) MarkDelivered(ctx context.Context, id int64) (*model.Order, bool, error) {
	if s.MarkDeliveredFn != nil {
		return s.MarkDeliveredFn(ctx, id)
	}
	o, ok := s.Orders[id]
	if !ok {
		return nil, false, domainErrors.ErrOrderNotFound
	}
	if !o.IsPaid {
		return nil, false, domainErrors.ErrInvalidStateTransition
	}
	if o.IsDelivered {
		return o, false, nil
	}
	now := time.Now()
	o.IsDelivered = true
	o.DeliveredAt = &now
	return o, true, nil
}
