package repository

import (
	"context"

	"github.com/mkurbatov/craftmarket/internal/domain/model"
)

// SettlementTx is the scope of one settlement transaction. Every operation
// applies inside the same atomic unit: either the whole settlement commits
// or none of it is visible.
//
// Reads lock the touched records for the remainder of the scope. Guarded
// mutations re-validate their condition at write time, so a stock or balance
// check that passed at read time cannot be lost to a concurrent writer.
type SettlementTx interface {
	// BuyerForUpdate loads and locks the buyer account.
	BuyerForUpdate(ctx context.Context, id int64) (*model.Account, error)
	// ProductsForUpdate loads and locks the referenced catalog items in id
	// order. Fails with ErrItemNotFound when any id does not resolve.
	ProductsForUpdate(ctx context.Context, ids []int64) ([]model.Product, error)
	// SellersByShop loads and locks seller accounts keyed by shop. Fails
	// with ErrSellerNotFound when any shop has no owning account.
	SellersByShop(ctx context.Context, shops []string) (map[string]*model.Account, error)

	// ReserveAndSell decrements stock and bumps sales/revenue for one item.
	// Fails with ErrInsufficientStock when quantity exceeds current stock.
	ReserveAndSell(ctx context.Context, productID, quantity, unitRevenue int64) (*model.ProductCounters, error)
	// Debit subtracts amount from an account balance. Fails with
	// ErrInsufficientBalance when amount exceeds the balance.
	Debit(ctx context.Context, accountID, amount int64) (int64, error)
	// Credit adds amount to an account balance.
	Credit(ctx context.Context, accountID, amount int64) (int64, error)
	// InsertOrder persists the new order with its frozen line items.
	InsertOrder(ctx context.Context, order *model.Order) (*model.Order, error)
}

// UnitOfWork runs a settlement against the ledger store as one atomic unit.
// An aborted serialization conflict surfaces as ErrConcurrentModification.
type UnitOfWork interface {
	WithinSettlement(ctx context.Context, fn func(ctx context.Context, tx SettlementTx) error) error
}
