package repository

import (
	"context"

	"github.com/mkurbatov/craftmarket/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
//
// MarkPaid and MarkDelivered are single-record conditional writes: the flag
// and its timestamp are set together or not at all. The boolean result
// reports whether the transition happened on this call (false means the
// order already was in the target state).
type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListForBuyer(ctx context.Context, buyerID int64) ([]model.Order, error)
	ListForSeller(ctx context.Context, shop string) ([]model.Order, error)
	MarkPaid(ctx context.Context, id int64) (*model.Order, bool, error)
	MarkDelivered(ctx context.Context, id int64) (*model.Order, bool, error)
}
