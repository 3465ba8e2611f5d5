package usecase

import (
	"context"

	"github.com/mkurbatov/craftmarket/internal/domain/model"
	"github.com/mkurbatov/craftmarket/internal/domain/repository"
)

// LifecycleUseCase drives the order state machine: Created -> Paid ->
// Delivered. Transitions never reverse and repeating a reached transition is
// a no-op success.
type LifecycleUseCase struct {
	orders repository.OrderRepository
	events OrderEvents
}

// NewLifecycleUseCase constructs LifecycleUseCase.
func NewLifecycleUseCase(orders repository.OrderRepository, events OrderEvents) *LifecycleUseCase {
	if events == nil {
		events = NopEvents{}
	}
	return &LifecycleUseCase{orders: orders, events: events}
}

// MarkPaid confirms payment for the order. Duplicate confirmations succeed
// without touching the stored timestamp.
func (u *LifecycleUseCase) MarkPaid(ctx context.Context, orderID int64) (*model.Order, error) {
	order, transitioned, err := u.orders.MarkPaid(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if transitioned {
		u.events.OrderPaid(ctx, order)
	}
	return order, nil
}

// MarkDelivered confirms delivery. Fails with ErrInvalidStateTransition when
// the order has not been paid.
func (u *LifecycleUseCase) MarkDelivered(ctx context.Context, orderID int64) (*model.Order, error) {
	order, transitioned, err := u.orders.MarkDelivered(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if transitioned {
		u.events.OrderDelivered(ctx, order)
	}
	return order, nil
}
