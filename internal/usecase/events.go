package usecase

import (
	"context"

	"github.com/mkurbatov/craftmarket/internal/domain/model"
)

// OrderEvents receives notifications about committed order state changes.
// Implementations must not block: settlement latency does not depend on the
// event pipeline.
type OrderEvents interface {
	OrderCreated(ctx context.Context, order *model.Order)
	OrderPaid(ctx context.Context, order *model.Order)
	OrderDelivered(ctx context.Context, order *model.Order)
}

// NopEvents discards all notifications.
type NopEvents struct{}

func (NopEvents) OrderCreated(context.Context, *model.Order)   {}
func (NopEvents) OrderPaid(context.Context, *model.Order)      {}
func (NopEvents) OrderDelivered(context.Context, *model.Order) {}
