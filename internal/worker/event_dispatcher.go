package worker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mkurbatov/craftmarket/internal/adapter/events"
	"github.com/mkurbatov/craftmarket/internal/domain/model"
)

// EventDispatcher decouples settlement latency from event delivery: order
// events are enqueued in-process and drained to the publisher by a small
// worker pool. When the queue is full the event is dropped and logged,
// never blocking the settlement path.
type EventDispatcher struct {
	publisher events.Publisher
	workers   int
	logger    *slog.Logger

	queue  chan events.Envelope
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewEventDispatcher constructs the dispatcher with the given queue size and
// worker count.
func NewEventDispatcher(publisher events.Publisher, buffer, workers int, logger *slog.Logger) *EventDispatcher {
	if buffer <= 0 {
		buffer = 1
	}
	if workers <= 0 {
		workers = 1
	}
	return &EventDispatcher{
		publisher: publisher,
		workers:   workers,
		logger:    logger,
		queue:     make(chan events.Envelope, buffer),
	}
}

// Start launches the publish workers.
func (d *EventDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
}

// Stop drains in-flight work and waits for all workers to finish.
func (d *EventDispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *EventDispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			// Drain whatever is already queued before exiting.
			for {
				select {
				case evt := <-d.queue:
					d.publish(context.Background(), evt)
				default:
					return
				}
			}
		case evt := <-d.queue:
			d.publish(ctx, evt)
		}
	}
}

func (d *EventDispatcher) publish(ctx context.Context, evt events.Envelope) {
	if err := d.publisher.Publish(ctx, evt); err != nil {
		d.logger.Error("publish order event failed",
			slog.String("event_type", evt.EventType),
			slog.Int64("order_id", evt.OrderID),
			slog.String("error", err.Error()),
		)
	}
}

func (d *EventDispatcher) enqueue(evt events.Envelope) {
	select {
	case d.queue <- evt:
	default:
		d.logger.Warn("order event queue full, dropping event",
			slog.String("event_type", evt.EventType),
			slog.Int64("order_id", evt.OrderID),
		)
	}
}

// OrderCreated implements usecase.OrderEvents.
func (d *EventDispatcher) OrderCreated(_ context.Context, order *model.Order) {
	d.enqueue(events.NewOrderCreated(order))
}

// OrderPaid implements usecase.OrderEvents.
func (d *EventDispatcher) OrderPaid(_ context.Context, order *model.Order) {
	d.enqueue(events.NewOrderPaid(order))
}

// OrderDelivered implements usecase.OrderEvents.
func (d *EventDispatcher) OrderDelivered(_ context.Context, order *model.Order) {
	d.enqueue(events.NewOrderDelivered(order))
}
