package events

import (
	"go.uber.org/fx"

	"github.com/mkurbatov/craftmarket/internal/config"
)

// Module wires the order event publisher. Without configured brokers the
// publisher is a no-op.
var Module = fx.Provide(newPublisher)

type publisherParams struct {
	fx.In

	Config *config.Config
}

func newPublisher(p publisherParams) Publisher {
	if len(p.Config.KafkaBrokers) == 0 {
		return NopPublisher{}
	}
	return NewKafkaPublisher(p.Config.KafkaBrokers, p.Config.OrderEventTopic)
}
