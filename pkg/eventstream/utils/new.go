// Package eventstreamutils builds the configured eventstream publisher.
package eventstreamutils

import (
	"fmt"
	"log/slog"

	"github.com/papercomputeco/resumini/pkg/eventstream"
	"github.com/papercomputeco/resumini/pkg/eventstream/amqp"
	"github.com/papercomputeco/resumini/pkg/eventstream/kafka"
	"github.com/papercomputeco/resumini/pkg/eventstream/nop"
)

type NewPublisherOpts struct {
	ProviderType string
	Target       string
	Topic        string
	Logger       *slog.Logger
}

func NewPublisher(o *NewPublisherOpts) (eventstream.Publisher, error) {
	switch o.ProviderType {
	case "", "nop", "none":
		return nop.NewPublisher(), nil
	case "kafka":
		return kafka.NewPublisher(kafka.Config{
			Brokers: o.Target,
			Topic:   o.Topic,
		}, o.Logger)
	case "amqp", "rabbitmq":
		return amqp.NewPublisher(amqp.Config{
			URL:      o.Target,
			Exchange: o.Topic,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported event stream provider: %s", o.ProviderType)
	}
}
