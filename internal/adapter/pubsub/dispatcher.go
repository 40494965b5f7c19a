package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/webitel/group-chat-service/internal/domain/event"
)

// EventDispatcher defines the high-level contract for re-publishing emitted
// events onto the internal bus. Keeps the broadcaster agnostic of the broker.
type EventDispatcher interface {
	Publish(ctx context.Context, ev event.Eventer) error
	Subscriber() message.Subscriber
}

// eventDispatcher is the concrete implementation (private).
// The broker is watermill's in-process gochannel: the message log is
// process-local, so the bus is too. Swapping in AMQP later only means
// replacing this constructor.
type eventDispatcher struct {
	bus *gochannel.GoChannel
}

func NewEventDispatcher(logger watermill.LoggerAdapter) EventDispatcher {
	return &eventDispatcher{
		bus: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 256,
		}, logger),
	}
}

func (d *eventDispatcher) Publish(ctx context.Context, ev event.Eventer) error {
	if ev == nil {
		return fmt.Errorf("event dispatcher: cannot publish nil event")
	}

	exp, ok := ev.(event.Exportable)
	if !ok || exp.GetRoutingKey() == "" {
		return nil // Not meant for the bus.
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("event dispatcher: marshal failure: %w", err)
	}

	msg := message.NewMessage(ev.GetID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("kind", ev.GetKind().String())

	if err := d.bus.Publish(exp.GetRoutingKey(), msg); err != nil {
		return fmt.Errorf("event dispatcher: failed to publish to topic %s: %w", exp.GetRoutingKey(), err)
	}
	return nil
}

func (d *eventDispatcher) Subscriber() message.Subscriber {
	return d.bus
}
