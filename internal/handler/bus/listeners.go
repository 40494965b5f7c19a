package bus

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/webitel/group-chat-service/infra/metrics"
	"github.com/webitel/group-chat-service/internal/adapter/pubsub"
)

const (
	// ------------------- TOPICS (ROUTING KEYS) -----------------
	TopicMessageCreated  = "chat.v1.message.created"
	TopicMessageReacted  = "chat.v1.message.reacted"
	TopicPresenceChanged = "chat.v1.presence.changed"
)

// EventListener consumes the audit bus: every event the broadcaster emits is
// re-published in-process, and this listener turns the stream into an audit
// log plus delivery metrics without touching the hot fan-out path.
type EventListener struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewEventListener(logger *slog.Logger, m *metrics.Metrics) *EventListener {
	return &EventListener{logger: logger, metrics: m}
}

func NewWatermillRouter(logger watermill.LoggerAdapter) (*message.Router, error) {
	return message.NewRouter(message.RouterConfig{}, logger)
}

// [REGISTRATION_PIPELINE]
func (l *EventListener) RegisterHandlers(router *message.Router, dispatcher pubsub.EventDispatcher) error {
	configs := []struct {
		name  string
		topic string
	}{
		{"ON_MSG_CREATED", TopicMessageCreated},
		{"ON_MSG_REACTED", TopicMessageReacted},
		{"ON_PRESENCE_CHANGED", TopicPresenceChanged},
	}

	for _, c := range configs {
		topic := c.topic
		router.AddNoPublisherHandler(c.name, topic, dispatcher.Subscriber(), l.audit(topic)).AddMiddleware(
			LoggingMiddleware(l.logger),
			NewRetryMiddleware().Middleware,
			middleware.Recoverer,
			middleware.Timeout(time.Second*5),
		)
	}

	l.logger.Info("audit bus pipeline ready", "handlers", len(configs))
	return nil
}

// audit records one bus event. The payload is the JSON the dispatcher
// published; a decode failure is terminal for the message (ACK), never for
// the consumer.
func (l *EventListener) audit(topic string) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		var envelope struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
			l.logger.Error("audit decode failed", "msg_id", msg.UUID, "error", err)
			return nil // ACK: poison pill protection.
		}

		l.metrics.BusEventsTotal.WithLabelValues(topic).Inc()
		l.logger.Debug("event audited",
			"topic", topic,
			"event_id", envelope.ID,
			"kind", msg.Metadata.Get("kind"),
		)
		return nil
	}
}
