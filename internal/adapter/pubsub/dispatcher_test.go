package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webitel/group-chat-service/internal/domain/event"
	"github.com/webitel/group-chat-service/internal/domain/model"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	d := NewEventDispatcher(watermill.NopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ev := event.NewMessageCreated(model.Message{ID: 1, Kind: model.UserMessage, Author: "alice", Text: "hi"})

	msgs, err := d.Subscriber().Subscribe(ctx, ev.GetRoutingKey())
	require.NoError(t, err)

	require.NoError(t, d.Publish(ctx, ev))

	select {
	case msg := <-msgs:
		msg.Ack()
		assert.Equal(t, ev.GetID(), msg.UUID)
		assert.Equal(t, "MessageCreated", msg.Metadata.Get("kind"))

		var payload struct {
			Message model.Message `json:"message"`
		}
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, int64(1), payload.Message.ID)
		assert.Equal(t, "alice", payload.Message.Author)
	case <-time.After(2 * time.Second):
		t.Fatal("published event never reached the subscriber")
	}
}

func TestPublishNilEvent(t *testing.T) {
	d := NewEventDispatcher(watermill.NopLogger{})
	assert.Error(t, d.Publish(context.Background(), nil))
}

func TestPublishRoutesByEventKind(t *testing.T) {
	d := NewEventDispatcher(watermill.NopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	presence, err := d.Subscriber().Subscribe(ctx, event.NewPresenceChanged(model.PresenceSnapshot{}).GetRoutingKey())
	require.NoError(t, err)

	require.NoError(t, d.Publish(ctx, event.NewPresenceChanged(model.PresenceSnapshot{Users: []string{"alice"}, Count: 1})))
	require.NoError(t, d.Publish(ctx, event.NewMessageCreated(model.Message{ID: 1})))

	select {
	case msg := <-presence:
		msg.Ack()
		assert.Equal(t, "PresenceChanged", msg.Metadata.Get("kind"))
	case <-time.After(2 * time.Second):
		t.Fatal("presence event never arrived")
	}

	// The message event went to its own topic, not ours.
	select {
	case msg := <-presence:
		t.Fatalf("unexpected cross-topic delivery: %s", msg.UUID)
	case <-time.After(50 * time.Millisecond):
	}
}
