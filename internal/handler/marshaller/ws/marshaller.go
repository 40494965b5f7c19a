package wsmarshaller

import (
	"encoding/json"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/webitel/group-chat-service/internal/domain/event"
	"github.com/webitel/group-chat-service/internal/domain/model"
	"github.com/webitel/group-chat-service/internal/handler/marshaller"
)

// InitFrame is pushed synchronously when a session opens. Both collections
// always serialize, even when empty.
type InitFrame struct {
	Type        string               `json:"type"` // always "init"
	Messages    []marshaller.Message `json:"messages"`
	OnlineUsers []string             `json:"onlineUsers"`
}

// EventFrame wraps a single fanned-out message.
type EventFrame struct {
	Type    string             `json:"type"` // "new-message" | "update"
	Message marshaller.Message `json:"message"`
}

// Marshaller renders domain events into WebSocket frames. Rendered frames
// are cached per event ID, so an event is encoded once no matter how many
// sessions it fans out to.
type Marshaller struct {
	cache *lru.Cache[string, []byte]
}

func New(cacheSize int) (*Marshaller, error) {
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("ws marshaller: %w", err)
	}
	return &Marshaller{cache: cache}, nil
}

// MarshalInit renders the snapshot sent synchronously on connection open.
func (m *Marshaller) MarshalInit(msgs []model.Message, presence model.PresenceSnapshot) ([]byte, error) {
	users := presence.Users
	if users == nil {
		users = []string{}
	}
	return json.Marshal(&InitFrame{
		Type:        "init",
		Messages:    marshaller.MapMessages(msgs),
		OnlineUsers: users,
	})
}

// MarshalEvent renders a fan-out event. Events without a WebSocket
// representation (pure presence changes) yield (nil, nil): no frame.
func (m *Marshaller) MarshalEvent(ev event.Eventer) ([]byte, error) {
	var frameType string
	switch ev.GetKind() {
	case event.MessageCreated:
		frameType = "new-message"
	case event.ReactionUpdated:
		frameType = "update"
	default:
		return nil, nil
	}

	if data, ok := m.cache.Get(ev.GetID()); ok {
		return data, nil
	}

	msg, ok := ev.GetPayload().(*model.Message)
	if !ok {
		return nil, fmt.Errorf("ws marshaller: event %s carries no message", ev.GetID())
	}

	data, err := json.Marshal(&EventFrame{Type: frameType, Message: marshaller.MapMessage(*msg)})
	if err != nil {
		return nil, err
	}
	m.cache.Add(ev.GetID(), data)
	return data, nil
}
