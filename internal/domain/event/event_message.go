package event

import (
	"github.com/google/uuid"
	"github.com/webitel/group-chat-service/internal/domain/model"
)

var (
	_ Eventer    = (*MessageEvent)(nil)
	_ Exportable = (*MessageEvent)(nil)
)

// MessageEvent carries a full copy of the affected chat message, for both the
// created and the reaction-updated cases. A value copy, not a pointer into the
// store, so consumers on other goroutines never observe later increments.
type MessageEvent struct {
	ID      uuid.UUID     `json:"id"`
	Kind    EventKind     `json:"kind"`
	Message model.Message `json:"message"`
}

func NewMessageCreated(msg model.Message) *MessageEvent {
	return &MessageEvent{ID: uuid.New(), Kind: MessageCreated, Message: msg}
}

func NewReactionUpdated(msg model.Message) *MessageEvent {
	return &MessageEvent{ID: uuid.New(), Kind: ReactionUpdated, Message: msg}
}

func (e *MessageEvent) GetID() string        { return e.ID.String() }
func (e *MessageEvent) GetKind() EventKind   { return e.Kind }
func (e *MessageEvent) GetOccurredAt() int64 { return e.Message.CreatedAt.UnixMilli() }
func (e *MessageEvent) GetPayload() any      { return &e.Message }

// GetRoutingKey generates the bus topic for the audit trail.
// [PATTERN] chat.v1.message.{created|reacted}
func (e *MessageEvent) GetRoutingKey() string {
	if e.Kind == ReactionUpdated {
		return "chat.v1.message.reacted"
	}
	return "chat.v1.message.created"
}
