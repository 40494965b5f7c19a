package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/webitel/group-chat-service/internal/domain/model"
)

var (
	_ Eventer    = (*PresenceEvent)(nil)
	_ Exportable = (*PresenceEvent)(nil)
)

// PresenceEvent announces a change of the online user set. It carries no
// message, so it never resolves long-poll waiters on its own; the system
// message emitted alongside a genuine join/leave does that.
type PresenceEvent struct {
	ID         uuid.UUID              `json:"id"`
	Presence   model.PresenceSnapshot `json:"presence"`
	OccurredAt int64                  `json:"occurred_at"`
}

func NewPresenceChanged(snap model.PresenceSnapshot) *PresenceEvent {
	return &PresenceEvent{
		ID:         uuid.New(),
		Presence:   snap,
		OccurredAt: time.Now().UnixMilli(),
	}
}

func (e *PresenceEvent) GetID() string        { return e.ID.String() }
func (e *PresenceEvent) GetKind() EventKind   { return PresenceChanged }
func (e *PresenceEvent) GetOccurredAt() int64 { return e.OccurredAt }
func (e *PresenceEvent) GetPayload() any      { return &e.Presence }

func (e *PresenceEvent) GetRoutingKey() string { return "chat.v1.presence.changed" }
