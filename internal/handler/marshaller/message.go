package marshaller

import (
	"time"

	"github.com/webitel/group-chat-service/internal/domain/model"
)

// Message is the wire representation shared by the REST and WebSocket
// surfaces. Timestamps serialize as RFC 3339 / ISO 8601.
type Message struct {
	ID        int64     `json:"id"`
	User      string    `json:"user,omitempty"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Likes     int64     `json:"likes"`
	Dislikes  int64     `json:"dislikes"`
	Type      string    `json:"type"` // "message" | "system"
}

func MapMessage(m model.Message) Message {
	kind := "message"
	if m.Kind == model.SystemMessage {
		kind = "system"
	}
	return Message{
		ID:        m.ID,
		User:      m.Author,
		Text:      m.Text,
		Timestamp: m.CreatedAt,
		Likes:     m.Likes,
		Dislikes:  m.Dislikes,
		Type:      kind,
	}
}

// MapMessages always returns a non-nil slice so empty batches encode as []
// rather than null.
func MapMessages(msgs []model.Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, MapMessage(m))
	}
	return out
}
