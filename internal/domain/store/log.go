package store

import (
	"fmt"
	"time"

	"github.com/webitel/group-chat-service/internal/domain/model"
)

// Log is the append-only, process-lifetime message store. IDs are dense and
// strictly increasing, starting at 1, never reused — which is what makes the
// long-poll cursor (`since`) restartable without loss or duplication.
//
// Log is NOT safe for concurrent use on its own. Every access runs inside the
// broadcaster's critical section, which also guarantees readers never observe
// a torn reaction counter.
type Log struct {
	messages []model.Message
}

func NewLog() *Log {
	return &Log{}
}

// Append assigns the next sequential ID and stores the record.
// Bounded only by memory; there is no failure mode.
func (l *Log) Append(kind model.MessageKind, author, text string) model.Message {
	msg := model.Message{
		ID:        int64(len(l.messages)) + 1,
		Kind:      kind,
		Author:    author,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	l.messages = append(l.messages, msg)
	return msg
}

// Get returns a copy of the message with the given ID.
func (l *Log) Get(id int64) (model.Message, error) {
	if id < 1 || id > int64(len(l.messages)) {
		return model.Message{}, fmt.Errorf("message %d: %w", id, model.ErrNotFound)
	}
	// IDs are dense, so the slice index is the ID minus one.
	return l.messages[id-1], nil
}

// Since returns copies of all messages with ID > since, in ascending order.
func (l *Log) Since(since int64) []model.Message {
	if since < 0 {
		since = 0
	}
	if since >= int64(len(l.messages)) {
		return nil
	}
	out := make([]model.Message, int64(len(l.messages))-since)
	copy(out, l.messages[since:])
	return out
}

// IncrementReaction bumps the like or dislike counter and returns the updated
// copy. Identity and content fields stay untouched.
func (l *Log) IncrementReaction(id int64, kind model.ReactionKind) (model.Message, error) {
	if id < 1 || id > int64(len(l.messages)) {
		return model.Message{}, fmt.Errorf("message %d: %w", id, model.ErrNotFound)
	}
	msg := &l.messages[id-1]
	switch kind {
	case model.ReactionLike:
		msg.Likes++
	case model.ReactionDislike:
		msg.Dislikes++
	default:
		return model.Message{}, fmt.Errorf("reaction kind %d: %w", kind, model.ErrInvalidInput)
	}
	return *msg, nil
}

// Len reports the highest assigned message ID.
func (l *Log) Len() int64 {
	return int64(len(l.messages))
}

// Tail returns copies of the most recent n messages, oldest first.
// n <= 0 means the full history.
func (l *Log) Tail(n int) []model.Message {
	if n <= 0 || n >= len(l.messages) {
		return l.Since(0)
	}
	return l.Since(int64(len(l.messages) - n))
}
