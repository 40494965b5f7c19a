package store

import (
	"sort"

	"github.com/webitel/group-chat-service/internal/domain/model"
)

// Presence is the set of currently-joined display names. Like Log, it is
// guarded by the broadcaster's critical section rather than its own lock.
type Presence struct {
	users map[string]struct{}
}

func NewPresence() *Presence {
	return &Presence{users: make(map[string]struct{})}
}

// Join adds the name and reports whether the set actually changed.
// Re-joining an already-present user is a no-op, not an error.
func (p *Presence) Join(name string) bool {
	if _, ok := p.users[name]; ok {
		return false
	}
	p.users[name] = struct{}{}
	return true
}

// Leave removes the name; idempotent, reports whether a change occurred.
func (p *Presence) Leave(name string) bool {
	if _, ok := p.users[name]; !ok {
		return false
	}
	delete(p.users, name)
	return true
}

// Snapshot returns a sorted copy of the online set. Sorting keeps the wire
// representation stable across calls, which the frontend diffing relies on.
func (p *Presence) Snapshot() model.PresenceSnapshot {
	users := make([]string, 0, len(p.users))
	for name := range p.users {
		users = append(users, name)
	}
	sort.Strings(users)
	return model.PresenceSnapshot{Users: users, Count: len(users)}
}
