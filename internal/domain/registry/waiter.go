package registry

import (
	"sync"

	"github.com/google/uuid"
	"github.com/webitel/group-chat-service/internal/domain/model"
)

// Waiter is one suspended long-poll request. The result channel is buffered
// with capacity one: the resolving side can always complete its send without
// blocking, and the value survives even if the poller has already raced into
// its timeout branch.
type Waiter struct {
	id    uuid.UUID
	since int64
	ch    chan []model.Message
}

// Resolved exposes the one-shot result channel to the suspended poller.
func (w *Waiter) Resolved() <-chan []model.Message { return w.ch }

// WaiterQueue holds every pending long-poll request. Registry membership is
// the single-shot flag: a waiter is resolved or cancelled exactly once, and
// whichever side removes it from the map wins the race.
type WaiterQueue struct {
	mu      sync.Mutex
	waiters map[uuid.UUID]*Waiter
}

func NewWaiterQueue() *WaiterQueue {
	return &WaiterQueue{waiters: make(map[uuid.UUID]*Waiter)}
}

// Add registers a waiter that has already seen every message up to `since`.
func (q *WaiterQueue) Add(since int64) *Waiter {
	w := &Waiter{
		id:    uuid.New(),
		since: since,
		ch:    make(chan []model.Message, 1),
	}
	q.mu.Lock()
	q.waiters[w.id] = w
	q.mu.Unlock()
	return w
}

// ResolveNewer completes every waiter whose cursor predates maxID, handing
// each one its own catch-up batch. Only the affected waiters are touched —
// waiters that have already seen everything keep sleeping, so a resolution
// never turns into a thundering herd.
func (q *WaiterQueue) ResolveNewer(maxID int64, catchUp func(since int64) []model.Message) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	resolved := 0
	for id, w := range q.waiters {
		if w.since >= maxID {
			continue
		}
		w.ch <- catchUp(w.since) // cap 1, never blocks: each waiter is resolved at most once
		delete(q.waiters, id)
		resolved++
	}
	return resolved
}

// Cancel withdraws a waiter after a timeout or client disconnect. If a
// resolution won the race the batch is already sitting in the buffered
// channel; it is returned so the poller can still deliver it instead of
// silently dropping messages.
func (q *WaiterQueue) Cancel(w *Waiter) ([]model.Message, bool) {
	q.mu.Lock()
	_, pending := q.waiters[w.id]
	if pending {
		delete(q.waiters, w.id)
	}
	q.mu.Unlock()

	if pending {
		return nil, false
	}
	// Lost the race: the resolver removed the waiter first, so the value is
	// guaranteed to be buffered already.
	return <-w.ch, true
}

// Len reports the number of suspended polls.
func (q *WaiterQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiters)
}
