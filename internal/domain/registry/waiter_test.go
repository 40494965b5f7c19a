package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webitel/group-chat-service/internal/domain/model"
)

func catchUpWith(msgs ...model.Message) func(int64) []model.Message {
	return func(int64) []model.Message { return msgs }
}

func TestWaiterQueueResolveNewer(t *testing.T) {
	q := NewWaiterQueue()

	behind := q.Add(0)
	caughtUp := q.Add(5)

	resolved := q.ResolveNewer(5, catchUpWith(model.Message{ID: 5}))
	assert.Equal(t, 1, resolved)
	assert.Equal(t, 1, q.Len(), "waiter that has seen everything keeps sleeping")

	select {
	case batch := <-behind.Resolved():
		require.Len(t, batch, 1)
		assert.Equal(t, int64(5), batch[0].ID)
	default:
		t.Fatal("waiter behind the cursor was not resolved")
	}

	select {
	case <-caughtUp.Resolved():
		t.Fatal("caught-up waiter must not be woken")
	default:
	}
}

func TestWaiterQueueCancelPending(t *testing.T) {
	q := NewWaiterQueue()
	w := q.Add(3)

	batch, resolved := q.Cancel(w)
	assert.False(t, resolved)
	assert.Nil(t, batch)
	assert.Equal(t, 0, q.Len())
}

func TestWaiterQueueCancelAfterResolutionReturnsBatch(t *testing.T) {
	q := NewWaiterQueue()
	w := q.Add(0)

	q.ResolveNewer(1, catchUpWith(model.Message{ID: 1}))

	// Cancel lost the race; the batch must still be handed over.
	batch, resolved := q.Cancel(w)
	assert.True(t, resolved)
	require.Len(t, batch, 1)
	assert.Equal(t, int64(1), batch[0].ID)
}

// A waiter is resolved exactly once even when resolution and cancellation
// fire concurrently: whichever side removes it from the registry wins, and
// the loser observes the winner's outcome instead of a double-resolution.
func TestWaiterSingleShotUnderRace(t *testing.T) {
	for i := 0; i < 200; i++ {
		q := NewWaiterQueue()
		w := q.Add(0)

		var wg sync.WaitGroup
		var withData, empty bool

		wg.Add(2)
		go func() {
			defer wg.Done()
			q.ResolveNewer(1, catchUpWith(model.Message{ID: 1}))
		}()
		go func() {
			defer wg.Done()
			// The poller's timeout branch: either the resolution got there
			// first and its batch is handed over, or the wait ends empty.
			if batch, resolved := q.Cancel(w); resolved {
				assert.Len(t, batch, 1)
				withData = true
			} else {
				empty = true
			}
		}()
		wg.Wait()

		assert.NotEqual(t, withData, empty, "exactly one outcome per waiter")
		assert.Equal(t, 0, q.Len())

		select {
		case <-w.Resolved():
			t.Fatal("a second resolution leaked into the channel")
		default:
		}
	}
}
