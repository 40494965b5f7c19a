package registry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/webitel/group-chat-service/internal/domain/event"
)

// Interface guard
var _ Connector = (*connect)(nil)

// [CONNECTOR] THE INTERFACE FOR EXTERNAL LAYERS (REGISTRY/HUB)
// This allows mocking and decoupling from the concrete implementation
type Connector interface {
	GetID() uuid.UUID
	Send(ev event.Eventer) bool // Non-blocking; false means dead or saturated
	Recv() <-chan event.Eventer
	Done() <-chan struct{}
	Close() // Terminate connection and release resources
}

// [CONNECT] CONCRETE IMPLEMENTATION (UNEXPORTED TO FORCE INTERFACE USAGE)
type connect struct {
	id        uuid.UUID
	createdAt time.Time
	ctx       context.Context
	cancelFn  context.CancelFunc
	sendCh    chan event.Eventer
	closeOnce sync.Once // [PROTECTION]
}

// NewConnector builds a live streaming session handle. The buffer size is the
// backpressure threshold: once it is full the hub declares the consumer dead
// and drops the connection, never the event stream for everyone else.
func NewConnector(ctx context.Context, bufferSize int) Connector {
	childCtx, cancel := context.WithCancel(ctx)
	return &connect{
		id:        uuid.New(),
		createdAt: time.Now(),
		ctx:       childCtx,
		cancelFn:  cancel,
		sendCh:    make(chan event.Eventer, bufferSize),
	}
}

func (c *connect) GetID() uuid.UUID { return c.id }

// Send attempts a non-blocking push into the session mailbox.
// The broadcaster must never stall behind a slow consumer, so a full buffer
// or a closed session reports failure immediately instead of waiting.
func (c *connect) Send(ev event.Eventer) bool {
	select {
	case <-c.ctx.Done():
		return false
	default:
	}

	select {
	case c.sendCh <- ev:
		return true
	default:
		return false
	}
}

func (c *connect) Recv() <-chan event.Eventer { return c.sendCh }
func (c *connect) Done() <-chan struct{}      { return c.ctx.Done() }

// Close terminates the session and wakes the transport pump.
func (c *connect) Close() {
	// [IDEMPOTENCY_SHIELD]
	// Ensures the teardown logic runs exactly once, whether triggered by the
	// hub (send failure), the handler (defer) or the client (socket close).
	c.closeOnce.Do(func() {
		c.cancelFn()
	})
}
