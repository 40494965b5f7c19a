package registry

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/webitel/group-chat-service/internal/domain/event"
)

// Hubber defines the gateway for streaming session management and event fan-out.
type Hubber interface {
	Broadcast(ev event.Eventer) (delivered, dropped int)
	Register(conn Connector)
	Unregister(connID uuid.UUID)
	Len() int
	Shutdown()
}

// Hub tracks every live streaming session of the single chat room.
// Unlike a per-user cell design there is no routing decision to make: every
// event goes to every session, so a flat map behind an RWMutex is enough.
type Hub struct {
	mu     sync.RWMutex
	conns  map[uuid.UUID]Connector
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		conns:  make(map[uuid.UUID]Connector),
		logger: logger,
	}
}

// Register attaches a new live session. [IDEMPOTENT] by connection ID.
func (h *Hub) Register(conn Connector) {
	h.mu.Lock()
	h.conns[conn.GetID()] = conn
	h.mu.Unlock()
}

// Unregister performs [GRACEFUL_RECLAMATION] of a finished session.
// Double-unregistration is a no-op.
func (h *Hub) Unregister(connID uuid.UUID) {
	h.mu.Lock()
	conn, ok := h.conns[connID]
	if ok {
		delete(h.conns, connID)
	}
	h.mu.Unlock()

	if ok {
		conn.Close()
	}
}

// Broadcast delivers the event to every live session and returns how many
// deliveries succeeded and how many sessions were evicted. Sessions that
// refuse the non-blocking send are treated as dead and evicted on the spot,
// so one stalled consumer never delays the rest of the room.
func (h *Hub) Broadcast(ev event.Eventer) (delivered, dropped int) {
	// Snapshot the session set first; sends happen outside the read lock so
	// eviction (which takes the write lock) cannot deadlock the iteration.
	h.mu.RLock()
	targets := make([]Connector, 0, len(h.conns))
	for _, conn := range h.conns {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		if conn.Send(ev) {
			delivered++
			continue
		}
		h.logger.Warn("dropping unresponsive stream session",
			"conn_id", conn.GetID(),
			"event_id", ev.GetID(),
		)
		h.Unregister(conn.GetID())
		dropped++
	}
	return delivered, dropped
}

// Len reports the number of live sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Shutdown closes every remaining session. [GRACEFUL_SHUTDOWN]
func (h *Hub) Shutdown() {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[uuid.UUID]Connector)
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}
