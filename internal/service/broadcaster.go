package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/webitel/group-chat-service/config"
	"github.com/webitel/group-chat-service/infra/metrics"
	"github.com/webitel/group-chat-service/internal/adapter/pubsub"
	"github.com/webitel/group-chat-service/internal/domain/event"
	"github.com/webitel/group-chat-service/internal/domain/model"
	"github.com/webitel/group-chat-service/internal/domain/registry"
	"github.com/webitel/group-chat-service/internal/domain/store"
)

// [BROADCASTER] PRIMARY INTERFACE FOR TRANSPORT HANDLERS (REST/WebSocket)
//
// Every state mutation of the chat room goes through this single entry point,
// which is what gives both transports the same ordered, duplicate-free view
// of the message stream.
type Broadcaster interface {
	PostMessage(ctx context.Context, author, text string) (model.Message, error)
	React(ctx context.Context, id int64, reaction string) (model.Message, error)
	Join(ctx context.Context, name string) (model.PresenceSnapshot, error)
	Leave(ctx context.Context, name string) (model.PresenceSnapshot, error)
	Poll(ctx context.Context, since int64, wait time.Duration) ([]model.Message, error)
	OnlineUsers() model.PresenceSnapshot
	Subscribe(ctx context.Context) (registry.Connector, InitSnapshot)
	Unsubscribe(connID uuid.UUID)
}

// InitSnapshot is handed to a freshly registered streaming session: the
// bounded message backlog plus the presence set, consistent with each other
// and with every event the session will subsequently receive live.
type InitSnapshot struct {
	Messages []model.Message
	Presence model.PresenceSnapshot
}

// [IMPLEMENTATION] PRIVATE TO ENFORCE INTERFACE USAGE
type BroadcastService struct {
	// mu is the room's single critical section. It serializes every mutation
	// together with its local fan-out, so a registration or poll that starts
	// after a mutation completes can never miss its event, and one that
	// starts before can never observe a half-applied update.
	mu sync.Mutex

	log      *store.Log
	presence *store.Presence
	waiters  *registry.WaiterQueue
	hub      registry.Hubber

	dispatcher pubsub.EventDispatcher
	metrics    *metrics.Metrics
	logger     *slog.Logger

	defaultWait time.Duration
	initHistory int
	sendBuffer  int
}

func NewBroadcastService(
	cfg *config.Config,
	hub registry.Hubber,
	waiters *registry.WaiterQueue,
	dispatcher pubsub.EventDispatcher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *BroadcastService {
	return &BroadcastService{
		log:         store.NewLog(),
		presence:    store.NewPresence(),
		waiters:     waiters,
		hub:         hub,
		dispatcher:  dispatcher,
		metrics:     m,
		logger:      logger,
		defaultWait: cfg.Poll.Wait,
		initHistory: cfg.Stream.InitHistory,
		sendBuffer:  cfg.Stream.SendBuffer,
	}
}

// PostMessage appends a user message and fans it out to both transports.
func (s *BroadcastService) PostMessage(ctx context.Context, author, text string) (model.Message, error) {
	author = strings.TrimSpace(author)
	text = strings.TrimSpace(text)
	if author == "" || text == "" {
		return model.Message{}, fmt.Errorf("post message: author and text required: %w", model.ErrInvalidInput)
	}

	s.mu.Lock()
	msg := s.log.Append(model.UserMessage, author, text)
	ev := event.NewMessageCreated(msg)
	s.fanOut(ev)
	s.mu.Unlock()

	s.metrics.MessagesTotal.WithLabelValues("user").Inc()
	s.export(ctx, ev)
	return msg, nil
}

// React bumps a reaction counter and fans out the updated message.
func (s *BroadcastService) React(ctx context.Context, id int64, reaction string) (model.Message, error) {
	kind, ok := model.ParseReactionKind(reaction)
	if !ok {
		return model.Message{}, fmt.Errorf("react: unknown reaction %q: %w", reaction, model.ErrInvalidInput)
	}

	s.mu.Lock()
	msg, err := s.log.IncrementReaction(id, kind)
	if err != nil {
		s.mu.Unlock()
		return model.Message{}, err
	}
	ev := event.NewReactionUpdated(msg)
	s.fanOut(ev)
	s.mu.Unlock()

	s.metrics.ReactionsTotal.WithLabelValues(reaction).Inc()
	s.export(ctx, ev)
	return msg, nil
}

// Join adds the user to the presence set. A genuine state change also appends
// a system message and emits both events; an idempotent rejoin emits nothing.
func (s *BroadcastService) Join(ctx context.Context, name string) (model.PresenceSnapshot, error) {
	return s.updatePresence(ctx, name, true)
}

// Leave is symmetric to Join.
func (s *BroadcastService) Leave(ctx context.Context, name string) (model.PresenceSnapshot, error) {
	return s.updatePresence(ctx, name, false)
}

func (s *BroadcastService) updatePresence(ctx context.Context, name string, join bool) (model.PresenceSnapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.PresenceSnapshot{}, fmt.Errorf("presence: user required: %w", model.ErrInvalidInput)
	}

	s.mu.Lock()
	var changed bool
	var text string
	if join {
		changed = s.presence.Join(name)
		text = name + " joined the chat"
	} else {
		changed = s.presence.Leave(name)
		text = name + " left the chat"
	}
	snap := s.presence.Snapshot()

	var evs []event.Eventer
	if changed {
		sysMsg := s.log.Append(model.SystemMessage, "", text)
		evs = append(evs, event.NewMessageCreated(sysMsg), event.NewPresenceChanged(snap))
		for _, ev := range evs {
			s.fanOut(ev)
		}
	}
	s.mu.Unlock()

	if changed {
		s.metrics.MessagesTotal.WithLabelValues("system").Inc()
		for _, ev := range evs {
			s.export(ctx, ev)
		}
	}
	return snap, nil
}

// Poll implements the long-poll contract: reply immediately when the cursor
// is behind, otherwise suspend until new data, the deadline or client cancel
// — whichever fires first, exactly once.
func (s *BroadcastService) Poll(ctx context.Context, since int64, wait time.Duration) ([]model.Message, error) {
	if since < 0 {
		since = 0
	}
	if wait <= 0 {
		wait = s.defaultWait
	}

	s.mu.Lock()
	if batch := s.log.Since(since); len(batch) > 0 {
		s.mu.Unlock()
		return batch, nil
	}
	w := s.waiters.Add(since)
	s.mu.Unlock()

	s.metrics.PendingWaiters.Set(float64(s.waiters.Len()))

	timer := time.NewTimer(wait)
	defer timer.Stop()
	defer s.metrics.PendingWaiters.Set(float64(s.waiters.Len()))

	select {
	case batch := <-w.Resolved():
		return batch, nil

	case <-timer.C:
		// The deadline and a resolution can race; Cancel arbitrates and
		// hands back the batch when the resolution got there first.
		if batch, resolved := s.waiters.Cancel(w); resolved {
			return batch, nil
		}
		return []model.Message{}, nil

	case <-ctx.Done():
		s.waiters.Cancel(w)
		return nil, ctx.Err()
	}
}

// OnlineUsers returns the current presence snapshot.
func (s *BroadcastService) OnlineUsers() model.PresenceSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presence.Snapshot()
}

// Subscribe registers a streaming session and builds its init snapshot under
// the same exclusion as fan-out, so no event can be both missing from the
// snapshot and skipped by live delivery.
func (s *BroadcastService) Subscribe(ctx context.Context) (registry.Connector, InitSnapshot) {
	conn := registry.NewConnector(ctx, s.sendBuffer)

	s.mu.Lock()
	snap := InitSnapshot{
		Messages: s.log.Tail(s.initHistory),
		Presence: s.presence.Snapshot(),
	}
	s.hub.Register(conn)
	s.mu.Unlock()

	s.metrics.StreamSessions.Set(float64(s.hub.Len()))
	s.logger.Info("stream session opened", "conn_id", conn.GetID())
	return conn, snap
}

// Unsubscribe detaches and closes a streaming session. Idempotent.
func (s *BroadcastService) Unsubscribe(connID uuid.UUID) {
	s.hub.Unregister(connID)
	s.metrics.StreamSessions.Set(float64(s.hub.Len()))
	s.logger.Info("stream session closed", "conn_id", connID)
}

// fanOut delivers the event locally. Must run under s.mu.
//
// Streaming sessions get the event itself; suspended polls whose cursor
// predates the carried message get their catch-up batch from the log.
// Presence-only events carry no message and wake nobody.
func (s *BroadcastService) fanOut(ev event.Eventer) {
	delivered, dropped := s.hub.Broadcast(ev)
	s.metrics.EventsDelivered.Add(float64(delivered))
	if dropped > 0 {
		s.metrics.SessionsDropped.Add(float64(dropped))
	}

	if msg, ok := ev.GetPayload().(*model.Message); ok {
		s.waiters.ResolveNewer(msg.ID, s.log.Since)
		s.metrics.PendingWaiters.Set(float64(s.waiters.Len()))
	}
	s.metrics.StreamSessions.Set(float64(s.hub.Len()))
}

// export re-publishes the event onto the audit bus, outside the critical
// section: bus consumers must never delay room mutations.
func (s *BroadcastService) export(ctx context.Context, ev event.Eventer) {
	if err := s.dispatcher.Publish(ctx, ev); err != nil {
		s.logger.Error("audit bus publish failed", "event_id", ev.GetID(), "error", err)
	}
}
