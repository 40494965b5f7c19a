package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/webitel/group-chat-service/internal/domain/registry"
	wsmarshaller "github.com/webitel/group-chat-service/internal/handler/marshaller/ws"
	"github.com/webitel/group-chat-service/internal/service"
	"golang.org/x/sync/errgroup"
)

type WSHandler struct {
	logger      *slog.Logger
	broadcaster service.Broadcaster
	marshaller  *wsmarshaller.Marshaller
	upgrader    websocket.Upgrader
}

func NewWSHandler(logger *slog.Logger, broadcaster service.Broadcaster, m *wsmarshaller.Marshaller) *WSHandler {
	return &WSHandler{
		logger:      logger,
		broadcaster: broadcaster,
		marshaller:  m,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // Security: adjust for production
		},
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// 1. UPGRADE TO WEBSOCKET
	sock, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws upgrade failed", "error", err)
		return
	}
	defer sock.Close()

	// 2. REGISTER WITH THE BROADCASTER
	// The init snapshot is built under the same exclusion as fan-out, so it
	// is consistent with every event this session will receive live.
	conn, snap := h.broadcaster.Subscribe(r.Context())
	defer h.broadcaster.Unsubscribe(conn.GetID())

	// 3. SYNCHRONOUS INIT FRAME
	init, err := h.marshaller.MarshalInit(snap.Messages, snap.Presence)
	if err != nil {
		h.logger.Error("failed to marshal init snapshot", "error", err)
		return
	}
	if err := sock.WriteMessage(websocket.TextMessage, init); err != nil {
		h.logger.Warn("init frame send failed", "error", err)
		return
	}

	h.logger.Info("ws opened", "conn_id", conn.GetID(), "remote", r.RemoteAddr)

	// 4. PUMP LOOPS
	// Each pump tears down the other's blocking point on exit: the writer
	// closes the socket to unblock the reader, the reader closes the
	// connector to unblock the writer.
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error { return h.readPump(ctx, sock, conn) })
	g.Go(func() error { return h.writePump(sock, conn) })
	_ = g.Wait()

	h.logger.Info("ws closed", "conn_id", conn.GetID())
}

// readPump decodes inbound frames into broadcaster commands. Malformed
// frames are logged and dropped; decoding failure never closes the socket.
func (h *WSHandler) readPump(ctx context.Context, sock *websocket.Conn, conn registry.Connector) error {
	defer conn.Close()

	for {
		_, data, err := sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("ws read failed", "conn_id", conn.GetID(), "error", err)
			}
			return nil
		}

		frame, err := wsmarshaller.DecodeClientFrame(data)
		if err != nil {
			h.logger.Debug("dropping malformed frame", "conn_id", conn.GetID(), "error", err)
			continue
		}
		h.dispatch(ctx, conn, frame)
	}
}

// dispatch routes one decoded command to the broadcaster. Command failures
// (empty fields, unknown message id) are logged and swallowed: the stream
// protocol sends no error frames back.
func (h *WSHandler) dispatch(ctx context.Context, conn registry.Connector, frame wsmarshaller.ClientFrame) {
	var err error
	switch frame.Type {
	case "message":
		_, err = h.broadcaster.PostMessage(ctx, frame.User, frame.Text)
	case "react":
		_, err = h.broadcaster.React(ctx, frame.ID, frame.Reaction)
	case "join":
		_, err = h.broadcaster.Join(ctx, frame.User)
	case "leave":
		_, err = h.broadcaster.Leave(ctx, frame.User)
	default:
		h.logger.Debug("dropping frame with unknown type", "conn_id", conn.GetID(), "type", frame.Type)
		return
	}
	if err != nil {
		h.logger.Debug("stream command rejected", "conn_id", conn.GetID(), "type", frame.Type, "error", err)
	}
}

// writePump renders fan-out events into frames. Any send failure transitions
// the session to closed; the hub has already evicted us if our buffer
// overflowed.
func (h *WSHandler) writePump(sock *websocket.Conn, conn registry.Connector) error {
	defer sock.Close()

	for {
		select {
		case <-conn.Done():
			return nil
		case ev, ok := <-conn.Recv():
			if !ok {
				return nil
			}

			data, err := h.marshaller.MarshalEvent(ev)
			if err != nil {
				h.logger.Error("failed to marshal ws event", "event_id", ev.GetID(), "error", err)
				continue
			}
			if data == nil {
				continue // No frame for this event kind.
			}

			if err := sock.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Warn("ws send failed", "conn_id", conn.GetID(), "error", err)
				return nil
			}
		}
	}
}
