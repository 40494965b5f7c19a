package ws

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webitel/group-chat-service/config"
	"github.com/webitel/group-chat-service/infra/metrics"
	"github.com/webitel/group-chat-service/internal/adapter/pubsub"
	"github.com/webitel/group-chat-service/internal/domain/registry"
	wsmarshaller "github.com/webitel/group-chat-service/internal/handler/marshaller/ws"
	"github.com/webitel/group-chat-service/internal/service"
)

type wsFixture struct {
	svc  *service.BroadcastService
	hub  registry.Hubber
	sock *websocket.Conn
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()

	cfg := &config.Config{
		Poll:   config.PollConfig{Wait: 200 * time.Millisecond},
		Stream: config.StreamConfig{InitHistory: 30, SendBuffer: 16},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := registry.NewHub(logger)
	svc := service.NewBroadcastService(
		cfg,
		hub,
		registry.NewWaiterQueue(),
		pubsub.NewEventDispatcher(watermill.NopLogger{}),
		metrics.New(prometheus.NewRegistry()),
		logger,
	)

	m, err := wsmarshaller.New(64)
	require.NoError(t, err)

	srv := httptest.NewServer(NewWSHandler(logger, svc, m))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	sock, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { sock.Close() })

	return &wsFixture{svc: svc, hub: hub, sock: sock}
}

func (f *wsFixture) readFrame(t *testing.T) map[string]any {
	t.Helper()
	require.NoError(t, f.sock.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := f.sock.ReadMessage()
	require.NoError(t, err)

	var frame map[string]any
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

func (f *wsFixture) writeFrame(t *testing.T, raw string) {
	t.Helper()
	require.NoError(t, f.sock.WriteMessage(websocket.TextMessage, []byte(raw)))
}

func TestWSInitSnapshot(t *testing.T) {
	f := newWSFixture(t)

	frame := f.readFrame(t)
	assert.Equal(t, "init", frame["type"])
	assert.Empty(t, frame["messages"])
	assert.Empty(t, frame["onlineUsers"])
}

func TestWSReceivesBroadcasts(t *testing.T) {
	f := newWSFixture(t)
	f.readFrame(t) // init

	_, err := f.svc.PostMessage(context.Background(), "alice", "hi")
	require.NoError(t, err)

	frame := f.readFrame(t)
	assert.Equal(t, "new-message", frame["type"])
	msg := frame["message"].(map[string]any)
	assert.Equal(t, float64(1), msg["id"])
	assert.Equal(t, "alice", msg["user"])
	assert.Equal(t, "hi", msg["text"])
}

func TestWSInboundCommands(t *testing.T) {
	f := newWSFixture(t)
	f.readFrame(t) // init

	f.writeFrame(t, `{"type":"message","user":"bob","text":"from the socket"}`)

	frame := f.readFrame(t)
	assert.Equal(t, "new-message", frame["type"])
	msg := frame["message"].(map[string]any)
	assert.Equal(t, "bob", msg["user"])
	assert.Equal(t, "from the socket", msg["text"])

	f.writeFrame(t, `{"type":"react","id":1,"reaction":"like"}`)

	frame = f.readFrame(t)
	assert.Equal(t, "update", frame["type"])
	msg = frame["message"].(map[string]any)
	assert.Equal(t, float64(1), msg["likes"])
}

func TestWSJoinEmitsSystemMessage(t *testing.T) {
	f := newWSFixture(t)
	f.readFrame(t) // init

	f.writeFrame(t, `{"type":"join","user":"alice"}`)

	frame := f.readFrame(t)
	assert.Equal(t, "new-message", frame["type"])
	msg := frame["message"].(map[string]any)
	assert.Equal(t, "system", msg["type"])
	assert.Equal(t, "alice joined the chat", msg["text"])

	assert.Equal(t, 1, f.svc.OnlineUsers().Count)
}

// Malformed frames are dropped without closing the connection.
func TestWSMalformedFrameKeepsConnectionOpen(t *testing.T) {
	f := newWSFixture(t)
	f.readFrame(t) // init

	f.writeFrame(t, `this is not json`)
	f.writeFrame(t, `{"no":"type"}`)
	f.writeFrame(t, `{"type":"message","user":"alice","text":"still alive"}`)

	frame := f.readFrame(t)
	assert.Equal(t, "new-message", frame["type"])
	msg := frame["message"].(map[string]any)
	assert.Equal(t, "still alive", msg["text"])
}

func TestWSCloseDeregistersSession(t *testing.T) {
	f := newWSFixture(t)
	f.readFrame(t) // init

	require.NoError(t, f.sock.Close())

	require.Eventually(t, func() bool {
		return f.hub.Len() == 0
	}, 2*time.Second, 10*time.Millisecond, "closed socket must leave the hub")
}
