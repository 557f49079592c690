package http

import (
	"encoding/json"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wsAdapter "github.com/hosteldesk/complaints-backend/internal/adapters/primary/websocket"
	"github.com/hosteldesk/complaints-backend/internal/auth"
	"github.com/hosteldesk/complaints-backend/internal/config"
	"github.com/hosteldesk/complaints-backend/internal/core/domain"
)

func newWSHandler(t *testing.T) (*WebSocketHandler, *wsAdapter.Registry, *auth.TokenManager) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := wsAdapter.NewRegistry(logger)
	tokenManager := auth.NewTokenManager("test-secret-key", time.Hour)
	cfg := &config.Config{
		App: config.AppConfig{Environment: "development"},
		WebSocket: config.WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	return NewWebSocketHandler(registry, tokenManager, cfg, logger), registry, tokenManager
}

func TestWebSocketHandler_Rejections(t *testing.T) {
	handler, registry, tm := newWSHandler(t)

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(stdhttp.MethodGet, "/ws", nil)
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, req)

		assert.Equal(t, stdhttp.StatusUnauthorized, recorder.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(stdhttp.MethodGet, "/ws?token=garbage", nil)
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, req)

		assert.Equal(t, stdhttp.StatusUnauthorized, recorder.Code)
	})

	t.Run("unknown role is rejected before upgrade", func(t *testing.T) {
		token, err := tm.GenerateToken(uuid.New(), "student", "")
		require.NoError(t, err)

		req := httptest.NewRequest(stdhttp.MethodGet, "/ws?token="+token, nil)
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, req)

		assert.Equal(t, stdhttp.StatusForbidden, recorder.Code)
		assert.Equal(t, 0, registry.Size())
	})
}

func TestWebSocketHandler_ConnectAndReceive(t *testing.T) {
	handler, registry, tm := newWSHandler(t)
	router := wsAdapter.NewRouter(registry, wsAdapter.ScopeGlobal, slog.New(slog.NewTextHandler(io.Discard, nil)))

	server := httptest.NewServer(handler)
	defer server.Close()

	token, err := tm.GenerateToken(uuid.New(), "admin", "")
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	require.Eventually(t, func() bool {
		return registry.Size() == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, registry.Stats().ByRole["admin"])

	event := domain.NewComplaintEvent("c-1", "north-wing", "plumbing", "high", time.Now())
	result, err := router.Broadcast(event)
	require.NoError(t, err)
	require.Equal(t, 1, result.Delivered)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)

	var received struct {
		Event     string          `json:"event"`
		Timestamp time.Time       `json:"timestamp"`
		Data      json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(frame, &received))
	assert.Equal(t, "new_complaint", received.Event)
	assert.False(t, received.Timestamp.IsZero())

	var data domain.NewComplaintData
	require.NoError(t, json.Unmarshal(received.Data, &data))
	assert.Equal(t, "c-1", data.ComplaintID)

	// Closing the socket tears the registration down via the read pump.
	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		return registry.Size() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWebSocketHandler_Heartbeat(t *testing.T) {
	handler, registry, tm := newWSHandler(t)

	server := httptest.NewServer(handler)
	defer server.Close()

	token, err := tm.GenerateToken(uuid.New(), "porter", "north-wing")
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"PING"}`)))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)

	var pong struct {
		Event string `json:"event"`
	}
	require.NoError(t, json.Unmarshal(frame, &pong))
	assert.Equal(t, "PONG", pong.Event)
	require.Eventually(t, func() bool {
		return registry.Size() == 1
	}, 2*time.Second, 10*time.Millisecond)
}
