package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBotSender_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		var gotPath, gotChatID, gotParseMode string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			gotPath = r.URL.Path
			gotChatID = r.FormValue("chat_id")
			gotParseMode = r.FormValue("parse_mode")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer server.Close()

		sender := NewBotSender("test-token")
		sender.baseURL = server.URL

		err := sender.Send(ctx, "12345", "<b>hello</b>")

		require.NoError(t, err)
		assert.Equal(t, "/bottest-token/sendMessage", gotPath)
		assert.Equal(t, "12345", gotChatID)
		assert.Equal(t, "HTML", gotParseMode)
	})

	t.Run("api error surfaces description", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
		}))
		defer server.Close()

		sender := NewBotSender("test-token")
		sender.baseURL = server.URL

		err := sender.Send(ctx, "12345", "hello")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "chat not found")
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer server.Close()

		sender := NewBotSender("test-token")
		sender.baseURL = server.URL

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		assert.Error(t, sender.Send(cancelled, "12345", "hello"))
	})
}
