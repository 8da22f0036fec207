package webhook_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/serroba/shortlink-go/internal/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNotifier_PostsPayload(t *testing.T) {
	var calls atomic.Int32

	var got map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := webhook.NewNotifier(server.Client(), zap.NewNop())

	err := n.Notify(context.Background(), &webhook.LinkResolvedEvent{
		ShortKey:   "WXaYZ",
		UserAgent:  "test-agent/1.0",
		WebhookURL: server.URL,
		ResolvedAt: time.Now(),
	})

	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load(), "exactly one outbound call per event")
	assert.Equal(t, "WXaYZ", got["short_key"])
	assert.Equal(t, "test-agent/1.0", got["user_agent"])
}

func TestNotifier_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := webhook.NewNotifier(server.Client(), zap.NewNop())

	err := n.Notify(context.Background(), &webhook.LinkResolvedEvent{
		ShortKey:   "WXaYZ",
		WebhookURL: server.URL,
	})

	assert.Error(t, err)
}

func TestNotifier_UnreachableEndpoint(t *testing.T) {
	n := webhook.NewNotifier(&http.Client{Timeout: 100 * time.Millisecond}, zap.NewNop())

	err := n.Notify(context.Background(), &webhook.LinkResolvedEvent{
		ShortKey:   "WXaYZ",
		WebhookURL: "http://127.0.0.1:1/hook",
	})

	assert.Error(t, err)
}
