package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// payload is the wire body sent to the callback URL.
type payload struct {
	ShortKey  string `json:"short_key"`
	UserAgent string `json:"user_agent"`
}

// Notifier performs the outbound webhook call for resolution events.
type Notifier struct {
	client *http.Client
	logger *zap.Logger
}

// NewNotifier creates a notifier. A nil client gets a default with a
// bounded timeout so a slow callback endpoint cannot pile up goroutines.
func NewNotifier(client *http.Client, logger *zap.Logger) *Notifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Notifier{client: client, logger: logger}
}

// Notify posts {short_key, user_agent} to the event's webhook URL. The
// returned error exists for the consumer's logging; callers never see it.
func (n *Notifier) Notify(ctx context.Context, event *LinkResolvedEvent) error {
	body, err := json.Marshal(payload{
		ShortKey:  event.ShortKey,
		UserAgent: event.UserAgent,
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, event.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	n.logger.Debug("webhook delivered",
		zap.String("short_key", event.ShortKey),
		zap.String("webhook_url", event.WebhookURL),
	)

	return nil
}
