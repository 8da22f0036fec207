// Package webhook delivers best-effort resolution notifications. A
// resolved short link with a webhook URL produces one outbound POST; no
// retry, no backpressure, failures are logged and dropped.
package webhook

import "time"

// TopicLinkResolved is the topic carrying resolution events.
const TopicLinkResolved = "shortlink.resolved"

// LinkResolvedEvent is emitted by the resolver off the critical path for
// every resolution of a record that has a webhook URL configured.
type LinkResolvedEvent struct {
	ShortKey   string    `json:"shortKey"`
	UserAgent  string    `json:"userAgent"`
	WebhookURL string    `json:"webhookUrl"`
	ResolvedAt time.Time `json:"resolvedAt"`
}
