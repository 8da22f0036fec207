// Package ratelimit provides sliding-window request limiting for the
// public endpoints.
package ratelimit

import (
	"context"
	"time"
)

// Store records requests per key within a sliding window.
type Store interface {
	// Record registers a request under key and returns how many requests
	// fall inside the current window, pruning expired ones.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}
