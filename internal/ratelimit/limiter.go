package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// LimitConfig is one window/ceiling pair.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// MetadataKey attaches an EndpointConfig to a huma operation.
const MetadataKey = "rateLimit"

// EndpointConfig declares the limits for one endpoint via operation
// metadata.
type EndpointConfig struct {
	Limits   []LimitConfig
	Disabled bool
}

// Limiter checks every configured limit for a client/endpoint pair.
type Limiter struct {
	store Store
}

// NewLimiter creates a limiter over the given store.
func NewLimiter(store Store) *Limiter {
	return &Limiter{store: store}
}

// Allow records the request and reports whether any limit is exceeded.
// The returned LimitConfig names the violated limit when allowed is false.
func (l *Limiter) Allow(
	ctx context.Context, clientKey, endpoint string, limits []LimitConfig,
) (allowed bool, exceeded *LimitConfig, count int64, err error) {
	for _, limit := range limits {
		// Client + endpoint + window track independently.
		key := fmt.Sprintf("%s:%s:%d", clientKey, endpoint, limit.Window.Milliseconds())

		count, err = l.store.Record(ctx, key, limit.Window)
		if err != nil {
			return false, nil, 0, err
		}

		if count > limit.Max {
			violated := limit

			return false, &violated, count, nil
		}
	}

	return true, nil, 0, nil
}
