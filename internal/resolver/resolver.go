// Package resolver arbitrates short key resolution between the legacy
// table, the in-process cache, and the backing store.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/serroba/shortlink-go/internal/cache"
	"github.com/serroba/shortlink-go/internal/legacy"
	"github.com/serroba/shortlink-go/internal/messaging"
	"github.com/serroba/shortlink-go/internal/shortlink"
	"github.com/serroba/shortlink-go/internal/webhook"
	"go.uber.org/zap"
)

// RecordSource is the read-side store interface the resolver consumes.
type RecordSource interface {
	GetActiveByID(ctx context.Context, id int64) (*shortlink.Record, error)
}

// Resolution is the outcome of a successful resolution. Exactly one of
// RedirectURL (legacy hit) or Record (cache/store hit) is set.
type Resolution struct {
	RedirectURL string
	Record      *shortlink.Record
}

// Distinct miss reasons, kept internal for logging. They all collapse to
// shortlink.ErrNotFound at the boundary so callers cannot distinguish a
// forged key from an unassigned one.
const (
	reasonKeyTooShort  = "key_too_short"
	reasonDecodeFailed = "decode_failed"
	reasonStoreMiss    = "store_miss"
	reasonTagMismatch  = "random_key_mismatch"
)

// Resolver is the resolution state machine. Safe for concurrent use.
type Resolver struct {
	legacy  *legacy.Table
	cache   *cache.Cache
	store   RecordSource
	publish messaging.Publish[webhook.LinkResolvedEvent]
	logger  *zap.Logger
}

// New creates a resolver.
func New(
	legacyTable *legacy.Table,
	recordCache *cache.Cache,
	store RecordSource,
	publish messaging.Publish[webhook.LinkResolvedEvent],
	logger *zap.Logger,
) *Resolver {
	return &Resolver{
		legacy:  legacyTable,
		cache:   recordCache,
		store:   store,
		publish: publish,
		logger:  logger,
	}
}

// Resolve runs the state machine for a raw inbound key:
//
//  1. 4-character keys are checked against the legacy table and redirect
//     on a hit, bypassing cache and store.
//  2. A fresh cache entry is authoritative.
//  3. Otherwise the key is split, the embedded identifier decoded, and
//     the store queried for an active record. The stored random tag must
//     match the one reconstructed from the key; this check rejects
//     identifiers that were guessed rather than issued, and runs on every
//     store fallback.
//
// A successful store resolution repopulates the cache for one hour and,
// like a cache hit, emits a webhook event off the critical path when the
// record carries a webhook URL.
func (r *Resolver) Resolve(ctx context.Context, rawKey, userAgent string) (*Resolution, error) {
	if len(rawKey) == legacy.KeyLength {
		if target, ok := r.legacy.Lookup(rawKey); ok {
			return &Resolution{RedirectURL: target}, nil
		}
	}

	if record, ok := r.cache.Get(rawKey); ok {
		r.notify(rawKey, userAgent, record)

		return &Resolution{Record: record}, nil
	}

	return r.resolveFromStore(ctx, rawKey, userAgent)
}

func (r *Resolver) resolveFromStore(ctx context.Context, rawKey, userAgent string) (*Resolution, error) {
	unique, randomKey, err := shortlink.SplitKey(rawKey)
	if err != nil {
		return nil, r.notFound(rawKey, reasonKeyTooShort)
	}

	id, err := shortlink.DecodeID(unique)
	if err != nil || id < 1 {
		// An undecodable identifier can never match a stored row; skip
		// the store round-trip.
		return nil, r.notFound(rawKey, reasonDecodeFailed)
	}

	record, err := r.store.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, shortlink.ErrNotFound) {
			return nil, r.notFound(rawKey, reasonStoreMiss)
		}

		r.logger.Error("store lookup failed",
			zap.String("short_key", rawKey),
			zap.Int64("id", id),
			zap.Error(err),
		)

		return nil, fmt.Errorf("resolve %q: %w", rawKey, err)
	}

	if record.RandomKey != randomKey {
		return nil, r.notFound(rawKey, reasonTagMismatch)
	}

	r.cache.Insert(rawKey, record, cache.DefaultTTL)
	r.notify(rawKey, userAgent, record)

	return &Resolution{Record: record}, nil
}

func (r *Resolver) notFound(rawKey, reason string) error {
	r.logger.Debug("resolution miss",
		zap.String("short_key", rawKey),
		zap.String("reason", reason),
	)

	return shortlink.ErrNotFound
}

// notify publishes the resolution event. Publish failures are logged and
// swallowed; delivery is best-effort by contract.
func (r *Resolver) notify(shortKey, userAgent string, record *shortlink.Record) {
	if record.WebhookURL == "" || r.publish == nil {
		return
	}

	event := &webhook.LinkResolvedEvent{
		ShortKey:   shortKey,
		UserAgent:  userAgent,
		WebhookURL: record.WebhookURL,
		ResolvedAt: time.Now(),
	}

	if err := r.publish(event); err != nil {
		r.logger.Error("failed to publish webhook event",
			zap.String("short_key", shortKey),
			zap.Error(err),
		)
	}
}
