// Package cache provides the process-owned read-through cache for resolved
// short links. Entries carry an absolute expiry; reads are lazy about
// expiration while a background sweep reclaims dead entries.
package cache

import (
	"sync"
	"time"

	"github.com/serroba/shortlink-go/internal/shortlink"
	"go.uber.org/zap"
)

// DefaultTTL is how long a resolved record stays servable before it must
// be re-validated against the store.
const DefaultTTL = time.Hour

// DefaultSweepInterval is the period of the background eviction pass.
const DefaultSweepInterval = time.Minute

type entry struct {
	record    *shortlink.Record
	expiresAt time.Time
}

// Cache maps short keys to record snapshots with per-entry TTL. Reads run
// concurrently under a shared lock; inserts and the sweep take the write
// lock. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry

	now    func() time.Time
	logger *zap.Logger

	sweepEvery time.Duration
	stop       chan struct{}
	done       chan struct{}
}

// New creates a cache and starts its sweep goroutine. The goroutine runs
// until Shutdown.
func New(logger *zap.Logger) *Cache {
	return NewWithClock(time.Now, DefaultSweepInterval, logger)
}

// NewWithClock creates a cache with an injected clock and sweep interval.
// Tests use it to simulate time passage without real delays.
func NewWithClock(now func() time.Time, sweepEvery time.Duration, logger *zap.Logger) *Cache {
	c := &Cache{
		entries:    make(map[string]entry),
		now:        now,
		logger:     logger,
		sweepEvery: sweepEvery,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}

	go c.sweepLoop()

	return c
}

// Get returns the cached record for key if present and not expired. An
// expired entry is reported as a miss but left for the sweep to reclaim.
func (c *Cache) Get(key string) (*shortlink.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false
	}

	return e.record, true
}

// Insert stores or overwrites the entry for key with expiry now+ttl.
// Last write wins.
func (c *Cache) Insert(key string, record *shortlink.Record, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		record:    record,
		expiresAt: c.now().Add(ttl),
	}
}

// Len reports the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

func (c *Cache) sweepLoop() {
	defer close(c.done)

	ticker := time.NewTicker(c.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

// sweep removes every entry whose expiry has passed under one write lock.
func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0

	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}

	if removed > 0 {
		c.logger.Debug("cache sweep",
			zap.Int("removed", removed),
			zap.Int("remaining", len(c.entries)),
		)
	}
}

// Shutdown stops the sweep goroutine and waits for it to exit.
func (c *Cache) Shutdown() error {
	close(c.stop)
	<-c.done

	return nil
}
