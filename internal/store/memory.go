package store

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/shortlink-go/internal/shortlink"
)

// MemoryStore is an in-memory shortlink.Repository used in tests and
// local development.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	records map[int64]*shortlink.Record
	auths   map[string]*shortlink.EmailAuth // code -> auth
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory repository.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:  1,
		records: make(map[int64]*shortlink.Record),
		auths:   make(map[string]*shortlink.EmailAuth),
		now:     time.Now,
	}
}

func (m *MemoryStore) GetActiveByID(_ context.Context, id int64) (*shortlink.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok || record.Deleted || !record.Verified {
		return nil, shortlink.ErrNotFound
	}

	snapshot := *record

	return &snapshot, nil
}

func (m *MemoryStore) GetByContentHash(_ context.Context, hash string) (*shortlink.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, record := range m.records {
		if !record.Deleted && record.ContentHash == hash {
			snapshot := *record

			return &snapshot, nil
		}
	}

	return nil, shortlink.ErrNotFound
}

func (m *MemoryStore) Create(_ context.Context, record *shortlink.Record) (*shortlink.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := *record
	created.ID = m.nextID
	created.CreatedAt = m.now()
	m.nextID++

	m.records[created.ID] = &created
	snapshot := created

	return &snapshot, nil
}

func (m *MemoryStore) MarkVerified(_ context.Context, id int64, randomKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[id]
	if !ok || record.Deleted || record.RandomKey != randomKey {
		return shortlink.ErrNotFound
	}

	record.Verified = true

	return nil
}

func (m *MemoryStore) SetHeadHTML(_ context.Context, id int64, headHTML string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[id]
	if !ok {
		return shortlink.ErrNotFound
	}

	record.HeadHTML = headHTML

	return nil
}

func (m *MemoryStore) CreateEmailAuth(_ context.Context, auth *shortlink.EmailAuth) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *auth
	m.auths[auth.Code] = &copied

	return nil
}

func (m *MemoryStore) ConsumeEmailAuth(_ context.Context, code string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	auth, ok := m.auths[code]
	if !ok || !m.now().Before(auth.ExpiresAt) {
		return "", shortlink.ErrNotFound
	}

	delete(m.auths, code)

	return auth.ShortKey, nil
}

// Compile-time check.
var _ shortlink.Repository = (*MemoryStore)(nil)
