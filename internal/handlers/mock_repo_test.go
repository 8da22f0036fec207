package handlers_test

import (
	"context"
	"errors"
	"sync"

	"github.com/serroba/shortlink-go/internal/shortlink"
)

var errMock = errors.New("mock error")

// mockRepo is a configurable test double for shortlink.Repository. All
// methods are safe for the detached goroutines the handlers spawn.
type mockRepo struct {
	mu sync.Mutex

	byHash       map[string]*shortlink.Record
	byID         map[int64]*shortlink.Record
	getByHashErr error
	getActiveErr error

	nextID    int64
	createErr error
	created   *shortlink.Record

	auths         []*shortlink.EmailAuth
	createAuthErr error

	consumeResult string
	consumeErr    error
	consumedCode  string

	markVerifiedErr error
	verifiedID      int64
	verifiedKey     string

	setHeadErr error
	headID     int64
	headHTML   string
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		byHash: make(map[string]*shortlink.Record),
		byID:   make(map[int64]*shortlink.Record),
	}
}

func (m *mockRepo) GetActiveByID(_ context.Context, id int64) (*shortlink.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getActiveErr != nil {
		return nil, m.getActiveErr
	}

	record, ok := m.byID[id]
	if !ok {
		return nil, shortlink.ErrNotFound
	}

	return record, nil
}

func (m *mockRepo) GetByContentHash(_ context.Context, hash string) (*shortlink.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getByHashErr != nil {
		return nil, m.getByHashErr
	}

	record, ok := m.byHash[hash]
	if !ok {
		return nil, shortlink.ErrNotFound
	}

	return record, nil
}

func (m *mockRepo) Create(_ context.Context, record *shortlink.Record) (*shortlink.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return nil, m.createErr
	}

	m.nextID++

	created := *record
	created.ID = m.nextID
	m.created = &created

	return &created, nil
}

func (m *mockRepo) MarkVerified(_ context.Context, id int64, randomKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.markVerifiedErr != nil {
		return m.markVerifiedErr
	}

	m.verifiedID = id
	m.verifiedKey = randomKey

	return nil
}

func (m *mockRepo) SetHeadHTML(_ context.Context, id int64, headHTML string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.setHeadErr != nil {
		return m.setHeadErr
	}

	m.headID = id
	m.headHTML = headHTML

	return nil
}

func (m *mockRepo) CreateEmailAuth(_ context.Context, auth *shortlink.EmailAuth) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createAuthErr != nil {
		return m.createAuthErr
	}

	m.auths = append(m.auths, auth)

	return nil
}

func (m *mockRepo) ConsumeEmailAuth(_ context.Context, code string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.consumedCode = code

	if m.consumeErr != nil {
		return "", m.consumeErr
	}

	return m.consumeResult, nil
}

func (m *mockRepo) lastAuth() *shortlink.EmailAuth {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.auths) == 0 {
		return nil
	}

	return m.auths[len(m.auths)-1]
}

func (m *mockRepo) storedHead() (int64, string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.headID, m.headHTML
}

// mockMailer records sent verification mails.
type mockMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

type sentMail struct {
	to   string
	code string
}

func (m *mockMailer) SendVerification(to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, sentMail{to: to, code: code})

	return m.err
}

func (m *mockMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sent)
}

func (m *mockMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sent[len(m.sent)-1]
}
