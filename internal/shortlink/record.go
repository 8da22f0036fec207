package shortlink

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no matching record exists.
var ErrNotFound = errors.New("short link not found")

// Record is a stored short link. The identifier is assigned by the store;
// RandomKey is the 4-character tag embedded around the encoded identifier
// in the public short key. Records are soft-deleted only.
type Record struct {
	ID                 int64
	RandomKey          string
	Email              string
	IOSDeepLink        string
	IOSFallbackURL     string
	AndroidDeepLink    string
	AndroidFallbackURL string
	DefaultFallbackURL string
	WebhookURL         string
	HeadHTML           string
	ContentHash        string
	Verified           bool
	Deleted            bool
	CreatedAt          time.Time
}

// EmailAuth is a one-time verification code bound to a short key.
type EmailAuth struct {
	ShortKey  string
	Code      string
	ExpiresAt time.Time
}

// Repository defines storage operations for short link records.
type Repository interface {
	// GetActiveByID fetches a record that is verified and not soft-deleted.
	// Returns ErrNotFound otherwise.
	GetActiveByID(ctx context.Context, id int64) (*Record, error)

	// GetByContentHash fetches the non-deleted record with the given
	// content hash regardless of verification state. Returns ErrNotFound
	// if none exists.
	GetByContentHash(ctx context.Context, hash string) (*Record, error)

	// Create inserts a pending (unverified) record and returns it with the
	// store-assigned identifier populated.
	Create(ctx context.Context, record *Record) (*Record, error)

	// MarkVerified flips the verified flag for the record matching both
	// the identifier and the random tag.
	MarkVerified(ctx context.Context, id int64, randomKey string) error

	// SetHeadHTML back-fills the head markup of a record once.
	SetHeadHTML(ctx context.Context, id int64, headHTML string) error

	// CreateEmailAuth stores a one-time verification code.
	CreateEmailAuth(ctx context.Context, auth *EmailAuth) error

	// ConsumeEmailAuth returns the short key for an unexpired code and
	// deletes the code. Returns ErrNotFound for unknown or expired codes.
	ConsumeEmailAuth(ctx context.Context, code string) (string, error)
}
