package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortlink-go/internal/shortlink"
)

// PostgresStore is the pgx implementation of shortlink.Repository.
// Schema management is external; the store assumes the urls and
// email_auth tables exist.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed repository.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) GetActiveByID(ctx context.Context, id int64) (*shortlink.Record, error) {
	query := `
		SELECT id, random_key, email, ios_deep_link, ios_fallback_url,
		       android_deep_link, android_fallback_url, default_fallback_url,
		       webhook_url, head_html, content_hash, is_verified, is_deleted, created_at
		FROM urls
		WHERE id = $1
		  AND is_deleted = FALSE
		  AND is_verified = TRUE
	`

	return p.scanRecord(p.pool.QueryRow(ctx, query, id))
}

func (p *PostgresStore) GetByContentHash(ctx context.Context, hash string) (*shortlink.Record, error) {
	query := `
		SELECT id, random_key, email, ios_deep_link, ios_fallback_url,
		       android_deep_link, android_fallback_url, default_fallback_url,
		       webhook_url, head_html, content_hash, is_verified, is_deleted, created_at
		FROM urls
		WHERE content_hash = $1
		  AND is_deleted = FALSE
	`

	return p.scanRecord(p.pool.QueryRow(ctx, query, hash))
}

func (p *PostgresStore) Create(ctx context.Context, record *shortlink.Record) (*shortlink.Record, error) {
	query := `
		INSERT INTO urls (
			random_key, email, ios_deep_link, ios_fallback_url,
			android_deep_link, android_fallback_url, default_fallback_url,
			webhook_url, head_html, content_hash
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	created := *record

	err := p.pool.QueryRow(ctx, query,
		record.RandomKey,
		record.Email,
		nullable(record.IOSDeepLink),
		nullable(record.IOSFallbackURL),
		nullable(record.AndroidDeepLink),
		nullable(record.AndroidFallbackURL),
		record.DefaultFallbackURL,
		nullable(record.WebhookURL),
		nullable(record.HeadHTML),
		record.ContentHash,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert url record: %w", err)
	}

	return &created, nil
}

func (p *PostgresStore) MarkVerified(ctx context.Context, id int64, randomKey string) error {
	query := `
		UPDATE urls SET is_verified = TRUE
		WHERE id = $1 AND random_key = $2 AND is_deleted = FALSE
	`

	tag, err := p.pool.Exec(ctx, query, id, randomKey)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shortlink.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) SetHeadHTML(ctx context.Context, id int64, headHTML string) error {
	_, err := p.pool.Exec(ctx, `UPDATE urls SET head_html = $1 WHERE id = $2`, headHTML, id)
	if err != nil {
		return fmt.Errorf("set head html: %w", err)
	}

	return nil
}

func (p *PostgresStore) CreateEmailAuth(ctx context.Context, auth *shortlink.EmailAuth) error {
	query := `INSERT INTO email_auth (short_key, code, expires_at) VALUES ($1, $2, $3)`

	if _, err := p.pool.Exec(ctx, query, auth.ShortKey, auth.Code, auth.ExpiresAt); err != nil {
		return fmt.Errorf("insert email auth: %w", err)
	}

	return nil
}

func (p *PostgresStore) ConsumeEmailAuth(ctx context.Context, code string) (string, error) {
	// Delete-returning makes lookup and consumption one atomic step.
	query := `
		DELETE FROM email_auth
		WHERE code = $1 AND expires_at > now()
		RETURNING short_key
	`

	var shortKey string

	err := p.pool.QueryRow(ctx, query, code).Scan(&shortKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shortlink.ErrNotFound
		}

		return "", fmt.Errorf("consume email auth: %w", err)
	}

	return shortKey, nil
}

func (p *PostgresStore) scanRecord(row pgx.Row) (*shortlink.Record, error) {
	var record shortlink.Record

	var iosDeep, iosFallback, androidDeep, androidFallback, webhookURL, headHTML *string

	err := row.Scan(
		&record.ID,
		&record.RandomKey,
		&record.Email,
		&iosDeep,
		&iosFallback,
		&androidDeep,
		&androidFallback,
		&record.DefaultFallbackURL,
		&webhookURL,
		&headHTML,
		&record.ContentHash,
		&record.Verified,
		&record.Deleted,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortlink.ErrNotFound
		}

		return nil, err
	}

	record.IOSDeepLink = deref(iosDeep)
	record.IOSFallbackURL = deref(iosFallback)
	record.AndroidDeepLink = deref(androidDeep)
	record.AndroidFallbackURL = deref(androidFallback)
	record.WebhookURL = deref(webhookURL)
	record.HeadHTML = deref(headHTML)

	return &record, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// Compile-time check.
var _ shortlink.Repository = (*PostgresStore)(nil)
