package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink-go/internal/headfetch"
	"github.com/serroba/shortlink-go/internal/mailer"
	"github.com/serroba/shortlink-go/internal/shortlink"
	"go.uber.org/zap"
)

// asyncTimeout bounds the detached mail and head-fetch work spawned by a
// create request.
const asyncTimeout = 30 * time.Second

// LinkHandler handles short link creation.
type LinkHandler struct {
	repo         shortlink.Repository
	mail         mailer.Sender
	heads        *headfetch.Fetcher
	newRandomKey func() string
	newAuthCode  func() string
	logger       *zap.Logger
}

// NewLinkHandler creates a link handler with injected generators.
func NewLinkHandler(
	repo shortlink.Repository,
	mail mailer.Sender,
	heads *headfetch.Fetcher,
	newRandomKey func() string,
	newAuthCode func() string,
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		repo:         repo,
		mail:         mail,
		heads:        heads,
		newRandomKey: newRandomKey,
		newAuthCode:  newAuthCode,
		logger:       logger,
	}
}

// Create registers a short link. Identical link fields dedupe onto the
// existing record: a verified one is a conflict, a pending one gets its
// verification mail re-sent. New records start pending; verification and
// head-markup back-fill happen off the request path.
func (h *LinkHandler) Create(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	body := req.Body

	if err := h.validate(&body); err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	hash := shortlink.ContentHash(
		body.IOSDeepLink, body.IOSFallbackURL,
		body.AndroidDeepLink, body.AndroidFallbackURL,
		body.DefaultFallbackURL,
	)

	existing, err := h.repo.GetByContentHash(ctx, hash)
	if err == nil {
		return h.handleExisting(ctx, existing)
	}

	if !errors.Is(err, shortlink.ErrNotFound) {
		h.logger.Error("content hash lookup failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to query store")
	}

	record := &shortlink.Record{
		RandomKey:          h.newRandomKey(),
		Email:              body.Email,
		IOSDeepLink:        body.IOSDeepLink,
		IOSFallbackURL:     body.IOSFallbackURL,
		AndroidDeepLink:    body.AndroidDeepLink,
		AndroidFallbackURL: body.AndroidFallbackURL,
		DefaultFallbackURL: body.DefaultFallbackURL,
		WebhookURL:         body.WebhookURL,
		HeadHTML:           body.HeadHTML,
		ContentHash:        hash,
	}

	created, err := h.repo.Create(ctx, record)
	if err != nil {
		h.logger.Error("failed to create record", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to save short link")
	}

	if err := h.issueVerification(ctx, created); err != nil {
		h.logger.Error("failed to issue verification",
			zap.Int64("id", created.ID),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to issue verification")
	}

	if created.HeadHTML == "" {
		go h.backfillHead(created.ID, created.DefaultFallbackURL)
	}

	resp := &CreateLinkResponse{}
	resp.Body.IsCreated = true

	return resp, nil
}

func (h *LinkHandler) validate(body *CreateLinkBody) error {
	if err := shortlink.ValidateEmail(body.Email); err != nil {
		return err
	}

	if err := shortlink.ValidateURL(body.DefaultFallbackURL); err != nil {
		return fmt.Errorf("default fallback url: %w", err)
	}

	if err := shortlink.ValidateOptionalURL(body.WebhookURL); err != nil {
		return fmt.Errorf("webhook url: %w", err)
	}

	for name, u := range map[string]string{
		"ios fallback url":     body.IOSFallbackURL,
		"android fallback url": body.AndroidFallbackURL,
	} {
		if err := shortlink.ValidateOptionalURL(u); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}

// handleExisting reacts to a create request whose content hash already
// has a record.
func (h *LinkHandler) handleExisting(ctx context.Context, existing *shortlink.Record) (*CreateLinkResponse, error) {
	if existing.Verified {
		return nil, huma.Error409Conflict("short link already exists and is verified")
	}

	if err := h.issueVerification(ctx, existing); err != nil {
		h.logger.Error("failed to re-issue verification",
			zap.Int64("id", existing.ID),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to issue verification")
	}

	resp := &CreateLinkResponse{}
	resp.Body.IsCreated = false

	return resp, nil
}

// issueVerification stores a fresh one-time code for the record's short
// key and sends the verification mail off the request path.
func (h *LinkHandler) issueVerification(ctx context.Context, record *shortlink.Record) error {
	unique, err := shortlink.EncodeID(record.ID)
	if err != nil {
		return fmt.Errorf("encode id %d: %w", record.ID, err)
	}

	shortKey, err := shortlink.MergeKey(record.RandomKey, unique)
	if err != nil {
		return fmt.Errorf("compose short key for id %d: %w", record.ID, err)
	}

	code := h.newAuthCode()

	err = h.repo.CreateEmailAuth(ctx, &shortlink.EmailAuth{
		ShortKey:  shortKey,
		Code:      code,
		ExpiresAt: time.Now().Add(mailer.CodeTTL),
	})
	if err != nil {
		return fmt.Errorf("store email auth: %w", err)
	}

	go func() {
		if err := h.mail.SendVerification(record.Email, code); err != nil {
			h.logger.Error("failed to send verification mail",
				zap.String("short_key", shortKey),
				zap.Error(err),
			)
		}
	}()

	return nil
}

// backfillHead fetches the default fallback page and stores its head
// markup. Detached from the request; failures are logged only.
func (h *LinkHandler) backfillHead(id int64, pageURL string) {
	ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
	defer cancel()

	head, err := h.heads.FetchHead(ctx, pageURL)
	if err != nil {
		h.logger.Warn("head markup fetch failed",
			zap.Int64("id", id),
			zap.String("url", pageURL),
			zap.Error(err),
		)

		return
	}

	if head == "" {
		return
	}

	if err := h.repo.SetHeadHTML(ctx, id, head); err != nil {
		h.logger.Error("failed to store head markup",
			zap.Int64("id", id),
			zap.Error(err),
		)
	}
}
