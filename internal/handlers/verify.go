package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/serroba/shortlink-go/internal/shortlink"
	"go.uber.org/zap"
)

// VerifyHandler confirms email verification codes and activates records.
type VerifyHandler struct {
	repo    shortlink.Repository
	baseURL string
	logger  *zap.Logger
}

// NewVerifyHandler creates a verify handler. baseURL builds the short URL
// shown on the success page.
func NewVerifyHandler(repo shortlink.Repository, baseURL string, logger *zap.Logger) *VerifyHandler {
	return &VerifyHandler{
		repo:    repo,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Verify consumes a one-time code, marks its record verified, and renders
// the outcome as an HTML page. Unknown and expired codes render the same
// failure page.
func (h *VerifyHandler) Verify(ctx context.Context, req *VerifyRequest) (*HTMLResponse, error) {
	shortKey, err := h.repo.ConsumeEmailAuth(ctx, req.Code)
	if err != nil {
		if !errors.Is(err, shortlink.ErrNotFound) {
			h.logger.Error("email auth lookup failed", zap.Error(err))

			return htmlPage(http.StatusInternalServerError, verifyErrorPage), nil
		}

		return htmlPage(http.StatusNotFound, verifyFailedPage), nil
	}

	unique, randomKey, err := shortlink.SplitKey(shortKey)
	if err != nil {
		h.logger.Error("stored short key is malformed",
			zap.String("short_key", shortKey),
			zap.Error(err),
		)

		return htmlPage(http.StatusInternalServerError, verifyErrorPage), nil
	}

	id, err := shortlink.DecodeID(unique)
	if err != nil {
		h.logger.Error("stored short key does not decode",
			zap.String("short_key", shortKey),
			zap.Error(err),
		)

		return htmlPage(http.StatusInternalServerError, verifyErrorPage), nil
	}

	if err := h.repo.MarkVerified(ctx, id, randomKey); err != nil {
		h.logger.Error("failed to mark record verified",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return htmlPage(http.StatusInternalServerError, verifyErrorPage), nil
	}

	shortURL := fmt.Sprintf("%s/%s", h.baseURL, shortKey)

	return htmlPage(http.StatusOK, renderVerifySuccessPage(shortURL)), nil
}

func htmlPage(status int, body []byte) *HTMLResponse {
	return &HTMLResponse{
		Status:      status,
		ContentType: contentTypeHTML,
		Body:        body,
	}
}
