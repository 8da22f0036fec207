package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink-go/internal/resolver"
	"github.com/serroba/shortlink-go/internal/shortlink"
)

// ResolveHandler serves short key resolution.
type ResolveHandler struct {
	resolver *resolver.Resolver
}

// NewResolveHandler creates a resolve handler.
func NewResolveHandler(r *resolver.Resolver) *ResolveHandler {
	return &ResolveHandler{resolver: r}
}

// Resolve resolves a raw short key. Legacy keys answer with a redirect;
// composed keys render the redirect page. Every unresolvable key maps to
// the same 404 so callers cannot probe which failure occurred.
func (h *ResolveHandler) Resolve(ctx context.Context, req *ResolveRequest) (*ResolveResponse, error) {
	meta := RequestMetaFromContext(ctx)

	res, err := h.resolver.Resolve(ctx, req.ShortKey, meta.UserAgent)
	if err != nil {
		if errors.Is(err, shortlink.ErrNotFound) {
			return nil, huma.Error404NotFound("URL not found")
		}

		return nil, huma.Error500InternalServerError("failed to resolve short key")
	}

	if res.RedirectURL != "" {
		return &ResolveResponse{
			Status:   http.StatusFound,
			Location: res.RedirectURL,
		}, nil
	}

	return &ResolveResponse{
		Status:      http.StatusOK,
		ContentType: contentTypeHTML,
		Body:        RenderRedirectPage(res.Record),
	}, nil
}
