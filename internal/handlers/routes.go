package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink-go/internal/ratelimit"
)

// RegisterRoutes registers the service routes with per-endpoint rate
// limit configuration.
func RegisterRoutes(api huma.API, links *LinkHandler, resolve *ResolveHandler, verify *VerifyHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "index",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Landing page",
		Tags:        []string{"Pages"},
	}, Index)

	// Creation is the expensive path: store writes plus outbound mail.
	huma.Register(api, huma.Operation{
		OperationID:   "create-short-link",
		Method:        http.MethodPost,
		Path:          "/v1/urls",
		Summary:       "Create short link",
		Description:   "Creates a pending short link and sends a verification mail to its owner.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 10},
					{Window: time.Hour, Max: 100},
				},
			},
		},
	}, links.Create)

	huma.Register(api, huma.Operation{
		OperationID: "verify-email",
		Method:      http.MethodGet,
		Path:        "/v1/verify/{code}",
		Summary:     "Verify email code",
		Description: "Activates the short link bound to a one-time verification code.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 30},
				},
			},
		},
	}, verify.Verify)

	// Resolution is the high-traffic read path.
	huma.Register(api, huma.Operation{
		OperationID: "resolve-short-key",
		Method:      http.MethodGet,
		Path:        "/{shortKey}",
		Summary:     "Resolve short key",
		Description: "Redirects legacy keys and renders the redirect page for composed keys.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 1000},
				},
			},
		},
	}, resolve.Resolve)
}
