package handlers

import (
	"context"
	_ "embed"
	"net/http"
	"strings"

	"github.com/serroba/shortlink-go/internal/shortlink"
)

//go:embed templates/redirect.html
var redirectTemplate string

//go:embed templates/index.html
var indexPage []byte

//go:embed templates/verify_success.html
var verifySuccessTemplate string

//go:embed templates/verify_failed.html
var verifyFailedPage []byte

//go:embed templates/verify_error.html
var verifyErrorPage []byte

const contentTypeHTML = "text/html; charset=utf-8"

// RenderRedirectPage substitutes the record's URL fields and head markup
// into the redirect page. Substitution is verbatim and unescaped: the
// head markup is trusted HTML captured at creation time.
func RenderRedirectPage(record *shortlink.Record) []byte {
	page := strings.NewReplacer(
		"{ios_deep_link}", record.IOSDeepLink,
		"{ios_fallback_url}", record.IOSFallbackURL,
		"{android_deep_link}", record.AndroidDeepLink,
		"{android_fallback_url}", record.AndroidFallbackURL,
		"{default_fallback_url}", record.DefaultFallbackURL,
		"{head_html}", record.HeadHTML,
	).Replace(redirectTemplate)

	return []byte(page)
}

func renderVerifySuccessPage(shortURL string) []byte {
	return []byte(strings.ReplaceAll(verifySuccessTemplate, "{short_url}", shortURL))
}

// Index serves the landing page.
func Index(_ context.Context, _ *struct{}) (*HTMLResponse, error) {
	return &HTMLResponse{
		Status:      http.StatusOK,
		ContentType: contentTypeHTML,
		Body:        indexPage,
	}, nil
}
