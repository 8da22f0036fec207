package shortlink

import (
	"errors"
	"regexp"
)

var (
	emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+\-]+@[A-Z0-9.\-]+\.[A-Z]{2,}$`)
	urlPattern   = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)
)

var (
	ErrEmailMissing = errors.New("email is missing")
	ErrEmailFormat  = errors.New("invalid email format")
	ErrURLFormat    = errors.New("invalid url format")
)

// ValidateEmail performs a basic format check on the recipient address.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmailMissing
	}

	if !emailPattern.MatchString(email) {
		return ErrEmailFormat
	}

	return nil
}

// ValidateURL checks basic http(s) URL structure.
func ValidateURL(rawURL string) error {
	if !urlPattern.MatchString(rawURL) {
		return ErrURLFormat
	}

	return nil
}

// ValidateOptionalURL accepts an empty string, otherwise applies ValidateURL.
// Webhook and fallback URLs are optional fields.
func ValidateOptionalURL(rawURL string) error {
	if rawURL == "" {
		return nil
	}

	return ValidateURL(rawURL)
}
