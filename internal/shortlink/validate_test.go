package shortlink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"test@example.com",
		"user.name+tag@example.com",
		"user@subdomain.example.com",
		"USER@EXAMPLE.COM",
	}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), email)
	}

	assert.ErrorIs(t, ValidateEmail(""), ErrEmailMissing)

	invalid := []string{"plainaddress", "@missing.com", "username.com", "username@com"}
	for _, email := range invalid {
		assert.ErrorIs(t, ValidateEmail(email), ErrEmailFormat, email)
	}
}

func TestValidateURL(t *testing.T) {
	valid := []string{
		"http://example.com",
		"https://www.example.com",
		"https://example.com/path?query=string",
		"https://example.com:8080",
		"http://localhost",
	}
	for _, u := range valid {
		assert.NoError(t, ValidateURL(u), u)
	}

	invalid := []string{"", "example.com", "ftp://example.com", "http//example.com", "://example.com"}
	for _, u := range invalid {
		assert.ErrorIs(t, ValidateURL(u), ErrURLFormat, u)
	}
}

func TestValidateOptionalURL(t *testing.T) {
	assert.NoError(t, ValidateOptionalURL(""))
	assert.NoError(t, ValidateOptionalURL("https://example.com/hook"))
	assert.ErrorIs(t, ValidateOptionalURL("not-a-url"), ErrURLFormat)
}
