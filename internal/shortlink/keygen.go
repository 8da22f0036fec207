package shortlink

import "github.com/jaevor/go-nanoid"

// AuthCodeLength is the length of generated email verification codes.
const AuthCodeLength = 8

// NewRandomKeyGenerator returns a generator for 4-character random tags.
// The generator draws from the codec alphabet so tags never collide with
// characters the codec would reject.
func NewRandomKeyGenerator() (func() string, error) {
	return nanoid.CustomASCII(alphabet, RandomKeyLength)
}

// NewAuthCodeGenerator returns a generator for one-time email codes.
func NewAuthCodeGenerator() (func() string, error) {
	return nanoid.CustomASCII(alphabet, AuthCodeLength)
}
