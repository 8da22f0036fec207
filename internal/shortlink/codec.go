package shortlink

import (
	"errors"
	"strings"
)

// alphabet is the fixed 62-symbol digit set of the key codec. Order
// matters: it defines the digit values and is part of the wire format.
const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const base = int64(len(alphabet))

var (
	// ErrNoEncoding is returned by EncodeID for identifiers below 1.
	ErrNoEncoding = errors.New("no encoding for non-positive id")

	// ErrInvalidCharacter is returned by DecodeID when the input contains
	// a character outside the codec alphabet.
	ErrInvalidCharacter = errors.New("invalid character in key")
)

// EncodeID converts a positive store identifier into its short key digit
// string. The encoding is bijective: the decrement before each division
// means no identifier ever encodes to the empty string and no two
// identifiers share an encoding.
func EncodeID(id int64) (string, error) {
	if id < 1 {
		return "", ErrNoEncoding
	}

	buf := make([]byte, 0, 8)

	for id > 0 {
		id--
		buf = append(buf, alphabet[id%base])
		id /= base
	}

	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}

	return string(buf), nil
}

// DecodeID is the exact inverse of EncodeID. It fails on any character
// outside the alphabet rather than skipping or substituting it.
func DecodeID(key string) (int64, error) {
	var id int64

	for i := 0; i < len(key); i++ {
		digit := strings.IndexByte(alphabet, key[i])
		if digit < 0 {
			return 0, ErrInvalidCharacter
		}

		id = id*base + int64(digit) + 1
	}

	return id, nil
}
