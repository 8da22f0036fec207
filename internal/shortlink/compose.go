package shortlink

import "fmt"

// RandomKeyLength is the fixed length of the random tag. The composition
// scheme carries no length marker, so this is a wire-format constant:
// changing it breaks every key already issued.
const RandomKeyLength = 4

// MergeKey builds a public short key by inserting the encoded identifier
// between the two halves of the 4-character random tag. Inputs arrive from
// stored data, so a wrong-length tag is reported as an error rather than
// a panic.
func MergeKey(randomKey, unique string) (string, error) {
	if len(randomKey) != RandomKeyLength {
		return "", fmt.Errorf("random key must be %d characters, got %d", RandomKeyLength, len(randomKey))
	}

	return randomKey[:2] + unique + randomKey[2:], nil
}

// SplitKey reverses MergeKey: the first two and last two characters
// reassemble the random tag, the middle is the encoded identifier. Keys
// come straight off the request path, so short input is a data error.
func SplitKey(shortKey string) (unique, randomKey string, err error) {
	if len(shortKey) < RandomKeyLength {
		return "", "", fmt.Errorf("short key must be at least %d characters, got %d", RandomKeyLength, len(shortKey))
	}

	randomKey = shortKey[:2] + shortKey[len(shortKey)-2:]
	unique = shortKey[2 : len(shortKey)-2]

	return unique, randomKey, nil
}
