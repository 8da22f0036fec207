package shortlink

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash computes the deduplication digest over the five link fields.
// Two create requests with identical link fields map to the same record.
func ContentHash(iosDeepLink, iosFallback, androidDeepLink, androidFallback, defaultFallback string) string {
	h := sha256.New()
	h.Write([]byte(iosDeepLink))
	h.Write([]byte(iosFallback))
	h.Write([]byte(androidDeepLink))
	h.Write([]byte(androidFallback))
	h.Write([]byte(defaultFallback))

	return hex.EncodeToString(h.Sum(nil))
}
