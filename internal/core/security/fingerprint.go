package security

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the SHA-256 hex digest of a token, safe to use as a cache key.
func Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Fingerprint returns a short prefix of Digest for log lines.
func Fingerprint(token string) string {
	return Digest(token)[:12]
}
