package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"time"
)

const (
	keySeparator = "WOO"
	nonceSize    = 32
)

// TokenGenerator mints opaque bearer tokens. Each token is the base64 HMAC-SHA256
// of a seed under a one-off key made of a random nonce, a fixed separator and
// the current time in milliseconds. Tokens carry no readable content and are
// only valid if the store knows them.
type TokenGenerator struct {
	random io.Reader
	now    func() time.Time
}

// NewTokenGenerator returns a generator drawing its nonces from crypto/rand.
func NewTokenGenerator() *TokenGenerator {
	return &TokenGenerator{random: rand.Reader, now: time.Now}
}

// Generate returns a new token derived from seed.
func (g *TokenGenerator) Generate(seed string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(g.random, nonce); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	key := make([]byte, 0, nonceSize+len(keySeparator)+20)
	key = append(key, nonce...)
	key = append(key, keySeparator...)
	key = strconv.AppendInt(key, g.now().UnixMilli(), 10)

	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write([]byte(seed))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}
