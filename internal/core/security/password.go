package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/oauthcore/auth-server/internal/core/domain"
	"github.com/oauthcore/auth-server/internal/pkg/metrics"
)

// DefaultCost is the bcrypt work factor used for new hashes.
const DefaultCost = 10

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

const defaultConcurrency = 4

var errPasswordTooLong = domain.Violations{{
	Field:   "password",
	Message: fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes),
}}

// BcryptHasher hashes passwords with bcrypt. At most concurrency hash or
// verify operations run at once; further callers wait for a slot or for
// their context to end.
type BcryptHasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewBcryptHasher returns a hasher using cost and the given concurrency limit.
// Non-positive values fall back to DefaultCost and a limit of 4.
func NewBcryptHasher(cost int, concurrency int) *BcryptHasher {
	if cost <= 0 {
		cost = DefaultCost
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &BcryptHasher{cost: cost, sem: semaphore.NewWeighted(int64(concurrency))}
}

// Hash returns a salted bcrypt digest of plaintext. An empty plaintext hashes
// to the empty string. Inputs over MaxPasswordBytes fail with a password
// violation.
func (h *BcryptHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	if len(plaintext) > MaxPasswordBytes {
		return "", errPasswordTooLong
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	defer h.sem.Release(1)

	start := time.Now()
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	metrics.PasswordHashDuration.WithLabelValues("hash").Observe(time.Since(start).Seconds())
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", errPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches digest. Malformed digests and
// cancelled contexts report false.
func (h *BcryptHasher) Verify(ctx context.Context, plaintext, digest string) bool {
	if digest == "" {
		return false
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)

	start := time.Now()
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	metrics.PasswordHashDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds())
	return err == nil
}
