package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/oauthcore/auth-server/internal/core/domain"
	"github.com/oauthcore/auth-server/internal/core/ports"
)

// tokenStore serves tokens from a map; other store methods are not used.
type tokenStore struct {
	ports.CredentialStore
	tokens map[string]string
	saved  []domain.Token
}

func (s *tokenStore) FindTokenByValue(_ context.Context, token string) (*domain.Token, error) {
	if username, ok := s.tokens[token]; ok {
		return &domain.Token{Username: username, Value: token}, nil
	}
	return nil, nil
}

func (s *tokenStore) SaveToken(_ context.Context, token *domain.Token) error {
	s.saved = append(s.saved, *token)
	return nil
}

// unreachableRedis returns a client whose every command fails fast.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCacheKey_DoesNotExposeToken(t *testing.T) {
	token := "q2Yw8Y5p0m1kR3xM4b7t0U9a2c6E8g1i3K5m7O9q1s0="
	key := cacheKey(token)

	if !strings.HasPrefix(key, "authtoken:") {
		t.Fatalf("unexpected key prefix: %s", key)
	}
	if strings.Contains(key, token) {
		t.Fatal("cache key must not contain the raw token")
	}
	if key != cacheKey(token) {
		t.Fatal("cache key must be deterministic")
	}
	if key == cacheKey(token+"x") {
		t.Fatal("distinct tokens must have distinct keys")
	}
}

func TestNewTokenCache_DefaultTTL(t *testing.T) {
	c := NewTokenCache(nil, nil, 0, zerolog.Nop())
	if c.ttl != defaultCacheTTL {
		t.Fatalf("expected default ttl %v, got %v", defaultCacheTTL, c.ttl)
	}
	c = NewTokenCache(nil, nil, time.Minute, zerolog.Nop())
	if c.ttl != time.Minute {
		t.Fatalf("expected ttl 1m, got %v", c.ttl)
	}
}

func TestTokenCache_FallsBackToStoreWhenRedisIsDown(t *testing.T) {
	store := &tokenStore{tokens: map[string]string{"tok": "alice"}}
	cache := NewTokenCache(store, unreachableRedis(t), time.Minute, zerolog.Nop())
	ctx := context.Background()

	got, err := cache.FindTokenByValue(ctx, "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Username != "alice" {
		t.Fatalf("expected alice from the store, got %+v", got)
	}

	got, err = cache.FindTokenByValue(ctx, "missing")
	if err != nil || got != nil {
		t.Fatalf("expected (nil, nil) for an unknown token, got %+v, %v", got, err)
	}
}

func TestTokenCache_SaveWritesThroughWhenRedisIsDown(t *testing.T) {
	store := &tokenStore{tokens: map[string]string{}}
	cache := NewTokenCache(store, unreachableRedis(t), time.Minute, zerolog.Nop())

	if err := cache.SaveToken(context.Background(), &domain.Token{Username: "bob", Value: "t2"}); err != nil {
		t.Fatalf("cache failures must not fail the write: %v", err)
	}
	if len(store.saved) != 1 || store.saved[0].Username != "bob" {
		t.Fatalf("token not persisted: %+v", store.saved)
	}
}
