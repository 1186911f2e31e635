package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/oauthcore/auth-server/internal/core/domain"
	"github.com/oauthcore/auth-server/internal/core/ports"
	"github.com/oauthcore/auth-server/internal/core/security"
	"github.com/oauthcore/auth-server/internal/pkg/metrics"
)

const defaultCacheTTL = 15 * time.Minute

// TokenCache is a read-through cache in front of a CredentialStore's token
// lookups. Tokens are immutable once issued, so a cached username never
// disagrees with the store. Redis failures fall back to the store.
// Key format: authtoken:<sha256(token)>
type TokenCache struct {
	ports.CredentialStore
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewTokenCache wraps next. A non-positive ttl uses 15 minutes.
func NewTokenCache(next ports.CredentialStore, client *redis.Client, ttl time.Duration, log zerolog.Logger) *TokenCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &TokenCache{CredentialStore: next, client: client, ttl: ttl, log: log}
}

func (c *TokenCache) FindTokenByValue(ctx context.Context, token string) (*domain.Token, error) {
	username, err := c.client.Get(ctx, cacheKey(token)).Result()
	switch {
	case err == nil:
		metrics.TokenCacheTotal.WithLabelValues("hit").Inc()
		return &domain.Token{Username: username, Value: token}, nil
	case errors.Is(err, redis.Nil):
		metrics.TokenCacheTotal.WithLabelValues("miss").Inc()
	default:
		metrics.TokenCacheTotal.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).Msg("token cache read failed, using store")
	}

	record, err := c.CredentialStore.FindTokenByValue(ctx, token)
	if err != nil || record == nil {
		return record, err
	}
	c.remember(ctx, record)
	return record, nil
}

// SaveToken writes through to the store and then primes the cache.
func (c *TokenCache) SaveToken(ctx context.Context, token *domain.Token) error {
	if err := c.CredentialStore.SaveToken(ctx, token); err != nil {
		return err
	}
	c.remember(ctx, token)
	return nil
}

func (c *TokenCache) remember(ctx context.Context, token *domain.Token) {
	if err := c.client.Set(ctx, cacheKey(token.Value), token.Username, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("token cache write failed")
	}
}

func cacheKey(token string) string {
	return "authtoken:" + security.Digest(token)
}
