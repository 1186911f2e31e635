package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/oauthcore/auth-server/internal/core/ports"
	"github.com/oauthcore/auth-server/internal/core/security"
	"github.com/oauthcore/auth-server/internal/pkg/metrics"
)

// TokenAuthenticator maps bearer tokens back to usernames by store lookup.
type TokenAuthenticator struct {
	store ports.CredentialStore
	log   zerolog.Logger
}

func NewTokenAuthenticator(store ports.CredentialStore, log zerolog.Logger) *TokenAuthenticator {
	return &TokenAuthenticator{store: store, log: log}
}

// AuthenticateToken returns the username the token was issued for. Unknown
// tokens and store failures report ok=false.
func (a *TokenAuthenticator) AuthenticateToken(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("token", "unknown").Inc()
		return "", false, nil
	}

	record, err := a.store.FindTokenByValue(ctx, token)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("find_token").Inc()
		metrics.AuthAttemptsTotal.WithLabelValues("token", "store_error").Inc()
		a.log.Warn().Err(err).Str("token_fp", security.Fingerprint(token)).Msg("token lookup failed")
		return "", false, nil
	}
	if record == nil {
		metrics.AuthAttemptsTotal.WithLabelValues("token", "unknown").Inc()
		return "", false, nil
	}

	metrics.AuthAttemptsTotal.WithLabelValues("token", "success").Inc()
	return record.Username, true, nil
}
