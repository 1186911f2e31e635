package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/oauthcore/auth-server/internal/core/domain"
	"github.com/oauthcore/auth-server/internal/core/ports"
	"github.com/oauthcore/auth-server/internal/core/security"
	"github.com/oauthcore/auth-server/internal/pkg/metrics"
)

// UserAuthenticator implements the resource owner password grant.
type UserAuthenticator struct {
	store  ports.CredentialStore
	hasher ports.PasswordHasher
	tokens ports.TokenGenerator
	sink   ports.TokenSink
	log    zerolog.Logger
}

func NewUserAuthenticator(
	store ports.CredentialStore,
	hasher ports.PasswordHasher,
	tokens ports.TokenGenerator,
	sink ports.TokenSink,
	log zerolog.Logger,
) *UserAuthenticator {
	return &UserAuthenticator{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		sink:   sink,
		log:    log,
	}
}

// GrantUserToken checks username (case-insensitively) and password and, on
// success, issues a new token and hands it to the sink. Unknown users, wrong
// passwords, store failures and rejected writes all report ok=false; err is
// reserved for failing to generate a token at all.
func (a *UserAuthenticator) GrantUserToken(ctx context.Context, username, password string) (string, bool, error) {
	user, err := a.store.FindUserByUsernameCI(ctx, username)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("find_user").Inc()
		metrics.AuthAttemptsTotal.WithLabelValues("password", "store_error").Inc()
		a.log.Warn().Err(err).Str("username", username).Msg("user lookup failed")
		return "", false, nil
	}
	if user == nil {
		metrics.AuthAttemptsTotal.WithLabelValues("password", "unknown").Inc()
		return "", false, nil
	}

	if !a.hasher.Verify(ctx, password, user.HashedPassword) {
		metrics.AuthAttemptsTotal.WithLabelValues("password", "rejected").Inc()
		return "", false, nil
	}

	// The seed includes the plaintext password, which is never stored.
	value, err := a.tokens.Generate(username + ":" + password)
	if err != nil {
		return "", false, fmt.Errorf("grant user token: %w", err)
	}

	token := domain.Token{Username: user.Username, Value: value}
	if err := a.sink.Submit(ctx, token); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("save_token").Inc()
		metrics.AuthAttemptsTotal.WithLabelValues("password", "store_error").Inc()
		a.log.Warn().Err(err).Str("username", user.Username).Msg("token persistence failed")
		return "", false, nil
	}

	metrics.AuthAttemptsTotal.WithLabelValues("password", "success").Inc()
	metrics.TokensIssuedTotal.Inc()
	a.log.Info().
		Str("username", user.Username).
		Str("token_fp", security.Fingerprint(value)).
		Msg("token issued")

	return value, true, nil
}
