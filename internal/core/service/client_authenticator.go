package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/oauthcore/auth-server/internal/core/ports"
	"github.com/oauthcore/auth-server/internal/pkg/metrics"
)

// ClientAuthenticator validates client id/secret pairs against the store.
type ClientAuthenticator struct {
	store ports.CredentialStore
	log   zerolog.Logger
}

func NewClientAuthenticator(store ports.CredentialStore, log zerolog.Logger) *ClientAuthenticator {
	return &ClientAuthenticator{store: store, log: log}
}

// ValidateClient reports whether a client with exactly this id and secret
// exists. Store failures are logged and reported as an invalid client.
func (a *ClientAuthenticator) ValidateClient(ctx context.Context, clientID, clientSecret string) (bool, error) {
	client, err := a.store.FindClient(ctx, clientID, clientSecret)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("find_client").Inc()
		metrics.AuthAttemptsTotal.WithLabelValues("client", "store_error").Inc()
		a.log.Warn().Err(err).Str("client_id", clientID).Msg("client lookup failed")
		return false, nil
	}
	if client == nil {
		metrics.AuthAttemptsTotal.WithLabelValues("client", "rejected").Inc()
		return false, nil
	}

	metrics.AuthAttemptsTotal.WithLabelValues("client", "success").Inc()
	return true, nil
}
