package service

import (
	"context"

	"github.com/oauthcore/auth-server/internal/core/domain"
	"github.com/oauthcore/auth-server/internal/core/ports"
)

// StoreSink persists tokens synchronously: Submit returns only once the
// store has acknowledged the write.
type StoreSink struct {
	store ports.CredentialStore
}

func NewStoreSink(store ports.CredentialStore) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Submit(ctx context.Context, token domain.Token) error {
	return s.store.SaveToken(ctx, &token)
}
