package ports

import (
	"context"

	"github.com/oauthcore/auth-server/internal/core/domain"
)

// CredentialStore is the persistence collaborator the authentication core
// reads clients, users and tokens from. Lookups that match nothing return
// (nil, nil); a non-nil error always means the store itself failed.
type CredentialStore interface {
	// FindClient matches both fields exactly and case-sensitively.
	FindClient(ctx context.Context, clientID, clientSecret string) (*domain.Client, error)
	// FindUserByUsernameCI matches the username case-insensitively.
	FindUserByUsernameCI(ctx context.Context, username string) (*domain.User, error)
	FindTokenByValue(ctx context.Context, token string) (*domain.Token, error)
	SaveToken(ctx context.Context, token *domain.Token) error
	// SaveUser validates and persists user. Users without an ID are created.
	SaveUser(ctx context.Context, user *domain.User) (*domain.User, error)
}

// TokenSink accepts a freshly issued token for persistence. Implementations
// decide whether Submit waits for the write to be acknowledged.
type TokenSink interface {
	Submit(ctx context.Context, token domain.Token) error
}
