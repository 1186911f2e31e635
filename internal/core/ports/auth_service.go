package ports

import (
	"context"

	"github.com/oauthcore/auth-server/internal/core/domain"
)

// PasswordHasher hashes and verifies passwords. Hashing an empty password
// yields an empty digest.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, digest string) bool
}

// TokenGenerator produces opaque bearer token values.
type TokenGenerator interface {
	Generate(seed string) (string, error)
}

// ClientAuthenticator validates client id/secret pairs.
type ClientAuthenticator interface {
	ValidateClient(ctx context.Context, clientID, clientSecret string) (bool, error)
}

// UserAuthenticator exchanges resource owner credentials for a new token.
// ok is false for any authentication failure.
type UserAuthenticator interface {
	GrantUserToken(ctx context.Context, username, password string) (token string, ok bool, err error)
}

// TokenAuthenticator resolves a bearer token to the username it was issued for.
type TokenAuthenticator interface {
	AuthenticateToken(ctx context.Context, token string) (username string, ok bool, err error)
}

// RegisterUserInput carries the data needed to create a user.
type RegisterUserInput struct {
	Name     string
	Email    string
	Username string
	Password string
	Role     string
}

// UserService manages user records.
type UserService interface {
	Register(ctx context.Context, in RegisterUserInput) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}
