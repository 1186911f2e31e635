package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/oauthcore/auth-server/internal/core/domain"
	"github.com/oauthcore/auth-server/internal/core/ports"
)

// UserService registers and looks up users.
type UserService struct {
	store  ports.CredentialStore
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewUserService(store ports.CredentialStore, hasher ports.PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{store: store, hasher: hasher, log: log}
}

// Register hashes the password, validates the record and persists it.
// Validation problems come back as domain.Violations.
func (s *UserService) Register(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error) {
	user, err := domain.NewUserWithPassword(ctx, domain.UserFields{
		Name:     in.Name,
		Email:    in.Email,
		Username: in.Username,
		Role:     domain.Role(in.Role),
	}, in.Password, s.hasher)
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	if violations := domain.ValidateUser(user, true); len(violations) > 0 {
		return nil, violations
	}

	existing, err := s.store.FindUserByUsernameCI(ctx, user.Username)
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrUserExists
	}

	created, err := s.store.SaveUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	s.log.Info().Str("username", created.Username).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// GetByUsername returns the user with the given username, matched
// case-insensitively, or domain.ErrUserNotFound.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.store.FindUserByUsernameCI(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
