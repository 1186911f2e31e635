package handler

import (
	"context"
	"strings"

	"github.com/oauthcore/auth-server/internal/core/domain"
	"github.com/oauthcore/auth-server/internal/core/ports"
)

type stubClients struct {
	secrets map[string]string
	err     error
}

func (s *stubClients) ValidateClient(_ context.Context, id, secret string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	want, ok := s.secrets[id]
	return ok && want == secret, nil
}

type stubGrants struct {
	passwords map[string]string
	err       error
	calls     int
}

func (s *stubGrants) GrantUserToken(_ context.Context, username, password string) (string, bool, error) {
	s.calls++
	if s.err != nil {
		return "", false, s.err
	}
	want, ok := s.passwords[strings.ToLower(username)]
	if !ok || want != password {
		return "", false, nil
	}
	return "token-for-" + strings.ToLower(username), true, nil
}

type stubUserService struct {
	users      map[string]*domain.User
	registerFn func(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error)
	lastInput  ports.RegisterUserInput
}

func (s *stubUserService) Register(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error) {
	s.lastInput = in
	if s.registerFn != nil {
		return s.registerFn(ctx, in)
	}
	return &domain.User{
		ID:       "user-1",
		Name:     in.Name,
		Email:    in.Email,
		Username: strings.ToLower(in.Username),
		Role:     domain.Role(in.Role),
	}, nil
}

func (s *stubUserService) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := s.users[strings.ToLower(username)]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}
