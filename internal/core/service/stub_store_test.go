package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/oauthcore/auth-server/internal/core/domain"
)

// stubStore is an in-memory CredentialStore. Setting an *Err field makes the
// matching operation fail.
type stubStore struct {
	mu      sync.Mutex
	clients []domain.Client
	users   map[string]*domain.User // keyed by canonical username
	tokens  map[string]domain.Token

	findClientErr error
	findUserErr   error
	findTokenErr  error
	saveTokenErr  error
	saveUserErr   error
	nextID        int
}

func newStubStore() *stubStore {
	return &stubStore{
		users:  make(map[string]*domain.User),
		tokens: make(map[string]domain.Token),
	}
}

func (s *stubStore) FindClient(_ context.Context, clientID, clientSecret string) (*domain.Client, error) {
	if s.findClientErr != nil {
		return nil, s.findClientErr
	}
	for _, c := range s.clients {
		if c.ClientID == clientID && c.ClientSecret == clientSecret {
			clone := c
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *stubStore) FindUserByUsernameCI(_ context.Context, username string) (*domain.User, error) {
	if s.findUserErr != nil {
		return nil, s.findUserErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, u := range s.users {
		if strings.EqualFold(key, username) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *stubStore) FindTokenByValue(_ context.Context, token string) (*domain.Token, error) {
	if s.findTokenErr != nil {
		return nil, s.findTokenErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *stubStore) SaveToken(_ context.Context, token *domain.Token) error {
	if s.saveTokenErr != nil {
		return s.saveTokenErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Value] = *token
	return nil
}

func (s *stubStore) SaveUser(_ context.Context, user *domain.User) (*domain.User, error) {
	if s.saveUserErr != nil {
		return nil, s.saveUserErr
	}
	if v := domain.ValidateUser(user, user.ID == ""); len(v) > 0 {
		return nil, v
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *user
	if clone.ID == "" {
		s.nextID++
		clone.ID = fmt.Sprintf("user-%d", s.nextID)
	}
	s.users[clone.Username] = &clone
	out := clone
	return &out, nil
}

func (s *stubStore) tokenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}
