package domain

import (
	"context"
	"fmt"
	"strings"
)

// User is a resource owner that exchanges username and password for a token.
//
// HashedPassword is only ever written through NewUserWithPassword or
// SetPassword, both of which hash immediately. The plaintext is never kept.
type User struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name"           validate:"required"`
	Email          string `json:"email"          validate:"required"`
	Username       string `json:"username"       validate:"required"`
	HashedPassword string `json:"-"`
	Role           Role   `json:"role"           validate:"required,role"`
}

// UserFields carries the profile attributes of a user being created.
type UserFields struct {
	Name     string
	Email    string
	Username string
	Role     Role
}

// PasswordHasher turns a plaintext password into a one-way digest.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
}

// NewUserWithPassword builds a User from fields and hashes plaintext into it.
// Fields are trimmed, the username is lower-cased and an empty role defaults
// to RoleUser. The result is not validated; call ValidateUser before saving.
func NewUserWithPassword(ctx context.Context, fields UserFields, plaintext string, hasher PasswordHasher) (*User, error) {
	u := &User{
		Name:     fields.Name,
		Email:    fields.Email,
		Username: fields.Username,
		Role:     fields.Role,
	}
	u.normalize()
	if u.Role == "" {
		u.Role = RoleUser
	}
	if err := u.SetPassword(ctx, plaintext, hasher); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword replaces the stored hash with the hash of plaintext. An empty
// plaintext clears the hash, which ValidateUser rejects for new users.
func (u *User) SetPassword(ctx context.Context, plaintext string, hasher PasswordHasher) error {
	hash, err := hasher.Hash(ctx, plaintext)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.HashedPassword = hash
	return nil
}

// CanonicalUsername is the stored form of a username: trimmed and lower-cased.
func CanonicalUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (u *User) normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	u.Username = CanonicalUsername(u.Username)
	u.Role = Role(strings.TrimSpace(string(u.Role)))
}
