package handler

import "github.com/oauthcore/auth-server/internal/core/domain"

// tokenResponse is the RFC 6749 section 5.1 success body.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// oauthError is the RFC 6749 section 5.2 error body.
type oauthError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"max=256"`
	Email    string `json:"email"    validate:"max=256"`
	Username string `json:"username" validate:"max=128"`
	Password string `json:"password" validate:"max=72"`
}

type createUserRequest struct {
	Name     string `json:"name"     validate:"max=256"`
	Email    string `json:"email"    validate:"max=256"`
	Username string `json:"username" validate:"max=128"`
	Password string `json:"password" validate:"max=72"`
	Role     string `json:"role"     validate:"omitempty,oneof=User Developer Admin"`
}

type userResponse struct {
	ID       string      `json:"id,omitempty"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Username: u.Username,
		Role:     u.Role,
	}
}
