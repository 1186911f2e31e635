package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/oauthcore/auth-server/internal/core/domain"
	"github.com/oauthcore/auth-server/internal/core/ports"
)

// Context keys set by BearerAuth.
const (
	UsernameKey = "username"
	RoleKey     = "role"
)

// UserLookup resolves the user behind an authenticated username.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// BearerAuth resolves the request's bearer token to a user and injects the
// username and role into the echo context. Any failure to identify the caller
// is a 401 carrying a Bearer challenge for realm.
func BearerAuth(tokens ports.TokenAuthenticator, users UserLookup, realm string) echo.MiddlewareFunc {
	challenge := fmt.Sprintf("Bearer realm=%q", realm)

	unauthorized := func(c echo.Context, msg string) error {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, challenge)
		return echo.NewHTTPError(http.StatusUnauthorized, msg)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return unauthorized(c, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return unauthorized(c, "invalid authorization header")
			}

			ctx := c.Request().Context()
			username, ok, err := tokens.AuthenticateToken(ctx, strings.TrimSpace(parts[1]))
			if err != nil {
				return fmt.Errorf("authenticate token: %w", err)
			}
			if !ok {
				return unauthorized(c, "invalid token")
			}

			// Tokens are not tied to users by a foreign key; a token whose
			// user has gone away identifies nobody.
			user, err := users.GetByUsername(ctx, username)
			if errors.Is(err, domain.ErrUserNotFound) {
				return unauthorized(c, "invalid token")
			}
			if err != nil {
				return fmt.Errorf("load token owner: %w", err)
			}

			c.Set(UsernameKey, user.Username)
			c.Set(RoleKey, user.Role)

			return next(c)
		}
	}
}
