package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oauthcore/auth-server/internal/api/middleware"
	"github.com/oauthcore/auth-server/internal/core/domain"
)

// ctxIdentity extracts the caller injected by BearerAuth. An empty username
// means the middleware did not run for this route.
func ctxIdentity(c echo.Context) (username string, role domain.Role, err error) {
	username, _ = c.Get(middleware.UsernameKey).(string)
	if username == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authenticated user")
	}
	role, _ = c.Get(middleware.RoleKey).(domain.Role)
	return username, role, nil
}
