package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oauthcore/auth-server/internal/core/domain"
)

// RequireRole admits callers whose role satisfies required under the
// Admin > Developer > User hierarchy. It must run after BearerAuth.
func RequireRole(required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(RoleKey).(domain.Role)
			if !domain.AllowAccess(role, required) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
