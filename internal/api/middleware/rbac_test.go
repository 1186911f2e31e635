package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/oauthcore/auth-server/internal/core/domain"
)

func runRBAC(t *testing.T, actor any, required domain.Role) (int, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actor != nil {
		c.Set(RoleKey, actor)
	}

	called := false
	handler := RequireRole(required)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec.Code, called
}

func TestRequireRole_Hierarchy(t *testing.T) {
	cases := []struct {
		actor    domain.Role
		required domain.Role
		allowed  bool
	}{
		{domain.RoleAdmin, domain.RoleAdmin, true},
		{domain.RoleAdmin, domain.RoleUser, true},
		{domain.RoleDeveloper, domain.RoleDeveloper, true},
		{domain.RoleDeveloper, domain.RoleUser, true},
		{domain.RoleDeveloper, domain.RoleAdmin, false},
		{domain.RoleUser, domain.RoleUser, true},
		{domain.RoleUser, domain.RoleDeveloper, false},
	}
	for _, tc := range cases {
		code, called := runRBAC(t, tc.actor, tc.required)
		if called != tc.allowed {
			t.Errorf("%s requiring %s: called=%v, want %v", tc.actor, tc.required, called, tc.allowed)
		}
		if !tc.allowed && code != http.StatusForbidden {
			t.Errorf("%s requiring %s: expected 403, got %d", tc.actor, tc.required, code)
		}
	}
}

func TestRequireRole_MissingRole(t *testing.T) {
	code, called := runRBAC(t, nil, domain.RoleUser)
	if called || code != http.StatusForbidden {
		t.Fatalf("expected 403 without role, got %d", code)
	}
}

func TestRequireRole_PlainStringIsNotARole(t *testing.T) {
	code, called := runRBAC(t, "Admin", domain.RoleUser)
	if called || code != http.StatusForbidden {
		t.Fatalf("expected 403 for untyped role, got %d", code)
	}
}
