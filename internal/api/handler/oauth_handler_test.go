package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newOAuthHandler() (*OAuthHandler, *stubGrants) {
	clients := &stubClients{secrets: map[string]string{"webapp": "s3cret"}}
	grants := &stubGrants{passwords: map[string]string{"alice": "pw"}}
	return NewOAuthHandler(clients, grants, "Users", zerolog.Nop()), grants
}

func postToken(t *testing.T, h *OAuthHandler, form url.Values, basic []string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/oauth/token", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if basic != nil {
		req.SetBasicAuth(basic[0], basic[1])
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Token(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func decodeOAuthError(t *testing.T, rec *httptest.ResponseRecorder) oauthError {
	t.Helper()
	var body oauthError
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestOAuthHandler_Token_BasicAuthSuccess(t *testing.T) {
	h, _ := newOAuthHandler()
	form := url.Values{"grant_type": {"password"}, "username": {"Alice"}, "password": {"pw"}}

	rec := postToken(t, h, form, []string{"webapp", "s3cret"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(echo.HeaderCacheControl) != "no-store" {
		t.Fatalf("token response must not be cached")
	}
	var body tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.AccessToken != "token-for-alice" || body.TokenType != "Bearer" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestOAuthHandler_Token_FormClientCredentials(t *testing.T) {
	h, _ := newOAuthHandler()
	form := url.Values{
		"grant_type":    {"password"},
		"username":      {"alice"},
		"password":      {"pw"},
		"client_id":     {"webapp"},
		"client_secret": {"s3cret"},
	}

	rec := postToken(t, h, form, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestOAuthHandler_Token_InvalidClient(t *testing.T) {
	h, grants := newOAuthHandler()
	form := url.Values{"grant_type": {"password"}, "username": {"alice"}, "password": {"pw"}}

	for name, basic := range map[string][]string{
		"wrong secret": {"webapp", "nope"},
		"no client":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			rec := postToken(t, h, form, basic)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if got := rec.Header().Get(echo.HeaderWWWAuthenticate); got != `Basic realm="Users"` {
				t.Fatalf("unexpected challenge %q", got)
			}
			if body := decodeOAuthError(t, rec); body.Error != "invalid_client" {
				t.Fatalf("expected invalid_client, got %+v", body)
			}
		})
	}
	if grants.calls != 0 {
		t.Fatalf("user credentials must not be checked for an unknown client")
	}
}

func TestOAuthHandler_Token_RequestErrors(t *testing.T) {
	h, _ := newOAuthHandler()
	basic := []string{"webapp", "s3cret"}

	cases := []struct {
		name string
		form url.Values
		code string
	}{
		{"missing grant type", url.Values{"username": {"alice"}, "password": {"pw"}}, "invalid_request"},
		{"client credentials grant", url.Values{"grant_type": {"client_credentials"}}, "unsupported_grant_type"},
		{"missing password", url.Values{"grant_type": {"password"}, "username": {"alice"}}, "invalid_request"},
		{"wrong password", url.Values{"grant_type": {"password"}, "username": {"alice"}, "password": {"bad"}}, "invalid_grant"},
		{"unknown user", url.Values{"grant_type": {"password"}, "username": {"bob"}, "password": {"pw"}}, "invalid_grant"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postToken(t, h, tc.form, basic)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if body := decodeOAuthError(t, rec); body.Error != tc.code {
				t.Fatalf("expected %s, got %+v", tc.code, body)
			}
		})
	}
}

func TestOAuthHandler_Token_ClientAuthenticatorError(t *testing.T) {
	h := NewOAuthHandler(&stubClients{err: errors.New("boom")}, &stubGrants{}, "Users", zerolog.Nop())
	form := url.Values{"grant_type": {"password"}, "username": {"alice"}, "password": {"pw"}}

	rec := postToken(t, h, form, []string{"webapp", "s3cret"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
