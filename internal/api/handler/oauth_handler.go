package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/oauthcore/auth-server/internal/core/ports"
)

const grantTypePassword = "password"

// OAuthHandler serves the token endpoint.
type OAuthHandler struct {
	clients ports.ClientAuthenticator
	users   ports.UserAuthenticator
	realm   string
	log     zerolog.Logger
}

func NewOAuthHandler(clients ports.ClientAuthenticator, users ports.UserAuthenticator, realm string, log zerolog.Logger) *OAuthHandler {
	return &OAuthHandler{clients: clients, users: users, realm: realm, log: log}
}

// Token exchanges client and resource owner credentials for a bearer token.
//
// @Summary      Issue an access token
// @Description  Resource owner password credentials grant. The client authenticates with HTTP Basic or the client_id and client_secret form fields.
// @Tags         oauth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        grant_type     formData  string  true   "must be password"
// @Param        username       formData  string  true   "resource owner username"
// @Param        password       formData  string  true   "resource owner password"
// @Param        client_id      formData  string  false  "client id when not using Basic auth"
// @Param        client_secret  formData  string  false  "client secret when not using Basic auth"
// @Success      200  {object}  tokenResponse
// @Failure      400  {object}  oauthError
// @Failure      401  {object}  oauthError
// @Router       /oauth/token [post]
func (h *OAuthHandler) Token(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	c.Response().Header().Set("Pragma", "no-cache")

	ctx := c.Request().Context()

	clientID, clientSecret, ok := c.Request().BasicAuth()
	if !ok {
		clientID, clientSecret = c.FormValue("client_id"), c.FormValue("client_secret")
	}
	if clientID == "" {
		return h.invalidClient(c)
	}

	valid, err := h.clients.ValidateClient(ctx, clientID, clientSecret)
	if err != nil {
		return fmt.Errorf("validate client: %w", err)
	}
	if !valid {
		return h.invalidClient(c)
	}

	switch grantType := c.FormValue("grant_type"); grantType {
	case grantTypePassword:
	case "":
		return oauthFail(c, http.StatusBadRequest, "invalid_request", "grant_type is required")
	default:
		return oauthFail(c, http.StatusBadRequest, "unsupported_grant_type", "only the password grant is supported")
	}

	username, password := c.FormValue("username"), c.FormValue("password")
	if username == "" || password == "" {
		return oauthFail(c, http.StatusBadRequest, "invalid_request", "username and password are required")
	}

	token, ok, err := h.users.GrantUserToken(ctx, username, password)
	if err != nil {
		return fmt.Errorf("grant user token: %w", err)
	}
	if !ok {
		return oauthFail(c, http.StatusBadRequest, "invalid_grant", "invalid resource owner credentials")
	}

	h.log.Debug().Str("client_id", clientID).Msg("access token issued")
	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "Bearer"})
}

func (h *OAuthHandler) invalidClient(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, fmt.Sprintf("Basic realm=%q", h.realm))
	return oauthFail(c, http.StatusUnauthorized, "invalid_client", "client authentication failed")
}

func oauthFail(c echo.Context, status int, code, description string) error {
	return c.JSON(status, oauthError{Error: code, ErrorDescription: description})
}
