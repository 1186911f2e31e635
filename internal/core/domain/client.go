package domain

// Client is an application identified by an id/secret pair. Clients are
// provisioned out-of-band and only ever read by the authentication core.
type Client struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"-"`
}
