package domain

// Token binds an opaque bearer token to the username it was issued for.
// The value carries no claims; it is only meaningful through a store lookup.
type Token struct {
	Username string `json:"username"`
	Value    string `json:"-"`
}
