package zanata

import "net/http"

// API key authentication headers.
const (
	HeaderAuthUser  = "X-Auth-User"
	HeaderAuthToken = "X-Auth-Token"
)

// Credentials identify a Zanata user by username and API key.
type Credentials struct {
	Username string
	Token    string
}

// Valid reports whether both parts are present. A nil receiver is not valid.
func (c *Credentials) Valid() bool {
	return c != nil && c.Username != "" && c.Token != ""
}

// Apply sets the auth headers on req. Incomplete credentials are skipped
// entirely, since read calls work anonymously.
func (c *Credentials) Apply(req *http.Request) {
	if !c.Valid() {
		return
	}
	req.Header.Set(HeaderAuthUser, c.Username)
	req.Header.Set(HeaderAuthToken, c.Token)
}
