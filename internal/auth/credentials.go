package auth

import (
	"strings"
	"sync"

	"github.com/musickit/applemusic-go/internal/apierrors"
)

// Mode is the developer-token authentication mode. It is implemented only by
// SimpleAuth and *JWTAuth.
type Mode interface {
	// DeveloperToken returns the bearer token to send.
	DeveloperToken() (string, error)

	mode()
}

// SimpleAuth sends a pre-generated developer token verbatim.
type SimpleAuth struct {
	Token string
}

// DeveloperToken returns the raw token.
func (a SimpleAuth) DeveloperToken() (string, error) {
	return a.Token, nil
}

func (SimpleAuth) mode() {}

// JWTAuth signs developer tokens from a private key.
type JWTAuth struct {
	Signer *Signer
}

// DeveloperToken returns the current signed token, re-signing if needed.
func (a *JWTAuth) DeveloperToken() (string, error) {
	tok, err := a.Signer.Token()
	if err != nil {
		return "", err
	}
	return tok.Value, nil
}

func (*JWTAuth) mode() {}

// Credentials pairs an authentication mode with an optional user token.
// The mode is fixed at construction; the user token may change at any time.
type Credentials struct {
	mode Mode

	mu        sync.RWMutex
	userToken string
}

// NewCredentials returns credentials for mode. A SimpleAuth with a blank
// token is rejected.
func NewCredentials(mode Mode) (*Credentials, error) {
	switch m := mode.(type) {
	case SimpleAuth:
		if strings.TrimSpace(m.Token) == "" {
			return nil, &apierrors.ConfigError{Field: "developer_token", Err: apierrors.ErrEmptyToken}
		}
	case *JWTAuth:
		if m == nil || m.Signer == nil {
			return nil, &apierrors.ConfigError{Field: "jwt", Err: apierrors.ErrInvalidSigningInput}
		}
	default:
		return nil, &apierrors.ConfigError{Field: "auth_mode", Err: apierrors.ErrEmptyToken}
	}
	return &Credentials{mode: mode}, nil
}

// Mode returns the authentication mode.
func (c *Credentials) Mode() Mode {
	return c.mode
}

// DeveloperToken resolves the bearer token for the current mode.
func (c *Credentials) DeveloperToken() (string, error) {
	return c.mode.DeveloperToken()
}

// SetUserToken sets the Music-User-Token sent with subsequent requests.
// An empty token clears it.
func (c *Credentials) SetUserToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userToken = strings.TrimSpace(token)
}

// ClearUserToken removes the user token.
func (c *Credentials) ClearUserToken() {
	c.SetUserToken("")
}

// UserToken returns a snapshot of the user token and whether one is set.
func (c *Credentials) UserToken() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userToken, c.userToken != ""
}
