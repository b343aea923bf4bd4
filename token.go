package applemusic

import (
	"strings"
	"time"

	"github.com/musickit/applemusic-go/internal/apierrors"
	"github.com/musickit/applemusic-go/internal/auth"
)

// SignDeveloperToken signs a single ES256 developer token without caching.
// The issuer is teamID, the kid header is keyID and the token expires
// ttl after issuedAt. Key parse and signing failures return an *AuthError.
func SignDeveloperToken(teamID, keyID string, privateKeyPEM []byte, issuedAt time.Time, ttl time.Duration) (*SignedToken, error) {
	if strings.TrimSpace(teamID) == "" || strings.TrimSpace(keyID) == "" {
		return nil, &apierrors.ConfigError{Field: "signing_input", Err: apierrors.ErrInvalidSigningInput}
	}
	return auth.SignPEM(teamID, keyID, privateKeyPEM, issuedAt, ttl)
}
