package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/musickit/applemusic-go/internal/apierrors"
)

const (
	// DefaultTokenTTL is the lifetime of a signed developer token.
	// Apple accepts at most 15777000 seconds (about six months).
	DefaultTokenTTL = 180 * 24 * time.Hour

	// MaxTokenTTL is the longest lifetime Apple accepts.
	MaxTokenTTL = 15777000 * time.Second

	// DefaultSkewMargin is how long before expiry a cached token is replaced.
	DefaultSkewMargin = 60 * time.Second
)

// SignedToken is a developer token together with its validity window.
type SignedToken struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token must be replaced at now, given a skew margin.
func (t *SignedToken) Expired(now time.Time, skew time.Duration) bool {
	return !now.Before(t.ExpiresAt.Add(-skew))
}

// ParsePrivateKey parses a PEM encoded P-256 private key (PKCS#8 or SEC 1).
func ParsePrivateKey(privateKeyPEM []byte) (*ecdsa.PrivateKey, error) {
	if !strings.Contains(string(privateKeyPEM), "-----BEGIN") {
		return nil, &apierrors.AuthError{Message: "invalid PEM format: missing BEGIN header"}
	}
	key, err := jwt.ParseECPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, &apierrors.AuthError{Message: "parse private key", Err: err}
	}
	if key.Curve != elliptic.P256() {
		return nil, &apierrors.AuthError{
			Message: fmt.Sprintf("private key uses curve %s, want P-256", key.Curve.Params().Name),
		}
	}
	return key, nil
}

// Sign builds a developer token for teamID/keyID valid from issuedAt for ttl.
// It performs no I/O. Timestamps are truncated to whole seconds so the
// returned window matches the encoded claims exactly.
func Sign(teamID, keyID string, key *ecdsa.PrivateKey, issuedAt time.Time, ttl time.Duration) (*SignedToken, error) {
	if key == nil {
		return nil, &apierrors.AuthError{Message: "private key is nil"}
	}
	if ttl <= 0 {
		return nil, &apierrors.AuthError{Message: fmt.Sprintf("token ttl must be positive, got %v", ttl)}
	}

	iat := issuedAt.Truncate(time.Second)
	exp := iat.Add(ttl).Truncate(time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.RegisteredClaims{
		Issuer:    teamID,
		IssuedAt:  jwt.NewNumericDate(iat),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	token.Header["kid"] = keyID

	value, err := token.SignedString(key)
	if err != nil {
		return nil, &apierrors.AuthError{Message: "sign developer token", Err: err}
	}

	return &SignedToken{Value: value, IssuedAt: iat, ExpiresAt: exp}, nil
}

// SignPEM parses privateKeyPEM and signs a single developer token with it.
func SignPEM(teamID, keyID string, privateKeyPEM []byte, issuedAt time.Time, ttl time.Duration) (*SignedToken, error) {
	key, err := ParsePrivateKey(privateKeyPEM)
	if err != nil {
		return nil, err
	}
	return Sign(teamID, keyID, key, issuedAt, ttl)
}

// SignerOption configures a Signer.
type SignerOption func(*Signer)

// WithTTL sets the lifetime of each signed token.
func WithTTL(ttl time.Duration) SignerOption {
	return func(s *Signer) {
		s.ttl = ttl
	}
}

// WithSkewMargin sets how early before expiry a token is re-signed.
func WithSkewMargin(skew time.Duration) SignerOption {
	return func(s *Signer) {
		s.skew = skew
	}
}

// WithClock replaces time.Now. Used by tests.
func WithClock(now func() time.Time) SignerOption {
	return func(s *Signer) {
		s.now = now
	}
}

// WithLogger sets the logger used to report re-signing.
func WithLogger(logger zerolog.Logger) SignerOption {
	return func(s *Signer) {
		s.logger = logger
	}
}

// Signer produces developer tokens and caches the most recent one.
// It is safe for concurrent use.
type Signer struct {
	teamID string
	keyID  string
	key    *ecdsa.PrivateKey
	ttl    time.Duration
	skew   time.Duration
	now    func() time.Time
	logger zerolog.Logger

	mu      sync.Mutex // serializes re-signing
	current atomic.Pointer[SignedToken]
}

// NewSigner validates the signing inputs and parses the private key.
// No token is signed until the first call to Token.
func NewSigner(teamID, keyID string, privateKeyPEM []byte, opts ...SignerOption) (*Signer, error) {
	if strings.TrimSpace(teamID) == "" {
		return nil, &apierrors.ConfigError{Field: "team_id", Err: apierrors.ErrInvalidSigningInput}
	}
	if strings.TrimSpace(keyID) == "" {
		return nil, &apierrors.ConfigError{Field: "key_id", Err: apierrors.ErrInvalidSigningInput}
	}

	key, err := ParsePrivateKey(privateKeyPEM)
	if err != nil {
		return nil, err
	}

	s := &Signer{
		teamID: teamID,
		keyID:  keyID,
		key:    key,
		ttl:    DefaultTokenTTL,
		skew:   DefaultSkewMargin,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.ttl <= 0 || s.ttl > MaxTokenTTL {
		return nil, &apierrors.ConfigError{
			Field: "token_ttl",
			Err:   fmt.Errorf("ttl %v outside (0, %v]", s.ttl, MaxTokenTTL),
		}
	}
	if s.skew < 0 || s.skew >= s.ttl {
		return nil, &apierrors.ConfigError{
			Field: "skew_margin",
			Err:   fmt.Errorf("skew %v must be in [0, ttl)", s.skew),
		}
	}

	return s, nil
}

// TeamID returns the issuer claim.
func (s *Signer) TeamID() string {
	return s.teamID
}

// KeyID returns the kid header value.
func (s *Signer) KeyID() string {
	return s.keyID
}

// Token returns the cached developer token, re-signing it first when it is
// within the skew margin of expiry.
func (s *Signer) Token() (*SignedToken, error) {
	if tok := s.current.Load(); tok != nil && !tok.Expired(s.now(), s.skew) {
		return tok, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have refreshed while we waited.
	now := s.now()
	if tok := s.current.Load(); tok != nil && !tok.Expired(now, s.skew) {
		return tok, nil
	}

	tok, err := Sign(s.teamID, s.keyID, s.key, now, s.ttl)
	if err != nil {
		return nil, err
	}
	s.current.Store(tok)

	s.logger.Debug().
		Str("key_id", s.keyID).
		Time("expires_at", tok.ExpiresAt).
		Msg("signed developer token")

	return tok, nil
}

// Invalidate drops the cached token so the next call to Token re-signs.
func (s *Signer) Invalidate() {
	s.current.Store(nil)
}
