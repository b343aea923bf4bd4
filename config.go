package applemusic

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/musickit/applemusic-go/internal/api"
	"github.com/musickit/applemusic-go/internal/apierrors"
	"github.com/musickit/applemusic-go/internal/auth"
)

// Version is the library version reported in the default User-Agent.
const Version = "0.1.0"

const (
	// DefaultBaseURL is the Apple Music API origin.
	DefaultBaseURL = api.DefaultBaseURL
	// DefaultTimeout bounds a single request attempt.
	DefaultTimeout = api.DefaultTimeout
	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 3
	// DefaultStorefront is used when no storefront is configured.
	DefaultStorefront = "us"
	// DefaultTokenTTL is the lifetime of JWT developer tokens.
	DefaultTokenTTL = auth.DefaultTokenTTL
	// MaxTokenTTL is the longest developer token lifetime Apple accepts.
	MaxTokenTTL = auth.MaxTokenTTL
)

var validate = validator.New()

// jwtMaterial is the signing input for JWT mode.
type jwtMaterial struct {
	teamID string
	keyID  string
	pem    []byte
	ttl    time.Duration
}

// Config holds validated client settings. It is an immutable value: every
// With method returns a modified copy and leaves the receiver unchanged,
// so a Config can be shared and reused safely.
type Config struct {
	baseURL        string
	timeout        time.Duration
	maxRetries     uint
	storefront     string
	developerToken string
	jwt            *jwtMaterial
	userToken      string
	userAgent      string
	httpClient     *http.Client
	logger         *zerolog.Logger
	retry          api.RetryConfig
}

func defaultConfig() Config {
	retry := api.DefaultRetryConfig()
	return Config{
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		storefront: DefaultStorefront,
		userAgent:  "applemusic-go/" + Version,
		retry:      *retry,
	}
}

// NewConfig returns a Config that authenticates with a pre-signed developer
// token. A blank token fails with ErrEmptyToken.
func NewConfig(developerToken string) (Config, error) {
	developerToken = strings.TrimSpace(developerToken)
	if developerToken == "" {
		return Config{}, &apierrors.ConfigError{Field: "developer_token", Err: apierrors.ErrEmptyToken}
	}
	cfg := defaultConfig()
	cfg.developerToken = developerToken
	return cfg, nil
}

// NewJWTConfig returns a Config that signs developer tokens with the given
// MusicKit private key. The key is parsed immediately so a bad key fails here.
func NewJWTConfig(teamID, keyID string, privateKeyPEM []byte) (Config, error) {
	return defaultConfig().WithJWTSigning(teamID, keyID, privateKeyPEM)
}

// WithJWTSigning switches the config to JWT mode. When both a developer
// token and signing material are present, the signed token is used.
func (c Config) WithJWTSigning(teamID, keyID string, privateKeyPEM []byte) (Config, error) {
	teamID = strings.TrimSpace(teamID)
	keyID = strings.TrimSpace(keyID)
	if err := validate.Var(teamID, "required,alphanum"); err != nil {
		return c, &apierrors.ConfigError{Field: "team_id", Err: apierrors.ErrInvalidSigningInput}
	}
	if err := validate.Var(keyID, "required,alphanum"); err != nil {
		return c, &apierrors.ConfigError{Field: "key_id", Err: apierrors.ErrInvalidSigningInput}
	}

	ttl := DefaultTokenTTL
	if c.jwt != nil {
		ttl = c.jwt.ttl
	}
	if _, err := auth.NewSigner(teamID, keyID, privateKeyPEM, auth.WithTTL(ttl)); err != nil {
		return c, err
	}

	c.jwt = &jwtMaterial{
		teamID: teamID,
		keyID:  keyID,
		pem:    append([]byte(nil), privateKeyPEM...),
		ttl:    ttl,
	}
	return c, nil
}

// WithTokenTTL sets the lifetime of signed developer tokens. It requires
// JWT mode and a ttl in (0, MaxTokenTTL].
func (c Config) WithTokenTTL(ttl time.Duration) (Config, error) {
	if c.jwt == nil {
		return c, &apierrors.ConfigError{Field: "token_ttl", Err: apierrors.ErrInvalidSigningInput}
	}
	if ttl <= auth.DefaultSkewMargin || ttl > MaxTokenTTL {
		return c, &apierrors.ConfigError{
			Field: "token_ttl",
			Err:   fmt.Errorf("ttl %v outside (%v, %v]", ttl, auth.DefaultSkewMargin, MaxTokenTTL),
		}
	}
	jwt := *c.jwt
	jwt.ttl = ttl
	c.jwt = &jwt
	return c, nil
}

// WithBaseURL sets the API origin. It must be an absolute HTTPS URL.
func (c Config) WithBaseURL(rawURL string) (Config, error) {
	rawURL = strings.TrimSpace(rawURL)
	if err := validate.Var(rawURL, "required,url"); err != nil {
		return c, &apierrors.ConfigError{Field: "base_url", Err: apierrors.ErrInvalidBaseURL}
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return c, &apierrors.ConfigError{Field: "base_url", Err: apierrors.ErrInvalidBaseURL}
	}
	if u.Scheme != "https" {
		return c, &apierrors.ConfigError{Field: "base_url", Err: apierrors.ErrInsecureBaseURL}
	}
	c.baseURL = strings.TrimRight(rawURL, "/")
	return c, nil
}

// WithTimeout sets the per-attempt timeout. It must be positive.
func (c Config) WithTimeout(timeout time.Duration) (Config, error) {
	if timeout <= 0 {
		return c, &apierrors.ConfigError{Field: "timeout", Err: apierrors.ErrInvalidTimeout}
	}
	c.timeout = timeout
	return c, nil
}

// WithMaxRetries sets how many times a transient failure is retried.
// Zero disables retries.
func (c Config) WithMaxRetries(n uint) Config {
	c.maxRetries = n
	return c
}

// WithBackoff sets the retry delay schedule. base must be positive, maxDelay
// at least base, and jitter within [0, 1].
func (c Config) WithBackoff(base, maxDelay time.Duration, jitter float64) (Config, error) {
	if base <= 0 || maxDelay < base {
		return c, &apierrors.ConfigError{
			Field: "backoff",
			Err:   fmt.Errorf("need 0 < base (%v) <= max (%v)", base, maxDelay),
		}
	}
	if err := validate.Var(jitter, "gte=0,lte=1"); err != nil {
		return c, &apierrors.ConfigError{Field: "jitter", Err: err}
	}
	c.retry.BaseDelay = base
	c.retry.MaxDelay = maxDelay
	c.retry.Jitter = jitter
	return c, nil
}

// WithStorefront sets the catalog storefront. It must be a 2-letter code;
// the value is stored lowercased.
func (c Config) WithStorefront(storefront string) (Config, error) {
	storefront = strings.ToLower(strings.TrimSpace(storefront))
	if err := validate.Var(storefront, "len=2,alpha"); err != nil {
		return c, &apierrors.ConfigError{Field: "storefront", Err: apierrors.ErrInvalidStorefront}
	}
	c.storefront = storefront
	return c, nil
}

// WithUserToken sets the initial Music-User-Token. A blank token is rejected;
// omit the call to start without one.
func (c Config) WithUserToken(token string) (Config, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return c, &apierrors.ConfigError{Field: "user_token", Err: apierrors.ErrEmptyToken}
	}
	c.userToken = token
	return c, nil
}

// WithUserAgent overrides the User-Agent header.
func (c Config) WithUserAgent(userAgent string) Config {
	c.userAgent = userAgent
	return c
}

// WithHTTPClient sets a custom HTTP client.
func (c Config) WithHTTPClient(client *http.Client) Config {
	c.httpClient = client
	return c
}

// WithLogger sets the logger for request diagnostics. The default discards output.
func (c Config) WithLogger(logger zerolog.Logger) Config {
	c.logger = &logger
	return c
}

// BaseURL returns the API origin.
func (c Config) BaseURL() string { return c.baseURL }

// Timeout returns the per-attempt timeout.
func (c Config) Timeout() time.Duration { return c.timeout }

// MaxRetries returns the retry budget.
func (c Config) MaxRetries() uint { return c.maxRetries }

// Storefront returns the storefront code.
func (c Config) Storefront() string { return c.storefront }

// UsesJWT reports whether developer tokens are signed locally.
func (c Config) UsesJWT() bool { return c.jwt != nil }

// TokenTTL returns the signed token lifetime, or zero outside JWT mode.
func (c Config) TokenTTL() time.Duration {
	if c.jwt == nil {
		return 0
	}
	return c.jwt.ttl
}

// credentials builds the runtime credentials. JWT takes precedence over a
// raw developer token.
func (c Config) credentials() (*auth.Credentials, error) {
	var mode auth.Mode
	switch {
	case c.jwt != nil:
		opts := []auth.SignerOption{auth.WithTTL(c.jwt.ttl)}
		if c.logger != nil {
			opts = append(opts, auth.WithLogger(*c.logger))
		}
		signer, err := auth.NewSigner(c.jwt.teamID, c.jwt.keyID, c.jwt.pem, opts...)
		if err != nil {
			return nil, err
		}
		mode = &auth.JWTAuth{Signer: signer}
	case c.developerToken != "":
		mode = auth.SimpleAuth{Token: c.developerToken}
	default:
		return nil, &apierrors.ConfigError{Field: "developer_token", Err: apierrors.ErrEmptyToken}
	}

	creds, err := auth.NewCredentials(mode)
	if err != nil {
		return nil, err
	}
	if c.userToken != "" {
		creds.SetUserToken(c.userToken)
	}
	return creds, nil
}
