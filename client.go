package applemusic

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/musickit/applemusic-go/internal/api"
	"github.com/musickit/applemusic-go/internal/auth"
)

// RequestSpec describes a raw API call for [Client.Execute] and [Client.Do].
type RequestSpec = api.RequestSpec

// Query is an ordered list of query parameters.
type Query = api.Query

// QueryParam is a single query parameter.
type QueryParam = api.QueryParam

// Response is a successful raw API response.
type Response = api.Response

// SignedToken is a developer token with its validity window.
type SignedToken = auth.SignedToken

// Client is the Apple Music API client. It is safe for concurrent use.
type Client struct {
	apiClient  *api.Client
	creds      *auth.Credentials
	cfg        Config
	storefront string
	logger     zerolog.Logger
}

// New creates a client from a validated Config.
func New(cfg Config) (*Client, error) {
	creds, err := cfg.credentials()
	if err != nil {
		return nil, err
	}

	retry := cfg.retry
	retry.MaxRetries = int(cfg.maxRetries)
	if retry.Multiplier == 0 {
		retry.Multiplier = 2.0
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	apiClient, err := api.NewClient(api.Config{
		BaseURL:     cfg.baseURL,
		Credentials: creds,
		HTTPClient:  httpClient,
		Timeout:     cfg.timeout,
		Retry:       &retry,
		UserAgent:   cfg.userAgent,
		Logger:      cfg.logger,
	})
	if err != nil {
		return nil, err
	}

	logger := zerolog.Nop()
	if cfg.logger != nil {
		logger = *cfg.logger
	}

	storefront := cfg.storefront
	if storefront == "" {
		storefront = DefaultStorefront
	}

	c := &Client{
		apiClient:  apiClient,
		creds:      creds,
		cfg:        cfg,
		storefront: storefront,
		logger:     logger,
	}
	logger.Debug().
		Str("base_url", apiClient.BaseURL()).
		Str("storefront", storefront).
		Bool("jwt", cfg.UsesJWT()).
		Msg("apple music client created")
	return c, nil
}

// Config returns the configuration the client was built from.
func (c *Client) Config() Config {
	return c.cfg
}

// Storefront returns the configured storefront code.
func (c *Client) Storefront() string {
	return c.storefront
}

// BaseURL returns the API origin.
func (c *Client) BaseURL() string {
	return c.apiClient.BaseURL()
}

// SetUserToken sets the Music-User-Token sent with subsequent requests.
// An empty token clears it. Requests already in flight are unaffected.
func (c *Client) SetUserToken(token string) {
	c.creds.SetUserToken(token)
}

// ClearUserToken removes the user token.
func (c *Client) ClearUserToken() {
	c.creds.ClearUserToken()
}

// UserToken returns the current user token, if any.
func (c *Client) UserToken() (string, bool) {
	return c.creds.UserToken()
}

// HasUserToken reports whether a user token is set.
func (c *Client) HasUserToken() bool {
	_, ok := c.creds.UserToken()
	return ok
}

// DeveloperToken returns the developer token that the next request will
// carry, signing a fresh JWT when the cached one is near expiry.
func (c *Client) DeveloperToken() (string, error) {
	return c.creds.DeveloperToken()
}

// SignedDeveloperToken returns the cached JWT with its validity window. It
// returns false when the client uses a raw developer token.
func (c *Client) SignedDeveloperToken() (*SignedToken, bool, error) {
	jwt, ok := c.creds.Mode().(*auth.JWTAuth)
	if !ok {
		return nil, false, nil
	}
	tok, err := jwt.Signer.Token()
	if err != nil {
		return nil, true, err
	}
	return tok, true, nil
}

// Execute sends a raw request through the retrying pipeline and returns the
// 2xx response.
func (c *Client) Execute(ctx context.Context, spec RequestSpec) (*Response, error) {
	return c.apiClient.Execute(ctx, spec)
}

// Do sends a raw request and decodes the JSON response into out.
func (c *Client) Do(ctx context.Context, spec RequestSpec, out any) error {
	return c.apiClient.Do(ctx, spec, out)
}

// GetNext follows a pagination href returned in a previous response.
func (c *Client) GetNext(ctx context.Context, href string, out any) error {
	return c.apiClient.GetNext(ctx, href, out)
}
