package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/musickit/applemusic-go/internal/apierrors"
	"github.com/musickit/applemusic-go/internal/auth"
)

const (
	// DefaultBaseURL is the Apple Music API origin.
	DefaultBaseURL = "https://api.music.apple.com"
	// DefaultTimeout bounds a single attempt.
	DefaultTimeout = 30 * time.Second

	headerUserToken = "Music-User-Token"
	headerRequestID = "X-Request-ID"
)

// Config holds the settings for creating a Client.
type Config struct {
	// BaseURL is the API origin, optionally with a path prefix.
	BaseURL string
	// Credentials supplies the developer token and optional user token. Required.
	Credentials *auth.Credentials
	// HTTPClient is used for all requests. Defaults to a fresh http.Client.
	HTTPClient *http.Client
	// Timeout bounds each attempt, not the call as a whole.
	Timeout time.Duration
	// Retry controls backoff. Defaults to DefaultRetryConfig.
	Retry *RetryConfig
	// UserAgent is sent on every request when non-empty.
	UserAgent string
	// Logger receives per-attempt diagnostics. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// Client executes Apple Music API requests. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	creds      *auth.Credentials
	httpClient *http.Client
	timeout    time.Duration
	retry      *RetryConfig
	userAgent  string
	logger     zerolog.Logger

	now       func() time.Time
	wait      func(ctx context.Context, d time.Duration) error
	requestID func() string
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Credentials == nil {
		return nil, &apierrors.ConfigError{Field: "credentials", Err: apierrors.ErrEmptyToken}
	}

	rawBase := cfg.BaseURL
	if rawBase == "" {
		rawBase = DefaultBaseURL
	}
	base, err := url.Parse(rawBase)
	if err != nil || base.Host == "" {
		return nil, &apierrors.ConfigError{Field: "base_url", Err: apierrors.ErrInvalidBaseURL}
	}
	if base.Scheme != "https" {
		return nil, &apierrors.ConfigError{Field: "base_url", Err: apierrors.ErrInsecureBaseURL}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if timeout < 0 {
		return nil, &apierrors.ConfigError{Field: "timeout", Err: apierrors.ErrInvalidTimeout}
	}

	retry := cfg.Retry
	if retry == nil {
		retry = DefaultRetryConfig()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("component", "api").Logger()
	}

	return &Client{
		baseURL:    base,
		creds:      cfg.Credentials,
		httpClient: httpClient,
		timeout:    timeout,
		retry:      retry,
		userAgent:  cfg.UserAgent,
		logger:     logger,
		now:        time.Now,
		wait:       sleep,
		requestID:  func() string { return uuid.NewString() },
	}, nil
}

// SetHTTPClient sets a custom HTTP client.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// BaseURL returns the configured API origin.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Credentials returns the credentials the client authenticates with.
func (c *Client) Credentials() *auth.Credentials {
	return c.creds
}

// Execute sends spec, retrying transient failures, and returns the first
// 2xx response. Non-2xx outcomes are returned as typed errors from the
// apierrors package. Cancellation of ctx returns ctx.Err() unwrapped.
func (c *Client) Execute(ctx context.Context, spec RequestSpec) (*Response, error) {
	if spec.Method == "" {
		spec.Method = http.MethodGet
	}
	target, err := c.resolve(spec.Path, spec.Query)
	if err != nil {
		return nil, err
	}

	requestID := c.requestID()
	log := c.logger.With().
		Str("request_id", requestID).
		Str("method", spec.Method).
		Str("path", target.Path).
		Logger()

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log.Debug().Int("attempt", attempt+1).Msg("sending request")
		resp, err := c.attempt(ctx, spec, target, requestID, attempt)
		if err == nil {
			resp.Attempts = attempt + 1
			log.Debug().Int("attempt", attempt+1).Int("status", resp.StatusCode).Msg("request succeeded")
			return resp, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !c.retry.ShouldRetry(attempt, err) {
			return nil, err
		}

		delay := c.retry.DelayFor(attempt, err)
		log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("retrying request")
		if err := c.wait(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// attempt performs one HTTP exchange with its own deadline.
func (c *Client) attempt(ctx context.Context, spec RequestSpec, target *url.URL, requestID string, attempt int) (*Response, error) {
	devToken, err := c.creds.DeveloperToken()
	if err != nil {
		return nil, err
	}
	userToken, hasUser := c.creds.UserToken()

	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if spec.Body != nil {
		body = bytes.NewReader(spec.Body)
	}
	req, err := http.NewRequestWithContext(attemptCtx, spec.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+devToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, requestID)
	if spec.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if hasUser {
		req.Header.Set(headerUserToken, userToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(attemptCtx, err, target, attempt)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(attemptCtx, err, target, attempt)
	}

	if Classify(resp.StatusCode) != OutcomeSuccess {
		return nil, responseError(resp, data, requestID, c.now())
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
		RequestID:  requestID,
	}, nil
}

func (c *Client) transportError(attemptCtx context.Context, err error, target *url.URL, attempt int) error {
	timedOut := errors.Is(attemptCtx.Err(), context.DeadlineExceeded)
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		timedOut = true
	}
	return &apierrors.TransportError{
		Err:     err,
		URL:     redact(target),
		Attempt: attempt + 1,
		Timeout: timedOut,
	}
}

// resolve joins path onto the base URL. A path carrying its own query
// string (such as a pagination href) keeps it ahead of extra params.
func (c *Client) resolve(path string, query Query) (*url.URL, error) {
	rawQuery := ""
	if i := strings.IndexByte(path, '?'); i >= 0 {
		rawQuery = path[i+1:]
		path = path[:i]
	}
	if strings.Contains(path, "://") {
		return nil, &apierrors.ConfigError{Field: "path", Err: apierrors.ErrInvalidBaseURL}
	}

	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawPath = ""
	if extra := query.Encode(); extra != "" {
		if rawQuery != "" {
			rawQuery += "&"
		}
		rawQuery += extra
	}
	u.RawQuery = rawQuery
	u.Fragment = ""
	return &u, nil
}

// redact drops the query so logged URLs carry no search terms.
func redact(u *url.URL) string {
	clean := *u
	clean.RawQuery = ""
	return clean.String()
}
