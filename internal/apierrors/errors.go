// Package apierrors provides shared error types for the Apple Music client.
package apierrors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrConfig is matched by every *ConfigError.
	ErrConfig = errors.New("invalid configuration")

	// ErrEmptyToken is returned when the developer token is blank.
	ErrEmptyToken = errors.New("developer token is required")

	// ErrInvalidBaseURL is returned when the base URL does not parse as an absolute URL.
	ErrInvalidBaseURL = errors.New("invalid base URL")

	// ErrInsecureBaseURL is returned when the base URL is not HTTPS.
	ErrInsecureBaseURL = errors.New("base URL must use https")

	// ErrInvalidTimeout is returned when the request timeout is zero or negative.
	ErrInvalidTimeout = errors.New("timeout must be positive")

	// ErrInvalidStorefront is returned when a storefront is not a 2-letter code.
	ErrInvalidStorefront = errors.New("storefront must be a 2-letter country code")

	// ErrInvalidSigningInput is returned when the team id or key id is blank.
	ErrInvalidSigningInput = errors.New("team id and key id are required")

	// ErrInvalidResourceID is returned when a catalog or library id is malformed.
	ErrInvalidResourceID = errors.New("invalid resource id")

	// ErrAuth is matched by every *AuthError.
	ErrAuth = errors.New("authentication failed")

	// ErrUnauthorized is returned when the API rejects the developer token (401).
	ErrUnauthorized = errors.New("invalid or expired developer token")

	// ErrForbidden is returned when the API refuses access to a resource (403).
	ErrForbidden = errors.New("access forbidden")

	// ErrNotFound is returned when a resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrServer is matched by every *ServerError.
	ErrServer = errors.New("server error")

	// ErrTransport is matched by every *TransportError.
	ErrTransport = errors.New("transport failure")

	// ErrTimeout is returned when a single attempt exceeds the configured timeout.
	ErrTimeout = errors.New("request timed out")

	// ErrDecode is matched by every *DecodeError.
	ErrDecode = errors.New("response decode failed")
)

// ConfigError reports an invalid configuration value. It is never retryable.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// AuthError reports a signing failure or a 401/403 from the API.
// StatusCode is zero when the failure happened locally. Code, RequestID
// and Details are only set for remote failures.
type AuthError struct {
	StatusCode int
	Message    string
	Code       string
	RequestID  string
	Details    []ErrorDetail
	Err        error
}

func (e *AuthError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("auth error %d: %s", e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("auth error %d", e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("auth error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("auth error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *AuthError) Is(target error) bool {
	switch target {
	case ErrAuth:
		return true
	case ErrUnauthorized:
		return e.StatusCode == 401
	case ErrForbidden:
		return e.StatusCode == 403
	}
	return false
}

// ErrorDetail is a single entry of the API's "errors" array.
type ErrorDetail struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status string `json:"status"`
	Code   string `json:"code"`
}

// APIError represents a non-retryable 4xx response from the Apple Music API.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
	RequestID  string
	Details    []ErrorDetail
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "API error %d", e.StatusCode)
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, " (code: %s)", e.Code)
	}
	if e.RequestID != "" {
		fmt.Fprintf(&b, " (request_id: %s)", e.RequestID)
	}
	return b.String()
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	return e.StatusCode == 404 && target == ErrNotFound
}

// RateLimitError reports a 429 response. The pipeline only surfaces it once
// retries are exhausted.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
	RequestID  string
}

func (e *RateLimitError) Error() string {
	msg := "rate limit exceeded (429)"
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %v)", e.RetryAfter)
	}
	return msg
}

// Is implements errors.Is for sentinel error matching.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// ServerError reports a 5xx response that persisted through every retry.
type ServerError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server error %d", e.StatusCode)
}

// Is implements errors.Is for sentinel error matching.
func (e *ServerError) Is(target error) bool {
	return target == ErrServer
}

// TransportError represents a network-level failure or a per-attempt timeout.
type TransportError struct {
	Err     error
	URL     string
	Attempt int
	Timeout bool
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("transport error: request timed out: %v", e.Err)
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport || (e.Timeout && target == ErrTimeout)
}

// DecodeError reports a response body that did not match the expected shape.
type DecodeError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error (status %d): %v", e.StatusCode, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// IsRetryable reports whether err is a kind the pipeline retries.
func IsRetryable(err error) bool {
	var rl *RateLimitError
	var se *ServerError
	var te *TransportError
	return errors.As(err, &rl) || errors.As(err, &se) || errors.As(err, &te)
}

// StatusCode extracts the HTTP status carried by err, if any.
func StatusCode(err error) (int, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode, true
	}
	var au *AuthError
	if errors.As(err, &au) && au.StatusCode != 0 {
		return au.StatusCode, true
	}
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return 429, true
	}
	var se *ServerError
	if errors.As(err, &se) {
		return se.StatusCode, true
	}
	var de *DecodeError
	if errors.As(err, &de) && de.StatusCode != 0 {
		return de.StatusCode, true
	}
	return 0, false
}

// RetryAfter returns the server's Retry-After hint when err is a rate limit
// error that carried one.
func RetryAfter(err error) (time.Duration, bool) {
	var rl *RateLimitError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter, true
	}
	return 0, false
}
