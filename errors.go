package applemusic

import (
	"errors"
	"fmt"

	"github.com/musickit/applemusic-go/internal/apierrors"
)

// Sentinel errors for errors.Is() checks. Each typed error below matches
// its kind's sentinel, and some match a more specific one as well.
var (
	ErrConfig              = apierrors.ErrConfig
	ErrEmptyToken          = apierrors.ErrEmptyToken
	ErrInvalidBaseURL      = apierrors.ErrInvalidBaseURL
	ErrInsecureBaseURL     = apierrors.ErrInsecureBaseURL
	ErrInvalidTimeout      = apierrors.ErrInvalidTimeout
	ErrInvalidStorefront   = apierrors.ErrInvalidStorefront
	ErrInvalidSigningInput = apierrors.ErrInvalidSigningInput
	ErrInvalidResourceID   = apierrors.ErrInvalidResourceID
	ErrAuth                = apierrors.ErrAuth
	ErrUnauthorized        = apierrors.ErrUnauthorized
	ErrForbidden           = apierrors.ErrForbidden
	ErrNotFound            = apierrors.ErrNotFound
	ErrRateLimited         = apierrors.ErrRateLimited
	ErrServer              = apierrors.ErrServer
	ErrTransport           = apierrors.ErrTransport
	ErrTimeout             = apierrors.ErrTimeout
	ErrDecode              = apierrors.ErrDecode
)

type (
	// ConfigError reports an invalid configuration value or argument.
	ConfigError = apierrors.ConfigError
	// AuthError reports a key or signing failure, or a 401/403 response.
	AuthError = apierrors.AuthError
	// APIError reports a non-retryable 4xx response.
	APIError = apierrors.APIError
	// ErrorDetail is one entry of the API's errors array.
	ErrorDetail = apierrors.ErrorDetail
	// RateLimitError reports a 429 response that outlasted the retry budget.
	RateLimitError = apierrors.RateLimitError
	// ServerError reports a 5xx response that outlasted the retry budget.
	ServerError = apierrors.ServerError
	// TransportError reports a network failure or per-attempt timeout.
	TransportError = apierrors.TransportError
	// DecodeError reports a response body of the wrong shape.
	DecodeError = apierrors.DecodeError
)

// IsRetryable reports whether err is a kind the client retries.
func IsRetryable(err error) bool {
	return apierrors.IsRetryable(err)
}

// StatusCode returns the HTTP status carried by err, if any.
func StatusCode(err error) (int, bool) {
	return apierrors.StatusCode(err)
}

var errEmptyTerm = errors.New("search term is required")

func errUnknownMediaType(t MediaType) error {
	return fmt.Errorf("unknown media type %q", string(t))
}
