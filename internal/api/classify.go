package api

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/musickit/applemusic-go/internal/apierrors"
)

// Outcome is the classification of a completed HTTP exchange.
type Outcome int

const (
	// OutcomeSuccess is any 2xx status.
	OutcomeSuccess Outcome = iota
	// OutcomeClientError is a 4xx other than 429. Never retried.
	OutcomeClientError
	// OutcomeRateLimited is a 429. Retried.
	OutcomeRateLimited
	// OutcomeServerError is a 5xx. Retried.
	OutcomeServerError
	// OutcomeTransportFailure is a network error or per-attempt timeout. Retried.
	OutcomeTransportFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeClientError:
		return "client_error"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeServerError:
		return "server_error"
	case OutcomeTransportFailure:
		return "transport_failure"
	}
	return "unknown"
}

// Retryable reports whether the pipeline retries this outcome.
func (o Outcome) Retryable() bool {
	return o == OutcomeRateLimited || o == OutcomeServerError || o == OutcomeTransportFailure
}

// Classify maps an HTTP status code to an Outcome. Statuses outside the
// 2xx, 4xx and 5xx ranges are treated as client errors.
func Classify(statusCode int) Outcome {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return OutcomeSuccess
	case statusCode == http.StatusTooManyRequests:
		return OutcomeRateLimited
	case statusCode >= 500 && statusCode < 600:
		return OutcomeServerError
	}
	return OutcomeClientError
}

// errorBody is the Apple Music error envelope.
type errorBody struct {
	Errors []apierrors.ErrorDetail `json:"errors"`
}

// responseError converts a non-2xx response into the matching error kind.
func responseError(resp *http.Response, body []byte, requestID string, now time.Time) error {
	message, code, details := parseErrorBody(resp.Header.Get("Content-Type"), body)
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	switch Classify(resp.StatusCode) {
	case OutcomeRateLimited:
		retryAfter, _ := ParseRetryAfter(resp.Header.Get("Retry-After"), now)
		return &apierrors.RateLimitError{
			RetryAfter: retryAfter,
			Message:    message,
			RequestID:  requestID,
		}
	case OutcomeServerError:
		return &apierrors.ServerError{
			StatusCode: resp.StatusCode,
			Message:    message,
			RequestID:  requestID,
		}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &apierrors.AuthError{
			StatusCode: resp.StatusCode,
			Message:    message,
			Code:       code,
			RequestID:  requestID,
			Details:    details,
		}
	}

	return &apierrors.APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Code:       code,
		RequestID:  requestID,
		Details:    details,
	}
}

// parseErrorBody extracts the first error's detail (or title) when the body
// is JSON, otherwise returns the trimmed raw text.
func parseErrorBody(contentType string, body []byte) (message, code string, details []apierrors.ErrorDetail) {
	if isJSON(contentType) {
		var eb errorBody
		if err := json.Unmarshal(body, &eb); err == nil && len(eb.Errors) > 0 {
			first := eb.Errors[0]
			message = first.Detail
			if message == "" {
				message = first.Title
			}
			return message, first.Code, eb.Errors
		}
	}
	return strings.TrimSpace(string(body)), "", nil
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
