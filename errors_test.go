package applemusic

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		sentinel  error
		retryable bool
	}{
		{"config", &ConfigError{Field: "timeout", Err: ErrInvalidTimeout}, ErrInvalidTimeout, false},
		{"auth", &AuthError{StatusCode: 401}, ErrUnauthorized, false},
		{"forbidden", &AuthError{StatusCode: 403}, ErrForbidden, false},
		{"not found", &APIError{StatusCode: 404}, ErrNotFound, false},
		{"rate limited", &RateLimitError{RetryAfter: time.Second}, ErrRateLimited, true},
		{"server", &ServerError{StatusCode: 503}, ErrServer, true},
		{"transport", &TransportError{Err: errors.New("reset")}, ErrTransport, true},
		{"decode", &DecodeError{StatusCode: 200, Err: errors.New("eof")}, ErrDecode, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("call: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v) = false", tt.sentinel)
			}
			if got := IsRetryable(wrapped); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestStatusCode_Facade(t *testing.T) {
	if code, ok := StatusCode(&APIError{StatusCode: 400}); !ok || code != 400 {
		t.Errorf("StatusCode() = (%d, %v), want (400, true)", code, ok)
	}
	if _, ok := StatusCode(errors.New("plain")); ok {
		t.Error("StatusCode() ok = true for a plain error")
	}
}
