// Package api provides the HTTP request pipeline for the Apple Music API.
// It attaches credentials, bounds each attempt with a timeout, classifies
// responses and retries transient failures with exponential backoff.
//
// # Client Creation
//
// [NewClient] takes a [Config]. Only [Config.Credentials] is required; the
// base URL defaults to [DefaultBaseURL] and must use HTTPS.
//
// # Request Lifecycle
//
// Each attempt:
//
//   - Obtains the developer token from the credentials, re-signing a JWT if
//     the cached one is near expiry.
//   - Snapshots the user token, if any, into the Music-User-Token header.
//   - Sends the request with its own deadline derived from the caller's context.
//   - Classifies the outcome with [Classify].
//
// # Retry Behavior
//
// Rate limits (429), server errors (5xx) and transport failures are retried
// up to [RetryConfig.MaxRetries] times. The delay doubles with each attempt
// from [RetryConfig.BaseDelay], is capped at [RetryConfig.MaxDelay] and is
// randomized by [RetryConfig.Jitter]. A Retry-After header on a 429 response
// raises the wait to at least the server's hint, even past the cap.
//
// Other 4xx responses, authentication failures and decode failures are
// returned immediately. When retries run out, the last error is returned.
//
// # Errors
//
// Errors are typed values from the apierrors package. Cancellation of the
// caller's context is never wrapped: callers see context.Canceled or
// context.DeadlineExceeded directly.
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use.
package api
