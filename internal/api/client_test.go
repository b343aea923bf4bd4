package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/musickit/applemusic-go/internal/apierrors"
	"github.com/musickit/applemusic-go/internal/auth"
)

// waitRecorder replaces the retry sleep so tests observe delays without waiting.
type waitRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (w *waitRecorder) wait(ctx context.Context, d time.Duration) error {
	w.mu.Lock()
	w.delays = append(w.delays, d)
	w.mu.Unlock()
	return ctx.Err()
}

func (w *waitRecorder) recorded() []time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]time.Duration(nil), w.delays...)
}

func testRetryConfig(maxRetries int) *RetryConfig {
	return &RetryConfig{
		MaxRetries: maxRetries,
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		Multiplier: 2.0,
		Jitter:     0,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*Config)) (*Client, *waitRecorder, *httptest.Server) {
	t.Helper()

	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)

	creds, err := auth.NewCredentials(auth.SimpleAuth{Token: "dev-token"})
	if err != nil {
		t.Fatalf("NewCredentials() error = %v", err)
	}

	cfg := Config{
		BaseURL:     srv.URL,
		Credentials: creds,
		HTTPClient:  srv.Client(),
		Timeout:     5 * time.Second,
		Retry:       testRetryConfig(3),
		UserAgent:   "applemusic-go/test",
	}
	if mutate != nil {
		mutate(&cfg)
	}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	rec := &waitRecorder{}
	client.wait = rec.wait
	return client, rec, srv
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

func TestNewClient_Validation(t *testing.T) {
	creds, _ := auth.NewCredentials(auth.SimpleAuth{Token: "dev"})

	tests := []struct {
		name   string
		cfg    Config
		target error
	}{
		{"missing credentials", Config{BaseURL: "https://example.com"}, apierrors.ErrConfig},
		{"plain http", Config{BaseURL: "http://example.com", Credentials: creds}, apierrors.ErrInsecureBaseURL},
		{"no host", Config{BaseURL: "https:///v1", Credentials: creds}, apierrors.ErrInvalidBaseURL},
		{"unparseable", Config{BaseURL: "://bad", Credentials: creds}, apierrors.ErrInvalidBaseURL},
		{"negative timeout", Config{Credentials: creds, Timeout: -time.Second}, apierrors.ErrInvalidTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg)
			if !errors.Is(err, tt.target) {
				t.Errorf("NewClient() error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestNewClient_DefaultValues(t *testing.T) {
	creds, _ := auth.NewCredentials(auth.SimpleAuth{Token: "dev"})
	client, err := NewClient(Config{Credentials: creds})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if client.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", client.BaseURL(), DefaultBaseURL)
	}
	if client.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", client.timeout, DefaultTimeout)
	}
	if client.retry.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", client.retry.MaxRetries)
	}
	if client.httpClient == nil {
		t.Error("httpClient is nil")
	}
	if client.Credentials() != creds {
		t.Error("Credentials() returned a different value")
	}
}

func TestExecute_Headers(t *testing.T) {
	var got http.Header
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		writeJSON(w, http.StatusOK, `{}`)
	}, nil)

	if _, err := client.Execute(context.Background(), RequestSpec{Path: "/v1/test"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if v := got.Get("Authorization"); v != "Bearer dev-token" {
		t.Errorf("Authorization = %q, want Bearer dev-token", v)
	}
	if v := got.Get("Accept"); v != "application/json" {
		t.Errorf("Accept = %q, want application/json", v)
	}
	if v := got.Get("User-Agent"); v != "applemusic-go/test" {
		t.Errorf("User-Agent = %q, want applemusic-go/test", v)
	}
	if _, err := uuid.Parse(got.Get("X-Request-ID")); err != nil {
		t.Errorf("X-Request-ID = %q, not a UUID: %v", got.Get("X-Request-ID"), err)
	}
	if v := got.Get("Content-Type"); v != "" {
		t.Errorf("Content-Type = %q on a bodiless request", v)
	}
	if v := got.Get("Music-User-Token"); v != "" {
		t.Errorf("Music-User-Token = %q without a user token", v)
	}

	client.Credentials().SetUserToken("user-token")
	if _, err := client.Execute(context.Background(), RequestSpec{Path: "/v1/test"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if v := got.Get("Music-User-Token"); v != "user-token" {
		t.Errorf("Music-User-Token = %q, want user-token", v)
	}
}

func TestExecute_BodyAndMethod(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"a":1}` {
			t.Errorf("body = %s", body)
		}
		w.WriteHeader(http.StatusAccepted)
	}, nil)

	resp, err := client.Execute(context.Background(), RequestSpec{
		Method: http.MethodPost,
		Path:   "/v1/me/library",
		Body:   []byte(`{"a":1}`),
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("StatusCode = %d, want 202", resp.StatusCode)
	}
}

func TestExecute_URLBuilding(t *testing.T) {
	var gotPath, gotQuery string
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, `{}`)
	}, func(cfg *Config) {
		cfg.BaseURL += "/prefix/"
	})

	tests := []struct {
		name      string
		spec      RequestSpec
		wantPath  string
		wantQuery string
	}{
		{
			name:      "ordered query",
			spec:      RequestSpec{Path: "/v1/catalog/us/search", Query: Query{}.Add("term", "daft punk").Add("limit", "5")},
			wantPath:  "/prefix/v1/catalog/us/search",
			wantQuery: "term=daft+punk&limit=5",
		},
		{
			name:      "no leading slash",
			spec:      RequestSpec{Path: "v1/storefronts"},
			wantPath:  "/prefix/v1/storefronts",
			wantQuery: "",
		},
		{
			name:      "href with query",
			spec:      RequestSpec{Path: "/v1/me/library/songs?offset=25", Query: Query{}.Add("limit", "25")},
			wantPath:  "/prefix/v1/me/library/songs",
			wantQuery: "offset=25&limit=25",
		},
		{
			name:      "bracket keys escaped",
			spec:      RequestSpec{Path: "/v1/me/library", Query: Query{}.Add("ids[songs]", "1,2")},
			wantPath:  "/prefix/v1/me/library",
			wantQuery: "ids%5Bsongs%5D=1%2C2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := client.Execute(context.Background(), tt.spec); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if gotPath != tt.wantPath {
				t.Errorf("path = %q, want %q", gotPath, tt.wantPath)
			}
			if gotQuery != tt.wantQuery {
				t.Errorf("query = %q, want %q", gotQuery, tt.wantQuery)
			}
		})
	}
}

func TestExecute_RejectsAbsolutePath(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	}, nil)

	_, err := client.Execute(context.Background(), RequestSpec{Path: "https://evil.example.com/v1"})
	if !errors.Is(err, apierrors.ErrConfig) {
		t.Errorf("Execute() error = %v, want ErrConfig", err)
	}
}

func TestExecute_RetriesServerErrorsThenSucceeds(t *testing.T) {
	statuses := []int{500, 500, 200}
	var attempts atomic.Int32

	client, rec, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		status := statuses[n-1]
		if status == http.StatusOK {
			writeJSON(w, status, `{"ok":true}`)
			return
		}
		w.WriteHeader(status)
	}, nil)

	resp, err := client.Execute(context.Background(), RequestSpec{Path: "/v1/test"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if resp.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", resp.Attempts)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("server saw %d attempts, want 3", got)
	}

	delays := rec.recorded()
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delays[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestExecute_ExhaustsRetries(t *testing.T) {
	var attempts atomic.Int32
	client, rec, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		writeJSON(w, http.StatusServiceUnavailable, `{"errors":[{"status":"503","title":"Service Unavailable"}]}`)
	}, func(cfg *Config) {
		cfg.Retry = testRetryConfig(2)
	})

	_, err := client.Execute(context.Background(), RequestSpec{Path: "/v1/test"})

	var serverErr *apierrors.ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("Execute() error = %v, want *ServerError", err)
	}
	if serverErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", serverErr.StatusCode)
	}
	if serverErr.Message != "Service Unavailable" {
		t.Errorf("Message = %q, want Service Unavailable", serverErr.Message)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
	if got := len(rec.recorded()); got != 2 {
		t.Errorf("waits = %d, want 2", got)
	}
}

func TestExecute_ZeroRetries(t *testing.T) {
	var attempts atomic.Int32
	client, rec, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, func(cfg *Config) {
		cfg.Retry = testRetryConfig(0)
	})

	_, err := client.Execute(context.Background(), RequestSpec{Path: "/v1/test"})
	if !errors.Is(err, apierrors.ErrServer) {
		t.Errorf("Execute() error = %v, want ErrServer", err)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
	if got := len(rec.recorded()); got != 0 {
		t.Errorf("waits = %d, want 0", got)
	}
}

func TestExecute_RateLimitHonorsRetryAfter(t *testing.T) {
	var attempts atomic.Int32
	client, rec, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.Header().Set("Retry-After", "5")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeJSON(w, http.StatusOK, `{}`)
	}, nil)

	if _, err := client.Execute(context.Background(), RequestSpec{Path: "/v1/test"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	delays := rec.recorded()
	if len(delays) != 1 {
		t.Fatalf("delays = %v, want one wait", delays)
	}
	if delays[0] < 5*time.Second {
		t.Errorf("delay = %v, want >= 5s", delays[0])
	}
}

func TestExecute_RateLimitExhausted(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		writeJSON(w, http.StatusTooManyRequests, `{"errors":[{"title":"Too Many Requests","detail":"slow down"}]}`)
	}, func(cfg *Config) {
		cfg.Retry = testRetryConfig(0)
	})

	_, err := client.Execute(context.Background(), RequestSpec{Path: "/v1/test"})

	var rl *apierrors.RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("Execute() error = %v, want *RateLimitError", err)
	}
	if rl.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %v, want 7s", rl.RetryAfter)
	}
	if rl.Message != "slow down" {
		t.Errorf("Message = %q, want slow down", rl.Message)
	}
	if rl.RequestID == "" {
		t.Error("RequestID is empty")
	}
}

func TestExecute_AuthErrorNotRetried(t *testing.T) {
	tests := []struct {
		status int
		target error
	}{
		{http.StatusUnauthorized, apierrors.ErrUnauthorized},
		{http.StatusForbidden, apierrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var attempts atomic.Int32
			client, rec, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				attempts.Add(1)
				writeJSON(w, tt.status, `{"errors":[{"id":"X1","title":"Unauthorized","detail":"token expired","status":"401","code":"40100"}]}`)
			}, nil)

			_, err := client.Execute(context.Background(), RequestSpec{Path: "/v1/test"})

			var authErr *apierrors.AuthError
			if !errors.As(err, &authErr) {
				t.Fatalf("Execute() error = %v, want *AuthError", err)
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("errors.Is(%v) = false", tt.target)
			}
			if authErr.Message != "token expired" {
				t.Errorf("Message = %q, want token expired", authErr.Message)
			}
			if authErr.Code != "40100" {
				t.Errorf("Code = %q, want 40100", authErr.Code)
			}
			if authErr.RequestID == "" {
				t.Error("RequestID is empty")
			}
			if len(authErr.Details) != 1 || authErr.Details[0].ID != "X1" {
				t.Errorf("Details = %+v, want one entry with id X1", authErr.Details)
			}
			if got := attempts.Load(); got != 1 {
				t.Errorf("attempts = %d, want 1", got)
			}
			if got := len(rec.recorded()); got != 0 {
				t.Errorf("waits = %d, want 0", got)
			}
		})
	}
}

func TestExecute_ClientErrorNotRetried(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantMessage string
		wantCode    string
	}{
		{
			name:        "json not found",
			status:      http.StatusNotFound,
			contentType: "application/json",
			body:        `{"errors":[{"title":"Not Found","status":"404","code":"40400"}]}`,
			wantMessage: "Not Found",
			wantCode:    "40400",
		},
		{
			name:        "plain text",
			status:      http.StatusBadRequest,
			contentType: "text/plain",
			body:        "  bad parameter  ",
			wantMessage: "bad parameter",
		},
		{
			name:        "empty body",
			status:      http.StatusConflict,
			wantMessage: "Conflict",
		},
		{
			name:        "request timeout is terminal",
			status:      http.StatusRequestTimeout,
			wantMessage: "Request Timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts atomic.Int32
			client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				attempts.Add(1)
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}, nil)

			_, err := client.Execute(context.Background(), RequestSpec{Path: "/v1/test"})

			var apiErr *apierrors.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Execute() error = %v, want *APIError", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", apiErr.Code, tt.wantCode)
			}
			if got := attempts.Load(); got != 1 {
				t.Errorf("attempts = %d, want 1", got)
			}
		})
	}
}

func TestExecute_NotFoundMatchesSentinel(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, nil)

	_, err := client.Execute(context.Background(), RequestSpec{Path: "/v1/test"})
	if !errors.Is(err, apierrors.ErrNotFound) {
		t.Errorf("Execute() error = %v, want ErrNotFound", err)
	}
	if apierrors.IsRetryable(err) {
		t.Error("404 should not be retryable")
	}
}

func TestExecute_PerAttemptTimeout(t *testing.T) {
	var attempts atomic.Int32
	client, rec, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, func(cfg *Config) {
		cfg.Timeout = 50 * time.Millisecond
		cfg.Retry = testRetryConfig(1)
	})

	_, err := client.Execute(context.Background(), RequestSpec{Path: "/v1/slow"})

	var te *apierrors.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Execute() error = %v, want *TransportError", err)
	}
	if !te.Timeout {
		t.Error("Timeout = false, want true")
	}
	if !errors.Is(err, apierrors.ErrTimeout) {
		t.Error("errors.Is(ErrTimeout) = false")
	}
	if te.Attempt != 2 {
		t.Errorf("Attempt = %d, want 2", te.Attempt)
	}
	if got := len(rec.recorded()); got != 1 {
		t.Errorf("waits = %d, want 1", got)
	}
}

func TestExecute_TransportErrorRetried(t *testing.T) {
	client, rec, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, func(cfg *Config) {
		cfg.Retry = testRetryConfig(2)
	})
	srv.Close()

	_, err := client.Execute(context.Background(), RequestSpec{Path: "/v1/test"})

	var te *apierrors.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Execute() error = %v, want *TransportError", err)
	}
	if te.Attempt != 3 {
		t.Errorf("Attempt = %d, want 3", te.Attempt)
	}
	if strings.Contains(te.URL, "?") {
		t.Errorf("URL = %q, should not carry a query", te.URL)
	}
	if got := len(rec.recorded()); got != 2 {
		t.Errorf("waits = %d, want 2", got)
	}
}

func TestExecute_CanceledContext(t *testing.T) {
	var attempts atomic.Int32
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Execute(ctx, RequestSpec{Path: "/v1/test"})
	if err != context.Canceled {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
	if got := attempts.Load(); got != 0 {
		t.Errorf("attempts = %d, want 0", got)
	}
}

func TestExecute_CanceledDuringBackoff(t *testing.T) {
	var attempts atomic.Int32
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	client.wait = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := client.Execute(ctx, RequestSpec{Path: "/v1/test"})
	if err != context.Canceled {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
	if apierrors.IsRetryable(err) {
		t.Error("cancellation should not be retryable")
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestExecute_ParentDeadlineIsNotTransportError(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Execute(ctx, RequestSpec{Path: "/v1/test"})
	if err != context.DeadlineExceeded {
		t.Errorf("Execute() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestExecute_JWTCredentials(t *testing.T) {
	pemBytes, err := auth.GenerateTestKeyPEM()
	if err != nil {
		t.Fatalf("GenerateTestKeyPEM() error = %v", err)
	}
	signer, err := auth.NewSigner("TEAM123456", "KEY1234567", pemBytes)
	if err != nil {
		t.Fatalf("NewSigner() error = %v", err)
	}
	creds, err := auth.NewCredentials(&auth.JWTAuth{Signer: signer})
	if err != nil {
		t.Fatalf("NewCredentials() error = %v", err)
	}

	var mu sync.Mutex
	var seen []string
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		writeJSON(w, http.StatusOK, `{}`)
	}, func(cfg *Config) {
		cfg.Credentials = creds
	})

	for i := 0; i < 2; i++ {
		if _, err := client.Execute(context.Background(), RequestSpec{Path: "/v1/test"}); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
	}

	if len(seen) != 2 {
		t.Fatalf("requests = %d, want 2", len(seen))
	}
	token := strings.TrimPrefix(seen[0], "Bearer ")
	if strings.Count(token, ".") != 2 {
		t.Errorf("Authorization token = %q, want a JWT", token)
	}
	if seen[0] != seen[1] {
		t.Error("cached token was not reused across requests")
	}
}

func TestExecute_Concurrent(t *testing.T) {
	var served atomic.Int32
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		served.Add(1)
		writeJSON(w, http.StatusOK, `{}`)
	}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				client.Credentials().SetUserToken(fmt.Sprintf("user-%d", i))
			}
			if _, err := client.Execute(context.Background(), RequestSpec{Path: "/v1/test"}); err != nil {
				t.Errorf("Execute() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if got := served.Load(); got != 20 {
		t.Errorf("served = %d, want 20", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		status    int
		want      Outcome
		retryable bool
	}{
		{200, OutcomeSuccess, false},
		{204, OutcomeSuccess, false},
		{301, OutcomeClientError, false},
		{400, OutcomeClientError, false},
		{401, OutcomeClientError, false},
		{404, OutcomeClientError, false},
		{408, OutcomeClientError, false},
		{429, OutcomeRateLimited, true},
		{500, OutcomeServerError, true},
		{503, OutcomeServerError, true},
		{599, OutcomeServerError, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			got := Classify(tt.status)
			if got != tt.want {
				t.Errorf("Classify(%d) = %v, want %v", tt.status, got, tt.want)
			}
			if got.Retryable() != tt.retryable {
				t.Errorf("Classify(%d).Retryable() = %v, want %v", tt.status, got.Retryable(), tt.retryable)
			}
		})
	}

	if !OutcomeTransportFailure.Retryable() {
		t.Error("OutcomeTransportFailure should be retryable")
	}
}
