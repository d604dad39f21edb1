package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	DefaultRequestDelay = 1 * time.Second
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRetries   = 3
	DefaultBackoff      = 1 * time.Second
)

// SessionOptions configures a fetch session. Zero values fall back to the
// package defaults.
type SessionOptions struct {
	UserAgent    string
	RequestDelay time.Duration
	Timeout      time.Duration
	MaxRetries   int
	// Backoff is the base delay before the first retry; it doubles per
	// attempt.
	Backoff time.Duration
}

// Session performs outbound requests on behalf of one source during one crawl
// run: bounded retries with exponential backoff, a fixed inter-request delay,
// and a per-request timeout. Independent sessions throttle independently, so
// concurrent source workers never serialize against each other.
type Session struct {
	client       *http.Client
	userAgent    string
	requestDelay time.Duration
	maxRetries   int
	backoff      time.Duration

	mu          sync.Mutex
	lastRequest time.Time
}

func NewSession(opts SessionOptions) *Session {
	if opts.RequestDelay <= 0 {
		opts.RequestDelay = DefaultRequestDelay
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.Backoff <= 0 {
		opts.Backoff = DefaultBackoff
	}

	return &Session{
		client:       &http.Client{Timeout: opts.Timeout},
		userAgent:    opts.UserAgent,
		requestDelay: opts.RequestDelay,
		maxRetries:   opts.MaxRetries,
		backoff:      opts.Backoff,
	}
}

// Fetch retrieves the raw content of an absolute URL. Transient failures
// (network errors, timeouts, 5xx, 429) are retried up to the configured
// budget with increasing delay; other 4xx responses and malformed URLs fail
// immediately. The returned error is always a *FetchError carrying the last
// cause, except for context cancellation.
func (s *Session) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("malformed URL: %w", err)}
	}
	if !parsed.IsAbs() {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("URL must be absolute")}
	}

	var lastErr *FetchError

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := s.backoff * time.Duration(1<<uint(attempt-1))
			slog.Debug("Retrying fetch", "url", rawURL, "attempt", attempt, "backoff", backoff.String())
			if err := sleepContext(ctx, backoff); err != nil {
				return nil, err
			}
		}

		if err := s.throttle(ctx); err != nil {
			return nil, err
		}

		body, fetchErr := s.doRequest(ctx, rawURL)

		s.mu.Lock()
		s.lastRequest = time.Now()
		s.mu.Unlock()

		if fetchErr == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = fetchErr
		if !isTransient(fetchErr) {
			break
		}
	}

	return nil, lastErr
}

func (s *Session) doRequest(ctx context.Context, rawURL string) ([]byte, *FetchError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return body, nil
}

// throttle blocks until at least requestDelay has passed since the previous
// request completed on this session.
func (s *Session) throttle(ctx context.Context) error {
	s.mu.Lock()
	last := s.lastRequest
	s.mu.Unlock()

	if last.IsZero() {
		return nil
	}

	wait := s.requestDelay - time.Since(last)
	if wait <= 0 {
		return nil
	}

	return sleepContext(ctx, wait)
}

func isTransient(err *FetchError) bool {
	if err.StatusCode == 0 {
		// Network error, timeout or connection reset
		return true
	}
	if err.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return err.StatusCode >= 500
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
