// Package httpretry provides an HTTP client that retries transient failures
// with exponential backoff and full jitter.
package httpretry

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/ignite/crm-retention/internal/pkg/logger"
)

// HTTPDoer executes HTTP requests. Both *http.Client and *RetryClient
// satisfy it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RetryClient wraps an HTTPDoer with retry logic.
type RetryClient struct {
	client     HTTPDoer
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	minDelay   time.Duration
}

// Option configures a RetryClient.
type Option func(*RetryClient)

// WithBackoff overrides the base, cap and floor of the retry delay.
func WithBackoff(base, max, min time.Duration) Option {
	return func(rc *RetryClient) {
		rc.baseDelay, rc.maxDelay, rc.minDelay = base, max, min
	}
}

// NewRetryClient wraps client. A nil client gets a default http.Client with
// a 30s timeout; maxRetries <= 0 means 3 retries after the first attempt.
func NewRetryClient(client HTTPDoer, maxRetries int, opts ...Option) *RetryClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	rc := &RetryClient{
		client:     client,
		maxRetries: maxRetries,
		baseDelay:  1 * time.Second,
		maxDelay:   30 * time.Second,
		minDelay:   100 * time.Millisecond,
	}
	for _, o := range opts {
		o(rc)
	}
	return rc
}

// Do executes req, retrying on 429, 5xx gateway errors and transport
// errors. Client errors and context cancellation are not retried. The last
// response is returned as-is so the caller can inspect it.
func (rc *RetryClient) Do(req *http.Request) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= rc.maxRetries; attempt++ {
		if req.Context().Err() != nil {
			if lastErr != nil {
				return nil, lastErr
			}
			return nil, req.Context().Err()
		}

		if attempt > 0 {
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("httpretry: reset request body: %w", err)
				}
				req.Body = body
			}

			delay := rc.delay(attempt)
			logger.Warn("retrying request",
				"attempt", attempt,
				"max_retries", rc.maxRetries,
				"method", req.Method,
				"host", req.URL.Host,
				"path", req.URL.Path,
				"wait", delay.String(),
				"error", lastErr,
			)

			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-req.Context().Done():
				timer.Stop()
				if lastErr != nil {
					return nil, lastErr
				}
				return nil, req.Context().Err()
			}
		}

		resp, err := rc.client.Do(req)
		if err != nil {
			lastErr = err
			if req.Context().Err() != nil {
				return nil, err
			}
			continue
		}

		if !isRetryableStatus(resp.StatusCode) || attempt == rc.maxRetries {
			return resp, nil
		}

		// drain for connection reuse
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		lastErr = fmt.Errorf("httpretry: server returned retryable status %d", resp.StatusCode)
	}

	return nil, lastErr
}

// delay is random(0, min(maxDelay, baseDelay*2^(attempt-1))), floored at
// minDelay.
func (rc *RetryClient) delay(attempt int) time.Duration {
	exp := float64(rc.baseDelay) * math.Pow(2, float64(attempt-1))
	if exp > float64(rc.maxDelay) {
		exp = float64(rc.maxDelay)
	}
	d := time.Duration(rand.Float64() * exp)
	if d < rc.minDelay {
		d = rc.minDelay
	}
	return d
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
