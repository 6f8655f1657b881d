// Package apiclient is the outbound Rubika Bot API client from spec §4.6:
// a generic call(method, payload) that applies per-method rate limiting,
// exponential backoff with jitter on retryable failures, and a per-request
// timeout, and that never panics out to callers — every call returns a
// Result with an ok field the way spec §7 requires ("outbound calls never
// throw").  Retry shape is grounded on the teacher's
// integrations/gemini/gemini.go generateContentWithRetry, generalized
// from a single overloaded-model condition to the set of retryable HTTP
// outcomes spec §4.6 names (transport failure, 408, 429, >=500).
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rubikabot/ingestcore/internal/ratelimit"
)

// Result is what every API call returns; callers branch on Ok rather than
// on an error value reaching them directly (spec §4.6, §7).
type Result struct {
	Ok         bool
	StatusCode int
	Body       map[string]any
	Err        error
}

// Client talks to the platform's Bot API over HTTP.
type Client struct {
	baseURL       string
	token         string
	httpClient    *http.Client
	limiter       *ratelimit.OutboundLimiter
	retryAttempts int
	retryBackoff  time.Duration
	log           *logrus.Entry
}

// Config bundles the tunables spec §6 lists under "API".
type Config struct {
	BaseURL         string
	Token           string
	Timeout         time.Duration
	RetryAttempts   int
	RetryBackoff    time.Duration
	RateLimitPerSec float64
	RateLimitBurst  int
}

// New builds a Client with its own token bucket per outbound method.
func New(cfg Config, log *logrus.Logger) *Client {
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		baseURL:       cfg.BaseURL,
		token:         cfg.Token,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		limiter:       ratelimit.NewOutboundLimiter(cfg.RateLimitPerSec, burst),
		retryAttempts: cfg.RetryAttempts,
		retryBackoff:  cfg.RetryBackoff,
		log:           log.WithField("component", "APICLIENT"),
	}
}

// Call invokes method on the platform API with payload as the JSON body,
// blocking on that method's rate limiter, retrying retryable failures with
// exponential backoff and jitter, and honoring ctx cancellation throughout
// (spec §4.6).
func (c *Client) Call(ctx context.Context, method string, payload map[string]any) Result {
	if err := c.limiter.Wait(ctx, method); err != nil {
		return Result{Err: fmt.Errorf("rate limit wait for %s: %w", method, err)}
	}

	var lastResult Result
	for attempt := 0; attempt <= c.retryAttempts; attempt++ {
		result := c.doOnce(ctx, method, payload)
		if result.Ok || !isRetryable(result) {
			return result
		}
		lastResult = result

		if attempt == c.retryAttempts {
			break
		}

		backoff := c.backoffFor(attempt)
		c.log.WithFields(logrus.Fields{
			"method":  method,
			"attempt": attempt + 1,
			"backoff": backoff,
		}).Warn("retrying outbound call")

		select {
		case <-ctx.Done():
			return Result{Err: ctx.Err()}
		case <-time.After(backoff):
		}
	}
	return lastResult
}

func (c *Client) doOnce(ctx context.Context, method string, payload map[string]any) Result {
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{Err: fmt.Errorf("marshal payload for %s: %w", method, err)}
	}

	url := fmt.Sprintf("%s/%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{Err: fmt.Errorf("build request for %s: %w", method, err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{Err: fmt.Errorf("call %s: %w", method, err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response for %s: %w", method, err)}
	}

	var parsed map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return Result{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response for %s: %w", method, err)}
		}
	}

	return Result{
		Ok:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode: resp.StatusCode,
		Body:       parsed,
	}
}

// isRetryable reports whether a failed result should be retried: any
// transport-level error, or a 408/429/5xx HTTP status (spec §4.6).
func isRetryable(r Result) bool {
	if r.Err != nil {
		return true
	}
	return r.StatusCode == http.StatusRequestTimeout ||
		r.StatusCode == http.StatusTooManyRequests ||
		r.StatusCode >= 500
}

// backoffFor computes attempt i's delay: base * 2^attempt, plus jitter
// drawn uniformly from [0, retryBackoff] — the jitter amplitude stays
// bounded by the configured base regardless of how far the exponential
// term has scaled, the same shape as the teacher's
// generateContentWithRetry but parameterized instead of hardcoded to
// whole seconds.
func (c *Client) backoffFor(attempt int) time.Duration {
	scaled := c.retryBackoff * time.Duration(1<<uint(attempt))
	jitter := time.Duration(rand.Int63n(int64(c.retryBackoff) + 1))
	return scaled + jitter
}
