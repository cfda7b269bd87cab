// Package external holds the clients for the third-party services the
// Fangindex service reads from: current weather and gauge water levels.
// Every outbound call goes through BaseClient, which adds circuit breaking,
// retries with backoff, request ID propagation and AppError mapping.
package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fangindex/internal/types"

	"github.com/sony/gobreaker/v2"
)

// maxResponseBytes bounds how much of a provider response is decoded.
const maxResponseBytes = 2 << 20

// RetryPolicy configures the retry behavior for the BaseClient.
type RetryPolicy struct {
	MaxRetries int
	MinWait    time.Duration
	MaxWait    time.Duration
}

// DefaultRetryPolicy suits interactive requests: a request should not wait
// more than a few seconds on a flaky provider.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		MinWait:    200 * time.Millisecond,
		MaxWait:    2 * time.Second,
	}
}

// BreakerSettings configures the circuit breaker of a BaseClient.
type BreakerSettings struct {
	Name string
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// BaseClient wraps an *http.Client and a circuit breaker. Provider clients
// hold a BaseClient and route every request through Do or getJSON.
type BaseClient struct {
	client      *http.Client
	breaker     *gobreaker.CircuitBreaker[*http.Response]
	retryPolicy RetryPolicy
	userAgent   string
	sleep       SleepFunc
	logger      *slog.Logger
}

// BaseClientOption is a functional option for configuring a BaseClient.
type BaseClientOption func(*BaseClient)

// WithSleepFunc overrides the wait between retries. Tests use it to avoid
// real delays.
func WithSleepFunc(fn SleepFunc) BaseClientOption {
	return func(c *BaseClient) {
		c.sleep = fn
	}
}

// WithLogger sets the logger used for breaker state changes and retries.
func WithLogger(logger *slog.Logger) BaseClientOption {
	return func(c *BaseClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithBreaker replaces the circuit breaker built from BreakerSettings.
func WithBreaker(cb *gobreaker.CircuitBreaker[*http.Response]) BaseClientOption {
	return func(c *BaseClient) {
		c.breaker = cb
	}
}

// NewBaseClient creates a BaseClient.
func NewBaseClient(
	httpClient *http.Client,
	breaker BreakerSettings,
	retryPolicy RetryPolicy,
	userAgent string,
	opts ...BaseClientOption,
) *BaseClient {
	bc := &BaseClient{
		client:      httpClient,
		retryPolicy: retryPolicy,
		userAgent:   userAgent,
		sleep:       contextSleep,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(bc)
	}
	if bc.breaker == nil {
		bc.breaker = newBreaker(breaker, bc.logger)
	}
	return bc
}

func newBreaker(s BreakerSettings, logger *slog.Logger) *gobreaker.CircuitBreaker[*http.Response] {
	threshold := s.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	timeout := s.OpenTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			// a cancelled caller says nothing about the provider
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
}

func contextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do executes an idempotent, body-less request. It sets the request ID and
// User-Agent headers, sends each attempt through the circuit breaker and
// retries network errors, 429 and 5xx responses.
//
// Other responses, 4xx included, are returned as-is and the caller closes
// the body. Exhausted retries, an open breaker or a cancelled context
// yield a types.AppError.
func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	if req.Body != nil && req.Body != http.NoBody {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected, "upstream requests must not carry a body", nil)
	}

	ctx := req.Context()
	if id := types.GetRequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	var (
		lastResp *http.Response
		lastErr  error
	)
	for attempt := 0; attempt <= c.retryPolicy.MaxRetries; attempt++ {
		resp, err := c.attempt(req)
		if err == nil {
			return resp, nil
		}
		lastResp, lastErr = resp, err
		if resp != nil {
			// status and headers are all a failed attempt is kept for
			resp.Body.Close()
		}

		if !c.retryable(ctx, err) || attempt == c.retryPolicy.MaxRetries {
			break
		}
		wait := c.computeBackoff(attempt, resp)
		c.logger.DebugContext(ctx, "retrying upstream request",
			"host", req.URL.Host,
			"path", req.URL.Path,
			"attempt", attempt+1,
			"wait", wait,
			"error", err,
		)
		if err := c.sleep(ctx, wait); err != nil {
			lastErr = err
			break
		}
	}

	return nil, c.mapError(ctx, lastResp, lastErr)
}

// attempt runs one round trip inside the breaker. 429 and 5xx count as
// breaker failures but still return the response for Retry-After.
func (c *BaseClient) attempt(req *http.Request) (*http.Response, error) {
	return c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, stripQuery(err)
		}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return resp, fmt.Errorf("upstream returned %d", resp.StatusCode)
		}
		return resp, nil
	})
}

func (c *BaseClient) retryable(ctx context.Context, err error) bool {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	return ctx.Err() == nil
}

// getJSON performs a GET and decodes a 2xx JSON body into out. Non-2xx
// statuses are returned with a nil error and out left untouched so the
// provider can interpret them.
func (c *BaseClient) getJSON(ctx context.Context, rawURL string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, types.NewAppError(types.ErrCodeInternalUnexpected, "failed to build upstream request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return resp.StatusCode, types.NewAppError(types.ErrCodeUpstreamInvalidResponse, "failed to decode upstream response", err)
	}
	return resp.StatusCode, nil
}

// computeBackoff honors Retry-After when present, otherwise uses
// exponential backoff with jitter clamped to [MinWait, MaxWait].
func (c *BaseClient) computeBackoff(attempt int, resp *http.Response) time.Duration {
	if resp != nil {
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
				return min(time.Duration(seconds)*time.Second, c.retryPolicy.MaxWait)
			}
			if t, err := http.ParseTime(retryAfter); err == nil {
				wait := time.Until(t)
				if wait <= 0 {
					return c.retryPolicy.MinWait
				}
				return min(wait, c.retryPolicy.MaxWait)
			}
		}
	}

	base := math.Min(
		float64(c.retryPolicy.MinWait)*math.Pow(2, float64(attempt)),
		float64(c.retryPolicy.MaxWait),
	)
	minWait := float64(c.retryPolicy.MinWait)
	if base <= minWait {
		return c.retryPolicy.MinWait
	}
	return time.Duration(minWait + rand.Float64()*(base-minWait))
}

// mapError translates transport failures into AppErrors.
func (c *BaseClient) mapError(ctx context.Context, resp *http.Response, err error) *types.AppError {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return types.NewAppError(types.ErrCodeUpstreamUnavailable, "circuit breaker is open; upstream service unavailable", err)
	case ctx.Err() != nil:
		return types.NewAppError(types.ErrCodeUpstreamUnavailable, "upstream request cancelled", ctx.Err())
	}

	if resp != nil {
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return types.NewAppError(types.ErrCodeUpstreamRateLimited, "upstream rate limit exceeded", err)
		case resp.StatusCode >= 500:
			return types.NewAppError(types.ErrCodeUpstreamUnavailable, fmt.Sprintf("upstream returned %d after retries", resp.StatusCode), err)
		}
	}

	return types.NewAppError(types.ErrCodeUpstreamUnavailable, "upstream request failed", err)
}

// stripQuery drops the query string from a transport error so API keys
// passed as parameters never reach logs.
func stripQuery(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		if i := strings.IndexByte(ue.URL, '?'); i >= 0 {
			ue.URL = ue.URL[:i]
		}
	}
	return err
}
