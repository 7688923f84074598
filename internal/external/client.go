// Package external provides the anti-corruption layer between the bot and the
// two third-party services it talks to: the homework review API and the
// Telegram Bot API. All outbound HTTP calls are routed through BaseClient,
// which enforces consistent behavior: a circuit breaker and error mapping to
// types.AppError. Requests built with a poll context also carry its request
// ID; the Telegram library builds its own requests without one.
package external

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"homeworkbot/internal/types"
)

// requestIDHeader carries the poll iteration ID to upstream services.
const requestIDHeader = "X-Request-ID"

// errUpstreamStatus marks a response the breaker should count as a failure.
// The response itself is still handed back to the caller.
var errUpstreamStatus = errors.New("upstream returned failure status")

// BaseClient wraps an *http.Client and a circuit breaker. It never retries:
// the poll loop's next iteration is the retry.
//
// BaseClient satisfies tgbotapi.HTTPClient so the Telegram library shares the
// same breaker and timeout discipline.
type BaseClient struct {
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[*http.Response]
	userAgent string
}

// NewBaseClient creates a BaseClient whose breaker opens after more than five
// consecutive failures (transport errors, 429 and 5xx responses).
func NewBaseClient(httpClient *http.Client, breakerName string, userAgent string) *BaseClient {
	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	})

	return NewBaseClientWithBreaker(httpClient, cb, userAgent)
}

// NewBaseClientWithBreaker creates a BaseClient with a caller-provided circuit
// breaker.
func NewBaseClientWithBreaker(
	httpClient *http.Client,
	breaker *gobreaker.CircuitBreaker[*http.Response],
	userAgent string,
) *BaseClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &BaseClient{
		client:    httpClient,
		breaker:   breaker,
		userAgent: userAgent,
	}
}

// Do executes the HTTP request with:
//  1. Request ID injection (X-Request-ID from context)
//  2. User-Agent header injection
//  3. Circuit breaker wrapping
//  4. Error mapping to types.AppError
//
// Any HTTP response, including 4xx and 5xx, is returned as-is with a nil error;
// interpreting the status is the caller's job. The caller closes the body.
// A transport failure or an open breaker returns a nil response and an
// AppError with code upstream_unavailable.
func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	if id := types.GetRequestID(req.Context()); id != "" {
		req.Header.Set(requestIDHeader, id)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		r, doErr := c.client.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		if r.StatusCode >= 500 || r.StatusCode == http.StatusTooManyRequests {
			return r, fmt.Errorf("%w: %d", errUpstreamStatus, r.StatusCode)
		}
		return r, nil
	})

	if resp != nil {
		return resp, nil
	}
	return nil, c.mapError(req, err)
}

// State reports the breaker state, for logging.
func (c *BaseClient) State() gobreaker.State {
	return c.breaker.State()
}

// mapError translates transport-level failures into AppErrors.
func (c *BaseClient) mapError(req *http.Request, err error) *types.AppError {
	// Only the host is recorded: Telegram URLs carry the bot token in the path.
	details := map[string]any{"host": req.URL.Host}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return types.NewAppErrorWithDetails(
			types.ErrCodeUpstreamUnavailable,
			"circuit breaker is open; upstream service unavailable",
			err,
			details,
		)
	}

	return types.NewAppErrorWithDetails(
		types.ErrCodeUpstreamUnavailable,
		"upstream request failed",
		err,
		details,
	)
}
