package resilience

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// NewBreaker creates a circuit breaker with the settings shared by all
// outbound provider clients.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// DoRequest executes a single HTTP attempt through the circuit breaker and
// classifies the outcome. Transport errors, 429 and 5xx responses come back
// marked transient so the caller's retry policy takes another attempt; other
// non-2xx statuses are permanent. An open circuit propagates immediately.
func DoRequest(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	req, err := buildRequest()
	if err != nil {
		return nil, err
	}

	// Ensure the request obeys context cancellation and per-call timeouts.
	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, Transient(execErr)
		}

		// Handle rate limiting and server errors explicitly.
		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			return nil, Transient(errRateLimited)
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, Transient(fmt.Errorf("%w: %d", errServerError, resp.StatusCode))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
		}

		return resp, nil
	})
	if err != nil {
		// If the circuit is open, propagate immediately rather than retrying
		// into a provider that is already failing.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}
