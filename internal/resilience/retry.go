package resilience

import (
	"context"
	"errors"
	"math"
	"time"
)

// transientError marks a failure as retry-worthy. Rate limits, server
// errors and transport timeouts are transient; everything else is
// treated as permanent and surfaces immediately.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }

func (e *transientError) Unwrap() error { return e.err }

// Transient wraps err so retry policies know it is worth another attempt.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err (or anything it wraps) was marked transient.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// Policy controls retry attempts and exponential backoff for a single
// remote call. The same policy is applied to weather and geocoding
// requests so failure handling lives in one place.
type Policy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Do runs op, retrying transient failures with exponential backoff until
// the retry cap is exhausted. Permanent failures and context cancellation
// return immediately. The last error is returned once retries run out.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	var attempt int

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		if attempt >= p.MaxRetries {
			return err
		}

		delay := p.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if p.MaxInterval > 0 && delay > p.MaxInterval {
			delay = p.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			// continue to next attempt
		}

		attempt++
	}
}
