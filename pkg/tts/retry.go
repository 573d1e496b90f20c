// ABOUTME: Retry with exponential backoff for speech service calls
// ABOUTME: Retries transport errors, rate limiting, and server errors
package tts

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// RetryConfig holds configuration for retry logic
type RetryConfig struct {
	MaxAttempts       int           // total attempts, including the first
	InitialBackoff    time.Duration // wait before the second attempt
	MaxBackoff        time.Duration // cap on any single wait
	BackoffMultiplier float64       // growth factor between waits
}

// DefaultRetryConfig returns a default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        5 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// backoff returns the wait before attempt n (n >= 1)
func (c RetryConfig) backoff(n int) time.Duration {
	d := c.InitialBackoff
	for i := 1; i < n; i++ {
		d = time.Duration(float64(d) * c.BackoffMultiplier)
		if d > c.MaxBackoff {
			return c.MaxBackoff
		}
	}
	if d > c.MaxBackoff {
		return c.MaxBackoff
	}
	return d
}

// retryableError marks a failure that may succeed on a later attempt
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

// retryableStatus reports whether an HTTP status is worth retrying
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// withRetry runs fn until it succeeds, returns a non-retryable error,
// runs out of attempts, or ctx is done
func withRetry(ctx context.Context, cfg RetryConfig, op string, fn func() error) error {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := cfg.backoff(attempt)
			log.Debug().
				Str("op", op).
				Int("attempt", attempt+1).
				Dur("backoff", wait).
				Err(lastErr).
				Msg("Retrying speech service call")

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) || ctx.Err() != nil {
			break
		}
	}

	// Strip the retry marker before handing the error out
	var re *retryableError
	if errors.As(lastErr, &re) {
		return re.err
	}
	return lastErr
}
