// Package retry reruns fallible calls with linear backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// BaseDelay is the wait after the first failed attempt. The n-th retry
// waits n times as long.
var BaseDelay = 500 * time.Millisecond

// permanent marks an error that must not be retried.
type permanent struct{ err error }

func (p permanent) Error() string { return p.err.Error() }
func (p permanent) Unwrap() error { return p.err }

// Permanent wraps err so Do returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanent{err}
}

// Do calls fn up to attempts times until it succeeds.
func Do[T any](ctx context.Context, attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		var p permanent
		if errors.As(err, &p) {
			return zero, p.err
		}
		lastErr = err
		if i == attempts-1 {
			break
		}

		wait := BaseDelay * time.Duration(i+1)
		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("after %d attempts: %w", i+1, errors.Join(lastErr, ctx.Err()))
		case <-time.After(wait):
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
