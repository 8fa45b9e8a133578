// Package retry implements a bounded-attempt backoff policy for external
// calls.
package retry

import (
	"errors"
	"fmt"
	"log"
	"time"
)

// Policy retries an operation up to MaxAttempts times, sleeping BaseDelay
// before the second attempt and multiplying the delay by Multiplier after
// each subsequent failure.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
}

// DefaultPolicy mirrors the bounded sleep-then-retry loop used against the
// county records endpoint.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: 2 * time.Second, Multiplier: 2}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as non-retryable; Do stops immediately and returns
// the underlying error.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do runs fn under the policy. The returned error is the last attempt's
// error, wrapped with the attempt count when retries were exhausted.
func (p Policy) Do(op string, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.BaseDelay

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}

		lastErr = err
		if attempt == attempts {
			break
		}
		log.Printf("%s attempt=%d/%d err=%v retrying_in=%s", op, attempt, attempts, err, delay)
		time.Sleep(delay)
		if p.Multiplier > 1 {
			delay = time.Duration(float64(delay) * p.Multiplier)
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", op, attempts, lastErr)
}
