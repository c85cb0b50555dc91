package transport

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// BackoffFunc builds a fresh wait schedule for one Do call.
type BackoffFunc func() backoff.BackOff

// FixedBackoff waits the same delay between every attempt.
func FixedBackoff(d time.Duration) BackoffFunc {
	return func() backoff.BackOff {
		return backoff.NewConstantBackOff(d)
	}
}

// ExponentialBackoff doubles the delay on each attempt starting from base, capped at max.
func ExponentialBackoff(base, max time.Duration) BackoffFunc {
	return func() backoff.BackOff {
		b := &backoff.ExponentialBackOff{
			InitialInterval: base,
			Multiplier:      2,
			MaxInterval:     max,
			Stop:            backoff.Stop,
			Clock:           backoff.SystemClock,
		}
		b.Reset()
		return b
	}
}

// Policy is a reusable retry policy.
type Policy struct {
	// MaxAttempts is the attempt ceiling, including the first call.
	MaxAttempts int
	// Backoff computes the waits between failed attempts.
	Backoff BackoffFunc
	// Retriable decides whether an error is worth another attempt.
	// Defaults to IsRetriable.
	Retriable func(error) bool
	// Timer drives the waits. Nil uses a real timer per call; a non-nil
	// Timer must not be shared by concurrent calls.
	Timer backoff.Timer
}

// DefaultPolicy returns the catalog policy: 15 attempts, exponential backoff
// from 500ms capped at 10s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 15,
		Backoff:     ExponentialBackoff(500*time.Millisecond, 10*time.Second),
		Retriable:   IsRetriable,
	}
}

// WithMaxAttempts returns a copy of the policy with a different ceiling.
func (p Policy) WithMaxAttempts(n int) Policy {
	p.MaxAttempts = n
	return p
}

// Do runs fn until it succeeds, returns a non-retriable error, or the ceiling is hit.
// The onRetry callback, when non-nil, is invoked before each wait.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error, onRetry func(attempt int, err error, wait time.Duration)) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	retriable := p.Retriable
	if retriable == nil {
		retriable = IsRetriable
	}
	schedule := p.Backoff
	if schedule == nil {
		schedule = FixedBackoff(0)
	}

	var (
		attempts  int
		last      error
		permanent bool
	)
	operation := func() error {
		attempts++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !retriable(err) {
			permanent = true
			return backoff.Permanent(err)
		}
		last = err
		return err
	}
	notify := func(err error, wait time.Duration) {
		if onRetry != nil {
			onRetry(attempts, err, wait)
		}
	}

	b := backoff.WithContext(backoff.WithMaxRetries(schedule(), uint64(maxAttempts-1)), ctx)
	err := backoff.RetryNotifyWithTimer(operation, b, notify, p.Timer)
	if err == nil || permanent {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return err
	}
	return &RetryExhaustedError{Attempts: attempts, Last: last}
}
