package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// recordTimer collects waits and fires at once.
type recordTimer struct {
	waits *[]time.Duration
	c     chan time.Time
}

func newRecordTimer(waits *[]time.Duration) *recordTimer {
	return &recordTimer{waits: waits, c: make(chan time.Time, 1)}
}

func (r *recordTimer) Start(d time.Duration) {
	*r.waits = append(*r.waits, d)
	select {
	case r.c <- time.Now():
	default:
	}
}

func (r *recordTimer) Stop() {}

func (r *recordTimer) C() <-chan time.Time {
	return r.c
}

// drawWaits draws n waits from a backoff.
func drawWaits(b BackoffFunc, n int) []time.Duration {
	bo := b()
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = bo.NextBackOff()
	}
	return out
}

func TestExponentialBackoff(t *testing.T) {
	waits := drawWaits(ExponentialBackoff(500*time.Millisecond, 10*time.Second), 40)

	assert.Equal(t, 500*time.Millisecond, waits[0])
	assert.Equal(t, 1*time.Second, waits[1])
	assert.Equal(t, 2*time.Second, waits[2])
	assert.Equal(t, 8*time.Second, waits[4])
	assert.Equal(t, 10*time.Second, waits[5], "Should cap at max")
	assert.Equal(t, 10*time.Second, waits[39], "Should not overflow")
}

func TestFixedBackoff(t *testing.T) {
	waits := drawWaits(FixedBackoff(5*time.Second), 14)
	assert.Equal(t, 5*time.Second, waits[0])
	assert.Equal(t, 5*time.Second, waits[13])
}

func TestPolicy_Do(t *testing.T) {
	t.Run("SucceedsAfterRetries", func(t *testing.T) {
		var waits []time.Duration
		p := Policy{MaxAttempts: 5, Backoff: FixedBackoff(time.Second), Timer: newRecordTimer(&waits)}

		calls := 0
		err := p.Do(context.Background(), func(context.Context) error {
			calls++
			if calls < 3 {
				return &RetriableError{StatusCode: 503, Err: errors.New("unavailable")}
			}
			return nil
		}, nil)

		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []time.Duration{time.Second, time.Second}, waits)
	})

	t.Run("NonRetriableReturnsImmediately", func(t *testing.T) {
		var waits []time.Duration
		p := Policy{MaxAttempts: 5, Backoff: FixedBackoff(time.Second), Timer: newRecordTimer(&waits)}

		calls := 0
		err := p.Do(context.Background(), func(context.Context) error {
			calls++
			return &NonRetriableError{StatusCode: 400, Body: "bad"}
		}, nil)

		var ne *NonRetriableError
		assert.ErrorAs(t, err, &ne)
		assert.Equal(t, 1, calls)
		assert.Empty(t, waits)
	})

	t.Run("ExhaustsCeiling", func(t *testing.T) {
		var waits []time.Duration
		p := Policy{MaxAttempts: 3, Backoff: FixedBackoff(time.Millisecond), Timer: newRecordTimer(&waits)}

		calls := 0
		var retries []int
		err := p.Do(context.Background(), func(context.Context) error {
			calls++
			return &RetriableError{StatusCode: 502, Err: errors.New("bad gateway")}
		}, func(attempt int, err error, wait time.Duration) {
			retries = append(retries, attempt)
		})

		var exhausted *RetryExhaustedError
		assert.ErrorAs(t, err, &exhausted)
		assert.Equal(t, 3, exhausted.Attempts)
		assert.True(t, IsRetriable(exhausted.Last))
		assert.Equal(t, 3, calls)
		assert.Equal(t, []int{1, 2}, retries, "No wait after the final attempt")
		assert.Len(t, waits, 2)
	})

	t.Run("ContextCancelledDuringWait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p := Policy{MaxAttempts: 3, Backoff: FixedBackoff(time.Hour)}
		err := p.Do(ctx, func(context.Context) error {
			return &RetriableError{Err: errors.New("timeout")}
		}, nil)

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("CustomPredicate", func(t *testing.T) {
		sentinel := errors.New("flaky")
		p := Policy{
			MaxAttempts: 2,
			Retriable:   func(err error) bool { return errors.Is(err, sentinel) },
		}

		err := p.Do(context.Background(), func(context.Context) error { return sentinel }, nil)

		var exhausted *RetryExhaustedError
		assert.ErrorAs(t, err, &exhausted)
		assert.ErrorIs(t, err, sentinel)
	})
}

func TestConfig_Policy(t *testing.T) {
	cfg := Config{MaxAttempts: 7, BackoffMillis: 100, MaxBackoffSeconds: 1}
	p := cfg.Policy()

	assert.Equal(t, 7, p.MaxAttempts)
	waits := drawWaits(p.Backoff, 10)
	assert.Equal(t, 100*time.Millisecond, waits[0])
	assert.Equal(t, time.Second, waits[9])
	assert.Equal(t, 50, p.WithMaxAttempts(50).MaxAttempts)
	assert.Equal(t, 7, p.MaxAttempts, "WithMaxAttempts should copy")
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, 503, StatusCode(&RetryExhaustedError{Last: &RetriableError{StatusCode: 503}}))
	assert.Equal(t, 404, StatusCode(&NonRetriableError{StatusCode: 404}))
	assert.Equal(t, 0, StatusCode(errors.New("plain")))
}
