package transport

import (
	"errors"
	"fmt"
)

// RetriableError marks a failure worth retrying: timeouts, aborted connections
// and 5xx responses.
type RetriableError struct {
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	Err        error
}

func (e *RetriableError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("retriable transport error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("retriable transport error: %v", e.Err)
}

func (e *RetriableError) Unwrap() error { return e.Err }

// NonRetriableError is returned immediately without retry (4xx, malformed requests).
type NonRetriableError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *NonRetriableError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *NonRetriableError) Unwrap() error { return e.Err }

// RetryExhaustedError is returned when every attempt failed with a retriable error.
type RetryExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Last }

// IsRetriable reports whether err carries a RetriableError.
func IsRetriable(err error) bool {
	var re *RetriableError
	return errors.As(err, &re)
}

// StatusCode extracts the HTTP status from a transport error, or 0.
func StatusCode(err error) int {
	var re *RetriableError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	var ne *NonRetriableError
	if errors.As(err, &ne) {
		return ne.StatusCode
	}
	return 0
}
