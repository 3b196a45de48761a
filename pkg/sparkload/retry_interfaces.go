package sparkload

import "time"

// ErrorClassifier determines whether an error is transient and should be retried.
type ErrorClassifier interface {
	IsTransient(err error) bool
}

// BackoffStrategy calculates delays between retry attempts.
type BackoffStrategy interface {
	// NextDelay returns the delay before the given retry attempt (0-indexed).
	NextDelay(attempt int) time.Duration

	// MaxAttempts returns the number of retries after the first attempt.
	// Negative means retry until the context is done.
	MaxAttempts() int
}
