package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable reports that a remote backend could not be reached.
// Callers treat it as a miss and render without the cache.
var ErrUnavailable = errors.New("cache backend unavailable")

// transientError marks a failure worth retrying.
type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// Transient marks err as retryable by [Backoff.Retry]. It returns nil for
// a nil err.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err}
}

// IsTransient reports whether err was marked with [Transient].
func IsTransient(err error) bool {
	var t transientError
	return errors.As(err, &t)
}

// Backoff retries transient failures, doubling the delay after each
// attempt.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// DefaultBackoff keeps a request waiting at most a few hundred
// milliseconds on a flapping backend.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 50 * time.Millisecond}

// Retry calls fn until it succeeds, fails with an error not marked
// [Transient], or the attempts run out. It stops early when ctx is done.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay
	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsTransient(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}
