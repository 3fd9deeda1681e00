package httputil

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/areamap/pkg/errors"
)

// Policy controls [Retry].
type Policy struct {
	Attempts int           // total tries, at least 1
	Delay    time.Duration // wait before the first retry; doubles after each
	MaxDelay time.Duration // cap on a single wait; 0 means uncapped
}

// DefaultPolicy is used by [NewFetcher]: three tries, one second apart at
// first, never waiting more than ten seconds.
var DefaultPolicy = Policy{Attempts: 3, Delay: time.Second, MaxDelay: 10 * time.Second}

// wait returns the backoff before retry number n (0-based).
func (p Policy) wait(n int) time.Duration {
	d := p.Delay
	for i := 0; i < n; i++ {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Retry runs fn until it succeeds, fails with an error [Retryable] rejects,
// or p.Attempts is used up. It returns the last error, or ctx.Err() if ctx
// ends while waiting.
func Retry(ctx context.Context, p Policy, fn func() error) error {
	attempts := max(p.Attempts, 1)
	var lastErr error
	for i := range attempts {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if !Retryable(lastErr) {
			return lastErr
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.wait(i)):
		}
	}
	return lastErr
}

// transientError marks an uncoded error as retryable.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as worth retrying even though it carries no
// NETWORK_ERROR or TIMEOUT code.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err}
}

// Retryable reports whether err is a transient failure. Errors coded
// NETWORK_ERROR or TIMEOUT, and errors marked with [Transient], are.
// Everything else is permanent: bad input, missing files, undecodable
// masks and plain errors fail on the first try.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.As(err, new(*transientError)) {
		return true
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeNetwork, errors.ErrCodeTimeout:
		return true
	}
	return false
}
