// Package retry bounds how often and how fast an outbound call is repeated.
package retry

import (
	"context"
	"time"

	goretry "github.com/sethvargo/go-retry"
)

// Policy retries with exponential backoff. MaxAttempts counts the first try.
type Policy struct {
	MaxAttempts int
	Base        time.Duration
	Cap         time.Duration
}

func Default() Policy {
	return Policy{MaxAttempts: 3, Base: 200 * time.Millisecond, Cap: 2 * time.Second}
}

func (p Policy) backoff() goretry.Backoff {
	base := p.Base
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	b := goretry.NewExponential(base)
	if p.Cap > 0 {
		b = goretry.WithCappedDuration(p.Cap, b)
	}
	return goretry.WithMaxRetries(uint64(attempts-1), b)
}

// Do runs fn until it succeeds, returns a non-retryable error, the attempts
// run out or ctx is done. Only errors wrapped with Retryable are repeated.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return goretry.Do(ctx, p.backoff(), fn)
}

// Forever is Do without the attempt limit: fn is repeated with capped
// backoff until it succeeds, returns a non-retryable error or ctx is done.
func (p Policy) Forever(ctx context.Context, fn func(ctx context.Context) error) error {
	base := p.Base
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	b := goretry.NewExponential(base)
	if p.Cap > 0 {
		b = goretry.WithCappedDuration(p.Cap, b)
	}
	return goretry.Do(ctx, b, fn)
}

// Retryable marks err as worth another attempt.
func Retryable(err error) error {
	return goretry.RetryableError(err)
}
