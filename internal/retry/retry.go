// Package retry implements exponential backoff for transient remote errors.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/nordwind-labs/taskdeck/internal/clierr"
)

// Default policy values.
const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = time.Second
)

// Policy controls how many times an operation is attempted and how long
// to wait between attempts. The delay before retry n (0-based) is
// BaseDelay * 2^n.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration

	// Sleep is swappable for tests. Nil means a context-aware time.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error

	// Notify, when set, is called before each backoff wait so the caller
	// can tell the user what is happening.
	Notify func(attempt int, delay time.Duration)
}

// DefaultPolicy returns the standard policy: 5 attempts, 1s base delay.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, BaseDelay: DefaultBaseDelay}
}

// Transient reports whether an error is worth retrying. Only rate-limit
// rejections qualify; validation and permanent remote errors fail fast.
func Transient(err error) bool {
	var ce *clierr.Error
	if errors.As(err, &ce) {
		return ce.Code == clierr.RateLimited
	}
	return false
}

// Do runs fn until it succeeds, returns a non-transient error, the
// context is done, or MaxAttempts is exhausted. Exhaustion returns a
// RETRY_LIMIT_EXCEEDED error wrapping the last transient failure.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var last error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := p.BaseDelay << uint(attempt-1)
			if p.Notify != nil {
				p.Notify(attempt+1, delay)
			}
			if err := sleep(ctx, delay); err != nil {
				return err
			}
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !Transient(err) {
			return err
		}
		last = err
	}
	return clierr.Wrap(clierr.RetryLimitExceeded, last,
		"giving up after %d attempts: %v", attempts, last).
		WithDetails(map[string]any{"attempts": attempts})
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
