package resilience

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/phrase-search/pkg/errors"
)

// WithTimeout runs fn under a derived context cancelled after timeout. A
// non-positive timeout runs fn unbounded. On expiry the returned error wraps
// both context.DeadlineExceeded and errors.ErrTimeout; fn keeps running in the
// background until it observes cancellation.
func WithTimeout(ctx context.Context, timeout time.Duration, name string, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- fn(timeoutCtx)
	}()
	select {
	case err := <-done:
		return err
	case <-timeoutCtx.Done():
		if ctx.Err() != nil {
			return fmt.Errorf("%s: parent context cancelled: %w", name, ctx.Err())
		}
		return fmt.Errorf("%s: %w (limit: %v): %w", name, context.DeadlineExceeded, timeout, apperrors.ErrTimeout)
	}
}
