package connector

import (
	"context"
	"time"
)

// retryConnect calls connectFn until it succeeds, doubling the delay between
// attempts up to MaxDelay.
func retryConnect(ctx context.Context, opts RetryConfig, connectFn func(context.Context) error) error {
	attempts := opts.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}
	delay := opts.BaseDelay
	if delay == 0 {
		delay = time.Second // default
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = connectFn(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
			if delay > opts.MaxDelay && opts.MaxDelay > 0 {
				delay = opts.MaxDelay
			}
		}
	}
	return err
}
