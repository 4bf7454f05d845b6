// Package retry wraps fallible external calls with a fixed-delay retry policy.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy configures how often and how patiently an operation is retried.
// Delay is constant between attempts: no growth, no jitter.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// maxAttempts clamps Attempts to at least one call.
func (p Policy) maxAttempts() int {
	if p.Attempts < 1 {
		return 1
	}
	return p.Attempts
}

// Permanent marks err as not worth retrying. Do returns it after the current attempt.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do invokes op until it succeeds or the policy's attempts are used up, waiting
// p.Delay between attempts. The final error is wrapped with label and the
// number of attempts made. Context cancellation ends retrying immediately.
func Do[T any](ctx context.Context, p Policy, label string, op func(ctx context.Context) (T, error)) (T, error) {
	limit := p.maxAttempts()
	attempt := 0

	operation := func() (T, error) {
		attempt++
		slog.Debug("external call", "label", label, "attempt", attempt, "max_attempts", limit)

		res, err := op(ctx)
		if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}

	var b backoff.BackOff = backoff.NewConstantBackOff(p.Delay)
	b = backoff.WithMaxRetries(b, uint64(limit-1))

	notify := func(err error, wait time.Duration) {
		slog.Warn("external call failed, retrying",
			"label", label,
			"attempt", attempt,
			"max_attempts", limit,
			"retry_in", wait,
			"error", err,
		)
	}

	res, err := backoff.RetryNotifyWithData(operation, backoff.WithContext(b, ctx), notify)
	if err != nil {
		slog.Error("external call gave up", "label", label, "attempts", attempt, "error", err)
		return res, fmt.Errorf("%s failed after %d attempt(s): %w", label, attempt, err)
	}
	if attempt > 1 {
		slog.Info("external call recovered", "label", label, "attempts", attempt)
	}
	return res, nil
}

// Exec is Do for operations that return only an error.
func Exec(ctx context.Context, p Policy, label string, op func(ctx context.Context) error) error {
	_, err := Do(ctx, p, label, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
