package util

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryWithContext calls fn up to maxTries times until it returns a nil error,
// or until ctx is done. If maxTries <= 0, it defaults to 1.
//
// Between attempts it waits interval, doubling the wait after every failure.
// A zero interval retries immediately. Context errors returned by fn are not
// retried. Returns ctx.Err() if the context is canceled, otherwise returns
// the last error.
func RetryWithContext[T any](
	ctx context.Context,
	maxTries int,
	interval time.Duration,
	fn func(context.Context) (T, error),
) (T, error) {
	var zero T
	if maxTries <= 0 {
		maxTries = 1
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = interval
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxInterval = interval << 4
	b.MaxElapsedTime = 0

	op := func() (T, error) {
		result, err := fn(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, backoff.Permanent(err)
		}
		return result, err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxTries-1)), ctx)
	result, err := backoff.RetryWithData(op, policy)
	if err != nil {
		return zero, err
	}
	return result, nil
}
