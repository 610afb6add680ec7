package resilience

import (
	"context"
	"errors"
)

var ErrNoAttempts = errors.New("no fetch attempts configured")

// Attempt is one ordered fetch alternative.
type Attempt[T any] func(ctx context.Context) (T, error)

// FirstAccepted runs attempts in order and returns the first result accepted
// by accept. When every successful result is rejected, the last successful one
// is returned without error. The last error is returned only when no attempt
// succeeded.
func FirstAccepted[T any](ctx context.Context, attempts []Attempt[T], accept func(T) bool) (T, error) {
	var (
		zero    T
		last    T
		haveOK  bool
		lastErr error
	)
	if len(attempts) == 0 {
		return zero, ErrNoAttempts
	}

	for _, attempt := range attempts {
		if err := ctx.Err(); err != nil {
			if haveOK {
				return last, nil
			}
			return zero, err
		}

		result, err := attempt(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		if accept == nil || accept(result) {
			return result, nil
		}
		last, haveOK = result, true
	}

	if haveOK {
		return last, nil
	}
	return zero, lastErr
}
