package apiresult

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is the cause of the network failure produced by [Timeout] when
// the wrapped call outlives its deadline.
var ErrTimeout = errors.New("api call timed out")

// Timeout returns a middleware bounding the wrapped call to d. The call runs
// with a derived context; if it has not returned after d, the middleware
// returns a network failure caused by [ErrTimeout] without waiting for it.
// Cancellation of the parent context yields a network failure caused by the
// parent's error.
func Timeout[T, E any](d time.Duration) Middleware[T, E] {
	return func(next Call[T, E]) Call[T, E] {
		return func(ctx context.Context) Result[T, E] {
			if err := ctx.Err(); err != nil {
				return NewNetworkFailure[T, E](err)
			}

			timeoutCtx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			ch := make(chan Result[T, E], 1)

			go func() {
				ch <- next(timeoutCtx)
			}()

			select {
			case r := <-ch:
				return r
			case <-timeoutCtx.Done():
				if err := ctx.Err(); err != nil {
					return NewNetworkFailure[T, E](err)
				}

				return NewNetworkFailure[T, E](ErrTimeout)
			}
		}
	}
}
