package apiresult

import "context"

// Pattern: Fallback. Catches the final failure of a call and replaces it,
// either with a static value or with whatever a fallback call returns.

// Fallback returns a middleware that hands every failure of the wrapped call
// to fallback and returns its result instead. hooks may be nil.
func Fallback[T, E any](
	fallback func(ctx context.Context, failure Failure[E]) Result[T, E],
	hooks *Hooks,
) Middleware[T, E] {
	return func(next Call[T, E]) Call[T, E] {
		return func(ctx context.Context) Result[T, E] {
			result := next(ctx)

			failure, failed := result.Failure()
			if !failed {
				return result
			}

			hooks.emitFallback(failure)

			return fallback(ctx, failure)
		}
	}
}

// FallbackValue returns a middleware replacing every failure with a success
// carrying value. The failure's tags are kept.
func FallbackValue[T, E any](value T, hooks *Hooks) Middleware[T, E] {
	return Fallback(func(_ context.Context, failure Failure[E]) Result[T, E] {
		r := Success[T, E](value)
		r.tags = failure.Tags

		return r
	}, hooks)
}
