package apiresult

import "context"

// Call is a result-producing API call.
type Call[T, E any] func(ctx context.Context) Result[T, E]

// Middleware wraps a [Call] with additional behavior.
type Middleware[T, E any] func(next Call[T, E]) Call[T, E]

// Chain composes middlewares into one. The first middleware is the
// outermost wrapper: Chain(a, b, c) produces a(b(c(next))). Chain() is the
// identity.
func Chain[T, E any](middlewares ...Middleware[T, E]) Middleware[T, E] {
	return func(next Call[T, E]) Call[T, E] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}

		return next
	}
}

// Retrying returns a middleware running the wrapped call through
// [RetryWithBackoff] with opts. When the context is cancelled mid-retry or
// the options are invalid, the error is surfaced as an unknown failure
// wrapping it.
func Retrying[T, E any](opts ...RetryOption) Middleware[T, E] {
	return func(next Call[T, E]) Call[T, E] {
		return func(ctx context.Context) Result[T, E] {
			result, err := RetryWithBackoff[T, E](ctx, next, opts...)
			if err != nil {
				failure := NewUnknownFailure[T, E](err)
				failure.tags = result.tags

				return failure
			}

			return result
		}
	}
}
