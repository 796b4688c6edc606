package apiresult

import (
	"context"
	"fmt"
	"time"
)

// retryConfig holds the resolved configuration of one RetryWithBackoff call.
type retryConfig struct {
	clock       Clock
	hooks       *Hooks
	rnd         func() float64
	shouldRetry any // func(Failure[E]) bool
	onFailure   any // func(Failure[E])
	backoff     Backoff
	maxAttempts int
}

// RetryOption configures [RetryWithBackoff].
type RetryOption func(*retryConfig)

// MaxAttempts sets the total number of attempts, including the first. It
// must be greater than 0.
func MaxAttempts(n int) RetryOption {
	return func(cfg *retryConfig) {
		cfg.maxAttempts = n
	}
}

// InitialDelay sets the delay before the first retry.
func InitialDelay(d time.Duration) RetryOption {
	return func(cfg *retryConfig) {
		cfg.backoff.Initial = d
	}
}

// DelayFactor sets the multiplier applied to the delay after each failure.
func DelayFactor(f float64) RetryOption {
	return func(cfg *retryConfig) {
		cfg.backoff.Factor = f
	}
}

// MaxDelay caps the delay between attempts.
func MaxDelay(d time.Duration) RetryOption {
	return func(cfg *retryConfig) {
		cfg.backoff.Max = d
	}
}

// JitterFactor sets the relative jitter applied to each computed delay. Zero
// disables jitter.
func JitterFactor(f float64) RetryOption {
	return func(cfg *retryConfig) {
		cfg.backoff.Jitter = f
	}
}

// WithBackoff replaces the whole delay schedule.
func WithBackoff(b Backoff) RetryOption {
	return func(cfg *retryConfig) {
		cfg.backoff = b
	}
}

// ShouldRetry sets the predicate deciding whether a failure is retried. When
// it returns false the failure is returned at once, whatever the remaining
// attempts. E must match the error body type of the retried call.
func ShouldRetry[E any](fn func(Failure[E]) bool) RetryOption {
	return func(cfg *retryConfig) {
		cfg.shouldRetry = fn
	}
}

// OnFailure sets a callback run for every retryable failure, including the
// last one. E must match the error body type of the retried call.
func OnFailure[E any](fn func(Failure[E])) RetryOption {
	return func(cfg *retryConfig) {
		cfg.onFailure = fn
	}
}

// WithClock sets the clock used to sleep between attempts.
func WithClock(c Clock) RetryOption {
	return func(cfg *retryConfig) {
		cfg.clock = c
	}
}

// WithHooks sets lifecycle hooks. The hooks must not be mutated afterwards.
func WithHooks(h *Hooks) RetryOption {
	return func(cfg *retryConfig) {
		cfg.hooks = h
	}
}

// WithRandom sets the source of jitter, returning values in [0, 1).
func WithRandom(rnd func() float64) RetryOption {
	return func(cfg *retryConfig) {
		cfg.rnd = rnd
	}
}

// RetryWithBackoff calls block until it succeeds, a failure is rejected by
// [ShouldRetry], or the attempts are used up, sleeping between attempts
// according to the configured [Backoff].
//
// Retry exhaustion is not an error: the last failure is returned with a nil
// error. The returned error is non-nil only for invalid options (a
// [UsageError], before block ever runs) or when ctx is done while sleeping,
// in which case it is ctx.Err() and no further attempt is made.
func RetryWithBackoff[T, E any](
	ctx context.Context,
	block func(context.Context) Result[T, E],
	opts ...RetryOption,
) (Result[T, E], error) {
	cfg := retryConfig{
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultBackoff(),
		clock:       RealClock{},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.maxAttempts <= 0 {
		return Result[T, E]{}, fmt.Errorf(
			"%w: got %d", ErrInvalidMaxAttempts, cfg.maxAttempts,
		)
	}

	shouldRetry, onFailure, err := typedCallbacks[E](&cfg)
	if err != nil {
		return Result[T, E]{}, err
	}

	delay := cfg.backoff.First()

	for attempt := range cfg.maxAttempts {
		result := block(ctx)

		failure, failed := result.Failure()
		if !failed {
			return result, nil
		}

		if shouldRetry != nil && !shouldRetry(failure) {
			cfg.hooks.emitGiveUp(attempt+1, failure)
			return result, nil
		}

		if onFailure != nil {
			onFailure(failure)
		}

		if attempt == cfg.maxAttempts-1 {
			cfg.hooks.emitGiveUp(attempt+1, failure)
			return result, nil
		}

		cfg.hooks.emitRetry(attempt+2, delay, failure)

		timer := cfg.clock.NewTimer(delay)
		select {
		case <-timer.C():
		case <-ctx.Done():
			timer.Stop()
			return result, ctx.Err()
		}

		delay = cfg.backoff.Next(delay, cfg.rnd)
	}

	// Unreachable: the loop returns on its last attempt.
	panic("apiresult: retry loop exited without a result")
}

func typedCallbacks[E any](
	cfg *retryConfig,
) (func(Failure[E]) bool, func(Failure[E]), error) {
	var (
		shouldRetry func(Failure[E]) bool
		onFailure   func(Failure[E])
		ok          bool
	)

	if cfg.shouldRetry != nil {
		if shouldRetry, ok = cfg.shouldRetry.(func(Failure[E]) bool); !ok {
			return nil, nil, fmt.Errorf(
				"%w: ShouldRetry expects %T, want func(%s) bool",
				ErrInvalidRetryOption, cfg.shouldRetry, TypeOf[Failure[E]](),
			)
		}
	}

	if cfg.onFailure != nil {
		if onFailure, ok = cfg.onFailure.(func(Failure[E])); !ok {
			return nil, nil, fmt.Errorf(
				"%w: OnFailure expects %T, want func(%s)",
				ErrInvalidRetryOption, cfg.onFailure, TypeOf[Failure[E]](),
			)
		}
	}

	return shouldRetry, onFailure, nil
}
