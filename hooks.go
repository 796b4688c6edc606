package apiresult

import (
	"context"
	"log/slog"
	"time"
)

// Hooks holds optional callbacks for retry and call-adapter events. All fields
// are nil by default; set only the ones you need. A Hooks value must not be
// mutated once handed to [WithHooks] or an httpx client: emit methods read the
// fields without synchronisation.
type Hooks struct {
	// OnRetry runs before sleeping ahead of retry attempt number attempt
	// (1-indexed, counting the attempt about to run).
	OnRetry func(attempt int, delay time.Duration, failure error)
	// OnGiveUp runs when retrying stops with a failure, either because
	// attempts are exhausted or because the failure is not retryable.
	OnGiveUp func(attempts int, failure error)
	// OnNetworkFailure runs when a transport error is classified.
	OnNetworkFailure func(err error)
	// OnUnknownFailure runs when an unexpected error is classified.
	OnUnknownFailure func(err error)
	// OnHTTPFailure runs for every non-2xx response.
	OnHTTPFailure func(code int)
	// OnFallback runs when a [Fallback] middleware replaces a failure.
	OnFallback func(failure error)
}

func (h *Hooks) emitRetry(attempt int, delay time.Duration, failure error) {
	if h != nil && h.OnRetry != nil {
		h.OnRetry(attempt, delay, failure)
	}
}

func (h *Hooks) emitGiveUp(attempts int, failure error) {
	if h != nil && h.OnGiveUp != nil {
		h.OnGiveUp(attempts, failure)
	}
}

func (h *Hooks) emitFallback(failure error) {
	if h != nil && h.OnFallback != nil {
		h.OnFallback(failure)
	}
}

// EmitNetworkFailure calls OnNetworkFailure if set.
func (h *Hooks) EmitNetworkFailure(err error) {
	if h != nil && h.OnNetworkFailure != nil {
		h.OnNetworkFailure(err)
	}
}

// EmitUnknownFailure calls OnUnknownFailure if set.
func (h *Hooks) EmitUnknownFailure(err error) {
	if h != nil && h.OnUnknownFailure != nil {
		h.OnUnknownFailure(err)
	}
}

// EmitHTTPFailure calls OnHTTPFailure if set.
func (h *Hooks) EmitHTTPFailure(code int) {
	if h != nil && h.OnHTTPFailure != nil {
		h.OnHTTPFailure(code)
	}
}

// SlogHooks returns hooks that log every event to logger. Retries and HTTP
// failures are logged at debug level, fallbacks at info level, give-ups and
// classified errors at warn level.
func SlogHooks(logger *slog.Logger) Hooks {
	ctx := context.Background()

	return Hooks{
		OnRetry: func(attempt int, delay time.Duration, failure error) {
			logger.LogAttrs(ctx, slog.LevelDebug, "retrying api call",
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay),
				slog.String("failure", failure.Error()),
			)
		},
		OnGiveUp: func(attempts int, failure error) {
			logger.LogAttrs(ctx, slog.LevelWarn, "api call failed",
				slog.Int("attempts", attempts),
				slog.String("failure", failure.Error()),
			)
		},
		OnNetworkFailure: func(err error) {
			logger.LogAttrs(ctx, slog.LevelWarn, "network failure",
				slog.String("error", err.Error()),
			)
		},
		OnUnknownFailure: func(err error) {
			logger.LogAttrs(ctx, slog.LevelWarn, "unknown failure",
				slog.String("error", err.Error()),
			)
		},
		OnHTTPFailure: func(code int) {
			logger.LogAttrs(ctx, slog.LevelDebug, "http failure",
				slog.Int("status", code),
			)
		},
		OnFallback: func(failure error) {
			logger.LogAttrs(ctx, slog.LevelInfo, "falling back",
				slog.String("failure", failure.Error()),
			)
		},
	}
}
