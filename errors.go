package apiresult

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Usage errors
// ---------------------------------------------------------------------------

type (
	// UsageError identifies errors caused by invalid arguments passed to this
	// package, as opposed to failures of the remote call itself.
	//nolint:iface // exported for consumer error classification.
	UsageError interface {
		error
		// IsUsage reports whether this error was caused by a caller mistake.
		IsUsage() bool
	}

	// usageError is the concrete type backing all sentinel usage errors.
	usageError string

	// APIError signals that a response was received with a successful
	// transport status but the decoded payload reports an application-level
	// error. Decoders return it so the call adapter produces an API failure
	// instead of an unknown failure.
	APIError[E any] struct {
		Body    E
		HasBody bool
	}
)

// Sentinel usage errors.
var (
	// ErrUseAPIFailure is returned when an HTTP failure is built with a 2xx
	// status code.
	ErrUseAPIFailure error = usageError(
		"status code is a 2xx; use APIFailure instead",
	)
	// ErrInvalidStatusCode is returned when an HTTP failure is built with a
	// code outside [400, 599].
	ErrInvalidStatusCode error = usageError("invalid HTTP status code")
	// ErrInvalidMaxAttempts is returned when retry is configured with zero or
	// fewer attempts.
	ErrInvalidMaxAttempts error = usageError(
		"max attempts must be greater than 0",
	)
	// ErrInvalidRetryOption is returned when a typed retry option does not
	// match the error body type of the retried call.
	ErrInvalidRetryOption error = usageError("retry option type mismatch")
	// ErrEscapeReturned is the panic value raised when the escape function
	// given to SuccessOrNothing returns instead of diverting control flow.
	ErrEscapeReturned error = usageError(
		"SuccessOrNothing escape function returned normally",
	)
)

func (e usageError) Error() string { return string(e) }

// IsUsage reports whether the error is a usage error.
func (usageError) IsUsage() bool { return true }

// IsUsage reports whether err is, or wraps, a usage error of this package.
func IsUsage(err error) bool {
	var ue UsageError

	return errors.As(err, &ue) && ue.IsUsage()
}

// NewAPIError returns an [APIError] carrying body.
func NewAPIError[E any](body E) *APIError[E] {
	return &APIError[E]{Body: body, HasBody: true}
}

// Error returns a human-readable description of the API error.
func (e *APIError[E]) Error() string {
	if !e.HasBody {
		return "api error"
	}

	return fmt.Sprintf("api error: %v", e.Body)
}
