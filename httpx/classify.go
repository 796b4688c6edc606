package httpx

import (
	"context"
	"errors"
	"io"
	"net"
	"net/url"
	"syscall"

	"github.com/byte4ever/apiresult"
)

// IsNetworkError reports whether err is an I/O-class transport error:
// connection, DNS and timeout errors, truncated streams and cancelled
// requests.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}

	// *url.Error implements net.Error whatever its cause, so classify the
	// cause instead.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	if errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF) {
		return true
	}

	var (
		netErr net.Error
		opErr  *net.OpError
		errno  syscall.Errno
	)

	return errors.As(err, &opErr) ||
		errors.As(err, &netErr) ||
		errors.As(err, &errno)
}

// Classify maps an error raised while executing a call or decoding its
// response to a failure: an *apiresult.APIError[E] becomes an API failure,
// network errors a network failure, anything else an unknown failure.
func Classify[T, E any](err error) apiresult.Result[T, E] {
	var apiErr *apiresult.APIError[E]
	if errors.As(err, &apiErr) {
		if apiErr.HasBody {
			return apiresult.NewAPIFailure[T, E](apiErr.Body)
		}

		return apiresult.NewAPIFailureWithoutBody[T, E]()
	}

	if IsNetworkError(err) {
		return apiresult.NewNetworkFailure[T, E](err)
	}

	return apiresult.NewUnknownFailure[T, E](err)
}
