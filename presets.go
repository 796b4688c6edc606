package apiresult

import "time"

// StandardRetry returns options for a typical interactive API call: 3
// attempts starting at 200ms, doubling up to 5s, with 25% jitter.
func StandardRetry() []RetryOption {
	return []RetryOption{
		MaxAttempts(3),
		InitialDelay(200 * time.Millisecond),
		DelayFactor(2),
		MaxDelay(5 * time.Second),
		JitterFactor(0.25),
	}
}

// AggressiveRetry returns options for background calls that should push
// through outages: 8 attempts starting at 1s, doubling up to 1 minute, with
// 50% jitter, and no retry on HTTP 4xx failures other than 408 and 429.
func AggressiveRetry[E any]() []RetryOption {
	return []RetryOption{
		MaxAttempts(8),
		InitialDelay(time.Second),
		DelayFactor(2),
		MaxDelay(time.Minute),
		JitterFactor(0.5),
		ShouldRetry(RetryableHTTP[E]),
	}
}

// RetryableHTTP reports whether a failure is worth retrying: network
// failures, 5xx, 408 and 429 are; other failures are not.
func RetryableHTTP[E any](f Failure[E]) bool {
	switch f.Kind {
	case KindNetworkFailure:
		return true
	case KindHTTPFailure:
		return f.Code >= 500 || f.Code == 408 || f.Code == 429
	default:
		return false
	}
}
