package apiresult

import (
	"math/rand/v2"
	"time"
)

// Default backoff parameters.
const (
	DefaultMaxAttempts  = 3
	DefaultInitialDelay = 500 * time.Millisecond
	DefaultDelayFactor  = 2.0
	DefaultMaxDelay     = 10 * time.Second
	DefaultJitterFactor = 0.25
)

// Backoff describes an exponential delay schedule with multiplicative jitter.
//
// The first delay is Initial. Every following delay is the previous one
// multiplied by Factor and clamped to Max; when Jitter is non-zero the result
// is then multiplied by 1 + U(-Jitter, +Jitter) and clamped again. Delays
// never drop below Initial.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	Factor  float64
	Jitter  float64
}

// DefaultBackoff returns the schedule used by [RetryWithBackoff] when no
// option overrides it.
func DefaultBackoff() Backoff {
	return Backoff{
		Initial: DefaultInitialDelay,
		Max:     DefaultMaxDelay,
		Factor:  DefaultDelayFactor,
		Jitter:  DefaultJitterFactor,
	}
}

// First returns the delay before the first retry.
func (b Backoff) First() time.Duration {
	return b.clamp(float64(b.Initial))
}

// Next returns the delay following current. rnd must return values in
// [0, 1); nil uses math/rand/v2.
func (b Backoff) Next(current time.Duration, rnd func() float64) time.Duration {
	next := b.clamp(float64(current) * b.Factor)

	if b.Jitter == 0 {
		return next
	}

	if rnd == nil {
		rnd = rand.Float64
	}

	// Map [0, 1) onto [-Jitter, +Jitter).
	spread := (rnd()*2 - 1) * b.Jitter

	return b.clamp(float64(next) * (1 + spread))
}

func (b Backoff) clamp(d float64) time.Duration {
	if b.Max > 0 && d > float64(b.Max) {
		d = float64(b.Max)
	}

	if d < float64(b.Initial) {
		d = float64(b.Initial)
	}

	if d < 0 {
		return 0
	}

	return time.Duration(d)
}
