package apiresult

import "time"

// Clock abstracts time so that retry delays can be observed and driven in
// tests. [RetryWithBackoff] uses [RealClock] unless [WithClock] is given.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// NewTimer creates a [Timer] that fires after d.
	NewTimer(d time.Duration) Timer
}

// Timer abstracts [time.Timer].
type Timer interface {
	// C returns the channel the firing time is delivered on.
	C() <-chan time.Time
	// Stop prevents the timer from firing and reports whether it was still
	// pending.
	Stop() bool
}

// RealClock is a [Clock] backed by the time package. The zero value is ready
// to use and safe for concurrent use.
type RealClock struct{}

// Now returns [time.Now].
func (RealClock) Now() time.Time { return time.Now() }

// NewTimer wraps [time.NewTimer].
func (RealClock) NewTimer(d time.Duration) Timer {
	return realTimer{inner: time.NewTimer(d)}
}

type realTimer struct {
	inner *time.Timer
}

func (t realTimer) C() <-chan time.Time { return t.inner.C }
func (t realTimer) Stop() bool          { return t.inner.Stop() }
