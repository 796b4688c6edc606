package apiresult

// Fold calls onSuccess with the payload of a success or onFailure with the
// failure view otherwise, and returns what the called branch returns. Exactly
// one branch runs, exactly once.
//
//nolint:ireturn // generic type parameter R, not an interface
func Fold[T, E, R any](
	r Result[T, E],
	onSuccess func(T) R,
	onFailure func(Failure[E]) R,
) R {
	if f, ok := r.Failure(); ok {
		return onFailure(f)
	}

	return onSuccess(r.value)
}

// FoldAll is [Fold] with one branch per failure kind.
//
//nolint:ireturn // generic type parameter R, not an interface
func FoldAll[T, E, R any](
	r Result[T, E],
	onSuccess func(T) R,
	onNetworkFailure func(Failure[E]) R,
	onUnknownFailure func(Failure[E]) R,
	onHTTPFailure func(Failure[E]) R,
	onAPIFailure func(Failure[E]) R,
) R {
	f, _ := r.Failure()

	switch r.kind {
	case KindNetworkFailure:
		return onNetworkFailure(f)
	case KindUnknownFailure:
		return onUnknownFailure(f)
	case KindHTTPFailure:
		return onHTTPFailure(f)
	case KindAPIFailure:
		return onAPIFailure(f)
	default:
		return onSuccess(r.value)
	}
}

// Map transforms the payload of a success with fn. Failures and tags are
// carried over unchanged.
func Map[T, U, E any](r Result[T, E], fn func(T) U) Result[U, E] {
	out := Result[U, E]{
		kind:    r.kind,
		body:    r.body,
		err:     r.err,
		tags:    r.tags,
		code:    r.code,
		hasBody: r.hasBody,
	}

	if r.kind == KindSuccess {
		out.value = fn(r.value)
	}

	return out
}

// Value returns the payload of a success. It reports false for any failure.
//
//nolint:ireturn // generic type parameter T, not an interface
func (r Result[T, E]) Value() (T, bool) {
	if r.kind != KindSuccess {
		var zero T
		return zero, false
	}

	return r.value, true
}

// Unwrap returns the payload of a success, or the zero T and the failure as
// an error.
//
//nolint:ireturn // generic type parameter T, not an interface
func (r Result[T, E]) Unwrap() (T, error) {
	if f, ok := r.Failure(); ok {
		var zero T
		return zero, f
	}

	return r.value, nil
}

// SuccessOrElse returns the payload of a success. On failure it returns
// fallback(failure); fallback is never called for a success.
//
//nolint:ireturn // generic type parameter T, not an interface
func (r Result[T, E]) SuccessOrElse(fallback func(Failure[E]) T) T {
	if f, ok := r.Failure(); ok {
		return fallback(f)
	}

	return r.value
}

// SuccessOrNothing returns the payload of a success. On failure it calls
// escape, which must not return: it has to panic, call runtime.Goexit or an
// equivalent such as testing.TB.FailNow. If escape returns anyway,
// SuccessOrNothing panics with [ErrEscapeReturned].
//
//nolint:ireturn // generic type parameter T, not an interface
func (r Result[T, E]) SuccessOrNothing(escape func(Failure[E])) T {
	if f, ok := r.Failure(); ok {
		escape(f)
		panic(ErrEscapeReturned)
	}

	return r.value
}

// Exception returns the error behind a failure, see [Failure.Exception]. It
// returns nil for a success.
func (r Result[T, E]) Exception() error {
	f, ok := r.Failure()
	if !ok {
		return nil
	}

	return f.Exception()
}

// ---------------------------------------------------------------------------
// Side-effect hooks. Each returns the receiver for chaining.
// ---------------------------------------------------------------------------

// OnSuccess calls action with the payload if r is a success.
func (r Result[T, E]) OnSuccess(action func(T)) Result[T, E] {
	if r.kind == KindSuccess {
		action(r.value)
	}

	return r
}

// OnFailure calls action if r is any failure.
func (r Result[T, E]) OnFailure(action func(Failure[E])) Result[T, E] {
	if f, ok := r.Failure(); ok {
		action(f)
	}

	return r
}

// OnHTTPFailure calls action if r is an HTTP failure.
func (r Result[T, E]) OnHTTPFailure(action func(Failure[E])) Result[T, E] {
	return r.onKind(KindHTTPFailure, action)
}

// OnAPIFailure calls action if r is an API failure.
func (r Result[T, E]) OnAPIFailure(action func(Failure[E])) Result[T, E] {
	return r.onKind(KindAPIFailure, action)
}

// OnNetworkFailure calls action if r is a network failure.
func (r Result[T, E]) OnNetworkFailure(action func(Failure[E])) Result[T, E] {
	return r.onKind(KindNetworkFailure, action)
}

// OnUnknownFailure calls action if r is an unknown failure.
func (r Result[T, E]) OnUnknownFailure(action func(Failure[E])) Result[T, E] {
	return r.onKind(KindUnknownFailure, action)
}

func (r Result[T, E]) onKind(k Kind, action func(Failure[E])) Result[T, E] {
	if r.kind != k {
		return r
	}

	f, _ := r.Failure()
	action(f)

	return r
}
