package apiresult

import (
	"fmt"
	"net/http"
	"reflect"
)

// Kind identifies the active variant of a [Result].
type Kind int

const (
	// KindSuccess is a completed call with a decoded payload.
	KindSuccess Kind = iota
	// KindNetworkFailure is a transport-level I/O failure.
	KindNetworkFailure
	// KindUnknownFailure is any other failure, e.g. a decoding error.
	KindUnknownFailure
	// KindHTTPFailure is a non-2xx response with a code in [400, 599].
	KindHTTPFailure
	// KindAPIFailure is an application-level error reported despite a 2xx
	// transport response.
	KindAPIFailure
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "Success"
	case KindNetworkFailure:
		return "NetworkFailure"
	case KindUnknownFailure:
		return "UnknownFailure"
	case KindHTTPFailure:
		return "HTTPFailure"
	case KindAPIFailure:
		return "APIFailure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Unit is the success payload of calls that return no body, such as HTTP 204
// and 205 responses.
type Unit struct{}

// Result is the outcome of an API call: a success carrying T, or one of four
// failure kinds. E is the type of decoded error bodies.
//
// Exactly one variant is active. A Result is immutable; WithTags returns a
// copy. The zero value is a Success holding the zero T.
type Result[T, E any] struct {
	value   T
	body    E
	err     error
	tags    Tags
	kind    Kind
	code    int
	hasBody bool
}

// Success returns a successful result carrying value.
func Success[T, E any](value T) Result[T, E] {
	return Result[T, E]{kind: KindSuccess, value: value}
}

// NewNetworkFailure returns a network failure caused by err.
func NewNetworkFailure[T, E any](err error) Result[T, E] {
	return Result[T, E]{kind: KindNetworkFailure, err: err}
}

// NewUnknownFailure returns an unknown failure caused by err.
func NewUnknownFailure[T, E any](err error) Result[T, E] {
	return Result[T, E]{kind: KindUnknownFailure, err: err}
}

// NewAPIFailure returns an API failure carrying the decoded error body.
func NewAPIFailure[T, E any](body E) Result[T, E] {
	return Result[T, E]{kind: KindAPIFailure, body: body, hasBody: true}
}

// NewAPIFailureWithoutBody returns an API failure with no error body.
func NewAPIFailureWithoutBody[T, E any]() Result[T, E] {
	return Result[T, E]{kind: KindAPIFailure}
}

// NewHTTPFailure returns an HTTP failure for code carrying the decoded error
// body. code must lie in [400, 599]: a 2xx code yields [ErrUseAPIFailure],
// anything else [ErrInvalidStatusCode].
func NewHTTPFailure[T, E any](code int, body E) (Result[T, E], error) {
	if err := checkFailureCode(code); err != nil {
		return Result[T, E]{}, err
	}

	return Result[T, E]{
		kind:    KindHTTPFailure,
		code:    code,
		body:    body,
		hasBody: true,
	}, nil
}

// NewHTTPFailureWithoutBody is [NewHTTPFailure] for responses without a
// decoded error body.
func NewHTTPFailureWithoutBody[T, E any](code int) (Result[T, E], error) {
	if err := checkFailureCode(code); err != nil {
		return Result[T, E]{}, err
	}

	return Result[T, E]{kind: KindHTTPFailure, code: code}, nil
}

// MustHTTPFailure is like [NewHTTPFailure] but panics on an invalid code. It
// is meant for literals in tests and fixtures.
func MustHTTPFailure[T, E any](code int, body E) Result[T, E] {
	r, err := NewHTTPFailure[T, E](code, body)
	if err != nil {
		panic(err)
	}

	return r
}

func checkFailureCode(code int) error {
	switch {
	case code >= http.StatusOK && code < http.StatusMultipleChoices:
		return fmt.Errorf("%w: %d", ErrUseAPIFailure, code)
	case code < http.StatusBadRequest || code > 599:
		return fmt.Errorf("%w: %d is not in [400, 599]", ErrInvalidStatusCode, code)
	default:
		return nil
	}
}

// Kind returns the active variant.
func (r Result[T, E]) Kind() Kind { return r.kind }

// IsSuccess reports whether r is a success.
func (r Result[T, E]) IsSuccess() bool { return r.kind == KindSuccess }

// IsFailure reports whether r is any of the failure kinds.
func (r Result[T, E]) IsFailure() bool { return r.kind != KindSuccess }

// Tags returns the tags attached to r.
func (r Result[T, E]) Tags() Tags { return r.tags }

// WithTags returns a copy of r with values merged into its tags.
func (r Result[T, E]) WithTags(values ...any) Result[T, E] {
	r.tags = r.tags.With(values...)

	return r
}

// TagOf returns the tag stored under key.
func (r Result[T, E]) TagOf(key TypeKey) (any, bool) {
	return r.tags.Get(key)
}

// Tag returns the tag of type K attached to r.
//
//nolint:ireturn // generic type parameter K, not an interface
func Tag[K, T, E any](r Result[T, E]) (K, bool) {
	return Lookup[K](r.tags)
}

// Failure returns the failure view of r. It reports false for a success.
func (r Result[T, E]) Failure() (Failure[E], bool) {
	if r.kind == KindSuccess {
		return Failure[E]{}, false
	}

	return Failure[E]{
		Kind:    r.kind,
		Err:     r.err,
		Code:    r.code,
		Body:    r.body,
		HasBody: r.hasBody,
		Tags:    r.tags,
	}, true
}

// Equal reports whether r and other hold the same variant and fields. Tags do
// not take part in the comparison: they carry transport artifacts that are
// not meaningfully comparable.
func (r Result[T, E]) Equal(other Result[T, E]) bool {
	if r.kind != other.kind {
		return false
	}

	switch r.kind {
	case KindSuccess:
		return reflect.DeepEqual(r.value, other.value)
	case KindNetworkFailure, KindUnknownFailure:
		return reflect.DeepEqual(r.err, other.err)
	case KindHTTPFailure:
		return r.code == other.code && r.sameBody(other)
	case KindAPIFailure:
		return r.sameBody(other)
	default:
		return false
	}
}

func (r Result[T, E]) sameBody(other Result[T, E]) bool {
	if r.hasBody != other.hasBody {
		return false
	}

	return !r.hasBody || reflect.DeepEqual(r.body, other.body)
}

// String formats r for logs and test failures.
func (r Result[T, E]) String() string {
	switch r.kind {
	case KindSuccess:
		return fmt.Sprintf("Success(%v)", r.value)
	case KindNetworkFailure, KindUnknownFailure:
		return fmt.Sprintf("%s(%v)", r.kind, r.err)
	case KindHTTPFailure:
		if r.hasBody {
			return fmt.Sprintf("HTTPFailure(%d, %v)", r.code, r.body)
		}

		return fmt.Sprintf("HTTPFailure(%d)", r.code)
	default:
		if r.hasBody {
			return fmt.Sprintf("%s(%v)", r.kind, r.body)
		}

		return r.kind.String() + "()"
	}
}

// ---------------------------------------------------------------------------
// Failure view
// ---------------------------------------------------------------------------

// Failure is the failure side of a [Result], detached from the success type.
// Only the fields relevant to Kind are set: Err for network and unknown
// failures, Code for HTTP failures, Body and HasBody for HTTP and API
// failures.
//
// Failure implements error so a result can be handed to code expecting Go's
// (value, error) convention.
type Failure[E any] struct {
	Body    E
	Err     error
	Tags    Tags
	Kind    Kind
	Code    int
	HasBody bool
}

// Error describes the failure.
func (f Failure[E]) Error() string {
	switch f.Kind {
	case KindNetworkFailure:
		return "network failure: " + errString(f.Err)
	case KindUnknownFailure:
		return "unknown failure: " + errString(f.Err)
	case KindHTTPFailure:
		if f.HasBody {
			return fmt.Sprintf("http failure %d: %v", f.Code, f.Body)
		}

		return fmt.Sprintf("http failure %d", f.Code)
	case KindAPIFailure:
		if f.HasBody {
			return fmt.Sprintf("api failure: %v", f.Body)
		}

		return "api failure"
	default:
		return f.Kind.String()
	}
}

// Unwrap returns the underlying cause, see [Failure.Exception].
func (f Failure[E]) Unwrap() error { return f.Exception() }

// Exception returns the error behind the failure. Network and unknown
// failures always have one. HTTP and API failures only have one when their
// decoded body itself implements error; otherwise Exception returns nil.
func (f Failure[E]) Exception() error {
	switch f.Kind {
	case KindNetworkFailure, KindUnknownFailure:
		return f.Err
	case KindHTTPFailure, KindAPIFailure:
		if !f.HasBody {
			return nil
		}

		if err, ok := any(f.Body).(error); ok {
			return err
		}

		return nil
	default:
		return nil
	}
}

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}

	return err.Error()
}
