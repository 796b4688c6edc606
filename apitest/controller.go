package apitest

import (
	"context"
	"errors"

	"github.com/byte4ever/apiresult"
)

var errNilProducer = errors.New("apitest: nil producer")

// Controller pairs a stand-in implementing API with the [Orchestrator]
// serving its calls.
type Controller[API any] struct {
	api          API
	orchestrator *Orchestrator
}

type options struct {
	validators []Validator
}

// Option configures [NewController].
type Option func(*options)

// WithValidators adds validators run against every method of the service,
// after the builtin checks.
func WithValidators(validators ...Validator) Option {
	return func(o *options) {
		o.validators = append(o.validators, validators...)
	}
}

// NewController validates svc, registers an empty response queue for each of
// its endpoints and builds the stand-in with newProxy.
//
// Every method must take a context.Context first and return an
// apiresult.Result, and must pass every validator. When any check fails no
// controller is built and a single [*ValidationError] lists all violations.
func NewController[API any](
	svc Service,
	newProxy func(*Orchestrator) API,
	opts ...Option,
) (*Controller[API], error) {
	var cfg options
	for _, opt := range opts {
		opt(&cfg)
	}

	if violations := validate(svc, cfg.validators); len(violations) > 0 {
		return nil, &ValidationError{Service: svc.Name, Violations: violations}
	}

	o := newOrchestrator(svc)

	return &Controller[API]{api: newProxy(o), orchestrator: o}, nil
}

// API returns the stand-in to hand to the code under test.
//
//nolint:ireturn // API is the interface under test by design
func (c *Controller[API]) API() API { return c.api }

// Orchestrator returns the orchestrator serving the stand-in.
func (c *Controller[API]) Orchestrator() *Orchestrator { return c.orchestrator }

// AssertNoMoreQueuedResults returns an [*UnprocessedResultsError] listing
// every endpoint that still has queued results, or nil when all queues are
// empty.
func (c *Controller[API]) AssertNoMoreQueuedResults() error {
	if pending := c.orchestrator.pending(); len(pending) > 0 {
		return &UnprocessedResultsError{Pending: pending}
	}

	return nil
}

// Enqueue queues fn as the next response of endpoint. It fails with a
// [*ForeignEndpointError] when endpoint is not part of the controller's
// service, and with a [*TypeMismatchError] when the service declares another
// result type for it.
func Enqueue[API, T, E any](
	c *Controller[API],
	endpoint Endpoint[T, E],
	fn Producer[T, E],
) error {
	if fn == nil {
		return errNilProducer
	}

	return c.orchestrator.enqueue(
		endpoint.owner,
		endpoint.Key(),
		ResultTypeOf[T, E](),
		fn,
	)
}

// EnqueueResult queues result as the next response of endpoint, see
// [Enqueue].
func EnqueueResult[API, T, E any](
	c *Controller[API],
	endpoint Endpoint[T, E],
	result apiresult.Result[T, E],
) error {
	return Enqueue(c, endpoint, func(context.Context, []any) apiresult.Result[T, E] {
		return result
	})
}
