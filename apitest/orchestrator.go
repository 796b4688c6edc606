package apitest

import (
	"context"
	"fmt"
	"sync"

	"github.com/byte4ever/apiresult"
)

// Producer computes the response of one intercepted call from its context
// and arguments (context.Context excluded). It may block; nothing in this
// package holds a lock while it runs.
type Producer[T, E any] func(ctx context.Context, args []any) apiresult.Result[T, E]

// Orchestrator owns one response queue per endpoint of a [Service]. It is
// safe for concurrent use: tests may enqueue while stand-ins are being called
// from other goroutines.
type Orchestrator struct {
	queues  sync.Map // EndpointKey.ID() -> *responseQueue
	service Service
	order   []*responseQueue
}

// newOrchestrator registers an empty queue for every method of svc. svc must
// have been validated.
func newOrchestrator(svc Service) *Orchestrator {
	o := &Orchestrator{service: svc}

	for _, m := range svc.Methods {
		q := newResponseQueue(m)
		o.queues.Store(q.key.ID(), q)
		o.order = append(o.order, q)
	}

	return o
}

// Service returns the descriptor the orchestrator was built from.
func (o *Orchestrator) Service() Service { return o.service }

func (o *Orchestrator) queue(key EndpointKey) (*responseQueue, bool) {
	v, ok := o.queues.Load(key.ID())
	if !ok {
		return nil, false
	}

	//nolint:forcetypeassert // the map only ever holds *responseQueue
	return v.(*responseQueue), true
}

// enqueue checks that the endpoint belongs to the service, on the interface
// declaring it, with the declared result type before queuing fn.
func (o *Orchestrator) enqueue(
	owner string,
	key EndpointKey,
	result ResultType,
	fn any,
) error {
	if !o.service.declares(owner) {
		return &ForeignEndpointError{
			Service:  o.service.Name,
			Owner:    owner,
			Endpoint: key,
		}
	}

	q, ok := o.queue(key)
	if !ok {
		return &ForeignEndpointError{
			Service:  o.service.Name,
			Owner:    o.service.Name,
			Endpoint: key,
		}
	}

	if q.owner != owner {
		return &ForeignEndpointError{
			Service:    o.service.Name,
			Owner:      owner,
			DeclaredOn: q.owner,
			Endpoint:   key,
		}
	}

	if q.declared != result {
		return &TypeMismatchError{
			Endpoint: key.Name,
			Expected: q.declared,
			Actual:   result,
		}
	}

	q.push(producer{fn: fn, result: result})

	return nil
}

// pending returns the queued counts of every non-empty queue, in method
// order.
func (o *Orchestrator) pending() []PendingCount {
	var out []PendingCount

	for _, q := range o.order {
		if n := q.len(); n > 0 {
			out = append(out, PendingCount{Endpoint: q.key.Name, Count: n})
		}
	}

	return out
}

// Invoke serves one intercepted call of endpoint: it pops the endpoint's
// next producer and returns what the producer returns for ctx and args.
// Stand-ins call it from every method.
//
// Invoke panics with a [*NoResultError] when nothing is queued, with an
// [*UnknownEndpointError] when o does not know endpoint, and with a
// [*TypeMismatchError] when the queued producer was registered for another
// result type.
func Invoke[T, E any](
	ctx context.Context,
	o *Orchestrator,
	endpoint Endpoint[T, E],
	args ...any,
) apiresult.Result[T, E] {
	key := endpoint.Key()

	q, ok := o.queue(key)
	if !ok {
		panic(&UnknownEndpointError{Service: o.service.Name, Endpoint: key})
	}

	p, ok := q.pop()
	if !ok {
		panic(&NoResultError{Endpoint: key.Name})
	}

	fn, ok := p.fn.(Producer[T, E])
	if !ok {
		panic(&TypeMismatchError{
			Endpoint: key.Name,
			Expected: ResultTypeOf[T, E](),
			Actual:   p.result,
		})
	}

	return fn(ctx, args)
}

// Arg returns argument i of an intercepted call as an A. It panics with a
// descriptive message when the argument is missing or of another type.
//
//nolint:ireturn // generic type parameter A, not an interface
func Arg[A any](args []any, i int) A {
	if i < 0 || i >= len(args) {
		panic(fmt.Sprintf("apitest: argument %d requested, call has %d", i, len(args)))
	}

	if args[i] == nil {
		var zero A
		return zero
	}

	a, ok := args[i].(A)
	if !ok {
		panic(fmt.Sprintf(
			"apitest: argument %d is %T, not %s", i, args[i], apiresult.TypeOf[A](),
		))
	}

	return a
}
