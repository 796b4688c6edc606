package apitest

import (
	"fmt"
	"strings"
)

type (
	// ValidationError lists every method of a target interface that cannot
	// be served by a controller.
	ValidationError struct {
		Service    string
		Violations []string
	}

	// NoResultError is the panic value of a call to an endpoint whose queue
	// is empty.
	NoResultError struct {
		Endpoint string
	}

	// UnknownEndpointError is the panic value of a call to an endpoint the
	// controller was not built with. It points at a stand-in that does not
	// match its service descriptor.
	UnknownEndpointError struct {
		Service  string
		Endpoint EndpointKey
	}

	// ForeignEndpointError is returned when enqueuing for an endpoint that
	// is not part of the target interface, or that names the wrong
	// declaring interface.
	ForeignEndpointError struct {
		Service  string
		Owner    string
		Endpoint EndpointKey
		// DeclaredOn is set when the endpoint exists but is declared on
		// another interface than Owner.
		DeclaredOn string
	}

	// TypeMismatchError reports an endpoint whose declared result type
	// disagrees with the one used to enqueue or to call it.
	TypeMismatchError struct {
		Endpoint string
		Expected ResultType
		Actual   ResultType
	}

	// UnprocessedResultsError lists endpoints that still have queued
	// results, see [Controller.AssertNoMoreQueuedResults].
	UnprocessedResultsError struct {
		Pending []PendingCount
	}

	// PendingCount is the number of queued results left for one endpoint.
	PendingCount struct {
		Endpoint string
		Count    int
	}
)

func (e *ValidationError) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Service validation failed for %s:", e.Service)

	for _, v := range e.Violations {
		sb.WriteString("\n- ")
		sb.WriteString(v)
	}

	return sb.String()
}

func (e *NoResultError) Error() string {
	return "No result enqueued for " + e.Endpoint + "."
}

func (e *UnknownEndpointError) Error() string {
	return fmt.Sprintf(
		"apitest: %s is not an endpoint of %s; the stand-in does not match its service descriptor",
		e.Endpoint, e.Service,
	)
}

func (e *ForeignEndpointError) Error() string {
	if e.DeclaredOn != "" {
		return fmt.Sprintf(
			"Endpoint %s is declared on %s, not on %s.",
			e.Endpoint, e.DeclaredOn, e.Owner,
		)
	}

	if e.Owner == e.Service {
		return fmt.Sprintf(
			"Endpoint %s is not declared on %s.", e.Endpoint, e.Service,
		)
	}

	return fmt.Sprintf(
		"Endpoint %s is declared on %s, which is neither %s nor embedded by it.",
		e.Endpoint, e.Owner, e.Service,
	)
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf(
		"Type check failed for %s: expected %s but was %s.",
		e.Endpoint, e.Expected, e.Actual,
	)
}

func (e *UnprocessedResultsError) Error() string {
	var sb strings.Builder

	sb.WriteString("Found unprocessed queued results:")

	for _, p := range e.Pending {
		noun := "results"
		if p.Count == 1 {
			noun = "result"
		}

		fmt.Fprintf(&sb, "\n- %s: %d %s", p.Endpoint, p.Count, noun)
	}

	return sb.String()
}
