package apitest

import (
	"fmt"
	"slices"

	"github.com/byte4ever/apiresult"
)

// ResultType is the declared apiresult.Result instantiation of an endpoint.
type ResultType struct {
	Success apiresult.TypeKey
	Error   apiresult.TypeKey
}

// ResultTypeOf returns the result type of endpoints returning
// apiresult.Result[T, E].
func ResultTypeOf[T, E any]() ResultType {
	return ResultType{
		Success: apiresult.TypeOf[T](),
		Error:   apiresult.TypeOf[E](),
	}
}

// Returning returns a pointer to [ResultTypeOf], for [Method] literals.
func Returning[T, E any]() *ResultType {
	rt := ResultTypeOf[T, E]()
	return &rt
}

// String formats the type as "Result[T, E]".
func (r ResultType) String() string {
	return fmt.Sprintf("Result[%s, %s]", r.Success, r.Error)
}

// Method describes one method of a target interface.
type Method struct {
	// Result is the declared result type, nil when the method does not
	// return an apiresult.Result.
	Result *ResultType
	// Owner is the interface declaring the method; it differs from the
	// service name for methods of embedded interfaces.
	Owner string
	Name  string
	// Parameters lists the parameter types after the leading
	// context.Context.
	Parameters []ParameterKey
	// Async reports whether the first parameter is a context.Context.
	Async bool
}

// Key returns the endpoint key of m.
func (m Method) Key() EndpointKey {
	return NewEndpointKey(m.Name, m.Parameters...)
}

// Service describes a target interface.
type Service struct {
	Name string
	// Embeds lists the interfaces Name embeds, transitively.
	Embeds  []string
	Methods []Method
}

// NewService returns the descriptor of interface name.
func NewService(name string, embeds []string, methods ...Method) Service {
	return Service{
		Name:    name,
		Embeds:  slices.Clone(embeds),
		Methods: slices.Clone(methods),
	}
}

// declares reports whether owner is the service interface or one of the
// interfaces it embeds.
func (s Service) declares(owner string) bool {
	return owner == s.Name || slices.Contains(s.Embeds, owner)
}

// Endpoint is the static, typed handle of one endpoint returning
// apiresult.Result[T, E]. Stand-ins pass it to [Invoke], tests pass it to
// [Enqueue].
type Endpoint[T, E any] struct {
	owner  string
	name   string
	params []ParameterKey
}

// NewEndpoint returns the handle of method name declared on interface owner
// with the given parameter types (context.Context excluded).
func NewEndpoint[T, E any](
	owner, name string,
	params ...ParameterKey,
) Endpoint[T, E] {
	return Endpoint[T, E]{
		owner:  owner,
		name:   name,
		params: slices.Clone(params),
	}
}

// Name returns the method name.
func (e Endpoint[T, E]) Name() string { return e.name }

// Owner returns the declaring interface.
func (e Endpoint[T, E]) Owner() string { return e.owner }

// Key returns the endpoint key.
func (e Endpoint[T, E]) Key() EndpointKey {
	return NewEndpointKey(e.name, e.params...)
}

// Method returns the descriptor of a valid asynchronous method matching e.
func (e Endpoint[T, E]) Method() Method {
	return Method{
		Owner:      e.owner,
		Name:       e.name,
		Parameters: slices.Clone(e.params),
		Async:      true,
		Result:     Returning[T, E](),
	}
}

// ---------------------------------------------------------------------------
// Validators
// ---------------------------------------------------------------------------

// Validator checks a method of a target interface during controller
// construction. It appends one message per violation to errs.
type Validator interface {
	Validate(svc Service, m Method, errs *[]string)
}

// ValidatorFunc adapts a function to [Validator].
type ValidatorFunc func(svc Service, m Method, errs *[]string)

// Validate calls f.
func (f ValidatorFunc) Validate(svc Service, m Method, errs *[]string) {
	f(svc, m, errs)
}

// validateBuiltin applies the checks every endpoint must pass.
func validateBuiltin(_ Service, m Method, errs *[]string) {
	if !m.Async {
		*errs = append(*errs, fmt.Sprintf(
			"%s: first parameter must be a context.Context", m.Name,
		))
	}

	if m.Result == nil {
		*errs = append(*errs, fmt.Sprintf(
			"%s: must return an apiresult.Result", m.Name,
		))
	}
}

// validate runs the builtin checks and validators over every method and
// returns every violation found.
func validate(svc Service, validators []Validator) []string {
	var errs []string

	for _, m := range svc.Methods {
		validateBuiltin(svc, m, &errs)

		for _, v := range validators {
			v.Validate(svc, m, &errs)
		}
	}

	return errs
}
