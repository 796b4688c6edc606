package apitest

import (
	"slices"
	"strings"

	"github.com/byte4ever/apiresult"
)

// ParameterKey is the canonical type of one endpoint parameter. The leading
// context.Context of an endpoint is never part of its keys.
type ParameterKey struct {
	typ apiresult.TypeKey
}

// ParameterOf returns the key of parameters of type P.
func ParameterOf[P any]() ParameterKey {
	return ParameterKey{typ: apiresult.TypeOf[P]()}
}

// String returns the short type name, e.g. "string" or "model.PandaID".
func (p ParameterKey) String() string { return p.typ.String() }

// ID returns the import-path qualified type name.
func (p ParameterKey) ID() string { return p.typ.ID() }

// EndpointKey identifies an endpoint independently of any interface value:
// two keys are equal when their names and ordered parameter types are.
type EndpointKey struct {
	Name       string
	Parameters []ParameterKey
}

// NewEndpointKey returns the key of endpoint name taking params.
func NewEndpointKey(name string, params ...ParameterKey) EndpointKey {
	return EndpointKey{Name: name, Parameters: slices.Clone(params)}
}

// Equal reports whether k and other identify the same endpoint.
func (k EndpointKey) Equal(other EndpointKey) bool {
	return k.Name == other.Name && slices.Equal(k.Parameters, other.Parameters)
}

// ID returns a string that is equal for equal keys and distinct otherwise,
// suitable as a map key.
func (k EndpointKey) ID() string {
	return k.format(ParameterKey.ID)
}

// String formats the key like a call signature, e.g. "GetPanda(string)".
func (k EndpointKey) String() string {
	return k.format(ParameterKey.String)
}

func (k EndpointKey) format(param func(ParameterKey) string) string {
	var sb strings.Builder

	sb.WriteString(k.Name)
	sb.WriteByte('(')

	for i, p := range k.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(param(p))
	}

	sb.WriteByte(')')

	return sb.String()
}
