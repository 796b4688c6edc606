package apiresult

import (
	"reflect"
	"strconv"
	"strings"
)

// TypeKey is the structural identity of a Go type. Two keys obtained
// independently for the same type compare equal with ==, which makes TypeKey
// usable as a map key for tags and endpoint parameters.
type TypeKey struct {
	t reflect.Type
}

// TypeOf returns the [TypeKey] of T. Interface types are keyed by the
// interface itself, not by a dynamic value.
func TypeOf[T any]() TypeKey {
	return TypeKey{t: reflect.TypeFor[T]()}
}

// typeKeyOfValue returns the key of v's dynamic type.
func typeKeyOfValue(v any) TypeKey {
	return TypeKey{t: reflect.TypeOf(v)}
}

// IsZero reports whether k does not identify any type.
func (k TypeKey) IsZero() bool { return k.t == nil }

// String returns the short, package-name qualified form, e.g. "[]model.Panda".
func (k TypeKey) String() string {
	if k.t == nil {
		return "<nil>"
	}

	return k.t.String()
}

// ID returns the canonical, import-path qualified form of the type. Unlike
// String, two distinct types never share an ID.
func (k TypeKey) ID() string {
	if k.t == nil {
		return "<nil>"
	}

	var sb strings.Builder

	canonicalize(&sb, k.t)

	return sb.String()
}

// canonicalize writes t with every named type qualified by its import path.
func canonicalize(sb *strings.Builder, t reflect.Type) {
	if t.Name() != "" {
		if pkg := t.PkgPath(); pkg != "" {
			sb.WriteString(pkg)
			sb.WriteByte('.')
		}

		sb.WriteString(t.Name())

		return
	}

	switch t.Kind() {
	case reflect.Pointer:
		sb.WriteByte('*')
		canonicalize(sb, t.Elem())
	case reflect.Slice:
		sb.WriteString("[]")
		canonicalize(sb, t.Elem())
	case reflect.Array:
		sb.WriteByte('[')
		sb.WriteString(strconv.Itoa(t.Len()))
		sb.WriteByte(']')
		canonicalize(sb, t.Elem())
	case reflect.Map:
		sb.WriteString("map[")
		canonicalize(sb, t.Key())
		sb.WriteByte(']')
		canonicalize(sb, t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			sb.WriteString("<-chan ")
		case reflect.SendDir:
			sb.WriteString("chan<- ")
		default:
			sb.WriteString("chan ")
		}

		canonicalize(sb, t.Elem())
	case reflect.Func:
		sb.WriteString("func(")

		for i := range t.NumIn() {
			if i > 0 {
				sb.WriteString(", ")
			}

			canonicalize(sb, t.In(i))
		}

		sb.WriteString(")")

		if t.NumOut() > 0 {
			sb.WriteString(" (")

			for i := range t.NumOut() {
				if i > 0 {
					sb.WriteString(", ")
				}

				canonicalize(sb, t.Out(i))
			}

			sb.WriteString(")")
		}
	default:
		// Anonymous structs and interfaces: String already spells out
		// every field.
		sb.WriteString(t.String())
	}
}
