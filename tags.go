package apiresult

import "maps"

// Tags is an immutable bag of auxiliary values attached to a [Result], keyed
// by the dynamic type of each value. Typical tags are the *http.Request and
// *http.Response a result was built from.
//
// The zero value is an empty bag. All mutation helpers return a copy.
type Tags struct {
	m map[TypeKey]any
}

// NewTags builds a bag from values. A later value replaces an earlier one of
// the same type; nil values are ignored.
func NewTags(values ...any) Tags {
	return Tags{}.With(values...)
}

// With returns a copy of t with values merged in, values taking precedence
// over existing entries of the same type.
func (t Tags) With(values ...any) Tags {
	if len(values) == 0 {
		return t
	}

	m := make(map[TypeKey]any, len(t.m)+len(values))
	maps.Copy(m, t.m)

	for _, v := range values {
		if v == nil {
			continue
		}

		m[typeKeyOfValue(v)] = v
	}

	return Tags{m: m}
}

// Merge returns a copy of t with every entry of other merged in.
func (t Tags) Merge(other Tags) Tags {
	if len(other.m) == 0 {
		return t
	}

	m := make(map[TypeKey]any, len(t.m)+len(other.m))
	maps.Copy(m, t.m)
	maps.Copy(m, other.m)

	return Tags{m: m}
}

// Len returns the number of tags.
func (t Tags) Len() int { return len(t.m) }

// Get returns the tag stored under key.
func (t Tags) Get(key TypeKey) (any, bool) {
	v, ok := t.m[key]

	return v, ok
}

// Lookup returns the tag of type K from t. It reports false when no tag of
// exactly that type is present.
//
//nolint:ireturn // generic type parameter K, not an interface
func Lookup[K any](t Tags) (K, bool) {
	var zero K

	v, ok := t.m[TypeOf[K]()]
	if !ok {
		return zero, false
	}

	k, ok := v.(K)
	if !ok {
		return zero, false
	}

	return k, true
}
