package apiresult

import (
	"context"
	"slices"
	"sync"
)

// Registry holds named retry profiles, typically loaded with [LoadConfig].
// It is safe for concurrent use.
type Registry struct {
	profiles map[string][]RetryOption
	mu       sync.RWMutex
}

//nolint:gochecknoglobals // singleton via sync.OnceValue
var defaultRegistry = sync.OnceValue(NewRegistry)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{profiles: make(map[string][]RetryOption)}
}

// DefaultRegistry returns the package-level registry, creating it on first
// call.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// Register stores opts under name, replacing any previous profile.
func (r *Registry) Register(name string, opts ...RetryOption) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[name] = slices.Clone(opts)
}

// RetryOptions returns the options of the named profile and whether it
// exists. The returned slice is a copy.
func (r *Registry) RetryOptions(name string) ([]RetryOption, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opts, ok := r.profiles[name]

	return slices.Clone(opts), ok
}

// Names returns the registered profile names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Retry runs [RetryWithBackoff] with the named profile. extra options are
// applied after the profile's, so they take precedence. An unknown name runs
// with the defaults.
func Retry[T, E any](
	ctx context.Context,
	reg *Registry,
	name string,
	block func(context.Context) Result[T, E],
	extra ...RetryOption,
) (Result[T, E], error) {
	opts, _ := reg.RetryOptions(name)

	return RetryWithBackoff[T, E](ctx, block, append(opts, extra...)...)
}
