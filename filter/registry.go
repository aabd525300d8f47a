package filter

import "fmt"

// Registry maps filter type identifiers to constructors. Lifecycle: populate
// once at startup in a deterministic order, read-only afterwards — reads
// need no synchronization.
type Registry struct {
	ctors map[string]Constructor
	order []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctors: map[string]Constructor{}}
}

// Register inserts a constructor under typeID. The constructor must build
// filters whose FilterType matches typeID; a mismatch or duplicate typeID is
// a registration error.
func (r *Registry) Register(typeID string, ctor Constructor) error {
	if typeID == "" {
		return fmt.Errorf("filter type identifier must be non-empty")
	}
	if _, exists := r.ctors[typeID]; exists {
		return &DuplicateFilterError{Type: typeID}
	}
	if got := ctor().FilterType(); got != typeID {
		return fmt.Errorf("constructor for %q builds filter type %q", typeID, got)
	}
	r.ctors[typeID] = ctor
	r.order = append(r.order, typeID)
	return nil
}

// Resolve returns the constructor registered under typeID.
func (r *Registry) Resolve(typeID string) (Constructor, error) {
	ctor, ok := r.ctors[typeID]
	if !ok {
		return nil, &UnknownFilterError{Type: typeID}
	}
	return ctor, nil
}

// List returns descriptors for all registered filters in registration order,
// supporting reproducible menu layouts and test assertions.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, typeID := range r.order {
		f := r.ctors[typeID]()
		out = append(out, Descriptor{
			Type:        f.FilterType(),
			DisplayName: f.DisplayName(),
			Defaults:    f.DefaultParams(),
		})
	}
	return out
}

// Types returns the registered identifiers in registration order.
func (r *Registry) Types() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// DefaultRegistry builds the registry with the built-in filter set in its
// fixed startup order.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, ctor := range []Constructor{
		func() Filter { return NewSliceFilter() },
		func() Filter { return NewClipFilter() },
		func() Filter { return NewContourFilter() },
		func() Filter { return NewElevationFilter() },
	} {
		// The built-in set is collision-free; a failure here is a bug.
		if err := r.Register(ctor().FilterType(), ctor); err != nil {
			panic(err)
		}
	}
	return r
}
