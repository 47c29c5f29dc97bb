package layout

import (
	"fmt"
	"sort"
)

// Registry maps sheet identities to layouts. It is read-only once built.
type Registry struct {
	layouts map[string]Layout
}

// NewRegistry builds a registry from definitions. A later definition for the
// same sheet replaces an earlier one, so overrides can be appended to the
// built-ins.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{layouts: make(map[string]Layout, len(defs))}
	for _, d := range defs {
		l, err := d.Build()
		if err != nil {
			return nil, err
		}
		r.layouts[l.Sheet] = l
	}
	return r, nil
}

// DefaultRegistry holds only the built-in layouts.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinDefinitions()...)
	if err != nil {
		panic(fmt.Sprintf("builtin layouts: %v", err))
	}
	return r
}

// Lookup returns the layout for a sheet identity, or the positional default.
func (r *Registry) Lookup(sheetName string) Layout {
	if r != nil {
		if l, ok := r.layouts[sheetName]; ok {
			return l
		}
	}
	return DefaultLayout(sheetName)
}

// Has reports whether sheetName has a registered layout
func (r *Registry) Has(sheetName string) bool {
	if r == nil {
		return false
	}
	_, ok := r.layouts[sheetName]
	return ok
}

// Layouts returns the registered layouts sorted by sheet identity.
func (r *Registry) Layouts() []Layout {
	if r == nil {
		return nil
	}
	out := make([]Layout, 0, len(r.layouts))
	for _, l := range r.layouts {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sheet < out[j].Sheet })
	return out
}
