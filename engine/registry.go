package engine

import (
	"fmt"

	"github.com/ambarahq/ambara/builtin"
	"github.com/ambarahq/ambara/filter"
)

// Registry resolves a filter id to the shared Filter instance that
// implements it. Filter implementations are immutable and stateless, so
// a single instance safely backs every graph node of that filter id.
type Registry struct {
	byID map[string]filter.Filter
	ids  []string // insertion order, for stable listing
}

// NewRegistry builds a Registry pre-populated with the built-in filter
// catalog (builtin.All).
func NewRegistry() *Registry {
	r := &Registry{byID: make(map[string]filter.Filter)}
	for _, f := range builtin.All() {
		r.Register(f)
	}
	return r
}

// Register adds f under its own Metadata().ID, overwriting any existing
// registration for that id.
func (r *Registry) Register(f filter.Filter) {
	id := f.Metadata().ID
	if _, exists := r.byID[id]; !exists {
		r.ids = append(r.ids, id)
	}
	r.byID[id] = f
}

// Resolve looks up a filter by id; it satisfies serialize.Resolver.
func (r *Registry) Resolve(filterID string) (filter.Filter, error) {
	f, ok := r.byID[filterID]
	if !ok {
		return nil, fmt.Errorf("engine: unknown filter id %q", filterID)
	}
	return f, nil
}

// List returns every registered filter's Metadata in registration order.
func (r *Registry) List() []filter.Metadata {
	out := make([]filter.Metadata, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.byID[id].Metadata())
	}
	return out
}

// Get returns the registered Filter for an id, if present.
func (r *Registry) Get(filterID string) (filter.Filter, bool) {
	f, ok := r.byID[filterID]
	return f, ok
}
