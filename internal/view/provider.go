package view

import (
	"errors"
	"fmt"

	"github.com/dmnkit/dmnview/internal/model"
)

// ErrNoProvider indicates a view type with no registered provider.
// This is a programmer error: the registry supplied at construction
// time did not cover a type it produced a descriptor for.
var ErrNoProvider = errors.New("no provider registered")

// OpensFunc is a predicate deciding whether a provider can display an
// element.
type OpensFunc func(model.Element) bool

// Provider maps a document-element shape to a viewer factory.
type Provider struct {
	// ID identifies the provider and doubles as the view type tag.
	ID string

	// Opens declares which elements this provider can display: either
	// an exact type-tag string or an OpensFunc predicate.
	Opens any

	// New builds the provider's viewer. The controller's viewer pool
	// calls it at most once per provider and owns the instance.
	New func() Viewer
}

// opens reports whether the provider can display the element.
func (p *Provider) opens(el model.Element) bool {
	switch match := p.Opens.(type) {
	case string:
		return el.TypeName() == match
	case OpensFunc:
		return match(el)
	case func(model.Element) bool:
		return match(el)
	default:
		return false
	}
}

// Registry is an ordered, read-only list of providers. The first
// provider whose Opens matches an element wins.
type Registry struct {
	providers []*Provider
	byID      map[string]*Provider
}

// NewRegistry builds a registry from providers in registration order.
// Duplicate provider ids are a programmer error.
func NewRegistry(providers ...*Provider) (*Registry, error) {
	r := &Registry{byID: make(map[string]*Provider, len(providers))}
	for _, p := range providers {
		if p.ID == "" {
			return nil, fmt.Errorf("provider with empty id")
		}
		if _, exists := r.byID[p.ID]; exists {
			return nil, fmt.Errorf("duplicate provider id %q", p.ID)
		}
		r.providers = append(r.providers, p)
		r.byID[p.ID] = p
	}
	return r, nil
}

// ProviderFor returns the first provider that opens the element, or
// nil if the element is not displayable.
func (r *Registry) ProviderFor(el model.Element) *Provider {
	for _, p := range r.providers {
		if p.opens(el) {
			return p
		}
	}
	return nil
}

// Get returns the provider with the given id.
func (r *Registry) Get(id string) (*Provider, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	return len(r.providers)
}
