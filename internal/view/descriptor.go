package view

import "github.com/dmnkit/dmnview/internal/model"

// Descriptor describes one displayable unit within a document.
type Descriptor struct {
	// Element is a reference into the current document tree, not owned.
	Element model.Element

	// ID is the element's id, used as the natural key across re-parses.
	ID string

	// Name is the element's display name at derivation time.
	Name string

	// Type identifies which provider renders this view.
	Type string
}

// describe builds a descriptor for an element under a provider.
func describe(el model.Element, p *Provider) Descriptor {
	return Descriptor{
		Element: el,
		ID:      el.ElementID(),
		Name:    el.ElementName(),
		Type:    p.ID,
	}
}

// Same reports whether a and b denote the same view: identical element
// reference, or equal ids. Id equality is the fallback used when the
// element was replaced by a fresh parse; ids are unique within one
// parse by documented precondition.
func Same(a, b *Descriptor) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Element != nil && a.Element == b.Element {
		return true
	}
	return a.ID != "" && a.ID == b.ID
}
