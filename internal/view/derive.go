package view

import "github.com/dmnkit/dmnview/internal/model"

// Derive computes the ordered list of displayable views: the root
// first, then the document's direct children in source order, filtered
// to elements with a matching provider. Elements with no matching
// provider are silently dropped. A nil document yields no views.
//
// Derivation is deterministic: repeated calls with an unchanged
// document and registry produce equal results in equal order.
func Derive(defs *model.Definitions, registry *Registry) []Descriptor {
	if defs == nil {
		return nil
	}

	candidates := make([]model.Element, 0, len(defs.DRGElements)+1)
	candidates = append(candidates, defs)
	candidates = append(candidates, defs.DRGElements...)

	var views []Descriptor
	for _, el := range candidates {
		if p := registry.ProviderFor(el); p != nil {
			views = append(views, describe(el, p))
		}
	}
	return views
}

// Changed reports whether the transition from the old view set and
// active view to the new ones should be announced as a views change:
// the active identity changed, the active view's display name changed,
// the set cardinality changed, or any member of the old set is no
// longer present unchanged (same view, same name) in the new set.
func Changed(oldViews, newViews []Descriptor, oldActive, newActive *Descriptor) bool {
	if !Same(oldActive, newActive) {
		return true
	}
	if oldActive != nil && newActive != nil && oldActive.Name != newActive.Name {
		return true
	}
	if len(oldViews) != len(newViews) {
		return true
	}
	for i := range oldViews {
		old := &oldViews[i]
		if !containsUnchanged(newViews, old) {
			return true
		}
	}
	return false
}

func containsUnchanged(views []Descriptor, want *Descriptor) bool {
	for i := range views {
		v := &views[i]
		if Same(v, want) && v.Name == want.Name {
			return true
		}
	}
	return false
}
