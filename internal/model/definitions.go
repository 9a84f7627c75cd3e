package model

// Type tags identifying the shape of a document element. Providers match
// on these when deciding whether they can display an element.
const (
	TypeDefinitions            = "dmn:Definitions"
	TypeDecision               = "dmn:Decision"
	TypeInputData              = "dmn:InputData"
	TypeBusinessKnowledgeModel = "dmn:BusinessKnowledgeModel"
	TypeKnowledgeSource        = "dmn:KnowledgeSource"
	TypeDecisionTable          = "dmn:DecisionTable"
	TypeLiteralExpression      = "dmn:LiteralExpression"
)

// Element is implemented by every named node in the document tree.
type Element interface {
	// ElementID returns the element's id attribute (unique within one
	// parse; a documented precondition, not enforced here).
	ElementID() string

	// ElementName returns the human-readable name, possibly empty.
	ElementName() string

	// TypeName returns the element's type tag (e.g. "dmn:Decision").
	TypeName() string
}

// Definitions is the root of a parsed decision-model document.
type Definitions struct {
	ID        string
	Name      string
	Namespace string

	// Exporter metadata carried through round-trips.
	Exporter        string
	ExporterVersion string

	// DRGElements are the document's direct children in source order.
	DRGElements []Element
}

// ElementID implements Element.
func (d *Definitions) ElementID() string { return d.ID }

// ElementName implements Element.
func (d *Definitions) ElementName() string { return d.Name }

// TypeName implements Element.
func (d *Definitions) TypeName() string { return TypeDefinitions }

// ElementByID returns the direct child (or the root itself) with the
// given id.
func (d *Definitions) ElementByID(id string) (Element, bool) {
	if d.ID == id {
		return d, true
	}
	for _, el := range d.DRGElements {
		if el.ElementID() == id {
			return el, true
		}
	}
	return nil, false
}

// Decisions returns the document's decisions in source order.
func (d *Definitions) Decisions() []*Decision {
	var out []*Decision
	for _, el := range d.DRGElements {
		if dec, ok := el.(*Decision); ok {
			out = append(out, dec)
		}
	}
	return out
}
