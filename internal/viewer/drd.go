package viewer

import (
	"context"
	"fmt"

	"github.com/dmnkit/dmnview/internal/codec"
	"github.com/dmnkit/dmnview/internal/model"
	"github.com/dmnkit/dmnview/internal/surface"
	"github.com/dmnkit/dmnview/internal/view"
)

// DRD renders the decision requirements graph: every DRG element as a
// labeled node, with its requirement edges listed beneath it.
type DRD struct {
	base
}

// NewDRD creates a requirements graph viewer.
func NewDRD() view.Viewer { return &DRD{} }

// Open implements view.Viewer.
func (v *DRD) Open(_ context.Context, el model.Element) ([]codec.Warning, error) {
	defs, ok := el.(*model.Definitions)
	if !ok {
		return nil, fmt.Errorf("drd viewer cannot open %s", el.TypeName())
	}

	var warnings []codec.Warning
	for _, child := range defs.DRGElements {
		if child.ElementName() == "" {
			warnings = append(warnings, codec.Warning{
				Message:   "unnamed element rendered by id",
				ElementID: child.ElementID(),
			})
		}
	}

	s := v.setElement(defs)
	if s != nil {
		s.Clear()
		v.render(s, defs)
		s.Flush()
	}
	return warnings, nil
}

// AttachTo implements view.Viewer.
func (v *DRD) AttachTo(s surface.Surface) {
	v.attachTo(s, func(s surface.Surface, el model.Element) {
		v.render(s, el.(*model.Definitions))
	})
}

// Clear implements view.Clearer.
func (v *DRD) Clear() { v.reset() }

// Destroy implements view.Destroyer.
func (v *DRD) Destroy() { v.reset() }

func (v *DRD) render(s surface.Surface, defs *model.Definitions) {
	y := 0
	put := func(format string, args ...any) {
		s.SetLine(y, fmt.Sprintf(format, args...))
		y++
	}

	put("%s (decision requirements graph)", label(defs))
	put("")

	for _, el := range defs.DRGElements {
		put("[%s] %s", kindGlyph(el), label(el))
		if dec, ok := el.(*model.Decision); ok {
			for _, req := range dec.Requirements {
				put("    <- %s (%s)", req.RequiredID, reqKind(req.Kind))
			}
		}
	}
}

func label(el model.Element) string {
	if name := el.ElementName(); name != "" {
		return name
	}
	return el.ElementID()
}

func kindGlyph(el model.Element) string {
	switch el.(type) {
	case *model.Decision:
		return "decision"
	case *model.InputData:
		return "input"
	case *model.BusinessKnowledgeModel:
		return "bkm"
	case *model.KnowledgeSource:
		return "source"
	default:
		return "element"
	}
}

func reqKind(k model.RequirementKind) string {
	switch k {
	case model.RequirementKnowledge:
		return "knowledge"
	case model.RequirementAuthority:
		return "authority"
	default:
		return "information"
	}
}
