package viewer

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmnkit/dmnview/internal/codec"
	"github.com/dmnkit/dmnview/internal/model"
	"github.com/dmnkit/dmnview/internal/surface"
	"github.com/dmnkit/dmnview/internal/view"
)

// Literal renders a decision's literal expression.
type Literal struct {
	base
}

// NewLiteral creates a literal expression viewer.
func NewLiteral() view.Viewer { return &Literal{} }

// Open implements view.Viewer.
func (v *Literal) Open(_ context.Context, el model.Element) ([]codec.Warning, error) {
	dec, ok := el.(*model.Decision)
	if !ok || dec.Literal == nil {
		return nil, fmt.Errorf("literal expression viewer cannot open %s", el.TypeName())
	}

	var warnings []codec.Warning
	if strings.TrimSpace(dec.Literal.Text) == "" {
		warnings = append(warnings, codec.Warning{
			Message:   "literal expression is empty",
			ElementID: dec.Literal.ID,
		})
	}

	s := v.setElement(dec)
	if s != nil {
		s.Clear()
		v.render(s, dec)
		s.Flush()
	}
	return warnings, nil
}

// AttachTo implements view.Viewer.
func (v *Literal) AttachTo(s surface.Surface) {
	v.attachTo(s, func(s surface.Surface, el model.Element) {
		v.render(s, el.(*model.Decision))
	})
}

func (v *Literal) render(s surface.Surface, dec *model.Decision) {
	lit := dec.Literal

	lang := lit.ExpressionLanguage
	if lang == "" {
		lang = "FEEL"
	}

	s.SetLine(0, fmt.Sprintf("%s = (%s)", label(dec), lang))
	for i, line := range strings.Split(lit.Text, "\n") {
		s.SetLine(i+1, "  "+line)
	}
}
