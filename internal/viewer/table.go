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

// Table renders a decision's decision table as a character grid.
type Table struct {
	base
}

// NewTable creates a decision table viewer.
func NewTable() view.Viewer { return &Table{} }

// Open implements view.Viewer.
func (v *Table) Open(_ context.Context, el model.Element) ([]codec.Warning, error) {
	dec, ok := el.(*model.Decision)
	if !ok || dec.Table == nil {
		return nil, fmt.Errorf("table viewer cannot open %s", el.TypeName())
	}

	warnings := checkEntryCounts(dec)

	s := v.setElement(dec)
	if s != nil {
		s.Clear()
		v.render(s, dec)
		s.Flush()
	}
	return warnings, nil
}

// AttachTo implements view.Viewer.
func (v *Table) AttachTo(s surface.Surface) {
	v.attachTo(s, func(s surface.Surface, el model.Element) {
		v.render(s, el.(*model.Decision))
	})
}

// Clear implements view.Clearer.
func (v *Table) Clear() { v.reset() }

func checkEntryCounts(dec *model.Decision) []codec.Warning {
	var warnings []codec.Warning
	table := dec.Table
	for _, rule := range table.Rules {
		if len(rule.InputEntries) != len(table.Inputs) || len(rule.OutputEntries) != len(table.Outputs) {
			warnings = append(warnings, codec.Warning{
				Message:   "rule entry count does not match table columns",
				ElementID: rule.ID,
			})
		}
	}
	return warnings
}

func (v *Table) render(s surface.Surface, dec *model.Decision) {
	table := dec.Table

	headers := make([]string, 0, len(table.Inputs)+len(table.Outputs))
	for _, in := range table.Inputs {
		h := in.Label
		if h == "" {
			h = in.Expression
		}
		headers = append(headers, h)
	}
	for _, out := range table.Outputs {
		h := out.Label
		if h == "" {
			h = out.Name
		}
		headers = append(headers, h)
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, rule := range table.Rules {
		for i, cell := range ruleCells(rule, len(table.Inputs), len(table.Outputs)) {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	y := 0
	put := func(line string) {
		s.SetLine(y, line)
		y++
	}

	put(fmt.Sprintf("%s (hit policy: %s)", label(dec), table.HitPolicy))
	put(gridRow(headers, widths))
	put(gridRule(widths))
	for _, rule := range table.Rules {
		put(gridRow(ruleCells(rule, len(table.Inputs), len(table.Outputs)), widths))
	}
}

// ruleCells pads or truncates a rule's entries to the column count.
func ruleCells(rule model.Rule, inputs, outputs int) []string {
	cells := make([]string, 0, inputs+outputs)
	for i := 0; i < inputs; i++ {
		cells = append(cells, entryAt(rule.InputEntries, i))
	}
	for i := 0; i < outputs; i++ {
		cells = append(cells, entryAt(rule.OutputEntries, i))
	}
	return cells
}

func entryAt(entries []string, i int) string {
	if i < len(entries) {
		return entries[i]
	}
	return "-"
}

func gridRow(cells []string, widths []int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for i, cell := range cells {
		sb.WriteString(" ")
		sb.WriteString(cell)
		sb.WriteString(strings.Repeat(" ", widths[i]-len(cell)+1))
		sb.WriteString("|")
	}
	return sb.String()
}

func gridRule(widths []int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for _, w := range widths {
		sb.WriteString(strings.Repeat("-", w+2))
		sb.WriteString("|")
	}
	return sb.String()
}
