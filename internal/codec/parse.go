package codec

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/dmnkit/dmnview/internal/model"
)

// Reference is a resolved DRG requirement edge.
type Reference struct {
	// SourceID is the id of the element that holds the requirement.
	SourceID string

	// TargetID is the id of the required element.
	TargetID string

	// Kind is the requirement edge type.
	Kind model.RequirementKind
}

// Result is the outcome of a successful parse.
type Result struct {
	// Definitions is the parsed document tree.
	Definitions *model.Definitions

	// ElementsByID indexes the root and its direct children by id.
	// On duplicate ids the first occurrence wins.
	ElementsByID map[string]model.Element

	// References are the document's resolved requirement edges.
	References []Reference

	// Warnings are non-fatal problems found while parsing.
	Warnings []Warning
}

// Parse reads serialized DMN XML and builds the document tree.
func Parse(text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	dec := xml.NewDecoder(strings.NewReader(text))

	root, err := findRoot(dec)
	if err != nil {
		return nil, err
	}

	if root.Name.Local != "definitions" || !isModelNamespace(root.Name.Space) {
		return nil, &UnrecognizedRootError{Root: root.Name.Local}
	}

	var raw xmlDefinitions
	if err := dec.DecodeElement(&raw, &root); err != nil {
		return nil, asSyntaxError(err)
	}

	return build(&raw), nil
}

// findRoot advances the decoder to the document's root start element.
func findRoot(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return xml.StartElement{}, ErrEmptyInput
		}
		if err != nil {
			return xml.StartElement{}, asSyntaxError(err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}

// isModelNamespace reports whether ns is a DMN model namespace this
// codec reads. Unqualified documents are accepted for convenience.
func isModelNamespace(ns string) bool {
	return ns == "" || ns == NamespaceDMN13 || ns == NamespaceDMN12
}

func asSyntaxError(err error) error {
	if syn, ok := err.(*xml.SyntaxError); ok {
		return &SyntaxError{Line: syn.Line, Err: err}
	}
	return &SyntaxError{Err: err}
}

// Raw XML shapes. Children are decoded through a single catch-all type
// so the document's source order survives into the model.

type xmlDefinitions struct {
	ID              string          `xml:"id,attr"`
	Name            string          `xml:"name,attr"`
	Namespace       string          `xml:"namespace,attr"`
	Exporter        string          `xml:"exporter,attr"`
	ExporterVersion string          `xml:"exporterVersion,attr"`
	Children        []xmlDRGElement `xml:",any"`
}

type xmlDRGElement struct {
	XMLName        xml.Name
	ID             string                `xml:"id,attr"`
	Name           string                `xml:"name,attr"`
	Question       string                `xml:"question"`
	AllowedAnswers string                `xml:"allowedAnswers"`
	Table          *xmlDecisionTable     `xml:"decisionTable"`
	Literal        *xmlLiteralExpression `xml:"literalExpression"`
	InfoReqs       []xmlRequirement      `xml:"informationRequirement"`
	KnowledgeReqs  []xmlRequirement      `xml:"knowledgeRequirement"`
	AuthorityReqs  []xmlRequirement      `xml:"authorityRequirement"`
}

type xmlRequirement struct {
	RequiredDecision  *xmlHref `xml:"requiredDecision"`
	RequiredInput     *xmlHref `xml:"requiredInput"`
	RequiredKnowledge *xmlHref `xml:"requiredKnowledge"`
	RequiredAuthority *xmlHref `xml:"requiredAuthority"`
}

type xmlHref struct {
	Href string `xml:"href,attr"`
}

type xmlDecisionTable struct {
	ID        string      `xml:"id,attr"`
	HitPolicy string      `xml:"hitPolicy,attr"`
	Inputs    []xmlInput  `xml:"input"`
	Outputs   []xmlOutput `xml:"output"`
	Rules     []xmlRule   `xml:"rule"`
}

type xmlInput struct {
	ID         string             `xml:"id,attr"`
	Label      string             `xml:"label,attr"`
	Expression xmlInputExpression `xml:"inputExpression"`
}

type xmlInputExpression struct {
	ID      string `xml:"id,attr"`
	TypeRef string `xml:"typeRef,attr"`
	Text    string `xml:"text"`
}

type xmlOutput struct {
	ID      string `xml:"id,attr"`
	Label   string `xml:"label,attr"`
	Name    string `xml:"name,attr"`
	TypeRef string `xml:"typeRef,attr"`
}

type xmlRule struct {
	ID            string   `xml:"id,attr"`
	Description   string   `xml:"description"`
	InputEntries  []string `xml:"inputEntry>text"`
	OutputEntries []string `xml:"outputEntry>text"`
}

type xmlLiteralExpression struct {
	ID                 string `xml:"id,attr"`
	ExpressionLanguage string `xml:"expressionLanguage,attr"`
	TypeRef            string `xml:"typeRef,attr"`
	Text               string `xml:"text"`
}

// build converts raw XML shapes into the model tree, collecting
// warnings and the id index along the way.
func build(raw *xmlDefinitions) *Result {
	defs := &model.Definitions{
		ID:              raw.ID,
		Name:            raw.Name,
		Namespace:       raw.Namespace,
		Exporter:        raw.Exporter,
		ExporterVersion: raw.ExporterVersion,
	}

	res := &Result{
		Definitions:  defs,
		ElementsByID: make(map[string]model.Element),
	}
	res.index(defs)

	for _, child := range raw.Children {
		switch child.XMLName.Local {
		case "decision":
			dec := buildDecision(&child, res)
			defs.DRGElements = append(defs.DRGElements, dec)
			res.index(dec)
		case "inputData":
			in := &model.InputData{ID: child.ID, Name: child.Name}
			defs.DRGElements = append(defs.DRGElements, in)
			res.index(in)
		case "businessKnowledgeModel":
			bkm := &model.BusinessKnowledgeModel{ID: child.ID, Name: child.Name}
			defs.DRGElements = append(defs.DRGElements, bkm)
			res.index(bkm)
		case "knowledgeSource":
			ks := &model.KnowledgeSource{ID: child.ID, Name: child.Name}
			defs.DRGElements = append(defs.DRGElements, ks)
			res.index(ks)
		default:
			res.warnf(child.ID, "unknown element <%s> ignored", child.XMLName.Local)
		}
	}

	return res
}

func buildDecision(raw *xmlDRGElement, res *Result) *model.Decision {
	dec := &model.Decision{
		ID:             raw.ID,
		Name:           raw.Name,
		Question:       raw.Question,
		AllowedAnswers: raw.AllowedAnswers,
	}
	if dec.Name == "" {
		res.warnf(dec.ID, "decision has no name")
	}

	if raw.Table != nil && raw.Literal != nil {
		res.warnf(dec.ID, "decision has both a decision table and a literal expression; keeping the table")
		raw.Literal = nil
	}

	if raw.Table != nil {
		dec.Table = buildTable(raw.Table)
	}
	if raw.Literal != nil {
		dec.Literal = &model.LiteralExpression{
			ID:                 raw.Literal.ID,
			Text:               raw.Literal.Text,
			ExpressionLanguage: raw.Literal.ExpressionLanguage,
			TypeRef:            raw.Literal.TypeRef,
		}
	}

	addReqs := func(reqs []xmlRequirement) {
		for _, r := range reqs {
			if ref, ok := resolveRequirement(dec.ID, r); ok {
				dec.Requirements = append(dec.Requirements, model.Requirement{
					Kind:       ref.Kind,
					RequiredID: ref.TargetID,
				})
				res.References = append(res.References, ref)
			} else {
				res.warnf(dec.ID, "requirement without a resolvable href")
			}
		}
	}
	addReqs(raw.InfoReqs)
	addReqs(raw.KnowledgeReqs)
	addReqs(raw.AuthorityReqs)

	return dec
}

func buildTable(raw *xmlDecisionTable) *model.DecisionTable {
	table := &model.DecisionTable{
		ID:        raw.ID,
		HitPolicy: model.HitPolicy(raw.HitPolicy),
	}
	if table.HitPolicy == "" {
		table.HitPolicy = model.HitPolicyUnique
	}
	for _, in := range raw.Inputs {
		table.Inputs = append(table.Inputs, model.TableInput{
			ID:         in.ID,
			Label:      in.Label,
			Expression: in.Expression.Text,
			TypeRef:    in.Expression.TypeRef,
		})
	}
	for _, out := range raw.Outputs {
		table.Outputs = append(table.Outputs, model.TableOutput{
			ID:      out.ID,
			Label:   out.Label,
			Name:    out.Name,
			TypeRef: out.TypeRef,
		})
	}
	for _, rule := range raw.Rules {
		table.Rules = append(table.Rules, model.Rule{
			ID:            rule.ID,
			Description:   rule.Description,
			InputEntries:  rule.InputEntries,
			OutputEntries: rule.OutputEntries,
		})
	}
	return table
}

func resolveRequirement(sourceID string, raw xmlRequirement) (Reference, bool) {
	var href *xmlHref
	kind := model.RequirementInformation
	switch {
	case raw.RequiredDecision != nil:
		href = raw.RequiredDecision
	case raw.RequiredInput != nil:
		href = raw.RequiredInput
	case raw.RequiredKnowledge != nil:
		href = raw.RequiredKnowledge
		kind = model.RequirementKnowledge
	case raw.RequiredAuthority != nil:
		href = raw.RequiredAuthority
		kind = model.RequirementAuthority
	default:
		return Reference{}, false
	}

	target := strings.TrimPrefix(href.Href, "#")
	if target == "" {
		return Reference{}, false
	}
	return Reference{SourceID: sourceID, TargetID: target, Kind: kind}, true
}

// index records an element in the id index. Duplicate ids keep the
// first occurrence; ids must be unique within one parse, so a
// duplicate is reported as a warning.
func (r *Result) index(el model.Element) {
	id := el.ElementID()
	if id == "" {
		return
	}
	if _, exists := r.ElementsByID[id]; exists {
		r.warnf(id, "duplicate element id %q", id)
		return
	}
	r.ElementsByID[id] = el
}

func (r *Result) warnf(elementID, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{
		Message:   fmt.Sprintf(format, args...),
		ElementID: elementID,
	})
}
