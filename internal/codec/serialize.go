package codec

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/dmnkit/dmnview/internal/model"
)

// Serialize writes the document tree back to DMN 1.3 XML.
// Child elements are emitted in tree order, so a parse/serialize
// round-trip preserves the document's view order.
func Serialize(defs *model.Definitions) (string, error) {
	if defs == nil {
		return "", fmt.Errorf("nil definitions")
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	start := xml.StartElement{
		Name: xml.Name{Local: "definitions"},
		Attr: defsAttrs(defs),
	}
	if err := enc.EncodeToken(start); err != nil {
		return "", err
	}

	for _, el := range defs.DRGElements {
		if err := encodeElement(enc, el); err != nil {
			return "", err
		}
	}

	if err := enc.EncodeToken(start.End()); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}

	buf.WriteByte('\n')
	return buf.String(), nil
}

func defsAttrs(defs *model.Definitions) []xml.Attr {
	attrs := []xml.Attr{
		{Name: xml.Name{Local: "xmlns"}, Value: NamespaceDMN13},
		{Name: xml.Name{Local: "id"}, Value: defs.ID},
		{Name: xml.Name{Local: "name"}, Value: defs.Name},
	}
	if defs.Namespace != "" {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "namespace"}, Value: defs.Namespace})
	}
	if defs.Exporter != "" {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "exporter"}, Value: defs.Exporter})
	}
	if defs.ExporterVersion != "" {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "exporterVersion"}, Value: defs.ExporterVersion})
	}
	return attrs
}

func encodeElement(enc *xml.Encoder, el model.Element) error {
	switch v := el.(type) {
	case *model.Decision:
		return enc.Encode(outDecision(v))
	case *model.InputData:
		return enc.Encode(outNamed{
			XMLName: xml.Name{Local: "inputData"},
			ID:      v.ID,
			Name:    v.Name,
		})
	case *model.BusinessKnowledgeModel:
		return enc.Encode(outNamed{
			XMLName: xml.Name{Local: "businessKnowledgeModel"},
			ID:      v.ID,
			Name:    v.Name,
		})
	case *model.KnowledgeSource:
		return enc.Encode(outNamed{
			XMLName: xml.Name{Local: "knowledgeSource"},
			ID:      v.ID,
			Name:    v.Name,
		})
	default:
		return fmt.Errorf("cannot serialize element type %s", el.TypeName())
	}
}

// Output XML shapes.

type outNamed struct {
	XMLName xml.Name
	ID      string `xml:"id,attr"`
	Name    string `xml:"name,attr"`
}

type outDecisionShape struct {
	XMLName        xml.Name          `xml:"decision"`
	ID             string            `xml:"id,attr"`
	Name           string            `xml:"name,attr"`
	Question       string            `xml:"question,omitempty"`
	AllowedAnswers string            `xml:"allowedAnswers,omitempty"`
	Requirements   []outRequirement  `xml:",any"`
	Table          *outDecisionTable `xml:"decisionTable"`
	Literal        *outLiteral       `xml:"literalExpression"`
}

type outRequirement struct {
	XMLName xml.Name
	Ref     outHref
}

type outHref struct {
	XMLName xml.Name
	Href    string `xml:"href,attr"`
}

type outDecisionTable struct {
	ID        string      `xml:"id,attr"`
	HitPolicy string      `xml:"hitPolicy,attr,omitempty"`
	Inputs    []outInput  `xml:"input"`
	Outputs   []outOutput `xml:"output"`
	Rules     []outRule   `xml:"rule"`
}

type outInput struct {
	ID         string             `xml:"id,attr,omitempty"`
	Label      string             `xml:"label,attr,omitempty"`
	Expression outInputExpression `xml:"inputExpression"`
}

type outInputExpression struct {
	TypeRef string `xml:"typeRef,attr,omitempty"`
	Text    string `xml:"text"`
}

type outOutput struct {
	ID      string `xml:"id,attr,omitempty"`
	Label   string `xml:"label,attr,omitempty"`
	Name    string `xml:"name,attr,omitempty"`
	TypeRef string `xml:"typeRef,attr,omitempty"`
}

type outRule struct {
	ID            string     `xml:"id,attr,omitempty"`
	Description   string     `xml:"description,omitempty"`
	InputEntries  []outEntry `xml:"inputEntry"`
	OutputEntries []outEntry `xml:"outputEntry"`
}

type outEntry struct {
	Text string `xml:"text"`
}

type outLiteral struct {
	ID                 string `xml:"id,attr,omitempty"`
	ExpressionLanguage string `xml:"expressionLanguage,attr,omitempty"`
	TypeRef            string `xml:"typeRef,attr,omitempty"`
	Text               string `xml:"text"`
}

func outDecision(dec *model.Decision) *outDecisionShape {
	out := &outDecisionShape{
		ID:             dec.ID,
		Name:           dec.Name,
		Question:       dec.Question,
		AllowedAnswers: dec.AllowedAnswers,
	}

	for _, req := range dec.Requirements {
		out.Requirements = append(out.Requirements, outRequirementShape(req))
	}

	if dec.Table != nil {
		out.Table = outTable(dec.Table)
	}
	if dec.Literal != nil {
		out.Literal = &outLiteral{
			ID:                 dec.Literal.ID,
			ExpressionLanguage: dec.Literal.ExpressionLanguage,
			TypeRef:            dec.Literal.TypeRef,
			Text:               dec.Literal.Text,
		}
	}

	return out
}

func outRequirementShape(req model.Requirement) outRequirement {
	var reqName, refName string
	switch req.Kind {
	case model.RequirementKnowledge:
		reqName, refName = "knowledgeRequirement", "requiredKnowledge"
	case model.RequirementAuthority:
		reqName, refName = "authorityRequirement", "requiredAuthority"
	default:
		reqName, refName = "informationRequirement", "requiredInput"
	}
	return outRequirement{
		XMLName: xml.Name{Local: reqName},
		Ref: outHref{
			XMLName: xml.Name{Local: refName},
			Href:    "#" + req.RequiredID,
		},
	}
}

func outTable(table *model.DecisionTable) *outDecisionTable {
	out := &outDecisionTable{
		ID:        table.ID,
		HitPolicy: string(table.HitPolicy),
	}
	for _, in := range table.Inputs {
		out.Inputs = append(out.Inputs, outInput{
			ID:    in.ID,
			Label: in.Label,
			Expression: outInputExpression{
				TypeRef: in.TypeRef,
				Text:    in.Expression,
			},
		})
	}
	for _, o := range table.Outputs {
		out.Outputs = append(out.Outputs, outOutput{
			ID:      o.ID,
			Label:   o.Label,
			Name:    o.Name,
			TypeRef: o.TypeRef,
		})
	}
	for _, rule := range table.Rules {
		r := outRule{ID: rule.ID, Description: rule.Description}
		for _, e := range rule.InputEntries {
			r.InputEntries = append(r.InputEntries, outEntry{Text: e})
		}
		for _, e := range rule.OutputEntries {
			r.OutputEntries = append(r.OutputEntries, outEntry{Text: e})
		}
		out.Rules = append(out.Rules, r)
	}
	return out
}
