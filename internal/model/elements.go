package model

// Decision is a DRG decision node. Its decision logic, if present, is
// either a decision table or a literal expression.
type Decision struct {
	ID             string
	Name           string
	Question       string
	AllowedAnswers string

	// Table and Literal are mutually exclusive; both may be nil for a
	// decision with no modeled logic.
	Table   *DecisionTable
	Literal *LiteralExpression

	// Requirements are incoming information requirement edges.
	Requirements []Requirement
}

func (d *Decision) ElementID() string   { return d.ID }
func (d *Decision) ElementName() string { return d.Name }
func (d *Decision) TypeName() string    { return TypeDecision }

// RequirementKind distinguishes the DRG edge types.
type RequirementKind int

const (
	RequirementInformation RequirementKind = iota
	RequirementKnowledge
	RequirementAuthority
)

// Requirement is a DRG edge from a required element to a decision.
type Requirement struct {
	Kind RequirementKind

	// RequiredID is the id of the required element ("#id" href resolved).
	RequiredID string
}

// InputData is a DRG input data node.
type InputData struct {
	ID   string
	Name string
}

func (i *InputData) ElementID() string   { return i.ID }
func (i *InputData) ElementName() string { return i.Name }
func (i *InputData) TypeName() string    { return TypeInputData }

// BusinessKnowledgeModel is a DRG business knowledge model node.
type BusinessKnowledgeModel struct {
	ID   string
	Name string
}

func (b *BusinessKnowledgeModel) ElementID() string   { return b.ID }
func (b *BusinessKnowledgeModel) ElementName() string { return b.Name }
func (b *BusinessKnowledgeModel) TypeName() string    { return TypeBusinessKnowledgeModel }

// KnowledgeSource is a DRG knowledge source node.
type KnowledgeSource struct {
	ID   string
	Name string
}

func (k *KnowledgeSource) ElementID() string   { return k.ID }
func (k *KnowledgeSource) ElementName() string { return k.Name }
func (k *KnowledgeSource) TypeName() string    { return TypeKnowledgeSource }
