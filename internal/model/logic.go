package model

// HitPolicy is a decision table hit policy code.
type HitPolicy string

// Hit policy codes per the DMN specification.
const (
	HitPolicyUnique      HitPolicy = "UNIQUE"
	HitPolicyFirst       HitPolicy = "FIRST"
	HitPolicyPriority    HitPolicy = "PRIORITY"
	HitPolicyAny         HitPolicy = "ANY"
	HitPolicyCollect     HitPolicy = "COLLECT"
	HitPolicyRuleOrder   HitPolicy = "RULE ORDER"
	HitPolicyOutputOrder HitPolicy = "OUTPUT ORDER"
)

// DecisionTable is tabular decision logic.
type DecisionTable struct {
	ID        string
	HitPolicy HitPolicy
	Inputs    []TableInput
	Outputs   []TableOutput
	Rules     []Rule
}

func (t *DecisionTable) ElementID() string   { return t.ID }
func (t *DecisionTable) ElementName() string { return "" }
func (t *DecisionTable) TypeName() string    { return TypeDecisionTable }

// TableInput is one input column of a decision table.
type TableInput struct {
	ID         string
	Label      string
	Expression string
	TypeRef    string
}

// TableOutput is one output column of a decision table.
type TableOutput struct {
	ID      string
	Label   string
	Name    string
	TypeRef string
}

// Rule is one row of a decision table.
type Rule struct {
	ID            string
	Description   string
	InputEntries  []string
	OutputEntries []string
}

// LiteralExpression is free-form expression logic.
type LiteralExpression struct {
	ID                 string
	Text               string
	ExpressionLanguage string
	TypeRef            string
}

func (l *LiteralExpression) ElementID() string   { return l.ID }
func (l *LiteralExpression) ElementName() string { return "" }
func (l *LiteralExpression) TypeName() string    { return TypeLiteralExpression }
