package domain

// Rule kinds a mod may declare.
const (
	RuleOperator = "operator"
	RuleFunction = "function"
)

// ModRule declares an operator or function as a formula.
// Operators are written over a and b, functions over x.
type ModRule struct {
	ID          string `json:"id" yaml:"id" mapstructure:"id"`
	Kind        string `json:"kind" yaml:"kind" mapstructure:"kind"`
	Symbol      string `json:"symbol,omitempty" yaml:"symbol,omitempty" mapstructure:"symbol"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Priority    int    `json:"priority,omitempty" yaml:"priority,omitempty" mapstructure:"priority"`
	Formula     string `json:"formula" yaml:"formula" mapstructure:"formula"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"-"`
}

// Label returns the symbol or name the rule registers under.
func (r ModRule) Label() string {
	if r.Kind == RuleOperator {
		return r.Symbol
	}
	return r.Name
}
