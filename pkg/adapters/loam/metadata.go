package loam

// RuleMetadata is the frontmatter of a mod rule document. The document body
// is the rule's description.
type RuleMetadata struct {
	ID      string `json:"id" mapstructure:"id"`
	Kind    string `json:"kind" mapstructure:"kind"`
	Symbol  string `json:"symbol" mapstructure:"symbol"`
	Name    string `json:"name" mapstructure:"name"`
	Formula string `json:"formula" mapstructure:"formula"`

	// Priority is decoded loosely: strict loam repositories hand numbers
	// over as json.Number.
	Priority any `json:"priority" mapstructure:"priority"`
}
