package domain

// Evaluation is the result of evaluating a formula outside any session.
type Evaluation struct {
	Source     string `json:"source"`
	Value      Number `json:"value"`
	Display    string `json:"display"`
	Formatted  string `json:"formatted"`
	Operations int    `json:"operations"`
}

// OperatorInfo describes a registered operator.
type OperatorInfo struct {
	Symbol   string `json:"symbol"`
	Priority int    `json:"priority"`
}

// Catalog lists what the calculator understands.
type Catalog struct {
	Operators []OperatorInfo `json:"operators"`
	Functions []string       `json:"functions"`
}
