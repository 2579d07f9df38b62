package domain

import "log/slog"

// ActionContext describes what triggered an action.
// It is immutable once attached to an action; build a new one instead of editing it.
type ActionContext struct {
	// Snapshot is the session state at the time the action was created (optional).
	Snapshot *Snapshot

	// Element identifies the originating UI element (e.g. the "=" button).
	Element string

	// Screen is the calculator screen text when the action was created.
	Screen string

	// Data is a free-form event payload.
	Data map[string]any

	// Logger overrides the logger used while running the action, if set.
	Logger *slog.Logger
}

// WithData returns a copy of the context carrying the given payload.
func (c *ActionContext) WithData(data map[string]any) *ActionContext {
	if c == nil {
		return &ActionContext{Data: data}
	}
	cp := *c
	cp.Data = data
	return &cp
}

// Standard UI elements.
const (
	ElementCalculate = "="
	ElementClear     = "C"
	ElementUndo      = "undo"
	ElementRedo      = "redo"
)
