package domain

// ViewDiff holds the fields of a View that changed. It is streamed to
// clients, who merge it into their copy of the view.
type ViewDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Screen *string `json:"screen,omitempty"`
	Money  *Number `json:"money,omitempty"`

	// History is set when the cursor, the entry count or the undo/redo
	// availability moved.
	History *HistoryDiff `json:"history,omitempty"`
}

// HistoryDiff is the history part of a View.
type HistoryDiff struct {
	Cursor  int  `json:"cursor"`
	Entries int  `json:"entries"`
	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`
}

// Diff calculates the difference between two views of a session.
// A nil old view yields the whole new view (initial load).
// It returns nil when nothing changed.
func Diff(sessionID string, old *View, new View) *ViewDiff {
	diff := &ViewDiff{SessionID: sessionID}

	if old == nil || old.Screen != new.Screen {
		diff.Screen = &new.Screen
	}
	if old == nil || old.Money != new.Money {
		diff.Money = &new.Money
	}
	if old == nil ||
		old.Cursor != new.Cursor ||
		old.Entries != new.Entries ||
		old.CanUndo != new.CanUndo ||
		old.CanRedo != new.CanRedo {
		diff.History = &HistoryDiff{
			Cursor:  new.Cursor,
			Entries: new.Entries,
			CanUndo: new.CanUndo,
			CanRedo: new.CanRedo,
		}
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any change.
func (d *ViewDiff) IsEmpty() bool {
	return d.Screen == nil && d.Money == nil && d.History == nil
}

// Touches reports whether the diff changes the named part of the view:
// "screen", "money" or "history".
func (d *ViewDiff) Touches(field string) bool {
	switch field {
	case "screen":
		return d.Screen != nil
	case "money":
		return d.Money != nil
	case "history":
		return d.History != nil
	}
	return false
}
