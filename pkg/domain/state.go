package domain

// DefaultScreen is what the calculator shows after a reset.
const DefaultScreen = "0"

// View is what the presentation layer needs to draw the calculator.
type View struct {
	Screen  string `json:"screen"`
	Money   Number `json:"money"`
	Cursor  int    `json:"cursor"`
	Entries int    `json:"entries"`
	CanUndo bool   `json:"can_undo"`
	CanRedo bool   `json:"can_redo"`
}

// DrawLogState is the persisted form of the replay-safe random draw log.
type DrawLogState struct {
	Seed   uint64 `json:"seed"`
	Draws  []int  `json:"draws"`
	Cursor int    `json:"cursor"`
	// Source is the marshaled generator state, so new draws continue the same stream.
	Source []byte `json:"source,omitempty"`
}

// HistoryMeta is the serialisable part of the action history.
// Behaviors are closures and are never persisted.
type HistoryMeta struct {
	Cursor  int      `json:"cursor"`
	Entries []string `json:"entries"`
}

// Snapshot captures a session so that it can be stored and restored.
type Snapshot struct {
	SessionID string       `json:"session_id"`
	Screen    string       `json:"screen"`
	Money     Number       `json:"money"`
	Random    DrawLogState `json:"random"`
	History   HistoryMeta  `json:"history"`

	// LastFormula is the JSON encoded tree of the last successful calculation.
	LastFormula []byte `json:"last_formula,omitempty"`

	// Sealed holds the encrypted snapshot when the store seals its contents.
	// Every other field is then left empty.
	Sealed []byte `json:"sealed,omitempty"`
}

// NewSnapshot creates an empty snapshot for a new session.
func NewSnapshot(sessionID string) *Snapshot {
	return &Snapshot{
		SessionID: sessionID,
		Screen:    DefaultScreen,
		History:   HistoryMeta{Cursor: -1, Entries: []string{}},
		Random:    DrawLogState{Draws: []int{}},
	}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Random.Draws = append([]int(nil), s.Random.Draws...)
	cp.Random.Source = append([]byte(nil), s.Random.Source...)
	cp.History.Entries = append([]string(nil), s.History.Entries...)
	cp.LastFormula = append([]byte(nil), s.LastFormula...)
	cp.Sealed = append([]byte(nil), s.Sealed...)
	return &cp
}
