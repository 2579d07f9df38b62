package domain

import "time"

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventDo        EventType = "do"
	EventUndo      EventType = "undo"
	EventRedo      EventType = "redo"
	EventCalculate EventType = "calculate"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// ActionEvent reports a history transition.
type ActionEvent struct {
	EventBase
	Name   string `json:"name"`
	Cursor int    `json:"cursor"`
	// Err is set when the transition was a reported no-op.
	Err error `json:"-"`
}

// CalculationEvent reports the outcome of evaluating the screen.
type CalculationEvent struct {
	EventBase
	Source     string `json:"source"`
	Result     string `json:"result,omitempty"`
	Operations int    `json:"operations"`
	Err        error  `json:"-"`
}

// LifecycleHooks defines callbacks for observability.
type LifecycleHooks struct {
	OnDo        func(*ActionEvent)
	OnUndo      func(*ActionEvent)
	OnRedo      func(*ActionEvent)
	OnCalculate func(*CalculationEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnDo:        chain(h.OnDo, other.OnDo),
		OnUndo:      chain(h.OnUndo, other.OnUndo),
		OnRedo:      chain(h.OnRedo, other.OnRedo),
		OnCalculate: chain(h.OnCalculate, other.OnCalculate),
	}
}

func chain[T any](a, b func(T)) func(T) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(v T) {
		a(v)
		b(v)
	}
}
