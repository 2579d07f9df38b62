package domain

// Built-in event names.
const (
	// EventClick is emitted after any calculator button is pressed.
	EventClick = "click"
	// EventCalculated is emitted after a successful calculation.
	EventCalculated = "calculate"
)

// Keys of the payload carried by ActionContext.Data for built-in events.
const (
	KeySource     = "source"
	KeyResult     = "result"
	KeyOperations = "operations"
	KeyText       = "text"
)
