package action

import "fmt"

// InterruptError is the panic value raised by Interrupt.
type InterruptError struct {
	Reason string
}

func (e *InterruptError) Error() string {
	return fmt.Sprintf("interrupted: %s", e.Reason)
}

// Interrupt stops the event emission currently running the caller.
// It must only be called from inside a behavior run by CatchInterrupt.
func Interrupt(reason string) {
	panic(&InterruptError{Reason: reason})
}

// CatchInterrupt runs fn and returns the interrupt that stopped it, if any.
// Any other panic propagates.
func CatchInterrupt(fn func()) (interrupted *InterruptError) {
	defer func() {
		if r := recover(); r != nil {
			if ie, ok := r.(*InterruptError); ok {
				interrupted = ie
				return
			}
			panic(r)
		}
	}()
	fn()
	return nil
}
