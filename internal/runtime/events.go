package runtime

import (
	"slices"

	"github.com/aretw0/calcgame/pkg/action"
	"github.com/aretw0/calcgame/pkg/domain"
)

// event keeps listeners in registration order so emission is deterministic.
type event struct {
	ids       []string
	listeners map[string]*action.Action
}

// On registers listener under id for the named event, replacing any
// listener with the same id.
func (s *Session) On(name, id string, listener *action.Action) {
	ev, ok := s.events[name]
	if !ok {
		ev = &event{listeners: make(map[string]*action.Action)}
		s.events[name] = ev
	}
	if _, exists := ev.listeners[id]; exists {
		s.logger.Warn("overwriting listener", "event", name, "id", id)
	} else {
		ev.ids = append(ev.ids, id)
	}
	ev.listeners[id] = listener
}

// Off removes the listener registered under id.
func (s *Session) Off(name, id string) {
	ev, ok := s.events[name]
	if !ok {
		s.logger.Warn("removing listener that does not exist", "event", name, "id", id)
		return
	}
	if _, exists := ev.listeners[id]; !exists {
		s.logger.Warn("removing listener that does not exist", "event", name, "id", id)
		return
	}
	delete(ev.listeners, id)
	ev.ids = slices.DeleteFunc(ev.ids, func(x string) bool { return x == id })
}

// Listeners returns the ids registered for an event in emission order.
func (s *Session) Listeners(name string) []string {
	if ev, ok := s.events[name]; ok {
		return slices.Clone(ev.ids)
	}
	return nil
}

// Emit runs every listener of the named event with ctx. Each listener is
// folded into the most recent undo step before it runs, and runs at most once
// per step so that undo reverts everything it did. A listener may call
// action.Interrupt to skip the remaining listeners.
func (s *Session) Emit(name string, ctx *domain.ActionContext) {
	ev, ok := s.events[name]
	if !ok || len(ev.ids) == 0 {
		return
	}
	s.logger.Debug("emitting event", "event", name, "listeners", len(ev.ids))

	ids := slices.Clone(ev.ids)
	interrupted := action.CatchInterrupt(func() {
		for _, id := range ids {
			listener, ok := ev.listeners[id]
			if !ok {
				continue
			}
			if s.history.LastContains(listener) {
				s.logger.Debug("listener already ran in this step", "event", name, "id", id)
				continue
			}
			s.history.AppendToLast(listener.WithContext(ctx)).Redo()
		}
	})
	if interrupted != nil {
		s.logger.Debug("event interrupted", "event", name, "reason", interrupted.Reason)
	}
}
