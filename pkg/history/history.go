// Package history records executed actions so they can be undone and redone.
package history

import (
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/calcgame/internal/logging"
	"github.com/aretw0/calcgame/pkg/action"
	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/replay"
)

// Diagnostics returned by Undo and Redo when there is nothing to do.
// The history is left unchanged.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNotUndoable   = errors.New("last action cannot be undone")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// History is a list of executed actions and a cursor at the most recent one.
// It is not safe for concurrent use.
type History struct {
	entries []*action.Action
	cursor  int
	next    *action.Action
	draws   *replay.DrawLog
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
}

// Option configures a History.
type Option func(*History)

// WithLogger sets the logger for undo/redo diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(h *History) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(h *History) {
		h.hooks = h.hooks.Merge(hooks)
	}
}

// New creates an empty history. Every recorded action restores the draw
// log cursor when undone.
func New(draws *replay.DrawLog, opts ...Option) *History {
	h := &History{
		cursor: -1,
		draws:  draws,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Do records a and runs it. Any action queued with AppendToNext runs first,
// and any entries past the cursor are discarded. It returns the recorded entry.
func (h *History) Do(a *action.Action) *action.Action {
	entry := a
	if h.next != nil {
		entry = h.next.AndThen(a).WithName(a.Name())
		h.next = nil
	}

	before := h.draws.Cursor()
	entry = entry.AndThen(action.OnUndo("rewind", func(*domain.ActionContext) {
		h.draws.Rewind(before)
	}))

	if dropped := len(h.entries) - (h.cursor + 1); dropped > 0 {
		h.logger.Debug("discarding redo branch", "entries", dropped)
		clear(h.entries[h.cursor+1:])
		h.entries = h.entries[:h.cursor+1]
	}
	h.entries = append(h.entries, entry)
	h.cursor++

	entry.Redo()

	h.logger.Debug("action done", "action", entry.Name(), "cursor", h.cursor)
	h.fire(h.hooks.OnDo, domain.EventDo, entry.Name(), nil)
	return entry
}

// LastContains reports whether a is already part of the entry at the cursor.
func (h *History) LastContains(a *action.Action) bool {
	return h.cursor >= 0 && h.entries[h.cursor].Contains(a)
}

// AppendToLast folds a into the entry at the cursor so that both are undone
// together. a is not run; the caller runs it with Redo. With an empty
// history a is returned unrecorded.
func (h *History) AppendToLast(a *action.Action) *action.Action {
	if h.cursor < 0 {
		return a
	}
	h.entries[h.cursor] = h.entries[h.cursor].AndThen(a)
	return a
}

// AppendToNext queues a to run at the start of the next Do.
func (h *History) AppendToNext(a *action.Action) {
	if h.next == nil {
		h.next = a
		return
	}
	h.next = h.next.AndThen(a)
}

// Undo reverts the entry at the cursor.
func (h *History) Undo() error {
	if h.cursor < 0 {
		return h.noop(h.hooks.OnUndo, domain.EventUndo, ErrNothingToUndo)
	}
	entry := h.entries[h.cursor]
	if !entry.Undoable() {
		return h.noop(h.hooks.OnUndo, domain.EventUndo, ErrNotUndoable)
	}

	entry.Undo()
	h.cursor--

	h.logger.Debug("action undone", "action", entry.Name(), "cursor", h.cursor)
	h.fire(h.hooks.OnUndo, domain.EventUndo, entry.Name(), nil)
	return nil
}

// Redo re-applies the entry after the cursor.
func (h *History) Redo() error {
	if h.cursor+1 >= len(h.entries) {
		return h.noop(h.hooks.OnRedo, domain.EventRedo, ErrNothingToRedo)
	}
	h.cursor++
	entry := h.entries[h.cursor]
	entry.Redo()

	h.logger.Debug("action redone", "action", entry.Name(), "cursor", h.cursor)
	h.fire(h.hooks.OnRedo, domain.EventRedo, entry.Name(), nil)
	return nil
}

func (h *History) noop(hook func(*domain.ActionEvent), kind domain.EventType, err error) error {
	h.logger.Info(string(kind)+" ignored", "cursor", h.cursor, "err", err)
	h.fire(hook, kind, "", err)
	return err
}

func (h *History) fire(hook func(*domain.ActionEvent), kind domain.EventType, name string, err error) {
	if hook == nil {
		return
	}
	hook(&domain.ActionEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: kind},
		Name:      name,
		Cursor:    h.cursor,
		Err:       err,
	})
}

// Cursor is the index of the most recent entry, -1 when empty.
func (h *History) Cursor() int { return h.cursor }

// Len counts entries, including a redo branch not yet discarded.
func (h *History) Len() int { return len(h.entries) }

// Names lists entry names in order.
func (h *History) Names() []string {
	names := make([]string, len(h.entries))
	for i, e := range h.entries {
		names[i] = e.Name()
	}
	return names
}

// CurrentContext returns the context of the entry at the cursor, or nil.
func (h *History) CurrentContext() *domain.ActionContext {
	if h.cursor < 0 {
		return nil
	}
	return h.entries[h.cursor].Context()
}

// CanUndo reports whether Undo would do something.
func (h *History) CanUndo() bool {
	return h.cursor >= 0 && h.entries[h.cursor].Undoable()
}

// CanRedo reports whether Redo would do something.
func (h *History) CanRedo() bool {
	return h.cursor+1 < len(h.entries)
}

// Meta returns the serialisable part of the history.
func (h *History) Meta() domain.HistoryMeta {
	return domain.HistoryMeta{Cursor: h.cursor, Entries: h.Names()}
}

// Restore rebuilds a history from persisted metadata. Behaviors are not
// persisted, so entries up to the cursor come back as named barriers that
// cannot be undone, and the redo branch is dropped.
func (h *History) Restore(meta domain.HistoryMeta) {
	h.next = nil
	h.entries = h.entries[:0]
	for i := 0; i <= meta.Cursor && i < len(meta.Entries); i++ {
		h.entries = append(h.entries, action.Func(meta.Entries[i], nil))
	}
	h.cursor = len(h.entries) - 1
}
