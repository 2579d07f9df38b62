// Package action provides reversible units of state change that can be
// composed into a single undo step.
package action

import (
	"sync/atomic"

	"github.com/aretw0/calcgame/pkg/domain"
)

// Behavior is one direction of an action. It receives the effective context:
// the action's own, or the context of the composite running it.
type Behavior func(ctx *domain.ActionContext)

var nextID atomic.Uint64

// Action is an immutable redo/undo pair. Composites built with AndThen are
// themselves Actions.
type Action struct {
	id       uint64
	name     string
	ctx      *domain.ActionContext
	redo     Behavior
	undo     Behavior
	undoable func() bool

	// parts is set for composites only.
	parts []*Action
	// members holds the identity of this action and of every action composed into it.
	members map[uint64]struct{}
}

// Option configures an Action created with New.
type Option func(*Action)

// WithContext attaches the triggering context.
func WithContext(ctx *domain.ActionContext) Option {
	return func(a *Action) {
		a.ctx = ctx
	}
}

// WithUndoable sets a predicate evaluated at undo time.
func WithUndoable(pred func() bool) Option {
	return func(a *Action) {
		a.undoable = pred
	}
}

// NotUndoable marks the action as a barrier that Undo stops at.
func NotUndoable() Option {
	return WithUndoable(func() bool { return false })
}

// New creates an action. Nil behaviors are no-ops; actions are undoable unless
// an option says otherwise.
func New(name string, redo, undo Behavior, opts ...Option) *Action {
	a := &Action{
		id:   nextID.Add(1),
		name: name,
		redo: redo,
		undo: undo,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.members = map[uint64]struct{}{a.id: {}}
	return a
}

// Func wraps f as an action that cannot be undone.
func Func(name string, f Behavior, opts ...Option) *Action {
	return New(name, f, nil, append(opts, NotUndoable())...)
}

// OnUndo wraps f as an action that does nothing until it is undone.
func OnUndo(name string, f Behavior, opts ...Option) *Action {
	return New(name, nil, f, opts...)
}

// Name returns the diagnostic name.
func (a *Action) Name() string { return a.name }

// Context returns the attached context, or nil.
func (a *Action) Context() *domain.ActionContext { return a.ctx }

// Contains reports whether other has been composed into a (or is a).
func (a *Action) Contains(other *Action) bool {
	if other == nil {
		return false
	}
	_, ok := a.members[other.id]
	return ok
}

// Redo applies the action.
func (a *Action) Redo() {
	a.run(nil, true)
}

// Undo reverts the action. Composites undo their parts last-first.
func (a *Action) Undo() {
	a.run(nil, false)
}

func (a *Action) run(inherited *domain.ActionContext, forward bool) {
	ctx := a.ctx
	if ctx == nil {
		ctx = inherited
	}

	if a.parts == nil {
		fn := a.undo
		if forward {
			fn = a.redo
		}
		if fn != nil {
			fn(ctx)
		}
		return
	}

	if forward {
		for _, p := range a.parts {
			p.run(ctx, true)
		}
		return
	}
	for i := len(a.parts) - 1; i >= 0; i-- {
		a.parts[i].run(ctx, false)
	}
}

// Undoable evaluates the predicate now. A composite is undoable when all its parts are.
func (a *Action) Undoable() bool {
	if a.parts != nil {
		for _, p := range a.parts {
			if !p.Undoable() {
				return false
			}
		}
		return true
	}
	if a.undoable == nil {
		return true
	}
	return a.undoable()
}

// AndThen returns a composite that redoes a then other, and undoes other
// then a. If other is already part of a, a itself is returned. The
// composite keeps a's context, falling back to other's.
func (a *Action) AndThen(other *Action) *Action {
	if other == nil || a.Contains(other) {
		return a
	}

	ctx := a.ctx
	if ctx == nil {
		ctx = other.ctx
	}

	c := &Action{
		id:      nextID.Add(1),
		name:    a.name,
		ctx:     ctx,
		parts:   []*Action{a, other},
		members: make(map[uint64]struct{}, len(a.members)+len(other.members)+1),
	}
	for id := range a.members {
		c.members[id] = struct{}{}
	}
	for id := range other.members {
		c.members[id] = struct{}{}
	}
	c.members[c.id] = struct{}{}
	return c
}

// WithContext returns a copy of a bound to ctx. The copy keeps a's identity,
// so composing both into the same chain is still deduplicated.
func (a *Action) WithContext(ctx *domain.ActionContext) *Action {
	cp := *a
	cp.ctx = ctx
	return &cp
}

// WithName returns a copy of a with a different diagnostic name and the same identity.
func (a *Action) WithName(name string) *Action {
	cp := *a
	cp.name = name
	return &cp
}
