package runtime

import (
	"log/slog"

	"github.com/aretw0/calcgame/internal/logging"
	"github.com/aretw0/calcgame/pkg/action"
	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/formula"
	"github.com/aretw0/calcgame/pkg/history"
	"github.com/aretw0/calcgame/pkg/registry"
	"github.com/aretw0/calcgame/pkg/replay"
)

// Renderer receives the visible state every time it changes.
type Renderer func(domain.View)

// Session owns the state of one calculator game: the screen, the money, the
// action history and the random draw log. It is not safe for concurrent use.
type Session struct {
	id      string
	screen  string
	money   domain.Number
	last    formula.Expr
	seed    uint64
	engine  *formula.Engine
	draws   *replay.DrawLog
	history *history.History
	events  map[string]*event
	render  Renderer
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	reg     *registry.Registry
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithID sets the session identifier stored in snapshots.
func WithID(id string) SessionOption {
	return func(s *Session) {
		s.id = id
	}
}

// WithSeed seeds the random draw log.
func WithSeed(seed uint64) SessionOption {
	return func(s *Session) {
		s.seed = seed
	}
}

// WithRegistry sets the operators and functions the calculator understands.
func WithRegistry(reg *registry.Registry) SessionOption {
	return func(s *Session) {
		s.reg = reg
	}
}

// WithRenderer sets the callback invoked after every visible change.
func WithRenderer(r Renderer) SessionOption {
	return func(s *Session) {
		s.render = r
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) SessionOption {
	return func(s *Session) {
		s.hooks = s.hooks.Merge(hooks)
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession creates a session showing the default screen and no money.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		screen: domain.DefaultScreen,
		events: make(map[string]*event),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reg == nil {
		s.reg = registry.Builtins(registry.WithLogger(s.logger))
	}
	s.engine = formula.New(s.reg)
	s.draws = replay.New(s.seed)
	s.history = history.New(s.draws,
		history.WithLogger(s.logger),
		history.WithHooks(s.hooks),
	)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Engine returns the formula engine bound to the session registry.
func (s *Session) Engine() *formula.Engine { return s.engine }

// Screen returns the calculator screen text.
func (s *Session) Screen() string { return s.screen }

// Money returns the current balance.
func (s *Session) Money() domain.Number { return s.money }

// LastFormula returns the tree of the last successful calculation, or nil.
func (s *Session) LastFormula() formula.Expr { return s.last }

// View returns what the presentation layer draws.
func (s *Session) View() domain.View {
	return domain.View{
		Screen:  s.screen,
		Money:   s.money,
		Cursor:  s.history.Cursor(),
		Entries: s.history.Len(),
		CanUndo: s.history.CanUndo(),
		CanRedo: s.history.CanRedo(),
	}
}

// SetScreen replaces the screen text. A leading zero is dropped from longer
// text and a complex number with no imaginary part is unwrapped.
func (s *Session) SetScreen(text string) {
	s.screen = NormalizeScreen(text)
	s.changed()
}

// AddMoney adds delta to the balance.
func (s *Session) AddMoney(delta domain.Number) {
	s.money += delta
	s.changed()
}

// NextInt draws a replay-safe random int in [min, max).
func (s *Session) NextInt(min, max int) int {
	return s.draws.NextInt(min, max)
}

// Chance reports true with probability a/b using a replay-safe draw.
func (s *Session) Chance(a, b int) bool {
	return s.draws.Chance(a, b)
}

// DoAction records and runs a as a new undo step.
func (s *Session) DoAction(a *action.Action) {
	s.history.Do(a)
	s.changed()
}

// AppendToLastAction folds a into the most recent undo step. The caller runs
// the returned action.
func (s *Session) AppendToLastAction(a *action.Action) *action.Action {
	return s.history.AppendToLast(a)
}

// AppendToNextAction queues a to run first in the next undo step.
func (s *Session) AppendToNextAction(a *action.Action) {
	s.history.AppendToNext(a)
}

// CurrentActionContext returns the context of the most recent undo step.
func (s *Session) CurrentActionContext() *domain.ActionContext {
	return s.history.CurrentContext()
}

func (s *Session) changed() {
	if s.render != nil {
		s.render(s.View())
	}
}

func (s *Session) context(element string) *domain.ActionContext {
	return &domain.ActionContext{
		Element: element,
		Screen:  s.screen,
		Logger:  s.logger,
	}
}
