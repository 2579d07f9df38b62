package calcgame

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/calcgame/internal/runtime"
	loamAdapter "github.com/aretw0/calcgame/pkg/adapters/loam"
	"github.com/aretw0/calcgame/pkg/action"
	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/formula"
	"github.com/aretw0/calcgame/pkg/mods"
	"github.com/aretw0/calcgame/pkg/ports"
	"github.com/aretw0/calcgame/pkg/registry"
)

// Game is the high-level entry point for a single calculator game.
// It wraps the internal session and is not safe for concurrent use;
// serve several players through a Host instead.
type Game struct {
	session  *runtime.Session
	registry *registry.Registry
	loader   ports.ModLoader
	modsDir  string
	id       string
	seed     uint64
	seedSet  bool
	renderer func(domain.View)
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option defines a functional option for configuring a Game.
type Option func(*Game)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Game) {
		g.logger = logger
	}
}

// WithSeed seeds the random draw log so a game can be replayed.
func WithSeed(seed uint64) Option {
	return func(g *Game) {
		g.seed = seed
		g.seedSet = true
	}
}

// WithID names the session stored in snapshots.
func WithID(id string) Option {
	return func(g *Game) {
		g.id = id
	}
}

// WithRenderer registers a callback invoked after every visible change.
func WithRenderer(r func(domain.View)) Option {
	return func(g *Game) {
		g.renderer = r
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(g *Game) {
		g.hooks = g.hooks.Merge(hooks)
	}
}

// WithRegistry shares a registry between games. Mods installed by one game
// become visible to every game sharing it.
func WithRegistry(reg *registry.Registry) Option {
	return func(g *Game) {
		g.registry = reg
	}
}

// WithMods loads operator and function mods from a Loam repository at dir.
func WithMods(dir string) Option {
	return func(g *Game) {
		g.modsDir = dir
	}
}

// WithModLoader installs mods from a custom loader, bypassing Loam.
func WithModLoader(l ports.ModLoader) Option {
	return func(g *Game) {
		g.loader = l
	}
}

// New creates a game showing "0" with no money.
func New(opts ...Option) (*Game, error) {
	g := &Game{}
	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if g.registry == nil {
		g.registry = registry.Builtins(registry.WithLogger(g.logger))
	}

	if err := installMods(context.Background(), g.registry, g.loader, g.modsDir, g.logger); err != nil {
		return nil, err
	}

	sessionOpts := []runtime.SessionOption{
		runtime.WithID(g.id),
		runtime.WithSeed(g.seed),
		runtime.WithRegistry(g.registry),
		runtime.WithLifecycleHooks(g.hooks),
		runtime.WithLogger(g.logger),
	}
	if g.renderer != nil {
		sessionOpts = append(sessionOpts, runtime.WithRenderer(g.renderer))
	}
	g.session = runtime.NewSession(sessionOpts...)
	return g, nil
}

// installMods resolves the mod source (custom loader first, then a Loam
// directory) and installs its rules into reg.
func installMods(ctx context.Context, reg *registry.Registry, loader ports.ModLoader, dir string, logger *slog.Logger) error {
	if loader == nil && dir != "" {
		absPath, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("invalid mods path: %w", err)
		}
		if loader, err = loamAdapter.Open(absPath); err != nil {
			return err
		}
	}
	if loader == nil {
		return nil
	}
	_, err := mods.Load(ctx, loader, formula.New(reg), logger)
	return err
}

// ID returns the session identifier.
func (g *Game) ID() string { return g.session.ID() }

// View returns what the calculator currently shows.
func (g *Game) View() domain.View { return g.session.View() }

// Registry returns the operators and functions the game understands.
func (g *Game) Registry() *registry.Registry { return g.registry }

// Press types text on the calculator.
func (g *Game) Press(text string) domain.View {
	g.session.Press(text)
	return g.session.View()
}

// Clear resets the screen to "0".
func (g *Game) Clear() domain.View {
	g.session.Clear()
	return g.session.View()
}

// Calculate evaluates the screen and rewards the operations it contains.
// A formula error resets the screen and is returned; use IsFormulaError to
// tell it from other failures.
func (g *Game) Calculate() (domain.Evaluation, error) {
	calc, err := g.session.Calculate()
	if err != nil {
		return domain.Evaluation{}, err
	}
	formatted, err := g.session.Engine().Format(calc.Expr, formula.SourceNumber)
	if err != nil {
		return domain.Evaluation{}, err
	}
	return domain.Evaluation{
		Source:     calc.Source,
		Value:      calc.Value,
		Display:    calc.Display,
		Formatted:  formatted,
		Operations: calc.Operations,
	}, nil
}

// Undo reverts the last step.
func (g *Game) Undo() error { return g.session.Undo() }

// Redo re-applies the step after the cursor.
func (g *Game) Redo() error { return g.session.Redo() }

// On registers a listener for a game event. Its effects join the undo step
// that triggered the event.
func (g *Game) On(event, id string, listener *action.Action) {
	g.session.On(event, id, listener)
}

// Off removes a listener.
func (g *Game) Off(event, id string) {
	g.session.Off(event, id)
}

// Session exposes the runtime session for listeners that need the draw log
// or the money.
func (g *Game) Session() *runtime.Session { return g.session }

// Snapshot captures the persistable state of the game.
func (g *Game) Snapshot() (*domain.Snapshot, error) {
	return g.session.Snapshot()
}

// Restore replaces the game state with snap.
func (g *Game) Restore(snap *domain.Snapshot) error {
	return g.session.Restore(snap)
}

// Evaluate computes a formula with the game's registry without touching its state.
func (g *Game) Evaluate(source string, vars map[string]domain.Number) (domain.Evaluation, error) {
	return Evaluate(formula.New(g.registry), source, vars)
}

// Evaluate parses and evaluates source against eng, reporting the fully
// parenthesised form and the number of operations.
func Evaluate(eng *formula.Engine, source string, vars map[string]domain.Number) (domain.Evaluation, error) {
	expr, err := eng.Parse(source)
	if err != nil {
		return domain.Evaluation{}, err
	}
	value, err := eng.Evaluate(expr, vars)
	if err != nil {
		return domain.Evaluation{}, err
	}
	ops, err := formula.CountOperations(expr)
	if err != nil {
		return domain.Evaluation{}, err
	}
	formatted, err := eng.Format(expr, formula.SourceNumber)
	if err != nil {
		return domain.Evaluation{}, err
	}
	return domain.Evaluation{
		Source:     source,
		Value:      value,
		Display:    value.String(),
		Formatted:  formatted,
		Operations: ops,
	}, nil
}

// Catalog lists the operators and functions of reg.
func Catalog(reg *registry.Registry) domain.Catalog {
	cat := domain.Catalog{
		Operators: []domain.OperatorInfo{},
		Functions: []string{},
	}
	for _, op := range reg.Operators() {
		cat.Operators = append(cat.Operators, domain.OperatorInfo{Symbol: string(op.Symbol), Priority: op.Priority})
	}
	for _, fn := range reg.Functions() {
		cat.Functions = append(cat.Functions, fn.Name)
	}
	return cat
}

// IsFormulaError reports whether err came from parsing or evaluating the screen.
func IsFormulaError(err error) bool {
	return runtime.IsFormulaError(err)
}
