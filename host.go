package calcgame

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/formula"
	"github.com/aretw0/calcgame/pkg/ports"
	"github.com/aretw0/calcgame/pkg/registry"
	"github.com/aretw0/calcgame/pkg/session"
	"github.com/google/uuid"
)

// Host serves many games at once. Live games keep their undo history in
// memory; every change is persisted as a snapshot through the session
// manager, and a game missing from memory is restored from its snapshot.
type Host struct {
	manager  *session.Manager
	registry *registry.Registry
	engine   *formula.Engine
	hooks    domain.LifecycleHooks
	seed     *uint64
	logger   *slog.Logger

	mu    sync.Mutex
	games map[string]*Game
}

var _ ports.GameService = (*Host)(nil)

// NewHost creates a host over manager. The options apply to every game it
// creates; mods are installed once into a registry shared by all of them.
func NewHost(manager *session.Manager, opts ...Option) (*Host, error) {
	tmpl := &Game{}
	for _, opt := range opts {
		opt(tmpl)
	}
	if tmpl.logger == nil {
		tmpl.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if tmpl.registry == nil {
		tmpl.registry = registry.Builtins(registry.WithLogger(tmpl.logger))
	}
	if err := installMods(context.Background(), tmpl.registry, tmpl.loader, tmpl.modsDir, tmpl.logger); err != nil {
		return nil, err
	}

	h := &Host{
		manager:  manager,
		registry: tmpl.registry,
		engine:   formula.New(tmpl.registry),
		hooks:    tmpl.hooks,
		logger:   tmpl.logger,
		games:    make(map[string]*Game),
	}
	if tmpl.seedSet {
		seed := tmpl.seed
		h.seed = &seed
	}
	return h, nil
}

// newGame builds a game for id. Without a fixed seed each session draws
// from its own stream, seeded from the session id.
func (h *Host) newGame(id string) (*Game, error) {
	seed := seedFor(id)
	if h.seed != nil {
		seed = *h.seed
	}
	g, err := New(
		WithID(id),
		WithSeed(seed),
		WithRegistry(h.registry),
		WithHooks(h.hooks),
		WithLogger(h.logger.With("session_id", id)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create game %s: %w", id, err)
	}
	return g, nil
}

func seedFor(id string) uint64 {
	u, err := uuid.Parse(id)
	if err != nil {
		u = uuid.NewSHA1(uuid.NameSpaceOID, []byte(id))
	}
	return binary.BigEndian.Uint64(u[:8]) ^ binary.BigEndian.Uint64(u[8:])
}

// Manager returns the session manager persisting the games.
func (h *Host) Manager() *session.Manager { return h.manager }

// Registry returns the registry shared by every game.
func (h *Host) Registry() *registry.Registry { return h.registry }

// Create starts a new session and returns its ID.
func (h *Host) Create(ctx context.Context) (string, domain.View, error) {
	id := uuid.NewString()
	g, err := h.newGame(id)
	if err != nil {
		return "", domain.View{}, err
	}

	err = h.manager.WithLock(ctx, id, func(ctx context.Context) error {
		snap, err := g.Snapshot()
		if err != nil {
			return err
		}
		if err := h.manager.Store().Save(ctx, id, snap); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		h.mu.Lock()
		h.games[id] = g
		h.mu.Unlock()
		return nil
	})
	if err != nil {
		return "", domain.View{}, err
	}
	h.logger.Info("session created", "session_id", id)
	return id, g.View(), nil
}

// View returns the current view of a session.
func (h *Host) View(ctx context.Context, sessionID string) (domain.View, error) {
	var view domain.View
	err := h.manager.WithLock(ctx, sessionID, func(ctx context.Context) error {
		g, err := h.live(ctx, sessionID)
		if err != nil {
			return err
		}
		view = g.View()
		return nil
	})
	return view, err
}

// Press types text on the calculator of a session.
func (h *Host) Press(ctx context.Context, sessionID, text string) (domain.View, error) {
	return h.mutate(ctx, sessionID, func(g *Game) error {
		g.Press(text)
		return nil
	})
}

// Clear resets the screen of a session.
func (h *Host) Clear(ctx context.Context, sessionID string) (domain.View, error) {
	return h.mutate(ctx, sessionID, func(g *Game) error {
		g.Clear()
		return nil
	})
}

// Calculate evaluates the screen of a session. A formula error is returned
// along with the view of the reset screen.
func (h *Host) Calculate(ctx context.Context, sessionID string) (domain.View, error) {
	return h.mutate(ctx, sessionID, func(g *Game) error {
		_, err := g.Calculate()
		return err
	})
}

// Undo reverts the last step of a session.
func (h *Host) Undo(ctx context.Context, sessionID string) (domain.View, error) {
	return h.mutate(ctx, sessionID, (*Game).Undo)
}

// Redo re-applies the next step of a session.
func (h *Host) Redo(ctx context.Context, sessionID string) (domain.View, error) {
	return h.mutate(ctx, sessionID, (*Game).Redo)
}

// Delete ends a session and removes its snapshot.
func (h *Host) Delete(ctx context.Context, sessionID string) error {
	return h.manager.WithLock(ctx, sessionID, func(ctx context.Context) error {
		h.mu.Lock()
		delete(h.games, sessionID)
		h.mu.Unlock()
		return h.manager.Store().Delete(ctx, sessionID)
	})
}

// List returns the IDs of the stored sessions.
func (h *Host) List(ctx context.Context) ([]string, error) {
	return h.manager.List(ctx)
}

// Evaluate computes a formula without touching any session.
func (h *Host) Evaluate(_ context.Context, source string, vars map[string]domain.Number) (domain.Evaluation, error) {
	return Evaluate(h.engine, source, vars)
}

// Catalog lists the registered operators and functions.
func (h *Host) Catalog() domain.Catalog {
	return Catalog(h.registry)
}

// mutate runs fn on the live game and persists the result. The error of fn
// is returned with the view, so callers see the state a failed operation left.
func (h *Host) mutate(ctx context.Context, sessionID string, fn func(*Game) error) (domain.View, error) {
	var view domain.View
	var opErr error
	err := h.manager.WithLock(ctx, sessionID, func(ctx context.Context) error {
		g, err := h.live(ctx, sessionID)
		if err != nil {
			return err
		}
		opErr = fn(g)

		snap, err := g.Snapshot()
		if err != nil {
			return err
		}
		if err := h.manager.Store().Save(ctx, sessionID, snap); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		view = g.View()
		return nil
	})
	if err != nil {
		return domain.View{}, err
	}
	return view, opErr
}

// live returns the in-memory game for sessionID, restoring it from the store
// when it is missing or when another process changed the stored snapshot.
// The caller holds the session lock.
func (h *Host) live(ctx context.Context, sessionID string) (*Game, error) {
	stored, err := h.manager.Store().Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			h.mu.Lock()
			delete(h.games, sessionID)
			h.mu.Unlock()
		}
		return nil, err
	}

	h.mu.Lock()
	g, ok := h.games[sessionID]
	h.mu.Unlock()
	if ok {
		current, err := g.Snapshot()
		if err == nil && sameState(current, stored) {
			return g, nil
		}
		h.logger.Debug("live session is stale, restoring", "session_id", sessionID)
	}

	g, err = h.newGame(sessionID)
	if err != nil {
		return nil, err
	}
	if err := g.Restore(stored); err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	h.mu.Lock()
	h.games[sessionID] = g
	h.mu.Unlock()
	return g, nil
}

func sameState(a, b *domain.Snapshot) bool {
	if a.Screen != b.Screen || a.Money != b.Money {
		return false
	}
	if a.History.Cursor != b.History.Cursor || len(a.History.Entries) != len(b.History.Entries) {
		return false
	}
	for i := range a.History.Entries {
		if a.History.Entries[i] != b.History.Entries[i] {
			return false
		}
	}
	return a.Random.Cursor == b.Random.Cursor && len(a.Random.Draws) == len(b.Random.Draws)
}
