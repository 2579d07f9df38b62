package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/calcgame"
	"github.com/aretw0/calcgame/internal/logging"
	"github.com/aretw0/calcgame/internal/presentation/tui"
	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/formula"
	"github.com/aretw0/calcgame/pkg/input"
	"github.com/aretw0/calcgame/pkg/mods"
	"github.com/aretw0/calcgame/pkg/ports"
	"golang.org/x/term"
)

const prompt = "calc> "

const helpText = `# calcgame

Type keys and they are appended to the screen. Every operation in a
successful calculation earns one coin.

| input      | effect                           |
|------------|----------------------------------|
| ` + "`1+2`" + `      | press keys                       |
| ` + "`=`" + `        | calculate the screen             |
| ` + "`1+2=`" + `     | press then calculate             |
| ` + "`c`" + `        | clear the screen                 |
| ` + "`u`" + `        | undo the last step               |
| ` + "`r`" + `        | redo                             |
| ` + "`:catalog`" + ` | list operators and functions     |
| ` + "`:quit`" + `    | leave (Ctrl-D works too)         |
`

// PlayConfig wires a REPL to a game.
type PlayConfig struct {
	Game *calcgame.Game
	// Store receives a snapshot after every change. Optional.
	Store ports.SnapshotStore
	// Mods is reloaded into the game registry whenever Watcher reports a change.
	Mods    ports.ModLoader
	Watcher ports.Watchable
	Color   bool
	Logger  *slog.Logger
}

type lineReader interface {
	ReadLine() (string, error)
}

type scanReader struct {
	scanner *bufio.Scanner
}

func (s scanReader) ReadLine() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

// lockedWriter serialises the REPL output with reload notices.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// Play runs the calculator REPL until the input ends, :quit is typed or ctx
// is cancelled. A terminal on in gets line editing; anything else is read
// line by line.
func Play(ctx context.Context, in io.Reader, out io.Writer, cfg PlayConfig) error {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			cfg.Logger.Warn("raw mode unavailable, falling back to line input", "err", err)
		} else {
			defer term.Restore(fd, oldState)
			t := term.NewTerminal(struct {
				io.Reader
				io.Writer
			}{in, out}, prompt)
			return loop(ctx, t, t, false, cfg)
		}
	}

	scanner := bufio.NewScanner(in)
	return loop(ctx, scanReader{scanner}, out, true, cfg)
}

func loop(ctx context.Context, lines lineReader, w io.Writer, echoPrompt bool, cfg PlayConfig) error {
	out := &lockedWriter{w: w}
	screen := tui.NewScreen(out, cfg.Color)
	render := tui.NewRenderer(cfg.Color)

	if cfg.Watcher != nil && cfg.Mods != nil {
		if err := watchMods(ctx, cfg, out); err != nil {
			return err
		}
	}

	screen.Render(cfg.Game.View())
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if echoPrompt {
			fmt.Fprint(out, prompt)
		}

		line, err := lines.ReadLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}

		cmd := ParseCommand(line)
		switch cmd.Kind {
		case CmdEmpty:
			continue
		case CmdQuit:
			return nil
		case CmdHelp:
			text, err := render(helpText)
			if err != nil {
				text = helpText
			}
			fmt.Fprint(out, text)
			continue
		case CmdCatalog:
			printCatalog(out, calcgame.Catalog(cfg.Game.Registry()))
			continue
		}

		if err := apply(cfg.Game, cmd); err != nil {
			screen.Error(err)
		}
		if err := persist(ctx, cfg.Store, cfg.Game); err != nil {
			cfg.Logger.Error("failed to save session", "session_id", cfg.Game.ID(), "err", err)
		}
		screen.Render(cfg.Game.View())
	}
}

// apply runs one game command. Rejected input leaves the game untouched.
func apply(game *calcgame.Game, cmd Command) error {
	switch cmd.Kind {
	case CmdPress, CmdCalculate:
		if cmd.Text != "" {
			text, err := input.Sanitize(cmd.Text)
			if err != nil {
				return err
			}
			game.Press(text)
		}
		if cmd.Kind == CmdCalculate {
			_, err := game.Calculate()
			return err
		}
	case CmdClear:
		game.Clear()
	case CmdUndo:
		return game.Undo()
	case CmdRedo:
		return game.Redo()
	}
	return nil
}

func persist(ctx context.Context, store ports.SnapshotStore, game *calcgame.Game) error {
	if store == nil {
		return nil
	}
	snap, err := game.Snapshot()
	if err != nil {
		return err
	}
	return store.Save(ctx, game.ID(), snap)
}

// Resume restores the game from its stored snapshot. It reports false when
// the store has no snapshot for the game yet.
func Resume(ctx context.Context, store ports.SnapshotStore, game *calcgame.Game) (bool, error) {
	snap, err := store.Load(ctx, game.ID())
	if errors.Is(err, domain.ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := game.Restore(snap); err != nil {
		return false, fmt.Errorf("restore session %s: %w", game.ID(), err)
	}
	return true, nil
}

func watchMods(ctx context.Context, cfg PlayConfig, out io.Writer) error {
	events, err := cfg.Watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch mods: %w", err)
	}
	go func() {
		for id := range events {
			rules, err := mods.Load(ctx, cfg.Mods, formula.New(cfg.Game.Registry()), cfg.Logger)
			if err != nil {
				cfg.Logger.Error("mod reload failed", "mod", id, "err", err)
				continue
			}
			fmt.Fprintf(out, "\n  mods reloaded after %s changed (%d rules)\n", id, len(rules))
		}
	}()
	return nil
}

func printCatalog(w io.Writer, cat domain.Catalog) {
	var b strings.Builder
	b.WriteString("  operators:")
	for _, op := range cat.Operators {
		fmt.Fprintf(&b, " %s(%d)", op.Symbol, op.Priority)
	}
	b.WriteString("\n  functions: ")
	b.WriteString(strings.Join(cat.Functions, " "))
	fmt.Fprintln(w, b.String())
}
