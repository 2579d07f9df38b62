package cli

import (
	"log/slog"
	"os"

	"github.com/aretw0/calcgame/internal/config"
	"github.com/aretw0/calcgame/internal/logging"
)

// NewLogger builds the application logger from the log settings. Debug
// overrides the configured level.
func NewLogger(cfg config.LogConfig, debug bool) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if debug {
		level = slog.LevelDebug
	}
	if cfg.JSON {
		return logging.NewWriter(os.Stderr, level, true), nil
	}
	return logging.New(level), nil
}
