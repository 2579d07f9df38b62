package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/calcgame"
	"github.com/aretw0/calcgame/internal/cli"
	"github.com/aretw0/calcgame/internal/config"
	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/observability"
	"github.com/aretw0/calcgame/pkg/session"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "calcgame",
	Short: "A calculator that pays you for every operation",
	Long: `calcgame is a complex-number calculator game. Every operation in a
successful calculation earns money, every step can be undone, and new
operators or functions can be added as mods written in Markdown or JSON.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Settings file (default "+config.DefaultFile+" when present)")
	rootCmd.PersistentFlags().String("mods", "", "Directory containing operator and function mods")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// setup is the configuration shared by every command.
type setup struct {
	cfg    config.Config
	logger *slog.Logger
}

func loadSetup(cmd *cobra.Command) (*setup, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("mods") {
		cfg.Mods, _ = cmd.Flags().GetString("mods")
	}

	debug, _ := cmd.Flags().GetBool("debug")
	logger, err := cli.NewLogger(cfg.Log, debug)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return &setup{cfg: cfg, logger: logger}, nil
}

// gameOptions are the options every game built by the CLI shares.
func (s *setup) gameOptions() []calcgame.Option {
	opts := []calcgame.Option{
		calcgame.WithLogger(s.logger),
		calcgame.WithHooks(observability.LogHooks(s.logger)),
	}
	if s.cfg.Mods != "" {
		opts = append(opts, calcgame.WithMods(s.cfg.Mods))
	}
	if s.cfg.Seed != 0 {
		opts = append(opts, calcgame.WithSeed(s.cfg.Seed))
	}
	return opts
}

// openHost builds a multi-session host over the configured store.
func (s *setup) openHost(hooks domain.LifecycleHooks) (*calcgame.Host, *cli.Backend, error) {
	backend, err := cli.OpenStore(s.cfg.Store)
	if err != nil {
		return nil, nil, err
	}

	managerOpts := []session.Option{session.WithLogger(s.logger)}
	if backend.Locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(backend.Locker))
	}
	manager := session.NewManager(backend.Store, managerOpts...)

	host, err := calcgame.NewHost(manager, append(s.gameOptions(), calcgame.WithHooks(hooks))...)
	if err != nil {
		_ = backend.Close()
		return nil, nil, err
	}
	return host, backend, nil
}
