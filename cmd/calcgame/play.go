package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/calcgame"
	"github.com/aretw0/calcgame/internal/cli"
	"github.com/aretw0/calcgame/internal/presentation/tui"
	loamAdapter "github.com/aretw0/calcgame/pkg/adapters/loam"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the calculator in the terminal",
	Long: `Starts an interactive calculator. The game is saved to the configured
store after every step and resumed the next time the same session is played.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSetup(cmd)
		if err != nil {
			return err
		}
		id, _ := cmd.Flags().GetString("session")
		watch, _ := cmd.Flags().GetBool("watch")
		noColor, _ := cmd.Flags().GetBool("no-color")
		if cmd.Flags().Changed("seed") {
			s.cfg.Seed, _ = cmd.Flags().GetUint64("seed")
		}

		backend, err := cli.OpenStore(s.cfg.Store)
		if err != nil {
			return err
		}
		defer backend.Close()

		opts := append(s.gameOptions(), calcgame.WithID(id))
		var loader *loamAdapter.Loader
		if watch {
			if s.cfg.Mods == "" {
				return fmt.Errorf("--watch needs a mods directory")
			}
			abs, err := filepath.Abs(s.cfg.Mods)
			if err != nil {
				return err
			}
			if loader, err = loamAdapter.Open(abs); err != nil {
				return err
			}
			opts = append(opts, calcgame.WithModLoader(loader))
		}

		game, err := calcgame.New(opts...)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		resumed, err := cli.Resume(ctx, backend.Store, game)
		if err != nil {
			return err
		}
		if resumed {
			s.logger.Info("resumed session", "session_id", id)
		}

		color := !noColor && term.IsTerminal(int(os.Stdout.Fd()))
		if term.IsTerminal(int(os.Stdin.Fd())) {
			tui.PrintBanner(os.Stdout, strings.TrimSpace(calcgame.Version))
		}

		playCfg := cli.PlayConfig{
			Game:   game,
			Store:  backend.Store,
			Color:  color,
			Logger: s.logger,
		}
		if loader != nil {
			playCfg.Mods = loader
			playCfg.Watcher = loader
		}
		return cli.Play(ctx, os.Stdin, os.Stdout, playCfg)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	addPlayFlags(playCmd)

	// Running calcgame without a command plays.
	addPlayFlags(rootCmd)
	rootCmd.RunE = playCmd.RunE
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("session", "s", "local", "Session to play and resume")
	cmd.Flags().Uint64("seed", 0, "Seed for the random draws of a new session")
	cmd.Flags().BoolP("watch", "w", false, "Reload mods when their files change")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
}
