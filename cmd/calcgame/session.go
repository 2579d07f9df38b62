package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/calcgame/internal/cli"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage saved games",
	Long:  `List, inspect, and remove sessions saved in the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all saved sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer backend.Close()

		sessions, err := backend.Store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No saved sessions found.")
			return nil
		}

		fmt.Println("Saved Sessions:")
		for _, s := range sessions {
			fmt.Println("- " + s)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Print the snapshot of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer backend.Close()

		snap, err := backend.Store.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("loading session '%s': %w", args[0], err)
		}
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer backend.Close()

		var errs []error
		for _, id := range args {
			if err := backend.Store.Delete(cmd.Context(), id); err != nil {
				errs = append(errs, fmt.Errorf("removing '%s': %w", id, err))
				continue
			}
			fmt.Printf("Removed session '%s'\n", id)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}

func openBackend(cmd *cobra.Command) (*cli.Backend, error) {
	s, err := loadSetup(cmd)
	if err != nil {
		return nil, err
	}
	return cli.OpenStore(s.cfg.Store)
}
