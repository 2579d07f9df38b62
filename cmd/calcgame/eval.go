package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/calcgame"
	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <formula>",
	Short: "Evaluate a formula without playing",
	Long: `Evaluates a formula with the built-in operators and any installed mods.
Variables are given as name=formula and are evaluated first.`,
	Example: `  calcgame eval "1+2*3"
  calcgame eval --var x=2j "x*x+1"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSetup(cmd)
		if err != nil {
			return err
		}
		assignments, _ := cmd.Flags().GetStringArray("var")
		asJSON, _ := cmd.Flags().GetBool("json")

		game, err := calcgame.New(s.gameOptions()...)
		if err != nil {
			return err
		}

		vars := make(map[string]domain.Number, len(assignments))
		for _, a := range assignments {
			name, source, ok := strings.Cut(a, "=")
			if !ok || name == "" {
				return fmt.Errorf("invalid variable %q, expected name=formula", a)
			}
			value, err := game.Evaluate(source, vars)
			if err != nil {
				return fmt.Errorf("variable %s: %w", name, err)
			}
			vars[strings.TrimSpace(name)] = value.Value
		}

		result, err := game.Evaluate(args[0], vars)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		fmt.Printf("%s = %s  (%d operations)\n", result.Formatted, result.Display, result.Operations)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringArray("var", nil, "Variable binding as name=formula (repeatable)")
	evalCmd.Flags().Bool("json", false, "Print the evaluation as JSON")
}
