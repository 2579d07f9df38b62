package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/calcgame/internal/presentation/tui"
	loamAdapter "github.com/aretw0/calcgame/pkg/adapters/loam"
	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/formula"
	"github.com/aretw0/calcgame/pkg/mods"
	"github.com/aretw0/calcgame/pkg/registry"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var modsCmd = &cobra.Command{
	Use:   "mods [dir]",
	Short: "List and check the mods of a directory",
	Long: `Loads every mod document, installs it into a scratch calculator and
prints the resulting rules. A rule whose formula does not compile fails the
command.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSetup(cmd)
		if err != nil {
			return err
		}
		dir := s.cfg.Mods
		if len(args) > 0 {
			dir = args[0]
		}
		if dir == "" {
			dir = "."
		}

		loader, err := loamAdapter.Open(dir)
		if err != nil {
			return err
		}
		eng := formula.New(registry.Builtins(registry.WithLogger(s.logger)))
		rules, err := mods.Load(cmd.Context(), loader, eng, s.logger)
		if err != nil {
			return err
		}

		render := tui.NewRenderer(term.IsTerminal(int(os.Stdout.Fd())))
		out, err := render(rulesMarkdown(dir, rules))
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modsCmd)
}

func rulesMarkdown(dir string, rules []domain.ModRule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Mods in %s\n\n", dir)
	if len(rules) == 0 {
		b.WriteString("No mods found.\n")
		return b.String()
	}

	b.WriteString("| rule | kind | priority | formula |\n|---|---|---|---|\n")
	for _, r := range rules {
		priority := ""
		if r.Kind == domain.RuleOperator {
			priority = fmt.Sprint(r.Priority)
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s | `%s` |\n", r.Label(), r.Kind, priority, r.Formula)
	}

	for _, r := range rules {
		if r.Description == "" {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", r.Label(), strings.TrimSpace(r.Description))
	}
	return b.String()
}
