// Package mods installs formula-defined operators and functions into a registry.
package mods

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/calcgame/internal/logging"
	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/formula"
	"github.com/aretw0/calcgame/pkg/ports"
	"github.com/aretw0/calcgame/pkg/registry"
)

// ErrInvalidRule reports a rule that cannot be registered.
var ErrInvalidRule = errors.New("invalid mod rule")

// DefaultPriority is used for operators that declare none.
const DefaultPriority = registry.PriorityAdditive

// Install compiles each rule against the engine's registry and registers it
// there. Rules are applied in order, so a rule may build on earlier ones.
// Install stops at the first invalid rule.
func Install(eng *formula.Engine, rules []domain.ModRule, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewNop()
	}
	reg := eng.Registry()

	for _, rule := range rules {
		switch rule.Kind {
		case domain.RuleOperator:
			symbol, err := operatorSymbol(rule.Symbol)
			if err != nil {
				return fmt.Errorf("%w %s: %w", ErrInvalidRule, rule.ID, err)
			}
			apply, err := eng.CompileOperator(rule.Formula)
			if err != nil {
				return fmt.Errorf("%w %s: %w", ErrInvalidRule, rule.ID, err)
			}
			priority := rule.Priority
			if priority == 0 {
				priority = DefaultPriority
			}
			reg.RegisterOperator(symbol, priority, apply)
		case domain.RuleFunction:
			if err := functionName(rule.Name); err != nil {
				return fmt.Errorf("%w %s: %w", ErrInvalidRule, rule.ID, err)
			}
			apply, err := eng.CompileFunction(rule.Formula)
			if err != nil {
				return fmt.Errorf("%w %s: %w", ErrInvalidRule, rule.ID, err)
			}
			reg.RegisterFunction(rule.Name, apply)
		default:
			return fmt.Errorf("%w %s: unknown kind %q", ErrInvalidRule, rule.ID, rule.Kind)
		}
		logger.Info("mod rule installed", "rule", rule.ID, "kind", rule.Kind, "label", rule.Label())
	}
	return nil
}

// Load reads every rule from loader and installs it.
func Load(ctx context.Context, loader ports.ModLoader, eng *formula.Engine, logger *slog.Logger) ([]domain.ModRule, error) {
	rules, err := loader.LoadRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load mods: %w", err)
	}
	if err := Install(eng, rules, logger); err != nil {
		return nil, err
	}
	return rules, nil
}

func operatorSymbol(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	switch {
	case s == "" || size != len(s):
		return 0, fmt.Errorf("symbol %q must be a single character", s)
	case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
		return 0, fmt.Errorf("symbol %q would be read as an operand", s)
	case r == '(' || r == ')':
		return 0, fmt.Errorf("symbol %q is a bracket", s)
	}
	return r, nil
}

func functionName(name string) error {
	if name == "" {
		return errors.New("function name is empty")
	}
	for _, r := range name {
		if !unicode.IsLetter(r) {
			return fmt.Errorf("function name %q must contain only letters", name)
		}
	}
	return nil
}
