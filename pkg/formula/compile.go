package formula

import (
	"fmt"
	"math"
	"slices"

	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/registry"
)

// Bindings available to formula-defined rules.
const (
	OperandLeft  = "a"
	OperandRight = "b"
	Argument     = "x"
)

// CompileOperator turns a formula over a and b into an operator rule.
// The formula is resolved against a copy of the current registry, so a rule
// that mentions its own symbol uses the previous definition.
func (e *Engine) CompileOperator(source string) (registry.BinaryRule, error) {
	expr, eng, err := e.compile(source, OperandLeft, OperandRight)
	if err != nil {
		return nil, err
	}
	return func(a, b domain.Number) domain.Number {
		return eng.evalRule(expr, map[string]domain.Number{OperandLeft: a, OperandRight: b})
	}, nil
}

// CompileFunction turns a formula over x into a function rule.
func (e *Engine) CompileFunction(source string) (registry.UnaryRule, error) {
	expr, eng, err := e.compile(source, Argument)
	if err != nil {
		return nil, err
	}
	return func(x domain.Number) domain.Number {
		return eng.evalRule(expr, map[string]domain.Number{Argument: x})
	}, nil
}

func (e *Engine) compile(source string, allowed ...string) (Expr, *Engine, error) {
	eng := New(e.reg.Clone())
	expr, err := eng.Parse(source)
	if err != nil {
		return nil, nil, err
	}
	for _, name := range Variables(expr) {
		if !slices.Contains(allowed, name) {
			return nil, nil, &EvalError{
				Kind:   ErrUndefinedVariable,
				Detail: fmt.Sprintf("%q is not one of %v", name, allowed),
			}
		}
	}
	return expr, eng, nil
}

// evalRule evaluates a validated rule body. Every variable is bound, so the
// only failure left is a malformed tree, which yields NaN.
func (e *Engine) evalRule(expr Expr, vars map[string]domain.Number) domain.Number {
	v, err := e.Evaluate(expr, vars)
	if err != nil {
		return domain.Real(math.NaN())
	}
	return v
}
