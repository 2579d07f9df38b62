package formula

import (
	"fmt"

	"github.com/aretw0/calcgame/pkg/domain"
)

// Evaluate computes the value of expr. Variables are resolved only against
// vars; a nil map is fine for variable-free trees.
func (e *Engine) Evaluate(expr Expr, vars map[string]domain.Number) (domain.Number, error) {
	switch n := expr.(type) {
	case Constant:
		return n.Value, nil
	case Variable:
		if v, ok := vars[n.Name]; ok {
			return v, nil
		}
		return 0, &EvalError{Kind: ErrUndefinedVariable, Detail: fmt.Sprintf("%q is not defined", n.Name)}
	case BinaryOp:
		if n.Left == nil || n.Right == nil {
			return 0, malformed("operator %q is missing an operand", n.Operator)
		}
		left, err := e.Evaluate(n.Left, vars)
		if err != nil {
			return 0, err
		}
		right, err := e.Evaluate(n.Right, vars)
		if err != nil {
			return 0, err
		}
		op, ok := e.reg.Operator(n.Operator)
		if !ok {
			panic(&InvariantError{Detail: fmt.Sprintf("operator %q is not registered", n.Operator)})
		}
		return op.Apply(left, right), nil
	case UnaryCall:
		if n.Arg == nil || n.Function == "" {
			return 0, malformed("function call is missing its function or argument")
		}
		arg, err := e.Evaluate(n.Arg, vars)
		if err != nil {
			return 0, err
		}
		fn, ok := e.reg.Function(n.Function)
		if !ok {
			panic(&InvariantError{Detail: fmt.Sprintf("function %q is not registered", n.Function)})
		}
		return fn.Apply(arg), nil
	case nil:
		return 0, malformed("empty node")
	default:
		return 0, malformed("unknown node type %T", expr)
	}
}

// CountOperations counts the operator and function nodes of expr.
// It fails with ErrMalformed exactly where Evaluate would.
func CountOperations(expr Expr) (int, error) {
	switch n := expr.(type) {
	case Constant, Variable:
		return 0, nil
	case BinaryOp:
		if n.Left == nil || n.Right == nil {
			return 0, malformed("operator %q is missing an operand", n.Operator)
		}
		left, err := CountOperations(n.Left)
		if err != nil {
			return 0, err
		}
		right, err := CountOperations(n.Right)
		if err != nil {
			return 0, err
		}
		return left + 1 + right, nil
	case UnaryCall:
		if n.Arg == nil || n.Function == "" {
			return 0, malformed("function call is missing its function or argument")
		}
		arg, err := CountOperations(n.Arg)
		if err != nil {
			return 0, err
		}
		return 1 + arg, nil
	case nil:
		return 0, malformed("empty node")
	default:
		return 0, malformed("unknown node type %T", expr)
	}
}
