package formula

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/calcgame/pkg/domain"
)

// NumberFormatter renders constants when formatting a tree.
type NumberFormatter func(domain.Number) string

// Format reconstructs a fully parenthesised source form of expr.
// With a nil formatter constants are written with SourceNumber.
func (e *Engine) Format(expr Expr, format NumberFormatter) (string, error) {
	if format == nil {
		format = SourceNumber
	}
	var sb strings.Builder
	if err := e.format(&sb, expr, format); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (e *Engine) format(sb *strings.Builder, expr Expr, format NumberFormatter) error {
	switch n := expr.(type) {
	case Constant:
		sb.WriteString(format(n.Value))
	case Variable:
		sb.WriteString(n.Name)
	case BinaryOp:
		if n.Left == nil || n.Right == nil {
			return malformed("operator %q is missing an operand", n.Operator)
		}
		if _, ok := e.reg.Operator(n.Operator); !ok {
			panic(&InvariantError{Detail: fmt.Sprintf("operator %q is not registered", n.Operator)})
		}
		sb.WriteByte('(')
		if err := e.format(sb, n.Left, format); err != nil {
			return err
		}
		sb.WriteRune(n.Operator)
		if err := e.format(sb, n.Right, format); err != nil {
			return err
		}
		sb.WriteByte(')')
	case UnaryCall:
		if n.Arg == nil || n.Function == "" {
			return malformed("function call is missing its function or argument")
		}
		if _, ok := e.reg.Function(n.Function); !ok {
			panic(&InvariantError{Detail: fmt.Sprintf("function %q is not registered", n.Function)})
		}
		sb.WriteString(n.Function)
		sb.WriteByte('(')
		if err := e.format(sb, n.Arg, format); err != nil {
			return err
		}
		sb.WriteByte(')')
	case nil:
		return malformed("empty node")
	default:
		return malformed("unknown node type %T", expr)
	}
	return nil
}

// SourceNumber writes plain digits for reals, a trailing j for imaginary
// parts and a bracketed sum for both. Only integer components parse back to
// the same value; fractions and non-finite components use Go float syntax,
// which the parser does not read.
func SourceNumber(n domain.Number) string {
	re, im := n.Re(), n.Im()
	switch {
	case im == 0:
		return sourceReal(re)
	case re == 0:
		return sourceReal(im) + "j"
	}
	return "(" + sourceReal(re) + "+" + sourceReal(im) + "j)"
}

func sourceReal(x float64) string {
	if x == math.Trunc(x) && !math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}
