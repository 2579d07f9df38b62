package formula

import (
	"fmt"
	"unicode"

	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/registry"
)

// imaginaryUnit is the letter read as sqrt(-1).
const imaginaryUnit = 'j'

// Engine parses, evaluates and formats formulas against one registry.
type Engine struct {
	reg *registry.Registry
}

// New creates an Engine bound to reg.
func New(reg *registry.Registry) *Engine {
	return &Engine{reg: reg}
}

// Registry returns the registry the engine resolves symbols against.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// Parse compiles source into an expression tree.
// An empty (or blank) source is the constant 0.
func (e *Engine) Parse(source string) (Expr, error) {
	src, offsets := expandExponents([]rune(source))
	p := &parser{src: src, offsets: offsets, reg: e.reg}

	if err := p.checkBrackets(); err != nil {
		return nil, err
	}
	if p.skipSpace(0) == len(p.src) {
		return Constant{}, nil
	}

	expr, next, err := p.expr(0, registry.LowestPriority)
	if err != nil {
		return nil, err
	}
	if next < len(p.src) {
		// Only a closing bracket stops the top level early, and checkBrackets
		// has already rejected unmatched ones.
		return nil, p.fail(ErrUnexpectedBracket, next, "")
	}
	return expr, nil
}

// expandExponents rewrites an e/E between two digits into "*10^".
// The returned offsets map every rewritten rune back to its index in the input;
// the extra trailing entry is the end-of-input offset.
func expandExponents(in []rune) ([]rune, []int) {
	out := make([]rune, 0, len(in))
	offsets := make([]int, 0, len(in)+1)
	for i, r := range in {
		if (r == 'e' || r == 'E') && i > 0 && i+1 < len(in) && isDigit(in[i-1]) && isDigit(in[i+1]) {
			for _, x := range "*10^" {
				out = append(out, x)
				offsets = append(offsets, i)
			}
			continue
		}
		out = append(out, r)
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(in))
	return out, offsets
}

type parser struct {
	src     []rune
	offsets []int
	reg     *registry.Registry
}

func (p *parser) fail(kind error, pos int, format string, args ...any) error {
	if pos > len(p.src) {
		pos = len(p.src)
	}
	return &ParseError{Kind: kind, Offset: p.offsets[pos], Detail: fmt.Sprintf(format, args...)}
}

// checkBrackets reports bracket errors before anything else so that, for
// example, "sqrt(" is an unclosed bracket rather than a missing operand.
func (p *parser) checkBrackets() error {
	var open []int
	for i, r := range p.src {
		switch r {
		case '(':
			open = append(open, i)
		case ')':
			if len(open) == 0 {
				return p.fail(ErrUnexpectedBracket, i, "")
			}
			open = open[:len(open)-1]
		}
	}
	if len(open) > 0 {
		return p.fail(ErrUnclosedBracket, open[0], "")
	}
	return nil
}

func (p *parser) skipSpace(pos int) int {
	for pos < len(p.src) && (p.src[pos] == ' ' || p.src[pos] == '\t') {
		pos++
	}
	return pos
}

// expr parses operands joined by operators whose priority is strictly above
// threshold. It stops, without consuming, at the first operator at or below
// the threshold, at a closing bracket, or at the end of input, and returns the
// position it stopped at.
func (p *parser) expr(pos, threshold int) (Expr, int, error) {
	left, pos, err := p.operand(pos, threshold)
	if err != nil {
		return nil, pos, err
	}

	for {
		pos = p.skipSpace(pos)
		if pos >= len(p.src) || p.src[pos] == ')' {
			return left, pos, nil
		}

		c := p.src[pos]
		op, ok := p.reg.Operator(c)
		if !ok {
			if startsOperand(c) {
				return nil, pos, p.fail(ErrUnexpectedToken, pos, "%q after a complete operand", c)
			}
			return nil, pos, p.fail(ErrUnknownOperator, pos, "%q", c)
		}
		if op.Priority <= threshold {
			return left, pos, nil
		}

		right, next, err := p.expr(pos+1, op.Priority)
		if err != nil {
			return nil, next, err
		}
		left = BinaryOp{Left: left, Operator: c, Right: right}
		pos = next
	}
}

// operand parses one value: a number, a variable, a function call, a
// bracketed group or a unary minus applied to an operand.
func (p *parser) operand(pos, threshold int) (Expr, int, error) {
	pos = p.skipSpace(pos)
	if pos >= len(p.src) {
		return nil, pos, p.fail(ErrMissingOperand, pos, "unexpected end of input")
	}

	c := p.src[pos]
	switch {
	case c == '-':
		return p.negation(pos, threshold)
	case c == '(':
		return p.group(pos)
	case isDigit(c) || p.isImaginaryUnit(pos):
		return p.number(pos)
	case unicode.IsLetter(c):
		return p.identifier(pos)
	case c == ')':
		return nil, pos, p.fail(ErrMissingOperand, pos, "empty brackets")
	}

	if _, ok := p.reg.Operator(c); ok {
		return nil, pos, p.fail(ErrMissingOperand, pos, "operator %q where an operand was expected", c)
	}
	return nil, pos, p.fail(ErrUnknownOperator, pos, "%q", c)
}

// negation rewrites a leading minus as 0 - operand. The operand is bound at the
// enclosing operator's priority (never looser than minus itself) so that
// 2*-3+4 is (2*(0-3))+4 and 2--3-4 stays left associative.
func (p *parser) negation(pos, threshold int) (Expr, int, error) {
	minus, ok := p.reg.Operator('-')
	if !ok {
		return nil, pos, p.fail(ErrUnknownOperator, pos, "%q", '-')
	}
	bind := max(threshold, minus.Priority)
	arg, next, err := p.expr(pos+1, bind)
	if err != nil {
		return nil, next, err
	}
	return BinaryOp{Left: Constant{}, Operator: '-', Right: arg}, next, nil
}

// group parses "( expr )" starting at the opening bracket and returns the
// position just past the closing one.
func (p *parser) group(pos int) (Expr, int, error) {
	inner, next, err := p.expr(pos+1, registry.LowestPriority)
	if err != nil {
		return nil, next, err
	}
	if next >= len(p.src) || p.src[next] != ')' {
		return nil, next, p.fail(ErrUnclosedBracket, pos, "")
	}
	return inner, next + 1, nil
}

// number accumulates digits as value*10+digit; the imaginary unit multiplies
// the running value by i instead of adding a digit.
func (p *parser) number(pos int) (Expr, int, error) {
	var value domain.Number
	digits := false
	for pos < len(p.src) {
		c := p.src[pos]
		switch {
		case isDigit(c):
			value = value*10 + domain.Real(float64(c-'0'))
			digits = true
		case p.isImaginaryUnit(pos):
			if !digits {
				value = 1
				digits = true
			}
			value *= complex(0, 1)
		default:
			return Constant{Value: value}, pos, nil
		}
		pos++
	}
	return Constant{Value: value}, pos, nil
}

// identifier reads a run of letters: a call when directly followed by "(",
// otherwise a variable.
func (p *parser) identifier(pos int) (Expr, int, error) {
	start := pos
	for pos < len(p.src) && unicode.IsLetter(p.src[pos]) {
		pos++
	}
	name := string(p.src[start:pos])

	if pos >= len(p.src) || p.src[pos] != '(' {
		return Variable{Name: name}, pos, nil
	}

	if _, ok := p.reg.Function(name); !ok {
		return nil, start, p.fail(ErrUnknownFunction, start, "%q", name)
	}
	arg, next, err := p.group(pos)
	if err != nil {
		return nil, next, err
	}
	return UnaryCall{Arg: arg, Function: name}, next, nil
}

// isImaginaryUnit reports whether the rune at pos is a standalone imaginary
// unit rather than part of an identifier such as "conj".
func (p *parser) isImaginaryUnit(pos int) bool {
	if p.src[pos] != imaginaryUnit {
		return false
	}
	if pos > 0 && unicode.IsLetter(p.src[pos-1]) {
		return false
	}
	if pos+1 < len(p.src) {
		next := p.src[pos+1]
		if unicode.IsLetter(next) || next == '(' {
			return false
		}
	}
	return true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func startsOperand(r rune) bool {
	return isDigit(r) || unicode.IsLetter(r) || r == '('
}
