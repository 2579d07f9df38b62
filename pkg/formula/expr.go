package formula

import "github.com/aretw0/calcgame/pkg/domain"

// Expr is a node of an expression tree. Trees are immutable once built.
type Expr interface {
	isExpr()
}

// Constant is a literal value.
type Constant struct {
	Value domain.Number
}

// Variable is resolved against the bindings passed to Evaluate.
type Variable struct {
	Name string
}

// BinaryOp applies the operator registered under Operator.
type BinaryOp struct {
	Left     Expr
	Operator rune
	Right    Expr
}

// UnaryCall applies the function registered under Function.
type UnaryCall struct {
	Arg      Expr
	Function string
}

func (Constant) isExpr()  {}
func (Variable) isExpr()  {}
func (BinaryOp) isExpr()  {}
func (UnaryCall) isExpr() {}

// Variables returns the distinct variable names referenced by e, in first-seen order.
func Variables(e Expr) []string {
	seen := make(map[string]bool)
	var names []string
	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case Variable:
			if !seen[n.Name] {
				seen[n.Name] = true
				names = append(names, n.Name)
			}
		case BinaryOp:
			walk(n.Left)
			walk(n.Right)
		case UnaryCall:
			walk(n.Arg)
		}
	}
	walk(e)
	return names
}
