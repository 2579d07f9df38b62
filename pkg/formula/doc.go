/*
Package formula compiles calculator input into an expression tree and evaluates it.

Parsing is a single left-to-right scan using priority climbing against a
registry.Registry: operators, their priorities and functions are all looked up
at parse time, so mods can extend the language without touching this package.

	eng := formula.New(registry.Builtins())
	expr, err := eng.Parse("2+3*4")
	value, err := eng.Evaluate(expr, nil) // 14
	ops, err := formula.CountOperations(expr) // 2

Errors come in two families, ParseError and EvalError, both carrying a sentinel
Kind usable with errors.Is. A tree that references an operator or function no
longer present in the registry is an internal inconsistency and panics with an
*InvariantError.
*/
package formula
