package formula

import (
	"errors"
	"fmt"
)

// Parse error kinds.
var (
	ErrUnknownOperator   = errors.New("unknown operator")
	ErrUnknownFunction   = errors.New("unknown function")
	ErrUnclosedBracket   = errors.New("unclosed bracket")
	ErrUnexpectedBracket = errors.New("unexpected closing bracket")
	ErrMissingOperand    = errors.New("missing operand")
	ErrUnexpectedToken   = errors.New("unexpected token")
)

// Evaluation error kinds.
var (
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrMalformed         = errors.New("malformed formula")
)

// ParseError reports why a source string could not be compiled.
// Offset is the index of the offending character (in runes) in the original source.
type ParseError struct {
	Kind   error
	Offset int
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v at %d", e.Kind, e.Offset)
	}
	return fmt.Sprintf("%v at %d: %s", e.Kind, e.Offset, e.Detail)
}

func (e *ParseError) Unwrap() error { return e.Kind }

// EvalError reports why a tree could not be evaluated or counted.
type EvalError struct {
	Kind   error
	Detail string
}

func (e *EvalError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
}

func (e *EvalError) Unwrap() error { return e.Kind }

// InvariantError is the panic value used when a tree refers to an operator or
// function that is not in the registry it is evaluated against.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return "formula invariant violated: " + e.Detail
}

func malformed(format string, args ...any) error {
	return &EvalError{Kind: ErrMalformed, Detail: fmt.Sprintf(format, args...)}
}
