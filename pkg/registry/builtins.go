package registry

import (
	"math"
	"math/cmplx"

	"github.com/aretw0/calcgame/pkg/domain"
)

// Builtin priorities.
const (
	PriorityAdditive       = 1
	PriorityMultiplicative = 2
	PriorityPower          = 3
)

// Builtins returns a registry with the standard calculator operators and functions.
func Builtins(opts ...Option) *Registry {
	r := New(opts...)
	RegisterBuiltins(r)
	return r
}

// RegisterBuiltins installs the standard operators and functions into r.
func RegisterBuiltins(r *Registry) {
	r.RegisterOperator('+', PriorityAdditive, func(a, b domain.Number) domain.Number { return a + b })
	r.RegisterOperator('-', PriorityAdditive, func(a, b domain.Number) domain.Number { return a - b })
	r.RegisterOperator('*', PriorityMultiplicative, func(a, b domain.Number) domain.Number { return a * b })
	r.RegisterOperator('/', PriorityMultiplicative, divide)
	r.RegisterOperator('%', PriorityMultiplicative, modulo)
	r.RegisterOperator('^', PriorityPower, power)

	r.RegisterFunction("sqrt", lift(cmplx.Sqrt))
	r.RegisterFunction("exp", lift(cmplx.Exp))
	r.RegisterFunction("ln", lift(cmplx.Log))
	r.RegisterFunction("log", lift(cmplx.Log10))
	r.RegisterFunction("sin", lift(cmplx.Sin))
	r.RegisterFunction("cos", lift(cmplx.Cos))
	r.RegisterFunction("tan", lift(cmplx.Tan))
	r.RegisterFunction("conj", lift(cmplx.Conj))
	r.RegisterFunction("abs", func(x domain.Number) domain.Number { return domain.Real(cmplx.Abs(complex128(x))) })
	r.RegisterFunction("re", func(x domain.Number) domain.Number { return domain.Real(x.Re()) })
	r.RegisterFunction("im", func(x domain.Number) domain.Number { return domain.Real(x.Im()) })
}

func lift(f func(complex128) complex128) UnaryRule {
	return func(x domain.Number) domain.Number { return domain.Number(f(complex128(x))) }
}

// divide maps division of a non-zero real by zero to the Infinity sentinel
// instead of the component-wise NaN produced by complex division.
func divide(a, b domain.Number) domain.Number {
	if b == 0 {
		if a == 0 {
			return domain.Number(cmplx.NaN())
		}
		if a.IsReal() && a.Re() > 0 {
			return domain.Infinity
		}
		return domain.Number(cmplx.Inf())
	}
	return a / b
}

func modulo(a, b domain.Number) domain.Number {
	return domain.Real(math.Mod(a.Re(), b.Re()))
}

func power(a, b domain.Number) domain.Number {
	// Keep integer powers of reals exact and real.
	if a.IsReal() && b.IsReal() && b.Re() == math.Trunc(b.Re()) {
		return domain.Real(math.Pow(a.Re(), b.Re()))
	}
	return domain.Number(cmplx.Pow(complex128(a), complex128(b)))
}
