package formula_test

import (
	"testing"

	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/formula"
	"github.com/aretw0/calcgame/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_Variables(t *testing.T) {
	eng := newEngine()
	expr, err := eng.Parse("x*2+y")
	require.NoError(t, err)

	got, err := eng.Evaluate(expr, map[string]domain.Number{"x": 3, "y": 1})
	require.NoError(t, err)
	assert.Equal(t, domain.Number(7), got)

	_, err = eng.Evaluate(expr, map[string]domain.Number{"x": 3})
	assert.ErrorIs(t, err, formula.ErrUndefinedVariable)
}

func TestEvaluate_Malformed(t *testing.T) {
	eng := newEngine()

	trees := map[string]formula.Expr{
		"nil":          nil,
		"missing left": formula.BinaryOp{Operator: '+', Right: formula.Constant{Value: 1}},
		"missing arg":  formula.UnaryCall{Function: "sqrt"},
		"missing name": formula.UnaryCall{Arg: formula.Constant{Value: 1}},
	}

	for name, tree := range trees {
		t.Run(name, func(t *testing.T) {
			_, err := eng.Evaluate(tree, nil)
			assert.ErrorIs(t, err, formula.ErrMalformed)

			_, err = formula.CountOperations(tree)
			assert.ErrorIs(t, err, formula.ErrMalformed)
		})
	}
}

func TestEvaluate_UnregisteredSymbolPanics(t *testing.T) {
	eng := formula.New(registry.New())

	assert.PanicsWithError(t, "formula invariant violated: operator '+' is not registered", func() {
		_, _ = eng.Evaluate(formula.BinaryOp{
			Left: formula.Constant{Value: 1}, Operator: '+', Right: formula.Constant{Value: 2},
		}, nil)
	})
	assert.Panics(t, func() {
		_, _ = eng.Evaluate(formula.UnaryCall{Arg: formula.Constant{}, Function: "sqrt"}, nil)
	})
}

func TestCountOperations(t *testing.T) {
	eng := newEngine()

	tests := map[string]int{
		"":            0,
		"42":          0,
		"x":           0,
		"1+2":         1,
		"sqrt(2+3)*4": 3,
		"-5":          1,
		"1e3":         2,
	}

	for source, want := range tests {
		t.Run(source, func(t *testing.T) {
			expr, err := eng.Parse(source)
			require.NoError(t, err)

			got, err := formula.CountOperations(expr)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestFormat(t *testing.T) {
	eng := newEngine()

	tests := map[string]string{
		"2+3*4":     "(2+(3*4))",
		"-3":        "(0-3)",
		"sqrt(x)^2": "(sqrt(x)^2)",
		"3+2j":      "(3+2j)",
		"":          "0",
		"conj(j)":   "conj(1j)",
	}

	for source, want := range tests {
		t.Run(source, func(t *testing.T) {
			expr, err := eng.Parse(source)
			require.NoError(t, err)

			got, err := eng.Format(expr, nil)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestFormat_CustomFormatter(t *testing.T) {
	eng := newEngine()
	expr, err := eng.Parse("1+2")
	require.NoError(t, err)

	got, err := eng.Format(expr, func(n domain.Number) string { return "<" + n.String() + ">" })
	require.NoError(t, err)
	assert.Equal(t, "(<1>+<2>)", got)
}

func TestFormat_RoundTrip(t *testing.T) {
	eng := newEngine()

	sources := []string{
		"2+3*4",
		"2-3-4",
		"-(2+3)",
		"2*-3+4",
		"sqrt(16)+exp(0)",
		"(1+2j)*(3-j)",
		"2^10%7",
		"x*y-x",
	}
	vars := map[string]domain.Number{"x": 5, "y": complex(1, -2)}

	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			expr, err := eng.Parse(source)
			require.NoError(t, err)
			want, err := eng.Evaluate(expr, vars)
			require.NoError(t, err)

			text, err := eng.Format(expr, nil)
			require.NoError(t, err)
			again, err := eng.Parse(text)
			require.NoError(t, err, "reparse %q", text)

			got, err := eng.Evaluate(again, vars)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}
