package formula_test

import (
	"testing"

	"github.com/aretw0/calcgame/pkg/formula"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalExpr(t *testing.T) {
	eng := newEngine()
	expr, err := eng.Parse("sqrt(x)*-(2+3j)")
	require.NoError(t, err)

	data, err := formula.MarshalExpr(expr)
	require.NoError(t, err)

	decoded, err := formula.UnmarshalExpr(data)
	require.NoError(t, err)
	assert.Equal(t, expr, decoded)
}

func TestUnmarshalExpr_Invalid(t *testing.T) {
	_, err := formula.UnmarshalExpr([]byte(`{"op":"+","left":{"const":["1","0"]}}`))
	assert.ErrorIs(t, err, formula.ErrMalformed)

	_, err = formula.UnmarshalExpr([]byte(`{"op":"++","left":{"var":"a"},"right":{"var":"b"}}`))
	assert.ErrorIs(t, err, formula.ErrMalformed)

	_, err = formula.UnmarshalExpr([]byte(`{}`))
	assert.ErrorIs(t, err, formula.ErrMalformed)

	_, err = formula.UnmarshalExpr([]byte(`not json`))
	assert.Error(t, err)
}
