package goroots_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goroots"
)

func TestNewton_Sqrt2(t *testing.T) {
	res, err := goroots.Newton(goroots.MustParse("x^2 - 2"), 1, goroots.DefaultOptions())
	require.NoError(t, err)

	assert.InDelta(t, math.Sqrt2, res.Root.Or(0), 1e-9)
	assert.Equal(t, 4, res.Iterations)
	assert.True(t, res.Converged)
	assert.Equal(t, goroots.MethodNewton, res.Method)

	first := res.Trace[0]
	assert.Equal(t, goroots.Some(1), first.Left)
	assert.False(t, first.Right.Valid())
	assert.Equal(t, 1.5, first.Estimate)
	assert.Equal(t, 0.25, first.Value)

	for i := 1; i < len(res.Trace); i++ {
		assert.Equal(t, goroots.Some(res.Trace[i-1].Estimate), res.Trace[i].Left)
	}
}

func TestNewton_ResidualIsTheStoppingRule(t *testing.T) {
	res, err := goroots.Newton(goroots.MustParse("cos(x) - x"), 1, goroots.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Iterations)

	last, ok := res.Trace.Last()
	require.True(t, ok)
	assert.LessOrEqual(t, math.Abs(last.Value), goroots.DefaultTolerance)
}

func TestNewton_StartAtRoot(t *testing.T) {
	res, err := goroots.Newton(goroots.MustParse("x^2 - 4"), 2, goroots.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Iterations)
	assert.Empty(t, res.Trace)
	assert.Equal(t, goroots.Some(2), res.Root)
	assert.True(t, res.Converged)
}

func TestNewton_Cycle(t *testing.T) {
	// 0 -> 1 -> 0 -> ...
	res, err := goroots.Newton(goroots.MustParse("x^3 - 2*x + 2"), 0, goroots.DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, goroots.ErrNonConvergence)

	assert.Equal(t, goroots.DefaultMaxIter, res.Iterations)
	assert.Len(t, res.Trace, goroots.DefaultMaxIter)
	assert.Equal(t, goroots.Some(0), res.Root)
	assert.False(t, res.Converged)
	assert.Equal(t, goroots.StatusIterationCap, res.Status)
	assert.Equal(t, []float64{1, 0, 1, 0}, res.Trace.Estimates()[:4])
}

func TestNewton_ZeroDerivative(t *testing.T) {
	res, err := goroots.Newton(goroots.MustParse("x^2 - 1"), 0, goroots.DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, goroots.ErrZeroDenominator)

	var ae *goroots.ArithmeticError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, goroots.MethodNewton, ae.Method)
	assert.Equal(t, 0.0, ae.X)
	assert.Contains(t, err.Error(), "derivative is zero")

	assert.Equal(t, goroots.StatusZeroDenominator, res.Status)
	assert.False(t, res.Root.Valid())
}

func TestNewton_DomainError(t *testing.T) {
	// the first step from 3 lands at a negative x
	res, err := goroots.Newton(goroots.MustParse("ln(x)"), 3, goroots.DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, goroots.ErrDomain)
	assert.Equal(t, goroots.StatusDomainError, res.Status)
	assert.Empty(t, res.Trace)
	assert.Equal(t, 0, res.Iterations)
}

func TestNewtonFunc_FailureKeepsTrace(t *testing.T) {
	// f is undefined below 2; from 100 the sixth iterate lands at about 1.967.
	f := goroots.FuncOf(func(x float64) float64 {
		if x < 2 {
			return math.NaN()
		}
		return x*x - 2
	})
	df := goroots.FuncOf(func(x float64) float64 { return 2 * x })

	res, err := goroots.NewtonFunc(f, df, 100, goroots.DefaultOptions())
	require.ErrorIs(t, err, goroots.ErrDomain)
	assert.Equal(t, goroots.StatusDomainError, res.Status)
	assert.False(t, res.Root.Valid())

	require.Len(t, res.Trace, 5)
	assert.Equal(t, 5, res.Iterations)
	for i, r := range res.Trace {
		assert.Equal(t, i, r.Index)
	}
	assert.InDelta(t, 3.3352816, res.Trace[4].Estimate, 1e-6)
}

func TestNewton_NoDerivativeRule(t *testing.T) {
	res, err := goroots.Newton(goroots.MustParse("floor(x) - 1"), 0.5, goroots.DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, goroots.ErrNoDerivativeRule)
	assert.Equal(t, goroots.StatusInvalidInput, res.Status)
	assert.NotNil(t, res.Trace)
}

func TestNewtonFunc(t *testing.T) {
	f := goroots.FuncOf(func(x float64) float64 { return x*x*x - x - 2 })
	df := goroots.FuncOf(func(x float64) float64 { return 3*x*x - 1 })

	res, err := goroots.NewtonFunc(f, df, 1.5, goroots.DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, 1.5213797, res.Root.Or(0), 1e-6)
	assert.Equal(t, 2, res.Iterations)
}

func TestNewtonFunc_NonFiniteStart(t *testing.T) {
	f := goroots.FuncOf(math.Log)
	res, err := goroots.NewtonFunc(f, goroots.FuncOf(func(x float64) float64 { return 1 / x }), 0, goroots.DefaultOptions())
	assert.ErrorIs(t, err, goroots.ErrDomain)
	assert.Equal(t, goroots.StatusDomainError, res.Status)
}
