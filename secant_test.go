package goroots_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goroots"
)

func TestSecant_Sqrt2(t *testing.T) {
	res, err := goroots.Secant(goroots.MustParse("x^2 - 2"), 0, 2, goroots.DefaultOptions())
	require.NoError(t, err)

	assert.InDelta(t, math.Sqrt2, res.Root.Or(0), 1e-9)
	assert.Equal(t, 7, res.Iterations)
	assert.Len(t, res.Trace, 7)
	assert.True(t, res.Converged)
	assert.Equal(t, goroots.StatusConverged, res.Status)
	assert.Equal(t, goroots.MethodSecant, res.Method)

	first := res.Trace[0]
	assert.Equal(t, goroots.Some(0), first.Left)
	assert.Equal(t, goroots.Some(2), first.Right)
	// x2 = 2 - 2*(2-0)/(2-(-2)) = 1
	assert.Equal(t, 1.0, first.Estimate)
	assert.Equal(t, -1.0, first.Value)
}

func TestSecant_IteratesShift(t *testing.T) {
	res, err := goroots.Secant(goroots.MustParse("cos(x) - x"), 0, 1, goroots.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 5, res.Iterations)

	for i := 1; i < len(res.Trace); i++ {
		prev, cur := res.Trace[i-1], res.Trace[i]
		assert.Equal(t, prev.Right, cur.Left)
		assert.Equal(t, goroots.Some(prev.Estimate), cur.Right)
	}
	last, ok := res.Trace.Last()
	require.True(t, ok)
	assert.Equal(t, last.Estimate, res.Root.Or(0))
}

func TestSecant_ZeroDenominator(t *testing.T) {
	res, err := goroots.Secant(goroots.MustParse("x^2"), -1, 1, goroots.DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, goroots.ErrZeroDenominator)

	var ae *goroots.ArithmeticError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, goroots.MethodSecant, ae.Method)
	assert.Equal(t, 0, ae.Iteration)
	assert.Equal(t, 1.0, ae.X)

	assert.Equal(t, goroots.StatusZeroDenominator, res.Status)
	assert.False(t, res.Root.Valid())
	assert.Empty(t, res.Trace)
}

func TestSecant_StartingPointsAlreadyClose(t *testing.T) {
	res, err := goroots.Secant(goroots.MustParse("x - 5"), 1, 1, goroots.DefaultOptions())
	require.NoError(t, err)
	// Only |x1-x0| is checked, so no iteration runs.
	assert.Equal(t, 0, res.Iterations)
	assert.Equal(t, goroots.Some(1), res.Root)
	assert.True(t, res.Converged)
}

func TestSecant_IterationCap(t *testing.T) {
	res, err := goroots.Secant(goroots.MustParse("x^2 - 2"), 0, 2, goroots.Options{MaxIter: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, goroots.ErrNonConvergence)
	assert.Equal(t, 2, res.Iterations)
	assert.True(t, res.Root.Valid())
	assert.False(t, res.Converged)
	assert.Equal(t, goroots.StatusIterationCap, res.Status)
}

func TestSecant_DomainError(t *testing.T) {
	res, err := goroots.Secant(goroots.MustParse("ln(x)"), -1, 2, goroots.DefaultOptions())
	assert.ErrorIs(t, err, goroots.ErrDomain)
	assert.Equal(t, goroots.StatusDomainError, res.Status)
}

func TestSecant_FailureKeepsTrace(t *testing.T) {
	// f is undefined below 2; from (100, 90) the ninth iterate lands at about 1.62.
	f := goroots.FuncOf(func(x float64) float64 {
		if x < 2 {
			return math.NaN()
		}
		return x*x - 2
	})

	res, err := goroots.Secant(f, 100, 90, goroots.DefaultOptions())
	require.ErrorIs(t, err, goroots.ErrDomain)
	assert.Equal(t, goroots.StatusDomainError, res.Status)
	assert.False(t, res.Root.Valid())

	require.Len(t, res.Trace, 8)
	assert.Equal(t, 8, res.Iterations)
	for i, r := range res.Trace {
		assert.Equal(t, i, r.Index)
	}
	assert.InDelta(t, 2.0761316, res.Trace[7].Estimate, 1e-6)
}
