package goroots_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goroots"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		name string
		want goroots.Method
	}{
		{"bisection", goroots.MethodBisection},
		{"Bisección", goroots.MethodBisection},
		{" bisect ", goroots.MethodBisection},
		{"SECANT", goroots.MethodSecant},
		{"secante", goroots.MethodSecant},
		{"newton", goroots.MethodNewton},
		{"Newton-Raphson", goroots.MethodNewton},
		{"nr", goroots.MethodNewton},
	}
	for _, tt := range tests {
		got, err := goroots.ParseMethod(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}

	_, err := goroots.ParseMethod("brent")
	assert.ErrorIs(t, err, goroots.ErrUnknownMethod)
}

func TestMethod_String(t *testing.T) {
	assert.Equal(t, "bisection", goroots.MethodBisection.String())
	assert.Equal(t, "secant", goroots.MethodSecant.String())
	assert.Equal(t, "newton-raphson", goroots.MethodNewton.String())
	assert.Equal(t, "Method(9)", goroots.Method(9).String())

	assert.Equal(t, 2, goroots.MethodBisection.Params())
	assert.Equal(t, 2, goroots.MethodSecant.Params())
	assert.Equal(t, 1, goroots.MethodNewton.Params())
}

func TestRequest_JSON(t *testing.T) {
	var req goroots.Request
	err := json.Unmarshal([]byte(`{"expression":"x^2 - 2","method":"secante","a":0,"b":2,"options":{"tolerance":1e-8,"max_iter":50}}`), &req)
	require.NoError(t, err)
	assert.Equal(t, goroots.MethodSecant, req.Method)
	assert.Equal(t, goroots.Options{Tolerance: 1e-8, MaxIter: 50}, req.Options)

	err = json.Unmarshal([]byte(`{"method":"regula-falsi"}`), &req)
	assert.ErrorIs(t, err, goroots.ErrUnknownMethod)
}

func TestSolve_Dispatch(t *testing.T) {
	for _, m := range []goroots.Method{goroots.MethodBisection, goroots.MethodSecant, goroots.MethodNewton} {
		t.Run(m.String(), func(t *testing.T) {
			res, err := goroots.Solve(goroots.Request{Expression: "x^2 - 2", Method: m, A: 1, B: 2})
			require.NoError(t, err)
			assert.Equal(t, m, res.Method)
			assert.InDelta(t, math.Sqrt2, res.Root.Or(0), 1e-6)
			assert.Equal(t, res.Iterations, len(res.Trace))
		})
	}
}

func TestSolve_ZeroOptionsMeanDefaults(t *testing.T) {
	f := goroots.MustParse("x^2 - 2")
	zero, err := goroots.SolveExpression(f, goroots.Request{Method: goroots.MethodBisection, A: 0, B: 2})
	require.NoError(t, err)
	def, err := goroots.Bisection(f, 0, 2, goroots.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, def, zero)
}

func TestSolve_ParseError(t *testing.T) {
	res, err := goroots.Solve(goroots.Request{Expression: "2x", Method: goroots.MethodNewton})
	assert.ErrorIs(t, err, goroots.ErrParse)
	assert.Equal(t, goroots.StatusInvalidInput, res.Status)
	assert.Equal(t, goroots.MethodNewton, res.Method)
	assert.NotNil(t, res.Trace)
}

func TestSolve_UnknownMethod(t *testing.T) {
	res, err := goroots.Solve(goroots.Request{Expression: "x", Method: goroots.Method(7)})
	assert.ErrorIs(t, err, goroots.ErrUnknownMethod)
	assert.Equal(t, goroots.StatusInvalidInput, res.Status)
}

func TestPlotRange(t *testing.T) {
	lo, hi := goroots.PlotRange(goroots.Request{Method: goroots.MethodBisection, A: 0, B: 2}, goroots.SolveResult{})
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 3.0, hi)

	lo, hi = goroots.PlotRange(goroots.Request{Method: goroots.MethodSecant, A: 2, B: 0}, goroots.SolveResult{})
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 3.0, hi)

	lo, hi = goroots.PlotRange(goroots.Request{Method: goroots.MethodNewton, A: 5}, goroots.SolveResult{Root: goroots.Some(1)})
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 3.0, hi)

	// no root: centre on the starting point
	lo, hi = goroots.PlotRange(goroots.Request{Method: goroots.MethodNewton, A: 5}, goroots.SolveResult{})
	assert.Equal(t, 3.0, lo)
	assert.Equal(t, 7.0, hi)
}
