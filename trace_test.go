package goroots_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goroots"
)

// ============================================================
// MaybeFloat tests
// ============================================================

func TestMaybeFloat(t *testing.T) {
	var zero goroots.MaybeFloat
	assert.False(t, zero.Valid())
	assert.Equal(t, goroots.None(), zero)
	assert.Equal(t, "N/A", zero.String())
	assert.Equal(t, 3.5, zero.Or(3.5))

	v := goroots.Some(0.1234567)
	got, ok := v.Get()
	assert.True(t, ok)
	assert.Equal(t, 0.1234567, got)
	assert.Equal(t, "0.123457", v.String())
}

func TestMaybeFloat_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A goroots.MaybeFloat `json:"a"`
		B goroots.MaybeFloat `json:"b"`
	}{goroots.Some(1.5), goroots.None()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1.5, "b": null}`, string(b))

	var decoded struct {
		A goroots.MaybeFloat `json:"a"`
		B goroots.MaybeFloat `json:"b"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, goroots.Some(1.5), decoded.A)
	assert.False(t, decoded.B.Valid())
}

// ============================================================
// Status and SolveResult tests
// ============================================================

func TestStatus_Text(t *testing.T) {
	b, err := goroots.StatusIterationCap.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "iteration_cap", string(b))

	var s goroots.Status
	require.NoError(t, s.UnmarshalText([]byte("no_sign_change")))
	assert.Equal(t, goroots.StatusNoSignChange, s)
	assert.Error(t, s.UnmarshalText([]byte("done")))
}

func TestTrace_Empty(t *testing.T) {
	var tr goroots.Trace
	_, ok := tr.Last()
	assert.False(t, ok)
	assert.Empty(t, tr.Estimates())
	assert.Equal(t, 0, tr.Len())
}

func TestSolveResult_JSON(t *testing.T) {
	res, err := goroots.Newton(goroots.MustParse("x^2 - 2"), 1, goroots.DefaultOptions())
	require.NoError(t, err)

	b, err := json.Marshal(res)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, "newton-raphson", raw["method"])
	assert.Equal(t, "converged", raw["status"])
	assert.Equal(t, float64(4), raw["iterations"])

	rows := raw["trace"].([]interface{})
	require.Len(t, rows, 4)
	first := rows[0].(map[string]interface{})
	assert.Equal(t, float64(1), first["left"])
	assert.Nil(t, first["right"])

	var back goroots.SolveResult
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, res, back)
}

func TestSolveResult_FailureJSON(t *testing.T) {
	res, _ := goroots.Bisection(goroots.MustParse("x^2 + 1"), -1, 1, goroots.DefaultOptions())
	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"bisection","root":null,"iterations":0,"trace":[],"converged":false,"status":"no_sign_change"}`, string(b))
}

func TestSolveResult_Summary(t *testing.T) {
	f := goroots.MustParse("x^2 - 2")

	res, _ := goroots.Bisection(f, 0, 2, goroots.DefaultOptions())
	assert.Equal(t, "root 1.414214 found by bisection in 20 iterations", res.Summary())

	res, _ = goroots.Bisection(f, 0, 2, goroots.Options{MaxIter: 5})
	assert.Equal(t, "bisection did not converge in 5 iterations; last estimate 1.406250", res.Summary())

	res, _ = goroots.Secant(goroots.MustParse("x^2"), -1, 1, goroots.DefaultOptions())
	assert.Equal(t, "secant stopped after 0 iterations: zero denominator", res.Summary())

	res, _ = goroots.Bisection(goroots.MustParse("x^2 + 1"), -1, 1, goroots.DefaultOptions())
	assert.Contains(t, res.Summary(), "no root bracketed")
}

func TestSolve_Deterministic(t *testing.T) {
	f := goroots.MustParse("exp(-x) - x")
	for _, m := range []goroots.Method{goroots.MethodBisection, goroots.MethodSecant, goroots.MethodNewton} {
		req := goroots.Request{Method: m, A: 0, B: 1}
		first, err1 := goroots.SolveExpression(f, req)
		second, err2 := goroots.SolveExpression(f, req)
		assert.Equal(t, first, second, m.String())
		assert.Equal(t, err1, err2, m.String())
	}
}
