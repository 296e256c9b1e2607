package goroots

import (
	"fmt"
	"math"
)

// Newton runs Newton-Raphson on f, obtaining f' once through its exact
// symbolic derivative.
func Newton(f *Expression, x0 float64, opts Options) (SolveResult, error) {
	df, err := f.Derivative()
	if err != nil {
		res := SolveResult{Method: MethodNewton, Trace: Trace{}, Status: StatusInvalidInput}
		return res, err
	}
	return NewtonFunc(f, df, x0, opts)
}

// NewtonFunc iterates x1 = x0 - f(x0)/f'(x0) with a caller-supplied
// derivative, recording (x0, absent, x1, f(x1)) each pass.
//
// Convergence is judged by the residual |f(x0)| <= Tolerance, unlike Secant.
// A zero derivative stops the solve with an *ArithmeticError.
func NewtonFunc(f, df Function, x0 float64, opts Options) (SolveResult, error) {
	res, opts, err := begin(MethodNewton, opts)
	if err != nil {
		return res, err
	}

	var rec recorder
	fx0, err := f.Eval(x0)
	if err != nil {
		return abort(res, &rec, StatusDomainError), err
	}

	iterations := 0
	for math.Abs(fx0) > opts.Tolerance && iterations < opts.MaxIter {
		d, err := df.Eval(x0)
		if err != nil {
			return abort(res, &rec, StatusDomainError), err
		}
		if d == 0 {
			return abort(res, &rec, StatusZeroDenominator),
				&ArithmeticError{Method: MethodNewton, Iteration: iterations, X: x0}
		}
		x1 := x0 - fx0/d
		if !isFinite(x1) {
			return abort(res, &rec, StatusZeroDenominator),
				&ArithmeticError{Method: MethodNewton, Iteration: iterations, X: x0}
		}
		fx1, err := f.Eval(x1)
		if err != nil {
			return abort(res, &rec, StatusDomainError), err
		}
		rec.record(Some(x0), None(), x1, fx1)
		x0, fx0 = x1, fx1
		iterations++
	}

	converged := math.Abs(fx0) <= opts.Tolerance
	res = finish(res, &rec, x0, converged)
	if !converged {
		return res, nonConvergence(MethodNewton, res, fmt.Sprintf("|f(x)| = %g > tolerance %g", math.Abs(fx0), opts.Tolerance))
	}
	return res, nil
}
