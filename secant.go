package goroots

import (
	"fmt"
	"math"
)

// Secant iterates x2 = x1 - f(x1)*(x1-x0)/(f(x1)-f(x0)) from two starting
// points, recording (x0, x1, x2, f(x2)) each pass.
//
// Convergence is judged only by the distance between successive iterates,
// |x1-x0| <= Tolerance; the residual f(x1) is not consulted. The returned root
// is the last x1.
//
// f(x1) == f(x0) stops the solve with an *ArithmeticError instead of producing
// an infinite or NaN iterate.
func Secant(f Function, x0, x1 float64, opts Options) (SolveResult, error) {
	res, opts, err := begin(MethodSecant, opts)
	if err != nil {
		return res, err
	}

	var rec recorder
	iterations := 0
	for math.Abs(x1-x0) > opts.Tolerance && iterations < opts.MaxIter {
		fx0, err := f.Eval(x0)
		if err != nil {
			return abort(res, &rec, StatusDomainError), err
		}
		fx1, err := f.Eval(x1)
		if err != nil {
			return abort(res, &rec, StatusDomainError), err
		}
		if fx1 == fx0 {
			return abort(res, &rec, StatusZeroDenominator),
				&ArithmeticError{Method: MethodSecant, Iteration: iterations, X: x1}
		}
		x2 := x1 - fx1*(x1-x0)/(fx1-fx0)
		if !isFinite(x2) {
			return abort(res, &rec, StatusZeroDenominator),
				&ArithmeticError{Method: MethodSecant, Iteration: iterations, X: x1}
		}
		fx2, err := f.Eval(x2)
		if err != nil {
			return abort(res, &rec, StatusDomainError), err
		}
		rec.record(Some(x0), Some(x1), x2, fx2)
		x0, x1 = x1, x2
		iterations++
	}

	converged := math.Abs(x1-x0) <= opts.Tolerance
	res = finish(res, &rec, x1, converged)
	if !converged {
		return res, nonConvergence(MethodSecant, res, fmt.Sprintf("|x1-x0| = %g > tolerance %g", math.Abs(x1-x0), opts.Tolerance))
	}
	return res, nil
}
