package goroots

import "fmt"

// Bisection halves a bracket [a, b] on which f changes sign.
//
// Algorithm:
//  1. Require finite a < b and f(a), f(b) of strictly opposite signs, otherwise
//     return no root, zero iterations and ErrNoSignChange.
//  2. While (b-a)/2 > Tolerance and iterations < MaxIter:
//     c = (a+b)/2, record (a, b, c, f(c));
//     f(c) == 0 ends the solve with root c;
//     otherwise keep the half whose endpoints still change sign.
//  3. Return (a+b)/2.
//
// Converged is true when the half-width reached Tolerance or f(c) was exactly
// zero. Hitting MaxIter first returns the midpoint as a best-effort root with
// Converged=false and ErrNonConvergence. The bracket width after k iterations
// is (b0-a0)/2^k.
//
// Iterations always equals len(Trace), including the exact-zero exit.
func Bisection(f Function, a, b float64, opts Options) (SolveResult, error) {
	res, opts, err := begin(MethodBisection, opts)
	if err != nil {
		return res, err
	}
	if !isFinite(a) || !isFinite(b) || a >= b {
		res.Status = StatusInvalidInput
		return res, fmt.Errorf("%w: [%g, %g]", ErrInvalidBracket, a, b)
	}

	var rec recorder
	fa, err := f.Eval(a)
	if err != nil {
		return abort(res, &rec, StatusDomainError), err
	}
	fb, err := f.Eval(b)
	if err != nil {
		return abort(res, &rec, StatusDomainError), err
	}
	if !oppositeSigns(fa, fb) {
		return abort(res, &rec, StatusNoSignChange),
			fmt.Errorf("%w: f(%g) = %g, f(%g) = %g", ErrNoSignChange, a, fa, b, fb)
	}

	iterations := 0
	for (b-a)/2 > opts.Tolerance && iterations < opts.MaxIter {
		c := (a + b) / 2
		fc, err := f.Eval(c)
		if err != nil {
			return abort(res, &rec, StatusDomainError), err
		}
		rec.record(Some(a), Some(b), c, fc)
		iterations++

		if fc == 0 {
			res = finish(res, &rec, c, true)
			res.Status = StatusExactRoot
			return res, nil
		}
		if oppositeSigns(fa, fc) {
			b = c
		} else {
			a, fa = c, fc
		}
	}

	converged := (b-a)/2 <= opts.Tolerance
	res = finish(res, &rec, (a+b)/2, converged)
	if !converged {
		return res, nonConvergence(MethodBisection, res, fmt.Sprintf("half-width %g > tolerance %g", (b-a)/2, opts.Tolerance))
	}
	return res, nil
}
