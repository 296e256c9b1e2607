package goroots

import (
	"fmt"
	"math"
	"strings"
)

// ============================================================
// Method
// ============================================================

// Method selects one of the three iterative solvers.
type Method int

const (
	MethodBisection Method = iota
	MethodSecant
	MethodNewton
)

var methodNames = [...]string{
	MethodBisection: "bisection",
	MethodSecant:    "secant",
	MethodNewton:    "newton-raphson",
}

func (m Method) String() string {
	if int(m) >= 0 && int(m) < len(methodNames) {
		return methodNames[m]
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Params is the number of starting reals the method takes.
func (m Method) Params() int {
	if m == MethodNewton {
		return 1
	}
	return 2
}

func (m Method) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMethod accepts English and Spanish spellings, case-insensitively.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bisection", "biseccion", "bisección", "bisect":
		return MethodBisection, nil
	case "secant", "secante":
		return MethodSecant, nil
	case "newton", "newton-raphson", "newton_raphson", "nr":
		return MethodNewton, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// ============================================================
// Request dispatch
// ============================================================

// Request is everything a caller supplies for one solve. A and B are the
// bracket for bisection and the two starting points for secant; Newton only
// reads A.
type Request struct {
	Expression string  `json:"expression"`
	Method     Method  `json:"method"`
	A          float64 `json:"a"`
	B          float64 `json:"b"`
	Options    Options `json:"options"`
}

// Solve parses the expression and runs the requested method.
func Solve(req Request) (SolveResult, error) {
	f, err := Parse(req.Expression)
	if err != nil {
		return SolveResult{Method: req.Method, Trace: Trace{}, Status: StatusInvalidInput}, err
	}
	return SolveExpression(f, req)
}

// SolveExpression runs the requested method on an already parsed expression;
// req.Expression is ignored.
func SolveExpression(f *Expression, req Request) (SolveResult, error) {
	switch req.Method {
	case MethodBisection:
		return Bisection(f, req.A, req.B, req.Options)
	case MethodSecant:
		return Secant(f, req.A, req.B, req.Options)
	case MethodNewton:
		return Newton(f, req.A, req.Options)
	}
	return SolveResult{Method: req.Method, Trace: Trace{}, Status: StatusInvalidInput},
		fmt.Errorf("%w: %s", ErrUnknownMethod, req.Method)
}

// PlotRange returns the x-window a presentation layer should plot: one unit
// beyond the inputs for bracketing methods, two units around the root for
// Newton.
func PlotRange(req Request, res SolveResult) (lo, hi float64) {
	if req.Method == MethodNewton {
		center := res.Root.Or(req.A)
		return center - 2, center + 2
	}
	lo, hi = req.A, req.B
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo - 1, hi + 1
}

// ============================================================
// Shared solver helpers
// ============================================================

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// oppositeSigns is f(u)*f(v) < 0 without the risk of the product underflowing.
func oppositeSigns(u, v float64) bool {
	return (u < 0 && v > 0) || (u > 0 && v < 0)
}

// begin validates options and returns the result shell every solver fills in.
func begin(m Method, opts Options) (SolveResult, Options, error) {
	res := SolveResult{Method: m, Trace: Trace{}}
	if err := opts.Validate(); err != nil {
		res.Status = StatusInvalidInput
		return res, opts, err
	}
	return res, opts.withDefaults(), nil
}

// abort ends a solve that could not produce a root; the trace so far is kept.
func abort(res SolveResult, rec *recorder, status Status) SolveResult {
	res.Trace = rec.trace()
	res.Iterations = len(res.Trace)
	res.Root = None()
	res.Converged = false
	res.Status = status
	return res
}

// finish records the estimate and how the loop ended.
func finish(res SolveResult, rec *recorder, root float64, converged bool) SolveResult {
	res.Trace = rec.trace()
	res.Iterations = len(res.Trace)
	res.Root = Some(root)
	res.Converged = converged
	if converged {
		res.Status = StatusConverged
	} else {
		res.Status = StatusIterationCap
	}
	return res
}

func nonConvergence(m Method, res SolveResult, detail string) error {
	return fmt.Errorf("%w: %s after %d iterations, %s", ErrNonConvergence, m, res.Iterations, detail)
}
