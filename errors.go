package goroots

import (
	"errors"
	"fmt"
)

// ============================================================
// Sentinel errors
// ============================================================

var (
	// ErrParse indicates the expression text is not a valid single-variable formula.
	ErrParse = errors.New("goroots: invalid expression")

	// ErrDomain indicates an expression is undefined at the evaluation point.
	ErrDomain = errors.New("goroots: evaluation outside domain")

	// ErrNoDerivativeRule indicates an operator without a differentiation rule.
	ErrNoDerivativeRule = errors.New("goroots: no derivative rule")

	// ErrZeroDenominator indicates a secant or Newton update would divide by zero.
	ErrZeroDenominator = errors.New("goroots: zero denominator in update")

	// ErrNoSignChange indicates f(a) and f(b) do not have opposite signs.
	ErrNoSignChange = errors.New("goroots: no sign change on bracket")

	// ErrNonConvergence indicates the iteration cap was hit before the tolerance.
	ErrNonConvergence = errors.New("goroots: iteration cap reached without convergence")

	// ErrInvalidBracket indicates a >= b or a non-finite bound.
	ErrInvalidBracket = errors.New("goroots: bracket requires finite a < b")

	// ErrInvalidOptions indicates a negative tolerance or iteration cap.
	ErrInvalidOptions = errors.New("goroots: invalid solver options")

	// ErrInvalidRange indicates a sampling range with lo >= hi.
	ErrInvalidRange = errors.New("goroots: sample range requires lo < hi")

	// ErrUnknownMethod indicates an unrecognised method name.
	ErrUnknownMethod = errors.New("goroots: unknown method")
)

// ============================================================
// Typed errors
// ============================================================

// ParseError reports where and why expression text was rejected.
type ParseError struct {
	Input string
	Pos   int // byte offset, -1 when not tied to a position
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("goroots: parse %q: %s", e.Input, e.Msg)
	}
	return fmt.Sprintf("goroots: parse %q at %d: %s", e.Input, e.Pos, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// DomainError reports an operation that is undefined at X.
type DomainError struct {
	Op string
	X  float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("goroots: %s at x = %g", e.Op, e.X)
}

func (e *DomainError) Unwrap() error { return ErrDomain }

// ArithmeticError reports a zero denominator in an iterative update.
type ArithmeticError struct {
	Method    Method
	Iteration int
	X         float64
}

func (e *ArithmeticError) Error() string {
	switch e.Method {
	case MethodNewton:
		return fmt.Sprintf("goroots: %s iteration %d: derivative is zero at x = %g", e.Method, e.Iteration, e.X)
	default:
		return fmt.Sprintf("goroots: %s iteration %d: f(x0) == f(x1) at x1 = %g", e.Method, e.Iteration, e.X)
	}
}

func (e *ArithmeticError) Unwrap() error { return ErrZeroDenominator }
