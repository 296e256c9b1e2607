package goroots

import (
	"fmt"
	"math"
)

// DefaultVariable is bound by expressions that mention no variable.
const DefaultVariable = "x"

// Function is anything a solver can evaluate at a real point.
type Function interface {
	Eval(x float64) (float64, error)
}

// FuncOf adapts a plain Go function to Function. Non-finite results are
// reported as domain errors.
type FuncOf func(float64) float64

func (f FuncOf) Eval(x float64) (float64, error) {
	v := f(x)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &DomainError{Op: "non-finite result", X: x}
	}
	return v, nil
}

// Expression is a parsed, immutable formula over one real variable.
// It is safe for concurrent use.
type Expression struct {
	tree     Expr
	variable string
	source   string
}

// Parse reads a formula such as "x^2 - 2" or "exp(-x) - sin(x)/2".
// Errors match ErrParse and can be inspected with errors.As(*ParseError).
func Parse(text string) (*Expression, error) {
	tree, variable, err := parseTree(text)
	if err != nil {
		return nil, err
	}
	if variable == "" {
		variable = DefaultVariable
	}
	return &Expression{tree: tree, variable: variable, source: text}, nil
}

// MustParse is Parse that panics on error. Intended for tests and examples.
func MustParse(text string) *Expression {
	e, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return e
}

// NewExpression wraps an already built tree. The tree may mention at most one
// symbol.
func NewExpression(tree Expr) (*Expression, error) {
	if tree == nil {
		return nil, &ParseError{Pos: -1, Msg: "nil expression tree"}
	}
	syms := FreeSymbols(tree)
	if len(syms) > 1 {
		return nil, &ParseError{Input: tree.String(), Pos: -1, Msg: fmt.Sprintf("more than one variable: %v", sortedNames(syms))}
	}
	variable := DefaultVariable
	for name := range syms {
		variable = name
	}
	simplified := tree.Simplify()
	return &Expression{tree: simplified, variable: variable, source: simplified.String()}, nil
}

// Eval returns f(x). It fails with a *DomainError when f is undefined at x or
// the result is not finite.
func (e *Expression) Eval(x float64) (float64, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, &DomainError{Op: "non-finite input", X: x}
	}
	v, err := e.tree.Eval(x)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &DomainError{Op: "non-finite result", X: x}
	}
	return v, nil
}

// Derivative returns the exact symbolic derivative with respect to the
// expression's variable, as a new Expression.
func (e *Expression) Derivative() (*Expression, error) {
	d, err := e.tree.Diff(e.variable)
	if err != nil {
		return nil, err
	}
	d = d.Simplify()
	return &Expression{tree: d, variable: e.variable, source: d.String()}, nil
}

func (e *Expression) String() string   { return e.tree.String() }
func (e *Expression) LaTeX() string    { return e.tree.LaTeX() }
func (e *Expression) Variable() string { return e.variable }
func (e *Expression) Source() string   { return e.source }
func (e *Expression) Tree() Expr       { return e.tree }
