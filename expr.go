package goroots

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is a node of an immutable expression tree. Every operation is a
// structural recursion; nodes are never mutated after construction.
//
// Eval binds x to every symbol in the tree. Parse guarantees a tree has at most
// one distinct symbol, so this is the single free variable.
type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Eval(x float64) (float64, error)
	Diff(varName string) (Expr, error)
	Equal(other Expr) bool
	exprType() string
	toJSON() map[string]interface{}
}

// ============================================================
// Num: exact rational constant
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("goroots: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}
func NFloat(f float64) *Num {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic("goroots: non-finite constant")
	}
	return &Num{val: new(big.Rat).SetFloat64(f)}
}

// numFromLiteral reads decimal, exponent or p/q text exactly.
func numFromLiteral(s string) (*Num, bool) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, false
	}
	return &Num{val: r}, true
}

func (n *Num) Simplify() Expr                { return n }
func (n *Num) Diff(string) (Expr, error)     { return N(0), nil }
func (n *Num) Eval(float64) (float64, error) { return n.Float64(), nil }
func (n *Num) Equal(other Expr) bool         { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) exprType() string              { return "num" }
func (n *Num) Float64() float64              { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool                  { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool                   { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool                { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool               { return n.val.IsInt() }
func (n *Num) IsPositive() bool              { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool              { return n.val.Sign() < 0 }
func (n *Num) Rat() *big.Rat                 { return new(big.Rat).Set(n.val) }
func (n *Num) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.String()}
}

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("goroots: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}

// ============================================================
// Const: named irrational constant
// ============================================================

type Const struct {
	name  string
	value float64
}

var (
	Pi    = &Const{name: "pi", value: math.Pi}
	Euler = &Const{name: "e", value: math.E}
)

func constNamed(name string) (*Const, bool) {
	switch name {
	case "pi":
		return Pi, true
	case "e", "E":
		return Euler, true
	}
	return nil, false
}

func (c *Const) Simplify() Expr                { return c }
func (c *Const) String() string                { return c.name }
func (c *Const) Diff(string) (Expr, error)     { return N(0), nil }
func (c *Const) Eval(float64) (float64, error) { return c.value, nil }
func (c *Const) Equal(other Expr) bool         { o, ok := other.(*Const); return ok && c.name == o.name }
func (c *Const) exprType() string              { return "const" }
func (c *Const) Name() string                  { return c.name }
func (c *Const) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "const", "name": c.name}
}

func (c *Const) LaTeX() string {
	if c.name == "pi" {
		return "\\pi"
	}
	return c.name
}

// ============================================================
// Sym: the free variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym                       { return &Sym{name: name} }
func (s *Sym) Simplify() Expr                  { return s }
func (s *Sym) String() string                  { return s.name }
func (s *Sym) LaTeX() string                   { return s.name }
func (s *Sym) Eval(x float64) (float64, error) { return x, nil }
func (s *Sym) Equal(other Expr) bool           { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string                { return "sym" }
func (s *Sym) Name() string                    { return s.name }
func (s *Sym) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": s.name}
}
func (s *Sym) Diff(varName string) (Expr, error) {
	if s.name == varName {
		return N(1), nil
	}
	return N(0), nil
}

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Simplify flattens nested sums, folds numbers and combines terms that differ
// only by a numeric coefficient. First-seen order is kept.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}

	type like struct {
		coeff *Num
		rest  Expr
	}
	numAccum := N(0)
	groups := map[string]*like{}
	order := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numAccum = numAdd(numAccum, v)
			continue
		}
		coeff, rest := extractCoefficient(t)
		key := rest.String()
		g, seen := groups[key]
		if !seen {
			g = &like{coeff: N(0), rest: rest}
			groups[key] = g
			order = append(order, key)
		}
		g.coeff = numAdd(g.coeff, coeff)
	}

	result := []Expr{}
	for _, key := range order {
		g := groups[key]
		switch {
		case g.coeff.IsZero():
		case g.coeff.IsOne():
			result = append(result, g.rest)
		default:
			result = append(result, MulOf(g.coeff, g.rest))
		}
	}
	if !numAccum.IsZero() {
		result = append(result, numAccum)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var b strings.Builder
	for i, t := range a.terms {
		s, neg := t.String(), false
		if coeff, rest := extractCoefficient(t); coeff.IsNegative() {
			neg = true
			s = MulOf(numNeg(coeff), rest).String()
		}
		switch {
		case i == 0 && neg:
			b.WriteString("-")
		case i > 0 && neg:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		b.WriteString(s)
	}
	return b.String()
}

func (a *Add) LaTeX() string {
	var b strings.Builder
	for i, t := range a.terms {
		s, neg := t.LaTeX(), false
		if coeff, rest := extractCoefficient(t); coeff.IsNegative() {
			neg = true
			s = MulOf(numNeg(coeff), rest).LaTeX()
		}
		switch {
		case i == 0 && neg:
			b.WriteString("-")
		case i > 0 && neg:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		b.WriteString(s)
	}
	return b.String()
}

func (a *Add) Diff(varName string) (Expr, error) {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		d, err := t.Diff(varName)
		if err != nil {
			return nil, err
		}
		dTerms[i] = d
	}
	return AddOf(dTerms...), nil
}

func (a *Add) Eval(x float64) (float64, error) {
	acc := 0.0
	for _, t := range a.terms {
		v, err := t.Eval(x)
		if err != nil {
			return 0, err
		}
		acc += v
	}
	return acc, nil
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) exprType() string { return "add" }
func (a *Add) toJSON() map[string]interface{} {
	ts := make([]map[string]interface{}, len(a.terms))
	for i, t := range a.terms {
		ts[i] = t.toJSON()
	}
	return map[string]interface{}{"type": "add", "terms": ts}
}
func (a *Add) Terms() []Expr { return append([]Expr(nil), a.terms...) }

// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products, folds the numeric coefficient, merges
// powers of the same base and orders the remaining factors by their text.
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}

	type power struct {
		base Expr
		exps []Expr
	}
	coeff := N(1)
	groups := map[string]*power{}
	order := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp := splitPow(f)
		key := base.String()
		g, seen := groups[key]
		if !seen {
			g = &power{base: base}
			groups[key] = g
			order = append(order, key)
		}
		g.exps = append(g.exps, exp)
	}
	if coeff.IsZero() {
		return N(0)
	}

	others := []Expr{}
	nested := false
	for _, key := range order {
		g := groups[key]
		p := g.base
		if len(g.exps) > 1 || !isNumEqual(g.exps[0], 1) {
			p = PowOf(g.base, AddOf(g.exps...))
		}
		switch v := p.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			nested = true
			others = append(others, v)
		default:
			others = append(others, v)
		}
	}
	if nested {
		return MulOf(append([]Expr{coeff}, others...)...)
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}

	// Precompute sort keys to avoid repeated String() calls in comparator.
	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	for i := range ks {
		others[i] = ks[i].e
	}

	if coeff.IsOne() {
		if len(others) == 1 {
			return others[0]
		}
		return &Mul{factors: others}
	}
	return &Mul{factors: append([]Expr{coeff}, others...)}
}

func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	factors := m.factors
	prefix := ""
	if c, ok := factors[0].(*Num); ok && c.IsNegOne() && len(factors) > 1 {
		prefix = "-"
		factors = factors[1:]
	}
	parts := make([]string, len(factors))
	for i, f := range factors {
		if _, isAdd := f.(*Add); isAdd {
			parts[i] = "(" + f.String() + ")"
		} else {
			parts[i] = f.String()
		}
	}
	return prefix + strings.Join(parts, "*")
}

func (m *Mul) LaTeX() string {
	factors := m.factors
	prefix := ""
	if c, ok := factors[0].(*Num); ok && c.IsNegOne() && len(factors) > 1 {
		prefix = "-"
		factors = factors[1:]
	}
	parts := make([]string, len(factors))
	for i, f := range factors {
		if _, isAdd := f.(*Add); isAdd {
			parts[i] = "\\left(" + f.LaTeX() + "\\right)"
		} else {
			parts[i] = f.LaTeX()
		}
	}
	return prefix + strings.Join(parts, " ")
}

// Diff applies the product rule over all factors.
func (m *Mul) Diff(varName string) (Expr, error) {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi, err := fi.Diff(varName)
		if err != nil {
			return nil, err
		}
		others := make([]Expr, 0, len(m.factors))
		others = append(others, dfi)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		terms[i] = MulOf(others...)
	}
	return AddOf(terms...), nil
}

func (m *Mul) Eval(x float64) (float64, error) {
	acc := 1.0
	for _, f := range m.factors {
		v, err := f.Eval(x)
		if err != nil {
			return 0, err
		}
		acc *= v
	}
	return acc, nil
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) toJSON() map[string]interface{} {
	fs := make([]map[string]interface{}, len(m.factors))
	for i, f := range m.factors {
		fs[i] = f.toJSON()
	}
	return map[string]interface{}{"type": "mul", "factors": fs}
}
func (m *Mul) Factors() []Expr { return append([]Expr(nil), m.factors...) }

// ============================================================
// Pow: base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	if en, ok := exp.(*Num); ok && en.IsZero() {
		return N(1)
	}
	if en, ok := exp.(*Num); ok && en.IsOne() {
		return base
	}

	// 0^negative stays symbolic so that Eval reports the division by zero.
	if bn, ok := base.(*Num); ok && bn.IsZero() {
		if en, ok2 := exp.(*Num); ok2 && en.IsPositive() {
			return N(0)
		}
		return &Pow{base: base, exp: exp}
	}
	if bn, ok := base.(*Num); ok && bn.IsOne() {
		return N(1)
	}
	if bn, ok := base.(*Num); ok {
		if en, ok2 := exp.(*Num); ok2 && en.IsInteger() && en.val.Num().IsInt64() {
			e := en.val.Num().Int64()
			if e >= -20 && e <= 20 {
				posE := e
				if posE < 0 {
					posE = -posE
				}
				result := N(1)
				for i := int64(0); i < posE; i++ {
					result = numMul(result, bn)
				}
				if e < 0 {
					return numRecip(result)
				}
				return result
			}
		}
	}
	// (u^a)^n = u^(a*n) only holds for integer n over the reals.
	if inner, ok := base.(*Pow); ok {
		if en, ok2 := exp.(*Num); ok2 && en.IsInteger() {
			return PowOf(inner.base, MulOf(inner.exp, en))
		}
	}
	return &Pow{base: base, exp: exp}
}

func (p *Pow) String() string {
	baseStr := p.base.String()
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "(" + baseStr + ")"
	case *Num:
		if b.IsNegative() || !b.IsInteger() {
			baseStr = "(" + baseStr + ")"
		}
	}
	expStr := p.exp.String()
	switch e := p.exp.(type) {
	case *Sym, *Const, *Func:
	case *Num:
		if !e.IsInteger() {
			expStr = "(" + expStr + ")"
		}
	default:
		expStr = "(" + expStr + ")"
	}
	return baseStr + "^" + expStr
}

func (p *Pow) LaTeX() string {
	baseStr := p.base.LaTeX()
	switch p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "\\left(" + baseStr + "\\right)"
	}
	return baseStr + "^{" + p.exp.LaTeX() + "}"
}

// Diff uses the power rule for constant exponents, the exponential rule for
// constant bases and the general rule u^v * (v' ln u + v u'/u) otherwise.
func (p *Pow) Diff(varName string) (Expr, error) {
	du, err := p.base.Diff(varName)
	if err != nil {
		return nil, err
	}
	dv, err := p.exp.Diff(varName)
	if err != nil {
		return nil, err
	}
	if isConstant(p.exp) {
		newExp := AddOf(p.exp, N(-1))
		return MulOf(p.exp, PowOf(p.base, newExp), du), nil
	}
	if isConstant(p.base) {
		return MulOf(PowOf(p.base, p.exp), LnOf(p.base), dv), nil
	}
	logTerm := MulOf(dv, LnOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm)), nil
}

func (p *Pow) Eval(x float64) (float64, error) {
	b, err := p.base.Eval(x)
	if err != nil {
		return 0, err
	}
	e, err := p.exp.Eval(x)
	if err != nil {
		return 0, err
	}
	switch {
	case b == 0 && e < 0:
		return 0, &DomainError{Op: "division by zero", X: x}
	case b < 0 && e != math.Trunc(e):
		// Real odd roots of negatives exist; only an exact p/q with odd q qualifies.
		en, ok := p.exp.(*Num)
		if !ok {
			return 0, &DomainError{Op: "fractional power of negative number", X: x}
		}
		if en.val.Denom().Bit(0) == 0 {
			return 0, &DomainError{Op: "even root of negative number", X: x}
		}
		v := math.Pow(-b, e)
		if en.val.Num().Bit(0) == 1 {
			v = -v
		}
		return v, nil
	}
	return math.Pow(b, e), nil
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}
func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }

// ============================================================
// Func: named unary function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

// knownFuncs lists every name the parser accepts as a function call.
var knownFuncs = map[string]bool{
	"sin": true, "cos": true, "tan": true,
	"asin": true, "acos": true, "atan": true,
	"sinh": true, "cosh": true, "tanh": true,
	"exp": true, "ln": true, "abs": true,
	"floor": true, "ceil": true,
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr   { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr   { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr   { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr   { return funcOf("exp", arg).Simplify() }
func LnOf(arg Expr) Expr    { return funcOf("ln", arg).Simplify() }
func SqrtOf(arg Expr) Expr  { return PowOf(arg, F(1, 2)) }
func AbsOf(arg Expr) Expr   { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr  { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr  { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr  { return funcOf("atan", arg).Simplify() }
func SinhOf(arg Expr) Expr  { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr  { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr  { return funcOf("tanh", arg).Simplify() }
func FloorOf(arg Expr) Expr { return funcOf("floor", arg).Simplify() }
func CeilOf(arg Expr) Expr  { return funcOf("ceil", arg).Simplify() }

// Simplify only applies identities that hold exactly; numeric arguments are
// otherwise left for Eval.
func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	switch f.name {
	case "sin", "tan", "asin", "atan", "sinh", "tanh":
		if isNumEqual(arg, 0) {
			return N(0)
		}
	case "cos", "cosh", "exp":
		if isNumEqual(arg, 0) {
			return N(1)
		}
	case "ln":
		if isNumEqual(arg, 1) {
			return N(0)
		}
		if arg.Equal(Euler) {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
	case "abs":
		if n, ok := arg.(*Num); ok {
			if n.IsNegative() {
				return numNeg(n)
			}
			return n
		}
		if m, ok := arg.(*Mul); ok && len(m.factors) == 2 {
			if coeff, ok2 := m.factors[0].(*Num); ok2 && coeff.IsNegOne() {
				return AbsOf(m.factors[1])
			}
		}
	case "floor", "ceil":
		if n, ok := arg.(*Num); ok && n.IsInteger() {
			return n
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	switch f.name {
	case "sin", "cos", "tan", "exp", "ln", "sinh", "cosh", "tanh":
		return "\\" + f.name + "\\left(" + f.arg.LaTeX() + "\\right)"
	case "asin":
		return "\\arcsin\\left(" + f.arg.LaTeX() + "\\right)"
	case "acos":
		return "\\arccos\\left(" + f.arg.LaTeX() + "\\right)"
	case "atan":
		return "\\arctan\\left(" + f.arg.LaTeX() + "\\right)"
	case "abs":
		return "\\left|" + f.arg.LaTeX() + "\\right|"
	case "floor":
		return "\\lfloor " + f.arg.LaTeX() + " \\rfloor"
	case "ceil":
		return "\\lceil " + f.arg.LaTeX() + " \\rceil"
	}
	return "\\operatorname{" + f.name + "}\\left(" + f.arg.LaTeX() + "\\right)"
}

// Diff applies the chain rule. floor and ceil have no rule.
func (f *Func) Diff(varName string) (Expr, error) {
	du, err := f.arg.Diff(varName)
	if err != nil {
		return nil, err
	}
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(f.arg)
	case "cos":
		outer = MulOf(N(-1), SinOf(f.arg))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(f.arg), N(2)))
	case "exp":
		outer = ExpOf(f.arg)
	case "ln":
		outer = PowOf(f.arg, N(-1))
	case "asin":
		outer = PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(f.arg, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(f.arg)
	case "cosh":
		outer = SinhOf(f.arg)
	case "tanh":
		outer = AddOf(N(1), MulOf(N(-1), PowOf(TanhOf(f.arg), N(2))))
	case "abs":
		outer = MulOf(f.arg, PowOf(AbsOf(f.arg), N(-1)))
	default:
		return nil, fmt.Errorf("%w: %w for %s", ErrParse, ErrNoDerivativeRule, f.name)
	}
	return MulOf(outer, du), nil
}

func (f *Func) Eval(x float64) (float64, error) {
	v, err := f.arg.Eval(x)
	if err != nil {
		return 0, err
	}
	switch f.name {
	case "sin":
		return math.Sin(v), nil
	case "cos":
		return math.Cos(v), nil
	case "tan":
		return math.Tan(v), nil
	case "exp":
		return math.Exp(v), nil
	case "ln":
		if v <= 0 {
			return 0, &DomainError{Op: "logarithm of non-positive number", X: x}
		}
		return math.Log(v), nil
	case "abs":
		return math.Abs(v), nil
	case "asin":
		if v < -1 || v > 1 {
			return 0, &DomainError{Op: "asin outside [-1, 1]", X: x}
		}
		return math.Asin(v), nil
	case "acos":
		if v < -1 || v > 1 {
			return 0, &DomainError{Op: "acos outside [-1, 1]", X: x}
		}
		return math.Acos(v), nil
	case "atan":
		return math.Atan(v), nil
	case "sinh":
		return math.Sinh(v), nil
	case "cosh":
		return math.Cosh(v), nil
	case "tanh":
		return math.Tanh(v), nil
	case "floor":
		return math.Floor(v), nil
	case "ceil":
		return math.Ceil(v), nil
	}
	return 0, &DomainError{Op: "unknown function " + f.name, X: x}
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) exprType() string { return "func" }
func (f *Func) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "func", "name": f.name, "arg": f.arg.toJSON()}
}
func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }

// ============================================================
// Helpers
// ============================================================

func isNumEqual(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.Equal(N(v))
}

// extractCoefficient splits a leading numeric factor from e.
func extractCoefficient(e Expr) (*Num, Expr) {
	switch v := e.(type) {
	case *Num:
		return v, N(1)
	case *Mul:
		if c, ok := v.factors[0].(*Num); ok {
			rest := v.factors[1:]
			if len(rest) == 1 {
				return c, rest[0]
			}
			return c, &Mul{factors: append([]Expr(nil), rest...)}
		}
	}
	return N(1), e
}

// splitPow views any factor as base^exp.
func splitPow(e Expr) (Expr, Expr) {
	if p, ok := e.(*Pow); ok {
		return p.base, p.exp
	}
	return e, N(1)
}

// FreeSymbols returns the names of all symbols in e.
func FreeSymbols(e Expr) map[string]struct{} {
	out := map[string]struct{}{}
	collectSymbols(e, out)
	return out
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

func isConstant(e Expr) bool { return len(FreeSymbols(e)) == 0 }
