package goroots

import (
	"fmt"
	"sort"
	"strings"
)

// ============================================================
// Lexer
// ============================================================

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNum
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPow
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) describe() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.text)
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func lex(input string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(input) && isDigit(input[i+1])):
			start := i
			for i < len(input) && isDigit(input[i]) {
				i++
			}
			if i < len(input) && input[i] == '.' {
				i++
				for i < len(input) && isDigit(input[i]) {
					i++
				}
			}
			// An exponent needs at least one digit, otherwise "e" is left for the next token.
			if i < len(input) && (input[i] == 'e' || input[i] == 'E') {
				j := i + 1
				if j < len(input) && (input[j] == '+' || input[j] == '-') {
					j++
				}
				if j < len(input) && isDigit(input[j]) {
					for j < len(input) && isDigit(input[j]) {
						j++
					}
					i = j
				}
			}
			toks = append(toks, token{kind: tokNum, text: input[start:i], pos: start})
		case isLetter(c):
			start := i
			for i < len(input) && (isLetter(input[i]) || isDigit(input[i])) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: input[start:i], pos: start})
		case c == '*' && i+1 < len(input) && input[i+1] == '*':
			toks = append(toks, token{kind: tokPow, text: "**", pos: i})
			i += 2
		default:
			kind, ok := map[byte]tokenKind{
				'+': tokPlus, '-': tokMinus, '*': tokStar, '/': tokSlash,
				'^': tokPow, '(': tokLParen, ')': tokRParen,
			}[c]
			if !ok {
				return nil, &ParseError{Input: input, Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
			}
			toks = append(toks, token{kind: kind, text: string(c), pos: i})
			i++
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(input)}), nil
}

// ============================================================
// Parser
// ============================================================

// Binding powers. ^ is right-associative and binds tighter than a unary
// minus on its left, so -x^2 is -(x^2).
const (
	bpSum     = 10
	bpProduct = 20
	bpUnary   = 30
	bpPower   = 40
)

func lbp(k tokenKind) int {
	switch k {
	case tokPlus, tokMinus:
		return bpSum
	case tokStar, tokSlash:
		return bpProduct
	case tokPow:
		return bpPower
	}
	return 0
}

type parser struct {
	input string
	toks  []token
	i     int
	vars  map[string]struct{}
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) fail(pos int, format string, args ...any) error {
	return &ParseError{Input: p.input, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) need(k tokenKind, what string) error {
	t := p.next()
	if t.kind != k {
		return p.fail(t.pos, "expected %s, found %s", what, t.describe())
	}
	return nil
}

func (p *parser) expr(minBP int) (Expr, error) {
	left, err := p.prefix()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		bp := lbp(op.kind)
		if bp == 0 || bp <= minBP {
			return left, nil
		}
		p.next()
		rbp := bp
		if op.kind == tokPow {
			rbp = bp - 1
		}
		right, err := p.expr(rbp)
		if err != nil {
			return nil, err
		}
		switch op.kind {
		case tokPlus:
			left = AddOf(left, right)
		case tokMinus:
			left = AddOf(left, MulOf(N(-1), right))
		case tokStar:
			left = MulOf(left, right)
		case tokSlash:
			left = MulOf(left, PowOf(right, N(-1)))
		case tokPow:
			left = PowOf(left, right)
		}
	}
}

func (p *parser) prefix() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		n, ok := numFromLiteral(t.text)
		if !ok {
			return nil, p.fail(t.pos, "invalid number %q", t.text)
		}
		return n, nil
	case tokIdent:
		return p.identifier(t)
	case tokMinus, tokPlus:
		operand, err := p.expr(bpUnary)
		if err != nil {
			return nil, err
		}
		if t.kind == tokMinus {
			return MulOf(N(-1), operand), nil
		}
		return operand, nil
	case tokLParen:
		inner, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		if err := p.need(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return nil, p.fail(t.pos, "unexpected %s", t.describe())
}

func (p *parser) identifier(t token) (Expr, error) {
	name := t.text
	isCall := p.peek().kind == tokLParen
	if isCall {
		p.next()
		arg, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		if err := p.need(tokRParen, "')'"); err != nil {
			return nil, err
		}
		switch {
		case name == "sqrt":
			return SqrtOf(arg), nil
		case name == "log":
			return LnOf(arg), nil
		case knownFuncs[name]:
			return funcOf(name, arg).Simplify(), nil
		}
		return nil, p.fail(t.pos, "unknown function %q", name)
	}
	if c, ok := constNamed(name); ok {
		return c, nil
	}
	if knownFuncs[name] || name == "sqrt" || name == "log" {
		return nil, p.fail(t.pos, "function %q needs an argument", name)
	}
	p.vars[name] = struct{}{}
	return S(name), nil
}

// parseTree returns the simplified tree and its free variable ("" if none).
func parseTree(input string) (Expr, string, error) {
	if strings.TrimSpace(input) == "" {
		return nil, "", &ParseError{Input: input, Pos: -1, Msg: "empty expression"}
	}
	toks, err := lex(input)
	if err != nil {
		return nil, "", err
	}
	p := &parser{input: input, toks: toks, vars: map[string]struct{}{}}
	tree, err := p.expr(0)
	if err != nil {
		return nil, "", err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, "", p.fail(t.pos, "unexpected %s (write products explicitly, e.g. 2*x)", t.describe())
	}
	if len(p.vars) > 1 {
		return nil, "", &ParseError{Input: input, Pos: -1, Msg: "more than one variable: " + strings.Join(sortedNames(p.vars), ", ")}
	}
	for name := range p.vars {
		return tree, name, nil
	}
	return tree, "", nil
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
