package goroots

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// ============================================================
// Expression trees as JSON
// ============================================================

// ToJSON encodes a tree as nested {"type": ...} objects.
func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// TreeJSON returns the tree as a generic JSON object, ready to embed in a
// larger response.
func TreeJSON(e Expr) map[string]interface{} { return e.toJSON() }

// FromJSON decodes a tree produced by ToJSON. The result is simplified; it is
// not checked for the single-variable rule, see ExpressionFromJSON.
func FromJSON(data map[string]interface{}) (Expr, error) {
	if data == nil {
		return nil, jsonErr("expression must be an object")
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, jsonErr("missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, jsonErr("field 'type' must be a non-empty string")
	}

	subObj := func(field string) (map[string]interface{}, error) {
		v, ok := data[field]
		if !ok {
			return nil, jsonErr("%s: missing %q", typ, field)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, jsonErr("%s: %q must be an object", typ, field)
		}
		return m, nil
	}

	subList := func(field string) ([]Expr, error) {
		v, ok := data[field]
		if !ok {
			return nil, jsonErr("%s: missing %q", typ, field)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, jsonErr("%s: %q must be an array", typ, field)
		}
		out := make([]Expr, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, jsonErr("%s: %q[%d] must be an object", typ, field, i)
			}
			e, err := FromJSON(m)
			if err != nil {
				return nil, fmt.Errorf("%s: %s[%d]: %w", typ, field, i, err)
			}
			out[i] = e
		}
		return out, nil
	}

	subString := func(field string) (string, error) {
		v, ok := data[field]
		if !ok {
			return "", jsonErr("%s: missing %q", typ, field)
		}
		s, ok := v.(string)
		if !ok || s == "" {
			return "", jsonErr("%s: %q must be a non-empty string", typ, field)
		}
		return s, nil
	}

	switch typ {
	case "num":
		val, err := subString("value")
		if err != nil {
			return nil, err
		}
		r, ok := new(big.Rat).SetString(val)
		if !ok {
			return nil, jsonErr("invalid num value: %s", val)
		}
		return &Num{val: r}, nil

	case "const":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		c, ok := constNamed(name)
		if !ok {
			return nil, jsonErr("unknown constant: %s", name)
		}
		return c, nil

	case "sym":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		return S(name), nil

	case "add":
		terms, err := subList("terms")
		if err != nil {
			return nil, err
		}
		return AddOf(terms...), nil

	case "mul":
		factors, err := subList("factors")
		if err != nil {
			return nil, err
		}
		return MulOf(factors...), nil

	case "pow":
		baseM, err := subObj("base")
		if err != nil {
			return nil, err
		}
		expM, err := subObj("exp")
		if err != nil {
			return nil, err
		}
		base, err := FromJSON(baseM)
		if err != nil {
			return nil, fmt.Errorf("pow: base: %w", err)
		}
		exp, err := FromJSON(expM)
		if err != nil {
			return nil, fmt.Errorf("pow: exp: %w", err)
		}
		return PowOf(base, exp), nil

	case "func":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		if !knownFuncs[name] {
			return nil, jsonErr("unknown function: %s", name)
		}
		argM, err := subObj("arg")
		if err != nil {
			return nil, err
		}
		arg, err := FromJSON(argM)
		if err != nil {
			return nil, fmt.Errorf("func: arg: %w", err)
		}
		return funcOf(name, arg).Simplify(), nil
	}
	return nil, jsonErr("unknown expression type: %s", typ)
}

// ExpressionFromJSON decodes a tree and wraps it, enforcing one variable.
func ExpressionFromJSON(data map[string]interface{}) (*Expression, error) {
	tree, err := FromJSON(data)
	if err != nil {
		return nil, err
	}
	return NewExpression(tree)
}

func jsonErr(format string, args ...any) error {
	return &ParseError{Pos: -1, Msg: fmt.Sprintf(format, args...)}
}
