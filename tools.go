package goroots

import (
	"encoding/json"
	"fmt"
	"math"
)

// ============================================================
// Tool-call interface
// ============================================================

// ToolRequest is one call from an agent or HTTP client. Expressions may be
// passed as text ("x^2 - 2") or as a ToJSON tree.
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

// ToolResponse carries the result, or Error. Solver tools set both Result
// and Error when a solve fails after producing partial data.
type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func HandleToolCall(req ToolRequest) ToolResponse {
	getExpr := func(key string) (*Expression, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		switch val := v.(type) {
		case string:
			return Parse(val)
		case map[string]interface{}:
			return ExpressionFromJSON(val)
		}
		return nil, fmt.Errorf("param %s must be a string or expression object", key)
	}
	getNumber := func(key string) (float64, error) {
		v, ok := req.Params[key]
		if !ok {
			return 0, fmt.Errorf("missing param: %s", key)
		}
		n, ok := v.(float64)
		if !ok {
			return 0, fmt.Errorf("param %s must be a number", key)
		}
		return n, nil
	}
	getInt := func(key string) (int, error) {
		f, err := getNumber(key)
		if err != nil {
			return 0, err
		}
		if f != math.Trunc(f) || f < float64(math.MinInt) || f >= float64(math.MaxInt) {
			return 0, fmt.Errorf("param %s must be an integer, got %g", key, f)
		}
		return int(f), nil
	}
	getOptions := func() (Options, error) {
		opts := DefaultOptions()
		if _, ok := req.Params["tol"]; ok {
			tol, err := getNumber("tol")
			if err != nil {
				return opts, err
			}
			opts.Tolerance = tol
		}
		if _, ok := req.Params["max_iter"]; ok {
			n, err := getInt("max_iter")
			if err != nil {
				return opts, err
			}
			opts.MaxIter = n
		}
		return opts, opts.Validate()
	}
	respond := func(e *Expression) ToolResponse {
		return ToolResponse{Result: TreeJSON(e.Tree()), LaTeX: e.LaTeX(), String: e.String()}
	}
	solveTool := func(res SolveResult, err error) ToolResponse {
		resp := ToolResponse{Result: res, String: res.Summary()}
		if err != nil {
			resp.Error = err.Error()
		}
		return resp
	}

	switch req.Tool {
	case "parse":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(e)

	case "diff":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		d, err := e.Derivative()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(d)

	case "eval":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		x, err := getNumber("x")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		v, err := e.Eval(x)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{Result: v, String: fmt.Sprintf("%.10g", v)}

	case "bisection", "secant":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		a, err := getNumber("a")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		b, err := getNumber("b")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		opts, err := getOptions()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		if req.Tool == "bisection" {
			return solveTool(Bisection(e, a, b, opts))
		}
		return solveTool(Secant(e, a, b, opts))

	case "newton":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		x0, err := getNumber("x0")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		opts, err := getOptions()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return solveTool(Newton(e, x0, opts))

	case "solve":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		name, ok := req.Params["method"].(string)
		if !ok {
			return ToolResponse{Error: "param method must be a string"}
		}
		m, err := ParseMethod(name)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		a, err := getNumber("a")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		var b float64
		if m.Params() == 2 {
			if b, err = getNumber("b"); err != nil {
				return ToolResponse{Error: err.Error()}
			}
		}
		opts, err := getOptions()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return solveTool(SolveExpression(e, Request{Method: m, A: a, B: b, Options: opts}))

	case "sample":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		from, err := getNumber("from")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		to, err := getNumber("to")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		n := 0
		if _, ok := req.Params["n"]; ok {
			n, err = getInt("n")
			if err != nil {
				return ToolResponse{Error: err.Error()}
			}
		}
		points, err := Sample(e, from, to, n)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{Result: points, String: fmt.Sprintf("%d points on [%g, %g]", len(points), from, to)}

	case "tool_spec":
		return ToolResponse{Result: ToolSpec(), String: "tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// ToolSpec returns the JSON schema list of every tool HandleToolCall accepts.
func ToolSpec() string {
	expr := "string|object"
	tools := []map[string]interface{}{
		ts("parse", "Parse and simplify a single-variable expression", []string{"expr"}, map[string]string{"expr": expr}),
		ts("diff", "Exact symbolic derivative", []string{"expr"}, map[string]string{"expr": expr}),
		ts("eval", "Evaluate f(x)", []string{"expr", "x"}, map[string]string{"expr": expr, "x": "number"}),
		ts("bisection", "Bisection on [a, b]. Optional: tol, max_iter", []string{"expr", "a", "b"},
			map[string]string{"expr": expr, "a": "number", "b": "number", "tol": "number", "max_iter": "integer"}),
		ts("secant", "Secant from x0=a, x1=b. Optional: tol, max_iter", []string{"expr", "a", "b"},
			map[string]string{"expr": expr, "a": "number", "b": "number", "tol": "number", "max_iter": "integer"}),
		ts("newton", "Newton-Raphson from x0. Optional: tol, max_iter", []string{"expr", "x0"},
			map[string]string{"expr": expr, "x0": "number", "tol": "number", "max_iter": "integer"}),
		ts("solve", "Run a method by name (bisection, secant, newton). b is ignored by newton", []string{"expr", "method", "a"},
			map[string]string{"expr": expr, "method": "string", "a": "number", "b": "number", "tol": "number", "max_iter": "integer"}),
		ts("sample", "Sample f on [from, to] for plotting. Optional: n", []string{"expr", "from", "to"},
			map[string]string{"expr": expr, "from": "number", "to": "number", "n": "integer"}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		if typ == "string|object" {
			properties[k] = map[string]interface{}{"type": []string{"string", "object"}}
			continue
		}
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
