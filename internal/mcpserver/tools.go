package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	goroots "github.com/njchilds90/goroots"
	"github.com/njchilds90/goroots/internal/metrics"
)

// ErrMissingExpression is returned when a tool is called without an expression.
var ErrMissingExpression = errors.New("mcp: expression is required")

// SolveInput is the input schema for the solve tool.
type SolveInput struct {
	Expression string  `json:"expression" jsonschema:"single-variable expression, e.g. x^2 - 2"`
	Method     string  `json:"method" jsonschema:"bisection, secant or newton"`
	A          float64 `json:"a" jsonschema:"bracket start (bisection), first point (secant) or x0 (newton)"`
	B          float64 `json:"b,omitempty" jsonschema:"bracket end (bisection) or second point (secant)"`
	Tolerance  float64 `json:"tolerance,omitempty" jsonschema:"stopping tolerance (server default when omitted)"`
	MaxIter    int     `json:"max_iter,omitempty" jsonschema:"iteration cap (server default when omitted)"`
}

// SolveOutput is the output schema for the solve tool.
type SolveOutput struct {
	Method     string     `json:"method"`
	Root       *float64   `json:"root,omitempty"`
	Iterations int        `json:"iterations"`
	Converged  bool       `json:"converged"`
	Status     string     `json:"status"`
	Summary    string     `json:"summary"`
	Error      string     `json:"error,omitempty"`
	RunID      string     `json:"run_id,omitempty"`
	Trace      []TraceRow `json:"trace"`
}

// TraceRow is one iteration of a solve.
type TraceRow struct {
	Index    int      `json:"index"`
	Left     *float64 `json:"left,omitempty"`
	Right    *float64 `json:"right,omitempty"`
	Estimate float64  `json:"estimate"`
	Value    float64  `json:"value"`
}

// DifferentiateInput is the input schema for the differentiate tool.
type DifferentiateInput struct {
	Expression string `json:"expression" jsonschema:"single-variable expression"`
}

// DifferentiateOutput is the output schema for the differentiate tool.
type DifferentiateOutput struct {
	Variable   string `json:"variable"`
	Derivative string `json:"derivative"`
	LaTeX      string `json:"latex"`
}

// EvaluateInput is the input schema for the evaluate tool.
type EvaluateInput struct {
	Expression string  `json:"expression" jsonschema:"single-variable expression"`
	X          float64 `json:"x" jsonschema:"point at which to evaluate"`
}

// EvaluateOutput is the output schema for the evaluate tool.
type EvaluateOutput struct {
	Value float64 `json:"value"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "solve",
		Description: "Find a root of f(x) = 0 by bisection, secant or Newton-Raphson and return the iteration trace",
	}, s.handleSolve)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "differentiate",
		Description: "Exact symbolic derivative of a single-variable expression",
	}, s.handleDifferentiate)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "evaluate",
		Description: "Evaluate a single-variable expression at x",
	}, s.handleEvaluate)
}

// handleSolve handles the solve tool invocation. Solver failures that still
// produce a result (no sign change, iteration cap) are reported in the
// output's error field rather than as a tool error.
func (s *Server) handleSolve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SolveInput,
) (*mcp.CallToolResult, SolveOutput, error) {
	if input.Expression == "" {
		return nil, SolveOutput{}, ErrMissingExpression
	}
	method, err := goroots.ParseMethod(input.Method)
	if err != nil {
		return nil, SolveOutput{}, err
	}

	opts := s.cfg.Defaults
	if input.Tolerance != 0 {
		opts.Tolerance = input.Tolerance
	}
	if input.MaxIter != 0 {
		opts.MaxIter = input.MaxIter
	}
	req := goroots.Request{
		Expression: input.Expression,
		Method:     method,
		A:          input.A,
		B:          input.B,
		Options:    opts,
	}

	res, solveErr := goroots.Solve(req)
	if solveErr != nil && (errors.Is(solveErr, goroots.ErrParse) || errors.Is(solveErr, goroots.ErrInvalidOptions)) {
		return nil, SolveOutput{}, solveErr
	}

	output := toSolveOutput(res, solveErr)
	metrics.RecordSolve(res)
	s.log.Debug("solve",
		zap.String("expression", req.Expression),
		zap.Stringer("method", method),
		zap.Stringer("status", res.Status),
		zap.Int("iterations", res.Iterations))

	if s.cfg.History != nil {
		id, err := s.cfg.History.Save(ctx, req, res, solveErr)
		if err != nil {
			s.log.Warn("saving run", zap.Error(err))
		} else {
			output.RunID = id
		}
	}

	return nil, output, nil
}

// handleDifferentiate handles the differentiate tool invocation.
func (s *Server) handleDifferentiate(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input DifferentiateInput,
) (*mcp.CallToolResult, DifferentiateOutput, error) {
	if input.Expression == "" {
		return nil, DifferentiateOutput{}, ErrMissingExpression
	}
	f, err := goroots.Parse(input.Expression)
	if err != nil {
		return nil, DifferentiateOutput{}, err
	}
	df, err := f.Derivative()
	if err != nil {
		return nil, DifferentiateOutput{}, err
	}
	return nil, DifferentiateOutput{
		Variable:   f.Variable(),
		Derivative: df.String(),
		LaTeX:      df.LaTeX(),
	}, nil
}

// handleEvaluate handles the evaluate tool invocation.
func (s *Server) handleEvaluate(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input EvaluateInput,
) (*mcp.CallToolResult, EvaluateOutput, error) {
	if input.Expression == "" {
		return nil, EvaluateOutput{}, ErrMissingExpression
	}
	f, err := goroots.Parse(input.Expression)
	if err != nil {
		return nil, EvaluateOutput{}, err
	}
	v, err := f.Eval(input.X)
	if err != nil {
		return nil, EvaluateOutput{}, fmt.Errorf("evaluate %s: %w", input.Expression, err)
	}
	return nil, EvaluateOutput{Value: v}, nil
}

func toSolveOutput(res goroots.SolveResult, solveErr error) SolveOutput {
	out := SolveOutput{
		Method:     res.Method.String(),
		Iterations: res.Iterations,
		Converged:  res.Converged,
		Status:     res.Status.String(),
		Summary:    res.Summary(),
		Trace:      make([]TraceRow, len(res.Trace)),
	}
	if v, ok := res.Root.Get(); ok {
		out.Root = &v
	}
	if solveErr != nil {
		out.Error = solveErr.Error()
	}
	for i, rec := range res.Trace {
		row := TraceRow{Index: rec.Index, Estimate: rec.Estimate, Value: rec.Value}
		if v, ok := rec.Left.Get(); ok {
			row.Left = &v
		}
		if v, ok := rec.Right.Get(); ok {
			row.Right = &v
		}
		out.Trace[i] = row
	}
	return out
}
