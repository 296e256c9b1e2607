package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	goroots "github.com/njchilds90/goroots"
	"github.com/njchilds90/goroots/internal/render"
)

// plotPoints is the number of samples printed by solve --plot.
const plotPoints = 11

var (
	solveMethod  string
	solveA       float64
	solveB       float64
	solveTol     float64
	solveMaxIter int
	solveJSON    bool
	solveSave    bool
	solvePlot    bool
)

var solveCmd = &cobra.Command{
	Use:   "solve [expression]",
	Short: "Find a root of f(x) = 0",
	Long: `Runs one of the iterative root finders and prints the iteration trace.

  bisection  needs a bracket --a < --b with f(a), f(b) of opposite signs
  secant     starts from x0 = --a and x1 = --b
  newton     starts from x0 = --a and uses the exact symbolic derivative

Tolerance and iteration cap default to the solver section of the config.`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().StringVarP(&solveMethod, "method", "m", "bisection", "bisection, secant or newton")
	solveCmd.Flags().Float64Var(&solveA, "a", 0, "bracket start, first point or x0")
	solveCmd.Flags().Float64Var(&solveB, "b", 0, "bracket end or second point (ignored by newton)")
	solveCmd.Flags().Float64Var(&solveTol, "tol", 0, "tolerance (0 = config default)")
	solveCmd.Flags().IntVar(&solveMaxIter, "max-iter", 0, "iteration cap (0 = config default)")
	solveCmd.Flags().BoolVar(&solveJSON, "json", false, "output the result as JSON")
	solveCmd.Flags().BoolVar(&solveSave, "save", false, "save the run to history (always on when history.enabled)")
	solveCmd.Flags().BoolVar(&solvePlot, "plot", false, "also print f sampled across the plot range")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	method, err := goroots.ParseMethod(solveMethod)
	if err != nil {
		return err
	}

	opts := cfg.SolverOptions()
	if solveTol != 0 {
		opts.Tolerance = solveTol
	}
	if solveMaxIter != 0 {
		opts.MaxIter = solveMaxIter
	}
	req := goroots.Request{
		Expression: args[0],
		Method:     method,
		A:          solveA,
		B:          solveB,
		Options:    opts,
	}

	res, solveErr := goroots.Solve(req)
	logger.Debug("solve finished",
		zap.String("expression", req.Expression),
		zap.Stringer("method", method),
		zap.Stringer("status", res.Status),
		zap.Int("iterations", res.Iterations),
		zap.Error(solveErr))

	runID := ""
	if solveSave || cfg.History.Enabled {
		runID, err = saveRun(cmd, req, res, solveErr)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if solveJSON {
		payload := struct {
			RunID string `json:"run_id,omitempty"`
			goroots.SolveResult
			Error string `json:"error,omitempty"`
		}{RunID: runID, SolveResult: res}
		if solveErr != nil {
			payload.Error = solveErr.Error()
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return solveErr
	}

	fmt.Fprintln(out, render.Result(nil, res, solveErr))
	if runID != "" {
		fmt.Fprintf(out, "saved as %s\n", runID)
	}
	if solvePlot {
		if err := printPlot(cmd, req, res); err != nil {
			return err
		}
	}
	return solveErr
}

func saveRun(cmd *cobra.Command, req goroots.Request, res goroots.SolveResult, solveErr error) (string, error) {
	store, err := openHistory()
	if err != nil {
		return "", err
	}
	defer store.Close()

	id, err := store.Save(cmd.Context(), req, res, solveErr)
	if err != nil {
		return "", fmt.Errorf("saving run: %w", err)
	}
	logger.Debug("run saved", zap.String("id", id), zap.String("db", store.Path()))
	return id, nil
}

func printPlot(cmd *cobra.Command, req goroots.Request, res goroots.SolveResult) error {
	f, err := goroots.Parse(req.Expression)
	if err != nil {
		return err
	}
	lo, hi := goroots.PlotRange(req, res)
	points, err := goroots.Sample(f, lo, hi, plotPoints)
	if err != nil {
		return fmt.Errorf("sampling plot range: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), render.Points(nil, points))
	return nil
}
