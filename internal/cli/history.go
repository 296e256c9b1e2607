package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njchilds90/goroots/internal/render"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Saved solver runs",
	Long:  `List, show and delete runs saved with solve --save or history.enabled.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a run with its iteration trace",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs (0 = all)")
	historyShowCmd.Flags().BoolVar(&historyJSON, "json", false, "output the run as JSON")
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No saved runs.")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(out, "%s  %s  %-14s %-16s %s  %s\n",
			run.ID, run.CreatedAt.Local().Format("2006-01-02 15:04"),
			run.Request.Method, run.Result.Status, run.Result.Root, run.Request.Expression)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("run %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	if historyJSON {
		data, err := json.MarshalIndent(run, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal run: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	req := run.Request
	fmt.Fprintf(out, "f(x) = %s\n", req.Expression)
	fmt.Fprintf(out, "%s  a=%g b=%g tol=%g max_iter=%d\n", req.Method, req.A, req.B, req.Options.Tolerance, req.Options.MaxIter)
	var solveErr error
	if run.Error != "" {
		solveErr = errors.New(run.Error)
	}
	fmt.Fprintln(out, render.Result(nil, run.Result, solveErr))
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("run %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return nil
}
