package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	goroots "github.com/njchilds90/goroots"
	"github.com/njchilds90/goroots/internal/render"
)

var (
	diffLaTeX bool

	sampleFrom float64
	sampleTo   float64
	sampleN    int
	sampleJSON bool
)

var diffCmd = &cobra.Command{
	Use:   "diff [expression]",
	Short: "Print the exact derivative",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := goroots.Parse(args[0])
		if err != nil {
			return err
		}
		df, err := f.Derivative()
		if err != nil {
			return err
		}
		if diffLaTeX {
			fmt.Fprintln(cmd.OutOrStdout(), df.LaTeX())
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "d/d%s %s = %s\n", f.Variable(), f, df)
		return nil
	},
}

var evalCmd = &cobra.Command{
	Use:   "eval [expression] [x]",
	Short: "Evaluate f at a point",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := goroots.Parse(args[0])
		if err != nil {
			return err
		}
		x, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid x %q: %w", args[1], err)
		}
		v, err := f.Eval(x)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(v, 'g', -1, 64))
		return nil
	},
}

var sampleCmd = &cobra.Command{
	Use:   "sample [expression]",
	Short: "Sample f across a range for plotting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := goroots.Parse(args[0])
		if err != nil {
			return err
		}
		points, err := goroots.Sample(f, sampleFrom, sampleTo, sampleN)
		if err != nil {
			return err
		}
		if sampleJSON {
			data, err := json.MarshalIndent(points, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal points: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.Points(nil, points))
		return nil
	},
}

func init() {
	diffCmd.Flags().BoolVar(&diffLaTeX, "latex", false, "print LaTeX instead of plain text")

	sampleCmd.Flags().Float64Var(&sampleFrom, "from", -5, "range start")
	sampleCmd.Flags().Float64Var(&sampleTo, "to", 5, "range end")
	sampleCmd.Flags().IntVarP(&sampleN, "n", "n", 21, "number of points")
	sampleCmd.Flags().BoolVar(&sampleJSON, "json", false, "output points as JSON")

	rootCmd.AddCommand(diffCmd, evalCmd, sampleCmd)
}
