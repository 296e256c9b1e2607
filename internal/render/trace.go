package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	goroots "github.com/njchilds90/goroots"
)

// Headers returns the trace column titles for a method. Newton rows have no
// right-hand value, so its table has one column fewer.
func Headers(m goroots.Method) []string {
	switch m {
	case goroots.MethodBisection:
		return []string{"Iteration", "a", "b", "c", "f(c)"}
	case goroots.MethodSecant:
		return []string{"Iteration", "x0", "x1", "x2", "f(x2)"}
	default:
		return []string{"Iteration", "x0", "x1", "f(x1)"}
	}
}

// Rows formats every record with six decimals, absent values as N/A.
func Rows(m goroots.Method, t goroots.Trace) [][]string {
	rows := make([][]string, 0, len(t))
	for _, rec := range t {
		row := []string{strconv.Itoa(rec.Index + 1), rec.Left.String()}
		if m != goroots.MethodNewton {
			row = append(row, rec.Right.String())
		}
		row = append(row, fmt.Sprintf("%.6f", rec.Estimate), fmt.Sprintf("%.6f", rec.Value))
		rows = append(rows, row)
	}
	return rows
}

// TraceTable renders the iteration trace as a bordered table.
func TraceTable(s *Styles, res goroots.SolveResult) string {
	if s == nil {
		s = NewStyles(nil)
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.Border).
		Headers(Headers(res.Method)...).
		Rows(Rows(res.Method, res.Trace)...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Header
			}
			return s.Cell
		})
	return t.String()
}

// Summary renders the one-line outcome, coloured by status. err is the error
// returned with res, if any.
func Summary(s *Styles, res goroots.SolveResult, err error) string {
	if s == nil {
		s = NewStyles(nil)
	}
	var b strings.Builder
	switch res.Status {
	case goroots.StatusConverged, goroots.StatusExactRoot:
		b.WriteString(s.Success.Render("✓ " + res.Summary()))
	case goroots.StatusIterationCap:
		b.WriteString(s.Warning.Render("! " + res.Summary()))
	default:
		b.WriteString(s.Error.Render("✗ " + res.Summary()))
	}
	if err != nil && !res.Converged {
		b.WriteString("\n")
		b.WriteString(s.Muted.Render(err.Error()))
	}
	return b.String()
}

// Result renders the table followed by the summary. An empty trace renders
// only the summary.
func Result(s *Styles, res goroots.SolveResult, err error) string {
	if len(res.Trace) == 0 {
		return Summary(s, res, err)
	}
	return TraceTable(s, res) + "\n" + Summary(s, res, err)
}

// Points renders plot samples as a two-column table; undefined points show
// as N/A.
func Points(s *Styles, points []goroots.Point) string {
	if s == nil {
		s = NewStyles(nil)
	}
	rows := make([][]string, len(points))
	for i, p := range points {
		y := "N/A"
		if p.OK {
			y = fmt.Sprintf("%.6f", p.Y)
		}
		rows[i] = []string{fmt.Sprintf("%.6f", p.X), y}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.Border).
		Headers("x", "f(x)").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Header
			}
			return s.Cell
		}).
		String()
}
