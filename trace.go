package goroots

import (
	"encoding/json"
	"fmt"
)

// ============================================================
// MaybeFloat: a real that may be absent
// ============================================================

// MaybeFloat holds a real value or nothing. The zero value is absent.
type MaybeFloat struct {
	value float64
	valid bool
}

func Some(v float64) MaybeFloat { return MaybeFloat{value: v, valid: true} }
func None() MaybeFloat          { return MaybeFloat{} }

func (m MaybeFloat) Get() (float64, bool) { return m.value, m.valid }
func (m MaybeFloat) Valid() bool          { return m.valid }

// Or returns the value, or fallback when absent.
func (m MaybeFloat) Or(fallback float64) float64 {
	if !m.valid {
		return fallback
	}
	return m.value
}

// String formats with six decimals, or "N/A" when absent.
func (m MaybeFloat) String() string {
	if !m.valid {
		return "N/A"
	}
	return fmt.Sprintf("%.6f", m.value)
}

func (m MaybeFloat) MarshalJSON() ([]byte, error) {
	if !m.valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.value)
}

func (m *MaybeFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = None()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Some(v)
	return nil
}

// ============================================================
// IterationRecord and Trace
// ============================================================

// IterationRecord is one row of solver progress. Left and Right mean:
//   - bisection: bracket endpoints a, b
//   - secant:    the two previous iterates x0, x1
//   - Newton:    Left is the current iterate x0, Right is absent
//
// Estimate is the new point (c, x2 or x1) and Value is f(Estimate).
type IterationRecord struct {
	Index    int        `json:"index"`
	Left     MaybeFloat `json:"left"`
	Right    MaybeFloat `json:"right"`
	Estimate float64    `json:"estimate"`
	Value    float64    `json:"value"`
}

// Trace is the ordered record of a solve; Trace[i].Index == i.
type Trace []IterationRecord

func (t Trace) Len() int { return len(t) }

// Last returns the final record, if any.
func (t Trace) Last() (IterationRecord, bool) {
	if len(t) == 0 {
		return IterationRecord{}, false
	}
	return t[len(t)-1], true
}

// Estimates lists every Estimate in iteration order.
func (t Trace) Estimates() []float64 {
	out := make([]float64, len(t))
	for i, r := range t {
		out[i] = r.Estimate
	}
	return out
}

// recorder is owned by a single solver call and only ever appends.
type recorder struct {
	rows Trace
}

func (r *recorder) record(left, right MaybeFloat, estimate, value float64) {
	r.rows = append(r.rows, IterationRecord{
		Index:    len(r.rows),
		Left:     left,
		Right:    right,
		Estimate: estimate,
		Value:    value,
	})
}

func (r *recorder) trace() Trace {
	if len(r.rows) == 0 {
		return Trace{}
	}
	return append(Trace(nil), r.rows...)
}

// ============================================================
// SolveResult
// ============================================================

// Status tells why a solve stopped.
type Status int

const (
	StatusConverged Status = iota
	StatusExactRoot
	StatusIterationCap
	StatusNoSignChange
	StatusZeroDenominator
	StatusDomainError
	StatusInvalidInput
)

var statusNames = [...]string{
	StatusConverged:       "converged",
	StatusExactRoot:       "exact_root",
	StatusIterationCap:    "iteration_cap",
	StatusNoSignChange:    "no_sign_change",
	StatusZeroDenominator: "zero_denominator",
	StatusDomainError:     "domain_error",
	StatusInvalidInput:    "invalid_input",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("goroots: unknown status %q", text)
}

// SolveResult is produced exactly once per solver call. Root is absent when
// the solve failed; when the iteration cap was hit Root holds the best-effort
// estimate and Converged is false.
type SolveResult struct {
	Method     Method     `json:"method"`
	Root       MaybeFloat `json:"root"`
	Iterations int        `json:"iterations"`
	Trace      Trace      `json:"trace"`
	Converged  bool       `json:"converged"`
	Status     Status     `json:"status"`
}

// Summary is a one-line description suitable for a message box or log line.
func (r SolveResult) Summary() string {
	switch r.Status {
	case StatusConverged, StatusExactRoot:
		return fmt.Sprintf("root %s found by %s in %d iterations", r.Root, r.Method, r.Iterations)
	case StatusIterationCap:
		return fmt.Sprintf("%s did not converge in %d iterations; last estimate %s", r.Method, r.Iterations, r.Root)
	case StatusNoSignChange:
		return fmt.Sprintf("%s: f(a) and f(b) have the same sign, no root bracketed", r.Method)
	case StatusZeroDenominator:
		return fmt.Sprintf("%s stopped after %d iterations: zero denominator", r.Method, r.Iterations)
	case StatusInvalidInput:
		return fmt.Sprintf("%s: invalid input", r.Method)
	default:
		return fmt.Sprintf("%s stopped after %d iterations: function undefined", r.Method, r.Iterations)
	}
}
