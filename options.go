package goroots

import (
	"fmt"
	"math"
)

const (
	// DefaultTolerance is the convergence threshold used when none is given.
	DefaultTolerance = 1e-6

	// DefaultMaxIter is the iteration cap used when none is given.
	DefaultMaxIter = 100
)

// Options configures a single solver call. It is passed by value; a zero field
// means "use the default".
//
// Tolerance is compared against the bracket half-width in bisection, against
// |x1-x0| in secant and against |f(x)| in Newton. MaxIter is a hard cap on loop
// passes and the only bound on work.
type Options struct {
	Tolerance float64 `json:"tolerance" mapstructure:"tolerance"`
	MaxIter   int     `json:"max_iter" mapstructure:"max_iter"`
}

// DefaultOptions returns Tolerance=1e-6, MaxIter=100.
func DefaultOptions() Options {
	return Options{Tolerance: DefaultTolerance, MaxIter: DefaultMaxIter}
}

// Validate rejects negative or non-finite settings. Zero values are accepted
// and later replaced by defaults.
func (o Options) Validate() error {
	if o.Tolerance < 0 || math.IsNaN(o.Tolerance) || math.IsInf(o.Tolerance, 0) {
		return fmt.Errorf("%w: tolerance %g", ErrInvalidOptions, o.Tolerance)
	}
	if o.MaxIter < 0 {
		return fmt.Errorf("%w: max_iter %d", ErrInvalidOptions, o.MaxIter)
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIter == 0 {
		o.MaxIter = DefaultMaxIter
	}
	return o
}
