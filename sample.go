package goroots

import "fmt"

// DefaultSamples is the number of plot points used when Sample is given n <= 1.
const DefaultSamples = 400

// Point is one plot sample. OK is false where f is undefined; Y is then zero
// and a renderer should break the curve.
type Point struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	OK bool    `json:"ok"`
}

// Sample evaluates f at n evenly spaced points across [lo, hi], endpoints
// included.
func Sample(f Function, lo, hi float64, n int) ([]Point, error) {
	if !isFinite(lo) || !isFinite(hi) || lo >= hi {
		return nil, fmt.Errorf("%w: [%g, %g]", ErrInvalidRange, lo, hi)
	}
	if n <= 1 {
		n = DefaultSamples
	}
	step := (hi - lo) / float64(n-1)
	points := make([]Point, n)
	for i := range points {
		x := lo + float64(i)*step
		if i == n-1 {
			x = hi
		}
		y, err := f.Eval(x)
		points[i] = Point{X: x, Y: y, OK: err == nil}
		if err != nil {
			points[i].Y = 0
		}
	}
	return points, nil
}
