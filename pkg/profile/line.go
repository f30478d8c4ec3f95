package profile

import (
	"errors"
	"fmt"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// ErrParallel is returned when two construction lines never meet.
var ErrParallel = errors.New("lines are parallel")

// parallelTol is the slope difference below which two lines are parallel.
const parallelTol = 1e-12

// Line is a straight line in slope/intercept form y = Slope*x + Intercept.
// Vertical lines carry X instead.
type Line struct {
	Slope     float64
	Intercept float64
	Vertical  bool
	X         float64
}

// LineThrough returns the line through p at angle degrees from the X axis.
func LineThrough(p v2.Vec, angle float64) Line {
	rad := angle * math.Pi / 180
	if math.Abs(math.Cos(rad)) < 1e-12 {
		return Line{Vertical: true, X: p.X}
	}
	a := math.Tan(rad)
	return Line{Slope: a, Intercept: p.Y - a*p.X}
}

// At returns y on the line at x. Undefined for vertical lines.
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Intersect solves l and o for their common point. Lines of equal slope
// return ErrParallel rather than an infinite point.
func (l Line) Intersect(o Line) (v2.Vec, error) {
	switch {
	case l.Vertical && o.Vertical:
		return v2.Vec{}, ErrParallel
	case l.Vertical:
		return v2.Vec{X: l.X, Y: o.At(l.X)}, nil
	case o.Vertical:
		return v2.Vec{X: o.X, Y: l.At(o.X)}, nil
	}
	den := l.Slope - o.Slope
	if math.Abs(den) <= parallelTol {
		return v2.Vec{}, fmt.Errorf("%w: slope %g", ErrParallel, l.Slope)
	}
	x := (o.Intercept - l.Intercept) / den
	return v2.Vec{X: x, Y: l.At(x)}, nil
}
