package bspline

import "fmt"

// Vector is satisfied by the sdfx v2.Vec and v3.Vec types.
type Vector[T any] interface {
	Add(T) T
	MulScalar(float64) T
}

// Curve is a clamped B-spline curve with uniform weights.
type Curve[T Vector[T]] struct {
	Degree  int
	Control []T
	Knots   []float64
}

// NewCurve builds a clamped uniform curve of the given degree over ctrl.
func NewCurve[T Vector[T]](ctrl []T, degree int) (*Curve[T], error) {
	knots, err := ClampedKnots(len(ctrl), degree)
	if err != nil {
		return nil, err
	}
	return &Curve[T]{Degree: degree, Control: ctrl, Knots: knots}, nil
}

// Eval evaluates the curve at u in [0, 1]. The endpoints return the first and
// last control points exactly.
func (c *Curve[T]) Eval(u float64) T {
	n := len(c.Control)
	if u <= 0 {
		return c.Control[0]
	}
	if u >= 1 {
		return c.Control[n-1]
	}
	k := findSpan(n, c.Degree, u, c.Knots)
	return deBoor(k, c.Degree, u, c.Knots, c.Control)
}

// Sample evaluates the curve at samples evenly spaced parameters, endpoints
// included.
func (c *Curve[T]) Sample(samples int) []T {
	if samples < 2 {
		samples = 2
	}
	out := make([]T, samples)
	for i := range out {
		out[i] = c.Eval(float64(i) / float64(samples-1))
	}
	return out
}

// SampleCurve is shorthand for building a curve and sampling it.
func SampleCurve[T Vector[T]](ctrl []T, degree, samples int) ([]T, error) {
	c, err := NewCurve(ctrl, degree)
	if err != nil {
		return nil, err
	}
	return c.Sample(samples), nil
}

func validate[T any](ctrl []T, degree int, knots []float64) error {
	if len(knots) != len(ctrl)+degree+1 {
		return fmt.Errorf("%w: %d knots for %d points of degree %d", ErrKnots, len(knots), len(ctrl), degree)
	}
	return nil
}

// deBoor runs de Boor's algorithm on the span k.
func deBoor[T Vector[T]](k, p int, u float64, knots []float64, ctrl []T) T {
	d := make([]T, p+1)
	for j := 0; j <= p; j++ {
		d[j] = ctrl[j+k-p]
	}
	for r := 1; r <= p; r++ {
		for j := p; j >= r; j-- {
			lo := knots[j+k-p]
			den := knots[j+1+k-r] - lo
			alpha := 0.0
			if den != 0 {
				alpha = (u - lo) / den
			}
			d[j] = d[j-1].MulScalar(1 - alpha).Add(d[j].MulScalar(alpha))
		}
	}
	return d[p]
}
