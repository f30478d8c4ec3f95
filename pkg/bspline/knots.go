package bspline

import (
	"errors"
	"fmt"
)

var (
	// ErrTooFewPoints is returned when a control polygon cannot carry the
	// requested degree.
	ErrTooFewPoints = errors.New("bspline: too few control points")
	// ErrDegree is returned for degrees below 1.
	ErrDegree = errors.New("bspline: degree must be at least 1")
	// ErrKnots is returned when a knot vector does not match its control polygon.
	ErrKnots = errors.New("bspline: knot vector length mismatch")
)

// CurveDegree returns the sampling degree for a polygon of n points: cubic
// where possible, lower for short polygons.
func CurveDegree(n int) int {
	return min(3, n-1)
}

// ClampedKnots returns a clamped uniform knot vector for n control points of
// the given degree: degree+1 zeros, n-degree-1 evenly spaced interior knots,
// degree+1 ones.
func ClampedKnots(n, degree int) ([]float64, error) {
	if degree < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrDegree, degree)
	}
	if n < 2 || n < degree+1 {
		return nil, fmt.Errorf("%w: %d points for degree %d", ErrTooFewPoints, n, degree)
	}

	knots := make([]float64, n+degree+1)
	interior := n - degree - 1
	for i := 0; i < interior; i++ {
		knots[degree+1+i] = float64(i+1) / float64(interior+1)
	}
	for i := n; i < len(knots); i++ {
		knots[i] = 1
	}
	return knots, nil
}

// CompressKnots folds a knot vector into distinct values and their
// multiplicities, the form STEP stores them in.
func CompressKnots(knots []float64) (values []float64, mults []int) {
	for i, k := range knots {
		if i > 0 && k == values[len(values)-1] {
			mults[len(mults)-1]++
			continue
		}
		values = append(values, k)
		mults = append(mults, 1)
	}
	return values, mults
}

// findSpan returns the index k with knots[k] <= u < knots[k+1], restricted to
// the valid range [degree, n-1].
func findSpan(n, degree int, u float64, knots []float64) int {
	if u >= knots[n] {
		return n - 1
	}
	lo, hi := degree, n
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if u < knots[mid] {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo
}
