package bspline

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Surface is a clamped tensor-product B-spline surface with uniform weights.
// Control is indexed [u][v].
type Surface struct {
	DegreeU, DegreeV int
	Control          [][]v3.Vec
	KnotsU, KnotsV   []float64
}

// NewSurface builds a surface over grid with degree min(3, n-1) in each
// direction and clamped uniform knots.
func NewSurface(grid [][]v3.Vec) (*Surface, error) {
	nu, nv, err := GridSize(grid)
	if err != nil {
		return nil, err
	}
	s := &Surface{
		DegreeU: CurveDegree(nu),
		DegreeV: CurveDegree(nv),
		Control: grid,
	}
	if s.KnotsU, err = ClampedKnots(nu, s.DegreeU); err != nil {
		return nil, fmt.Errorf("u direction: %w", err)
	}
	if s.KnotsV, err = ClampedKnots(nv, s.DegreeV); err != nil {
		return nil, fmt.Errorf("v direction: %w", err)
	}
	return s, nil
}

// GridSize returns the extents of a rectangular grid. Ragged grids and grids
// with fewer than two points in either direction are rejected.
func GridSize(grid [][]v3.Vec) (nu, nv int, err error) {
	nu = len(grid)
	if nu < 2 {
		return 0, 0, fmt.Errorf("%w: %d rows", ErrTooFewPoints, nu)
	}
	nv = len(grid[0])
	if nv < 2 {
		return 0, 0, fmt.Errorf("%w: %d columns", ErrTooFewPoints, nv)
	}
	for i, row := range grid {
		if len(row) != nv {
			return 0, 0, fmt.Errorf("bspline: ragged grid: row %d has %d points, want %d", i, len(row), nv)
		}
	}
	return nu, nv, nil
}

// Eval evaluates the surface at (u, v). Each row is reduced along v first,
// then the resulting column is evaluated along u.
func (s *Surface) Eval(u, v float64) v3.Vec {
	col := make([]v3.Vec, len(s.Control))
	for i, row := range s.Control {
		c := Curve[v3.Vec]{Degree: s.DegreeV, Control: row, Knots: s.KnotsV}
		col[i] = c.Eval(v)
	}
	c := Curve[v3.Vec]{Degree: s.DegreeU, Control: col, Knots: s.KnotsU}
	return c.Eval(u)
}

// Sample evaluates the surface on a resU x resV parameter lattice.
func (s *Surface) Sample(resU, resV int) ([][]v3.Vec, error) {
	if err := validate(s.Control, s.DegreeU, s.KnotsU); err != nil {
		return nil, err
	}
	if err := validate(s.Control[0], s.DegreeV, s.KnotsV); err != nil {
		return nil, err
	}
	resU, resV = max(resU, 2), max(resV, 2)
	out := make([][]v3.Vec, resU)
	for i := range out {
		u := float64(i) / float64(resU-1)
		out[i] = make([]v3.Vec, resV)
		for j := range out[i] {
			out[i][j] = s.Eval(u, float64(j)/float64(resV-1))
		}
	}
	return out, nil
}
