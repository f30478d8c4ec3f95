package wing

import (
	"errors"
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrExtentMismatch is returned when boundary curves cannot bound one grid.
var ErrExtentMismatch = errors.New("boundary extents do not match")

// cornerTol is the distance under which two boundary endpoints are the same
// corner.
const cornerTol = 1e-9

// Coons fills a [u][v] control grid from four boundary polygons: u0 and u1
// run along v at u=0 and u=1, b0 and b1 run along u at v=0 and v=1.
//
//	grid[u][v] = Cu(v) + Cv(u) - bilinear(u, v)
//
// On each boundary the two matching terms cancel exactly, so the grid
// reproduces its boundary polygons bit for bit.
func Coons(u0, u1, b0, b1 []v3.Vec) ([][]v3.Vec, error) {
	nv, nu := len(u0), len(b0)
	switch {
	case nv < 2 || nu < 2:
		return nil, fmt.Errorf("%w: %dx%d grid", ErrExtentMismatch, nu, nv)
	case len(u1) != nv:
		return nil, fmt.Errorf("%w: u boundaries have %d and %d points", ErrExtentMismatch, nv, len(u1))
	case len(b1) != nu:
		return nil, fmt.Errorf("%w: v boundaries have %d and %d points", ErrExtentMismatch, nu, len(b1))
	}
	if err := matchCorner(b0[0], u0[0], "u=0 v=0"); err != nil {
		return nil, err
	}
	if err := matchCorner(b0[nu-1], u1[0], "u=1 v=0"); err != nil {
		return nil, err
	}
	if err := matchCorner(b1[0], u0[nv-1], "u=0 v=1"); err != nil {
		return nil, err
	}
	if err := matchCorner(b1[nu-1], u1[nv-1], "u=1 v=1"); err != nil {
		return nil, err
	}

	grid := make([][]v3.Vec, nu)
	for i := range grid {
		s := float64(i) / float64(nu-1)
		bottom := lerp(u0[0], u1[0], s)
		top := lerp(u0[nv-1], u1[nv-1], s)
		grid[i] = make([]v3.Vec, nv)
		for j := range grid[i] {
			t := float64(j) / float64(nv-1)
			cu := lerp(u0[j], u1[j], s)
			cv := lerp(b0[i], b1[i], t)
			bil := lerp(bottom, top, t)
			if i == 0 || i == nu-1 {
				grid[i][j] = cu.Add(cv.Sub(bil))
			} else {
				grid[i][j] = cv.Add(cu.Sub(bil))
			}
		}
	}
	return grid, nil
}

func lerp(a, b v3.Vec, s float64) v3.Vec {
	return a.MulScalar(1 - s).Add(b.MulScalar(s))
}

// coincident reports whether a and b agree within tol on every axis. NaN
// never agrees.
func coincident(a, b v3.Vec, tol float64) bool {
	d := a.Sub(b)
	return math.Abs(d.X) <= tol && math.Abs(d.Y) <= tol && math.Abs(d.Z) <= tol
}

func matchCorner(a, b v3.Vec, where string) error {
	if !coincident(a, b, cornerTol) {
		return fmt.Errorf("%w: corner %s differs: %v vs %v", ErrExtentMismatch, where, a, b)
	}
	return nil
}
