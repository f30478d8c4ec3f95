// Package surface evaluates face control grids into sampled B-spline
// surfaces and triangle meshes.
package surface

import (
	"fmt"

	"github.com/chazu/wingsmith/pkg/bspline"
	"github.com/chazu/wingsmith/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Surface is a sampled clamped B-spline surface. Points and Normals are
// indexed [u][v] like the control grid.
type Surface struct {
	Spline  *bspline.Surface
	Points  [][]v3.Vec
	Normals [][]v3.Vec
}

// Evaluate builds the surface over grid and samples it at the resolution
// chosen by perf in both directions.
func Evaluate(grid [][]v3.Vec, perf bspline.Performance) (*Surface, error) {
	spline, err := bspline.NewSurface(grid)
	if err != nil {
		return nil, fmt.Errorf("surface: %w", err)
	}
	res := bspline.SurfaceSamples(perf)
	pts, err := spline.Sample(res, res)
	if err != nil {
		return nil, fmt.Errorf("surface: %w", err)
	}
	return &Surface{Spline: spline, Points: pts, Normals: normals(pts)}, nil
}

// Res returns the number of samples along u and v.
func (s *Surface) Res() (nu, nv int) {
	if len(s.Points) == 0 {
		return 0, 0
	}
	return len(s.Points), len(s.Points[0])
}

// Mesh triangulates the sample grid, two triangles per cell, wound so each
// face normal points along du x dv.
func (s *Surface) Mesh(name string) *kernel.Mesh {
	nu, nv := s.Res()
	m := &kernel.Mesh{
		Vertices: make([]float32, 0, nu*nv*3),
		Normals:  make([]float32, 0, nu*nv*3),
		PartName: name,
	}
	for i := 0; i < nu; i++ {
		for j := 0; j < nv; j++ {
			p, n := s.Points[i][j], s.Normals[i][j]
			m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
			m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		}
	}
	for i := 0; i+1 < nu; i++ {
		for j := 0; j+1 < nv; j++ {
			k := uint32(i*nv + j)
			next := k + uint32(nv)
			m.Indices = append(m.Indices, k, next, k+1, k+1, next, next+1)
		}
	}
	return m
}

// normals estimates unit normals from finite differences of the sample
// grid. Degenerate cells (collapsed edges) get a zero normal.
func normals(pts [][]v3.Vec) [][]v3.Vec {
	nu, nv := len(pts), len(pts[0])
	out := make([][]v3.Vec, nu)
	for i := range out {
		out[i] = make([]v3.Vec, nv)
		i0, i1 := max(i-1, 0), min(i+1, nu-1)
		for j := range out[i] {
			j0, j1 := max(j-1, 0), min(j+1, nv-1)
			du := pts[i1][j].Sub(pts[i0][j])
			dv := pts[i][j1].Sub(pts[i][j0])
			n := du.Cross(dv)
			if l := n.Length(); l > 1e-15 {
				out[i][j] = n.MulScalar(1 / l)
			}
		}
	}
	return out
}
