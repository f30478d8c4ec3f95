package step

import (
	"context"
	"fmt"
	"strings"

	"github.com/chazu/wingsmith/pkg/wing"
)

// Report summarizes the topology of a surface export.
type Report struct {
	Faces    int
	Edges    int
	Vertices int
	Points   int

	// BoundaryEdges are used by exactly one face. An open shell always has
	// them at its root and tip profiles.
	BoundaryEdges []string
	// NonManifoldEdges are used by more than two faces.
	NonManifoldEdges []string
	// MisorientedEdges are shared by two faces that walk them in the same
	// direction, so the faces disagree about which side is out.
	MisorientedEdges []string
	// DuplicateVertices are distinct vertices closer than the coincidence
	// tolerance.
	DuplicateVertices [][2]Ref
	// SkippedWings have a single segment and contribute no faces.
	SkippedWings []string
}

// OK reports whether the shell is consistently oriented with no
// non-manifold edges and no duplicate vertices. Skipped wings do not make a
// report fail.
func (r *Report) OK() bool {
	return len(r.NonManifoldEdges) == 0 && len(r.MisorientedEdges) == 0 && len(r.DuplicateVertices) == 0
}

func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d faces, %d edges, %d vertices, %d points\n", r.Faces, r.Edges, r.Vertices, r.Points)
	fmt.Fprintf(&b, "%d boundary edges\n", len(r.BoundaryEdges))
	for _, e := range r.NonManifoldEdges {
		fmt.Fprintf(&b, "non-manifold edge: %s\n", e)
	}
	for _, e := range r.MisorientedEdges {
		fmt.Fprintf(&b, "misoriented edge: %s\n", e)
	}
	for _, w := range r.SkippedWings {
		fmt.Fprintf(&b, "skipped wing %q: single segment has no faces\n", w)
	}
	for _, d := range r.DuplicateVertices {
		fmt.Fprintf(&b, "duplicate vertices: #%d #%d\n", d[0], d[1])
	}
	return b.String()
}

// Check builds the surface topology of geoms in memory and reports on it.
// Nothing is written.
func Check(ctx context.Context, geoms []*wing.Geometry) (*Report, error) {
	x, err := buildSurfaces(ctx, geoms, Options{})
	if err != nil {
		return nil, err
	}
	t := x.topo
	r := &Report{
		Faces:    x.faces,
		Edges:    len(t.order),
		Vertices: len(t.vorder),
		Points:   len(t.points),

		SkippedWings: SkippedWings(geoms),
	}
	for _, e := range t.order {
		switch n := e.uses(); {
		case n == 1:
			r.BoundaryEdges = append(r.BoundaryEdges, e.key.String())
		case n > 2:
			r.NonManifoldEdges = append(r.NonManifoldEdges, e.key.String())
		case n == 2 && e.senses[0] == e.senses[1]:
			r.MisorientedEdges = append(r.MisorientedEdges, e.key.String())
		}
	}
	for i, a := range t.vorder {
		for _, b := range t.vorder[i+1:] {
			d := a.pos.Sub(b.pos)
			if d.Length() <= coincidentTol {
				r.DuplicateVertices = append(r.DuplicateVertices, [2]Ref{a.ref, b.ref})
			}
		}
	}
	return r, nil
}

// SkippedWings names the wings of geoms that surface export leaves out
// because they have a single segment.
func SkippedWings(geoms []*wing.Geometry) []string {
	var names []string
	for _, g := range geoms {
		if len(g.Pairs) == 0 {
			names = append(names, g.Name)
		}
	}
	return names
}
