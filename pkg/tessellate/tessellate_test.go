package tessellate_test

import (
	"math"
	"testing"

	"github.com/chazu/wingsmith/pkg/bspline"
	"github.com/chazu/wingsmith/pkg/design"
	"github.com/chazu/wingsmith/pkg/kernel"
	"github.com/chazu/wingsmith/pkg/profile"
	"github.com/chazu/wingsmith/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// makeProject creates one wing with a segment at each span station.
func makeProject(t *testing.T, stations ...float64) *design.Project {
	t.Helper()
	p := design.NewProject("tess")
	p.Settings.Performance = bspline.Coarse
	af, err := p.AddAirfoil(design.Airfoil{Name: "root", Params: profile.DefaultParams()})
	if err != nil {
		t.Fatal(err)
	}
	c := p.AddComponent("main", v3.Vec{})
	w, err := p.AddWing(c, "right", v3.Vec{})
	if err != nil {
		t.Fatal(err)
	}
	for _, z := range stations {
		seg := design.Segment{Airfoil: af, Placement: design.Placement{Z: z, Scale: 1}, Continuity: design.G1, TanAccel: 0.1}
		if _, err := p.AddSegment(w, seg); err != nil {
			t.Fatal(err)
		}
	}
	return p
}

func TestSinglePair(t *testing.T) {
	meshes, err := tessellate.Project(makeProject(t, 0, 1))
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if len(meshes) != profile.FamilyCount {
		t.Fatalf("expected %d meshes, got %d", profile.FamilyCount, len(meshes))
	}
	for i, f := range profile.Families {
		m := meshes[i]
		if m.IsEmpty() {
			t.Errorf("%s mesh is empty", f)
		}
		if want := tessellate.PartName("right", 0, f); m.PartName != want {
			t.Errorf("mesh %d PartName = %q, want %q", i, m.PartName, want)
		}
	}
}

func TestMeshesFaceOutwards(t *testing.T) {
	outward := map[profile.Family]v3.Vec{
		profile.LE: {X: -1},
		profile.TE: {X: 1},
		profile.PS: {Y: -1},
		profile.SS: {Y: 1},
	}
	for _, stations := range [][]float64{{0, 1}, {0, -1}} {
		meshes, err := tessellate.Project(makeProject(t, stations...))
		if err != nil {
			t.Fatal(err)
		}
		for i, f := range profile.Families {
			m := meshes[i]
			res := int(math.Sqrt(float64(m.VertexCount())))
			mid := uint32((res/2)*res + res/2)
			n := v3.Vec{X: float64(m.Normals[3*mid]), Y: float64(m.Normals[3*mid+1]), Z: float64(m.Normals[3*mid+2])}
			if n.Dot(outward[f]) <= 0 {
				t.Errorf("stations %v: %s normal %v points into the wing", stations, f, n)
			}

			cell := 2 * ((res/2)*(res-1) + res/2)
			tri := m.Triangle(cell)
			a := v3.Vec{X: float64(tri[0][0]), Y: float64(tri[0][1]), Z: float64(tri[0][2])}
			b := v3.Vec{X: float64(tri[1][0]), Y: float64(tri[1][1]), Z: float64(tri[1][2])}
			c := v3.Vec{X: float64(tri[2][0]), Y: float64(tri[2][1]), Z: float64(tri[2][2])}
			if b.Sub(a).Cross(c.Sub(a)).Dot(outward[f]) <= 0 {
				t.Errorf("stations %v: %s triangles wound inwards", stations, f)
			}
		}
	}
}

func TestThreeSegments(t *testing.T) {
	meshes, err := tessellate.Project(makeProject(t, 0, 1, 3))
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if len(meshes) != 2*profile.FamilyCount {
		t.Fatalf("expected %d meshes, got %d", 2*profile.FamilyCount, len(meshes))
	}

	min, max, ok := kernel.Bounds(meshes...)
	if !ok {
		t.Fatal("no geometry")
	}
	if min[2] != 0 || max[2] != 3 {
		t.Errorf("span extent = [%g, %g], want [0, 3]", min[2], max[2])
	}
}

func TestSingleSegmentProducesNothing(t *testing.T) {
	meshes, err := tessellate.Project(makeProject(t, 0))
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if len(meshes) != 0 {
		t.Errorf("expected no meshes, got %d", len(meshes))
	}
}

func TestNilProject(t *testing.T) {
	meshes, err := tessellate.Project(nil)
	if err != nil || meshes != nil {
		t.Errorf("Project(nil) = %v, %v; want nil, nil", meshes, err)
	}
}

func TestMerge(t *testing.T) {
	meshes, err := tessellate.Project(makeProject(t, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	merged := tessellate.Merge("right", meshes)
	var verts, tris int
	for _, m := range meshes {
		verts += m.VertexCount()
		tris += m.TriangleCount()
	}
	if merged.VertexCount() != verts || merged.TriangleCount() != tris {
		t.Errorf("merged = %d verts, %d tris; want %d, %d", merged.VertexCount(), merged.TriangleCount(), verts, tris)
	}
	if merged.PartName != "right" {
		t.Errorf("PartName = %q", merged.PartName)
	}
}
