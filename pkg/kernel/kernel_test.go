package kernel

import (
	"slices"
	"testing"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

// --- Mesh assembly ---

func quad(z float32) *Mesh {
	return &Mesh{
		Vertices: []float32{0, 0, z, 1, 0, z, 1, 1, z, 0, 1, z},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:  []uint32{0, 1, 2, 2, 3, 0},
	}
}

func TestMeshAppend(t *testing.T) {
	m := quad(0)
	m.Append(quad(2))

	if m.VertexCount() != 8 || m.TriangleCount() != 4 {
		t.Fatalf("got %d vertices, %d triangles; want 8, 4", m.VertexCount(), m.TriangleCount())
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Errorf("normals length %d != vertices length %d", len(m.Normals), len(m.Vertices))
	}
	got := m.Triangle(2)
	want := [3][3]float32{{0, 0, 2}, {1, 0, 2}, {1, 1, 2}}
	if got != want {
		t.Errorf("Triangle(2) = %v, want %v", got, want)
	}
}

func TestMeshFlip(t *testing.T) {
	m := quad(0)
	m.Flip()
	if got, want := m.Indices, []uint32{0, 2, 1, 2, 0, 3}; !slices.Equal(got, want) {
		t.Errorf("Indices = %v, want %v", got, want)
	}
	for i := 2; i < len(m.Normals); i += 3 {
		if m.Normals[i] != -1 {
			t.Fatalf("normal %d z = %g, want -1", i/3, m.Normals[i])
		}
	}
	m.Flip()
	if got := m.Indices; !slices.Equal(got, quad(0).Indices) {
		t.Errorf("double flip Indices = %v", got)
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name     string
		meshes   []*Mesh
		min, max [3]float64
		ok       bool
	}{
		{"none", nil, [3]float64{}, [3]float64{}, false},
		{"empty mesh", []*Mesh{{}}, [3]float64{}, [3]float64{}, false},
		{"one quad", []*Mesh{quad(-1)}, [3]float64{0, 0, -1}, [3]float64{1, 1, -1}, true},
		{"two quads", []*Mesh{quad(-1), quad(3)}, [3]float64{0, 0, -1}, [3]float64{1, 1, 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max, ok := Bounds(tt.meshes...)
			if ok != tt.ok || min != tt.min || max != tt.max {
				t.Errorf("Bounds() = %v, %v, %v; want %v, %v, %v", min, max, ok, tt.min, tt.max, tt.ok)
			}
		})
	}
}

// --- Compile-time interface check with a stub writer ---

type stubWriter struct {
	paths []string
}

func (w *stubWriter) WriteMeshes(path string, _ []*Mesh) error {
	w.paths = append(w.paths, path)
	return nil
}

var _ MeshWriter = (*stubWriter)(nil)
