package sdfx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/wingsmith/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func square() *kernel.Mesh {
	return &kernel.Mesh{
		Vertices: []float32{0, 0, 0, 2, 0, 0, 2, 1, 0, 0, 1, 3},
		Normals:  make([]float32, 12),
		Indices:  []uint32{0, 1, 2, 2, 3, 0},
		PartName: "square",
	}
}

func TestTriangles(t *testing.T) {
	tris := Triangles(square(), square())
	if len(tris) != 4 {
		t.Fatalf("got %d triangles, want 4", len(tris))
	}
	if got, want := tris[1][1], (v3.Vec{Y: 1, Z: 3}); got != want {
		t.Errorf("triangle 1 corner 1 = %v, want %v", got, want)
	}
}

func TestBoundingBox(t *testing.T) {
	bb, ok := BoundingBox(square())
	if !ok {
		t.Fatal("BoundingBox reported no geometry")
	}
	if bb.Min != (v3.Vec{}) || bb.Max != (v3.Vec{X: 2, Y: 1, Z: 3}) {
		t.Errorf("BoundingBox = %v..%v", bb.Min, bb.Max)
	}
	if _, ok := BoundingBox(&kernel.Mesh{}); ok {
		t.Error("empty mesh should have no bounding box")
	}
}

func TestWriteMeshes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.stl")
	if err := New().WriteMeshes(path, []*kernel.Mesh{square()}); err != nil {
		t.Fatalf("WriteMeshes: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() <= 84 {
		t.Errorf("STL file is %d bytes, expected header plus triangles", info.Size())
	}
}

func TestWriteMeshesEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.stl")
	if err := New().WriteMeshes(path, nil); err == nil {
		t.Fatal("expected error for empty mesh list")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file should not exist, stat error = %v", err)
	}
}
