// Package sdfx writes kernel meshes through the github.com/deadsy/sdfx
// render package and measures them with sdf bounding boxes.
package sdfx

import (
	"fmt"

	"github.com/chazu/wingsmith/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.MeshWriter = (*STLWriter)(nil)

// STLWriter writes meshes as a single binary STL file.
type STLWriter struct{}

// New returns a new STLWriter.
func New() *STLWriter {
	return &STLWriter{}
}

// WriteMeshes writes every triangle of meshes to path.
func (w *STLWriter) WriteMeshes(path string, meshes []*kernel.Mesh) error {
	tris := Triangles(meshes...)
	if len(tris) == 0 {
		return fmt.Errorf("sdfx: no triangles to write to %s", path)
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("sdfx: save %s: %w", path, err)
	}
	return nil
}

// Triangles converts indexed meshes into sdfx triangles.
func Triangles(meshes ...*kernel.Mesh) []*sdf.Triangle3 {
	var out []*sdf.Triangle3
	for _, m := range meshes {
		for t := 0; t < m.TriangleCount(); t++ {
			corners := m.Triangle(t)
			var tri sdf.Triangle3
			for j, c := range corners {
				tri[j] = v3.Vec{X: float64(c[0]), Y: float64(c[1]), Z: float64(c[2])}
			}
			out = append(out, &tri)
		}
	}
	return out
}

// BoundingBox returns the sdf box enclosing meshes.
func BoundingBox(meshes ...*kernel.Mesh) (sdf.Box3, bool) {
	min, max, ok := kernel.Bounds(meshes...)
	if !ok {
		return sdf.Box3{}, false
	}
	return sdf.Box3{
		Min: v3.Vec{X: min[0], Y: min[1], Z: min[2]},
		Max: v3.Vec{X: max[0], Y: max[1], Z: max[2]},
	}, true
}
