// Package kernel defines the triangle mesh exchanged between the surface
// evaluator, the viewport and mesh file backends. Backends (sdfx) sit
// behind MeshWriter so the rest of the system never depends on one.
package kernel

// MeshWriter persists meshes to a file.
type MeshWriter interface {
	// WriteMeshes writes every mesh to a single file at path.
	WriteMeshes(path string, meshes []*Mesh) error
}

// Bounds returns the axis-aligned bounding box of every vertex in meshes.
// ok is false when no mesh has geometry.
func Bounds(meshes ...*Mesh) (min, max [3]float64, ok bool) {
	for _, m := range meshes {
		for i := 0; i+2 < len(m.Vertices); i += 3 {
			for k := 0; k < 3; k++ {
				v := float64(m.Vertices[i+k])
				if !ok || v < min[k] {
					min[k] = v
				}
				if !ok || v > max[k] {
					max[k] = v
				}
			}
			ok = true
		}
	}
	return min, max, ok
}
