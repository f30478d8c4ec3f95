// Package tessellate walks built wings and produces triangle meshes for the
// viewport and mesh writers. One mesh is produced per face family per
// segment pair.
package tessellate

import (
	"fmt"

	"github.com/chazu/wingsmith/pkg/bspline"
	"github.com/chazu/wingsmith/pkg/design"
	"github.com/chazu/wingsmith/pkg/kernel"
	"github.com/chazu/wingsmith/pkg/profile"
	"github.com/chazu/wingsmith/pkg/surface"
	"github.com/chazu/wingsmith/pkg/wing"
)

// PartName names the mesh of face f between segments pair and pair+1.
func PartName(wingName string, pair int, f profile.Family) string {
	return fmt.Sprintf("%s.%d.%s", wingName, pair, f)
}

// Project builds every wing of p and tessellates it. The tessellator is
// read-only and never mutates the project.
func Project(p *design.Project) ([]*kernel.Mesh, error) {
	if p == nil {
		return nil, nil
	}
	geoms, err := wing.BuildAll(p)
	if err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}
	return Tessellate(geoms, p.Settings.Performance)
}

// Tessellate produces meshes for already built wings in wing, pair, face
// order. Single-segment wings contribute nothing.
func Tessellate(geoms []*wing.Geometry, perf bspline.Performance) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh
	for _, g := range geoms {
		collected, err := walkWing(g, perf)
		if err != nil {
			return nil, fmt.Errorf("tessellate: wing %q: %w", g.Name, err)
		}
		meshes = append(meshes, collected...)
	}
	return meshes, nil
}

// Merge joins meshes into one named mesh.
func Merge(name string, meshes []*kernel.Mesh) *kernel.Mesh {
	out := &kernel.Mesh{PartName: name}
	for _, m := range meshes {
		out.Append(m)
	}
	return out
}

func walkWing(g *wing.Geometry, perf bspline.Performance) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh
	for _, pair := range g.Pairs {
		collected, err := handlePair(g.Name, pair, perf)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, collected...)
	}
	return meshes, nil
}

func handlePair(wingName string, pair *wing.Pair, perf bspline.Performance) ([]*kernel.Mesh, error) {
	meshes := make([]*kernel.Mesh, 0, profile.FamilyCount)
	for _, f := range profile.Families {
		s, err := surface.Evaluate(pair.Grid(f), perf)
		if err != nil {
			return nil, fmt.Errorf("pair %d face %s: %w", pair.Index, f, err)
		}
		m := s.Mesh(PartName(wingName, pair.Index, f))
		if !pair.Outward[f] {
			m.Flip()
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}
