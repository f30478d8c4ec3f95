package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/chazu/wingsmith/pkg/kernel"
	"github.com/chazu/wingsmith/pkg/kernel/sdfx"
	"github.com/chazu/wingsmith/pkg/tessellate"
)

var (
	meshOut   string
	meshMerge bool
)

var meshCmd = &cobra.Command{
	Use:   "mesh <script>",
	Short: "Tessellate the wings and write an STL file",
	Args:  cobra.ExactArgs(1),
	RunE:  runMesh,
}

func init() {
	rootCmd.AddCommand(meshCmd)
	meshCmd.Flags().StringVarP(&meshOut, "output", "o", "", "output file (default <script>.stl)")
	meshCmd.Flags().BoolVar(&meshMerge, "merge", false, "merge all faces into a single part before writing")
}

func runMesh(cmd *cobra.Command, args []string) error {
	p, err := loadProject(args[0])
	if err != nil {
		return err
	}
	meshes, err := tessellate.Project(p)
	if err != nil {
		return err
	}
	if meshMerge {
		meshes = []*kernel.Mesh{tessellate.Merge(p.Name, meshes)}
	}
	for _, m := range meshes {
		log.Printf("%s: %d vertices, %d triangles", m.PartName, m.VertexCount(), m.TriangleCount())
	}

	var w kernel.MeshWriter = sdfx.New()
	out := outputPath(meshOut, args[0], ".stl")
	if err := w.WriteMeshes(out, meshes); err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	fmt.Fprintln(stdout, out)
	if box, ok := sdfx.BoundingBox(meshes...); ok {
		size := box.Max.Sub(box.Min)
		fmt.Fprintf(stdout, "bounds: min (%.4g, %.4g, %.4g) max (%.4g, %.4g, %.4g) size (%.4g, %.4g, %.4g)\n",
			box.Min.X, box.Min.Y, box.Min.Z, box.Max.X, box.Max.Y, box.Max.Z, size.X, size.Y, size.Z)
	}
	return nil
}
