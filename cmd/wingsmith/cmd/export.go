package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/chazu/wingsmith/pkg/step"
	"github.com/chazu/wingsmith/pkg/wing"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <script>",
	Short: "Write the wing surfaces as a STEP file",
	Long: `Evaluate a design script and write every face between consecutive
segments as a B-spline surface in a STEP AP203 open shell. Faces that share a
profile or bridge share the same edge. Wings with a single segment have no
faces; they are named on stderr and left out.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default <script>.step)")
}

func runExport(cmd *cobra.Command, args []string) error {
	p, err := loadProject(args[0])
	if err != nil {
		return err
	}
	geoms, err := wing.BuildAll(p)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for _, name := range step.SkippedWings(geoms) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: warning: skipping wing %q: single segment has no faces\n", args[0], name)
	}
	data, err := step.ExportGeometry(context.Background(), geoms, exportOptions().WithProject(p))
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	out := outputPath(exportOut, args[0], ".step")
	if err := step.WriteFile(out, data); err != nil {
		return err
	}
	log.Printf("wrote %d bytes", len(data))
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
