package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/wingsmith/pkg/step"
)

var profileOut string

var profileCmd = &cobra.Command{
	Use:   "profile <script>",
	Short: "Write the section profiles as a STEP wireframe",
	Long: `Evaluate a design script and write the placed profile curves of every
segment, plus the bridges between connected segments, as a STEP wireframe.
Unlike export this works on wings with a single segment.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVarP(&profileOut, "output", "o", "", "output file (default <script>.profiles.step)")
}

func runProfile(cmd *cobra.Command, args []string) error {
	p, err := loadProject(args[0])
	if err != nil {
		return err
	}
	data, err := step.ExportProfiles(context.Background(), p, exportOptions())
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	out := outputPath(profileOut, args[0], ".profiles.step")
	if err := step.WriteFile(out, data); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
