package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/wingsmith/pkg/step"
	"github.com/chazu/wingsmith/pkg/wing"
)

var checkCmd = &cobra.Command{
	Use:   "check <script>",
	Short: "Build the surface topology and report on it",
	Long: `Evaluate a design script, build the surface topology in memory and print
face, edge and vertex counts. Non-manifold edges or duplicate vertices make
the command fail.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	p, err := loadProject(args[0])
	if err != nil {
		return err
	}
	geoms, err := wing.BuildAll(p)
	if err != nil {
		return err
	}
	report, err := step.Check(context.Background(), geoms)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), report)
	if !report.OK() {
		return errors.New("check: topology is not a clean open shell")
	}
	return nil
}
