package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/kinship/internal/app"
	"github.com/example/kinship/internal/wire"
)

// BuildCmd returns the build command
func BuildCmd() *cobra.Command {
	var project string
	var force bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Recompute partitions and inferred negative triangulations",
		Long: `Recompute all derived data from the imported matches and triangles:
the atomic interval partition of every chromosome, the estimated genetic
length of each partition, and the inferred negative triangulations.

A build replaces the previous derived data wholesale. If nothing was
imported since the last build there is nothing to do; --force rebuilds
anyway.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := wire.Open(project)
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.Build.Build(cmd.Context(), force)
			if errors.Is(err, app.ErrAlreadyBuilt) {
				fmt.Println("Project is already built; use --force to rebuild.")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Printf("%s Built %d chromosomes: %d partitions, %d imputed segments, %d negative triangulations\n",
				color.GreenString("✓"), summary.Chromosomes,
				summary.Partitions, summary.ImputedSegments, summary.Negatives)
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "kinship.db", "project file path")
	cmd.Flags().BoolVar(&force, "force", false, "rebuild even when the project is up to date")

	return cmd
}
