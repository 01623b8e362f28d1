package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/kinship/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Summarize a project file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := wire.Open(project)
			if err != nil {
				return err
			}
			defer a.Close()

			status, err := a.Status.Status(cmd.Context())
			if err != nil {
				return err
			}

			built := color.YellowString("needs build")
			if status.CacheValid {
				built = color.GreenString("built")
			}
			fmt.Printf("Project %s (schema v%s, %s)\n", project, status.SchemaVersion, built)
			fmt.Println()
			fmt.Printf("  Kits:       %d\n", status.Kits)
			fmt.Printf("  Segments:   %d (+%d imputed)\n", status.Segments, status.ImputedSegments)
			fmt.Printf("  Matches:    %d\n", status.Matches)
			fmt.Printf("  Triangles:  %d\n", status.Triangles)
			fmt.Printf("  Partitions: %d\n", status.Partitions)
			fmt.Printf("  Negatives:  %d\n", status.Negatives)

			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "kinship.db", "project file path")

	return cmd
}
