// Package cli contains the cobra commands for the kinship tool.
package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/kinship/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var project string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new project file",
		Long: `Create a new project file with an empty record store.

All other commands operate on a project file; pass the same --project path
to them, or keep the default kinship.db in the working directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := wire.Create(project, force)
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Printf("%s Project created at %s\n", color.GreenString("✓"), project)
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Printf("  kinship add -p %s <gedmatch-export.csv>\n", project)
			fmt.Printf("  kinship build -p %s\n", project)

			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "kinship.db", "project file path")
	cmd.Flags().BoolVar(&force, "force", false, "reinitialize an existing project file")

	return cmd
}
