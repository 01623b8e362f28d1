package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/kinship/internal/adapters/gedmatch"
	"github.com/example/kinship/internal/ports/primary"
	"github.com/example/kinship/internal/wire"
)

// AddCmd returns the add command
func AddCmd() *cobra.Command {
	var project string
	var source string

	cmd := &cobra.Command{
		Use:   "add <file>...",
		Short: "Import GEDmatch segment export files",
		Long: `Import one or more GEDmatch CSV exports into the project.

The file kind is detected from its header columns: pairwise match exports
are imported as matches, triangulation exports as triangles. Triangulation
files do not name the kit they were exported for, so importing one requires
--source with that kit number.

Re-importing a file is harmless: rows already in the project are skipped.
Any import that adds rows marks the project as needing a rebuild.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := wire.Open(project)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, path := range args {
				if err := addFile(cmd, a, path, source); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "kinship.db", "project file path")
	cmd.Flags().StringVar(&source, "source", "", "kit number a triangulation file was exported for")

	return cmd
}

func addFile(cmd *cobra.Command, a *wire.App, path, source string) error {
	kind, err := gedmatch.Detect(path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var summary *primary.ImportSummary
	switch kind {
	case gedmatch.KindMatches:
		rows, err := gedmatch.ParseMatches(f)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		summary, err = a.Import.ImportMatches(cmd.Context(), rows)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	case gedmatch.KindTriangles:
		if source == "" {
			return fmt.Errorf("%s is a triangulation export: pass --source with the kit it was exported for", path)
		}
		rows, err := gedmatch.ParseTriangles(f, source)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		summary, err = a.Import.ImportTriangles(cmd.Context(), rows)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	default:
		return fmt.Errorf("%s is not a recognized GEDmatch export", path)
	}

	fmt.Printf("%s %s: %d rows (%d new kits, %d new segments, %d new matches, %d new triangles)\n",
		color.GreenString("✓"), path, summary.Rows,
		summary.NewKits, summary.NewSegments, summary.NewMatches, summary.NewTriangles)
	return nil
}
