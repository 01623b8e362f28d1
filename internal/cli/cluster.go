package cli

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/kinship/internal/config"
	"github.com/example/kinship/internal/ports/primary"
	"github.com/example/kinship/internal/wire"
)

// ClusterCmd returns the cluster command
func ClusterCmd() *cobra.Command {
	var project string
	var out string

	cmd := &cobra.Command{
		Use:   "cluster <config.yaml>",
		Short: "Assign kits to family tree branches",
		Long: `Cluster the project's kits against a seed tree.

The YAML config names seed kits for the maternal and paternal branch at each
tree node, plus optional run parameters (max_depth, min_length,
pairwise_factor, exclude). A node may also list autox kits: everyone
sharing an X-chromosome match with one of them is pulled in as an extra
maternal seed there. Every kit is assigned the deepest branch the
match evidence supports: one M or P per split level, root first. Kits with
no connection to any seed stay unclassified.

The project must be built; run 'kinship build' after importing new data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadClusterConfig(args[0])
			if err != nil {
				return err
			}

			a, err := wire.Open(project)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.Cluster.Cluster(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if out != "" {
				if err := writeAssignments(out, result.Assignments); err != nil {
					return err
				}
				fmt.Printf("%s Wrote %d assignments to %s\n", color.GreenString("✓"), len(result.Assignments), out)
				return nil
			}

			for _, assignment := range result.Assignments {
				branch := assignment.Branch
				if branch == "" {
					branch = color.New(color.Faint).Sprint("-")
				} else {
					branch = color.CyanString(branch)
				}
				fmt.Printf("%-16s %-8s %s\n", assignment.KitID, branch, assignment.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "kinship.db", "project file path")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write assignments to a CSV file instead of stdout")

	return cmd
}

func writeAssignments(path string, assignments []primary.KitAssignment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"kit", "branch", "name"}); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	for _, a := range assignments {
		if err := w.Write([]string{a.KitID, a.Branch, a.Name}); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
