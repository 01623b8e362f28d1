package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/kinship/internal/cli"
	"github.com/example/kinship/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "kinship",
		Short:   "kinship - genetic genealogy clustering from segment match data",
		Version: version.String(),
		Long: `kinship processes GEDmatch segment exports into a local project file,
infers negative triangulations from matches that never triangulate, and
clusters DNA matches onto the branches of a user-supplied seed tree.`,
	}

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.AddCmd())
	rootCmd.AddCommand(cli.BuildCmd())
	rootCmd.AddCommand(cli.ClusterCmd())
	rootCmd.AddCommand(cli.StatusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
