package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/garrison/internal/cli"
	"github.com/example/garrison/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "garrison",
		Short:   "Garrison - persistent-world base building",
		Version: version.String(),
		Long: `Garrison is a CLI for running a persistent base-building world.
Found a garrison, construct and improve buildings, train units, and
assign workers to harvest. Time passes while you are away; resources
are brought up to date whenever you look.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.CreateCmd())
	rootCmd.AddCommand(cli.ShowCmd())
	rootCmd.AddCommand(cli.UseCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.BuildingCmd())
	rootCmd.AddCommand(cli.UnitCmd())
	rootCmd.AddCommand(cli.CatalogCmd())

	// Developer tools
	rootCmd.AddCommand(cli.DevCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
