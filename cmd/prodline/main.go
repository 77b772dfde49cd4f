package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/prodline/internal/cli"
	"github.com/example/prodline/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "prodline",
		Short:   "prodline - production stage pipeline tracker",
		Version: version.String(),
		Long: `prodline tracks electronics manufacturing through its production stages.
Parts are configured with per-stage procedures; records advance through the
stages under gating rules, with quantities conserved between stages.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.PartCmd())
	rootCmd.AddCommand(cli.RecordCmd())
	rootCmd.AddCommand(cli.StageCmd())
	rootCmd.AddCommand(cli.USIDCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
