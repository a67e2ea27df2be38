// Package cmd defines and implements the CLI commands for the
// leadharvester executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leadharvester",
		Short: "A concurrent business-lead harvester for interactive map listings.",
		Long: `leadharvester runs many fetch-and-extract jobs against an interactive
map listing source under a shared worker budget, deduplicates the collected
businesses, enriches each one with e-mail addresses discovered on its
website, and writes the result set to CSV and optionally Postgres.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")
	cmd.AddCommand(newScrapeCmd())
	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
