// Package cmd implements the CLI commands for the bookrank server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "bookrank",
	Short: "Periodic book and reviewer rankings",
	Long: "An API-first service that periodically aggregates book review activity, " +
		"scores and ranks books and reviewers per period, and serves the precomputed " +
		"snapshots with cursor pagination.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
