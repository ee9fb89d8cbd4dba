// Package cmd implements the CLI commands for ReviewPipe using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "reviewpipe",
	Short: "ReviewPipe — import restaurant reviews from a Confluence wiki",
	Long: `ReviewPipe fetches restaurant review pages from a Confluence space
(or a previously captured export file), normalizes the wiki markup, and
extracts typed review records with per-dish ratings, costs, notes, and
images.

Usage:
  reviewpipe import --json-file reviews_export.json
  reviewpipe import --parent-page-id 99811341
  reviewpipe export --parent-page-id 99811341`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
