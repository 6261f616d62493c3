package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "signalrunner",
	Short: "Intraday signal evaluation and reconciliation pipeline",
	Long: `signalrunner - trade signal pipeline for NSE equities

Builds a scored watchlist, runs every enabled strategy against it,
reconciles duplicate signals down to one per (symbol, side), persists
the run artifacts, and delivers the final set.

Usage:
  signalrunner [command]

Examples:
  signalrunner run
  signalrunner run --dry-run
  signalrunner serve --port 8080
  signalrunner scheduler start
  signalrunner track`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}
