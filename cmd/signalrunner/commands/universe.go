package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// universeCmd represents the universe command
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Build and print the scored watchlist",
	Long: `Scores the configured symbol pool and prints the resulting
watchlist without running any strategy.

Example:
  signalrunner universe
  signalrunner universe --symbols RELIANCE.NS,INFY.NS`,
	RunE: runUniverse,
}

var universeSymbols []string

func init() {
	rootCmd.AddCommand(universeCmd)

	universeCmd.Flags().StringSliceVar(&universeSymbols, "symbols", nil, "override the symbol pool")
}

func runUniverse(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	watchlist, err := app.builder.Build(ctx, universeSymbols)
	if err != nil {
		return fmt.Errorf("build watchlist: %w", err)
	}

	fmt.Printf("Watchlist (%d):\n", len(watchlist))
	for i, symbol := range watchlist {
		fmt.Printf("  %2d. %s\n", i+1, symbol)
	}
	return nil
}
