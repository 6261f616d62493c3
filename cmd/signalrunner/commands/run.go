package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/akverma/signalrunner/internal/brain"
	"github.com/akverma/signalrunner/internal/contracts"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one pipeline pass",
	Long: `Executes one full pipeline pass: watchlist, evaluation,
reconciliation, persistence, delivery.

Outside the market window the pass exits immediately with a CLOSED
result. With --dry-run the artifacts are still written but nothing is
delivered.

Example:
  signalrunner run
  signalrunner run --dry-run
  signalrunner run --symbols RELIANCE.NS,TCS.NS`,
	RunE: runPipeline,
}

var (
	runDryRun  bool
	runSymbols []string
	runTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "persist artifacts but suppress notifications")
	runCmd.Flags().StringSliceVar(&runSymbols, "symbols", nil, "override the symbol pool")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 10*time.Minute, "overall run timeout")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	result, err := app.orchestrator.Run(ctx, brain.RunConfig{
		DryRun: runDryRun,
		Pool:   runSymbols,
	})
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	if result.State == contracts.RunStateClosed {
		fmt.Println("Market closed, nothing evaluated")
		return nil
	}

	fmt.Printf("Run completed: %d symbol(s), %d raw, %d final signal(s), %d skipped, %d fault(s)\n",
		len(result.Watchlist), result.RawCount, result.Count(), result.Skipped, result.Faults)
	for name, count := range result.PerStrategy {
		if count > 0 {
			fmt.Printf("  %s: %d\n", name, count)
		}
	}
	return nil
}
