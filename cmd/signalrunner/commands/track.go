package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// trackCmd represents the track command
var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Refresh open positions in the trade log",
	Long: `Marks every open trade log row to the latest price and promotes
rows whose target or stop has been crossed.

With --summary the current end-of-day report is printed instead of
being sent.

Example:
  signalrunner track
  signalrunner track --summary`,
	RunE: runTrack,
}

var trackSummary bool

func init() {
	rootCmd.AddCommand(trackCmd)

	trackCmd.Flags().BoolVar(&trackSummary, "summary", false, "print the EOD summary without sending it")
}

func runTrack(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := app.tracker.Track(ctx); err != nil {
		return fmt.Errorf("tracking pass: %w", err)
	}

	if trackSummary {
		summary, err := app.tracker.Summary()
		if err != nil {
			return fmt.Errorf("build summary: %w", err)
		}
		if summary == "" {
			fmt.Println("No tracked trades yet")
			return nil
		}
		fmt.Println(summary)
	}
	return nil
}
