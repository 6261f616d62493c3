package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/akverma/signalrunner/internal/scheduler"
	"github.com/akverma/signalrunner/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the pipeline on a schedule",
	Long: `Starts the scheduler daemon.

Registered jobs:
- signal_pipeline: every 5 minutes (gated on the market window)
- position_tracker: every 5 minutes, plus the EOD summary

Stop with Ctrl+C.

Example:
  signalrunner scheduler start
  signalrunner scheduler start --pipeline-cron "*/10 * * * *"`,
}

var (
	pipelineCron string
	trackerCron  string

	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		RunE:  runScheduler,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)

	schedulerStartCmd.Flags().StringVar(&pipelineCron, "pipeline-cron", "*/5 * * * *", "pipeline job schedule")
	schedulerStartCmd.Flags().StringVar(&trackerCron, "tracker-cron", "*/5 * * * *", "tracker job schedule")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	sched := scheduler.New(app.logger)

	if err := sched.AddJob(jobs.NewPipelineJob(app.orchestrator, pipelineCron, app.logger)); err != nil {
		return fmt.Errorf("register pipeline job: %w", err)
	}
	if err := sched.AddJob(jobs.NewTrackerJob(app.tracker, trackerCron, app.logger)); err != nil {
		return fmt.Errorf("register tracker job: %w", err)
	}

	sched.Start()
	fmt.Println("Scheduler running, Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
