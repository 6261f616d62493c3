package jobs

import (
	"context"
	"fmt"

	"github.com/akverma/signalrunner/internal/tracker"
	"github.com/akverma/signalrunner/pkg/logger"
)

// TrackerJob refreshes open positions in the trade log and sends the
// end-of-day summary after the session closes.
type TrackerJob struct {
	tracker  *tracker.Tracker
	schedule string
	logger   *logger.Logger
}

// NewTrackerJob creates the scheduled tracking job
func NewTrackerJob(t *tracker.Tracker, schedule string, log *logger.Logger) *TrackerJob {
	if schedule == "" {
		schedule = "*/5 * * * *"
	}
	return &TrackerJob{
		tracker:  t,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *TrackerJob) Name() string {
	return "position_tracker"
}

// Schedule returns the cron expression
func (j *TrackerJob) Schedule() string {
	return j.schedule
}

// Run executes one tracking pass
func (j *TrackerJob) Run(ctx context.Context) error {
	if err := j.tracker.Run(ctx); err != nil {
		return fmt.Errorf("tracker run: %w", err)
	}
	return nil
}
