package jobs

import (
	"context"
	"fmt"

	"github.com/akverma/signalrunner/internal/brain"
	"github.com/akverma/signalrunner/pkg/logger"
)

// PipelineJob runs the full signal pipeline on a cron schedule. The
// orchestrator gates on the market window itself, so the schedule can
// fire around the clock.
type PipelineJob struct {
	orchestrator *brain.Orchestrator
	schedule     string
	logger       *logger.Logger
}

// NewPipelineJob creates the scheduled pipeline job
func NewPipelineJob(orchestrator *brain.Orchestrator, schedule string, log *logger.Logger) *PipelineJob {
	if schedule == "" {
		schedule = "*/5 * * * *"
	}
	return &PipelineJob{
		orchestrator: orchestrator,
		schedule:     schedule,
		logger:       log,
	}
}

// Name returns the job name
func (j *PipelineJob) Name() string {
	return "signal_pipeline"
}

// Schedule returns the cron expression
func (j *PipelineJob) Schedule() string {
	return j.schedule
}

// Run executes one pipeline pass
func (j *PipelineJob) Run(ctx context.Context) error {
	result, err := j.orchestrator.Run(ctx, brain.RunConfig{})
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"state":   string(result.State),
		"signals": result.Count(),
	}).Info("Scheduled pipeline pass finished")
	return nil
}
