package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akverma/signalrunner/pkg/logger"
)

type countingJob struct {
	name     string
	schedule string
	runs     int
	err      error
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.schedule }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs++
	return j.err
}

func TestScheduler_AddJobRejectsDuplicates(t *testing.T) {
	s := New(logger.NewNop())

	require.NoError(t, s.AddJob(&countingJob{name: "pipeline", schedule: "*/5 * * * *"}))
	assert.Error(t, s.AddJob(&countingJob{name: "pipeline", schedule: "*/5 * * * *"}))
}

func TestScheduler_AddJobRejectsBadCron(t *testing.T) {
	s := New(logger.NewNop())
	assert.Error(t, s.AddJob(&countingJob{name: "broken", schedule: "not a cron expr"}))
}

func TestScheduler_RunJobUnknownName(t *testing.T) {
	s := New(logger.NewNop())
	assert.Error(t, s.RunJob("ghost"))
}

func TestScheduler_RunJobRecordsHistory(t *testing.T) {
	s := New(logger.NewNop())
	s.retryDelay = time.Millisecond

	job := &countingJob{name: "pipeline", schedule: "*/5 * * * *"}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	stats := s.Stats()
	require.Contains(t, stats, "pipeline")
	assert.Equal(t, 1, stats["pipeline"].TotalRuns)
	assert.Equal(t, 1, stats["pipeline"].SuccessCount)
	assert.Equal(t, 1.0, stats["pipeline"].SuccessRate)
	assert.Equal(t, 1, job.runs)
}

func TestScheduler_FailedJobRetriesAndRecordsError(t *testing.T) {
	s := New(logger.NewNop())
	s.retryDelay = time.Millisecond

	job := &countingJob{name: "flaky", schedule: "*/5 * * * *", err: errors.New("upstream down")}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	// Initial attempt plus maxRetries.
	assert.Equal(t, s.maxRetries+1, job.runs)

	stats := s.Stats()
	assert.Equal(t, 1, stats["flaky"].FailureCount)
	assert.Equal(t, "upstream down", stats["flaky"].LastError)
}

func TestJobHistory_KeepsLast100(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 150; i++ {
		h.AddResult(JobResult{JobName: "j", Success: true})
	}
	assert.Len(t, h.Results, 100)
	assert.Equal(t, 1.0, h.SuccessRate())
}
