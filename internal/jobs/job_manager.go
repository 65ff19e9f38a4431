package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/ports"
)

// JobManager coordinates the engine's scheduled jobs behind one start
// and stop call.
type JobManager struct {
	sweepJob   *AssignmentSweepJob
	summaryJob *DailySummaryJob
}

// NewJobManager creates the manager and its jobs.
func NewJobManager(
	sweepHandler commands.SweepAssignmentsCommandHandler,
	summaryHandler commands.RunDailySummaryCommandHandler,
	clock ports.Clock,
	sweepInterval time.Duration,
	summaryHourUTC int,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		sweepJob:   NewAssignmentSweepJob(sweepHandler, sweepInterval, logger),
		summaryJob: NewDailySummaryJob(summaryHandler, clock, summaryHourUTC, logger),
	}
}

// StartAll starts every job. A partial start is rolled back.
func (jm *JobManager) StartAll() error {
	if err := jm.sweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start assignment sweep job: %w", err)
	}

	if err := jm.summaryJob.Start(); err != nil {
		jm.sweepJob.Stop()
		return fmt.Errorf("failed to start daily summary job: %w", err)
	}

	return nil
}

// StopAll stops every job.
func (jm *JobManager) StopAll() {
	jm.summaryJob.Stop()
	jm.sweepJob.Stop()
}
