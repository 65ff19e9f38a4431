package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"fulfillment/internal/core/application/usecases/commands"
)

// AssignmentSweepJob periodically runs the assignment sweep: stale
// offers are cancelled and waiting orders get a partner resolved.
type AssignmentSweepJob struct {
	handler  commands.SweepAssignmentsCommandHandler
	interval time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewAssignmentSweepJob creates the job. interval is how often a sweep
// pass runs.
func NewAssignmentSweepJob(
	handler commands.SweepAssignmentsCommandHandler,
	interval time.Duration,
	logger *slog.Logger,
) *AssignmentSweepJob {
	return &AssignmentSweepJob{
		handler:  handler,
		interval: interval,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "assignment_sweep_job"),
	}
}

// Start begins the periodic sweep.
func (j *AssignmentSweepJob) Start() error {
	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() {
		ctx := context.Background()

		cmd := commands.NewSweepAssignmentsCommand()
		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "assignment sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "assignment sweep job started", "interval", j.interval.String())
	return nil
}

// Stop stops the sweep. A pass already running finishes.
func (j *AssignmentSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "assignment sweep job stopped")
}
