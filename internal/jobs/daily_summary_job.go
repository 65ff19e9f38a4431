package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/ports"
)

// DailySummaryJob runs the end-of-day summary batch once a day at the
// configured hour, summarizing the previous calendar date.
type DailySummaryJob struct {
	handler commands.RunDailySummaryCommandHandler
	clock   ports.Clock
	hour    int
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewDailySummaryJob creates the job. hour is the UTC hour of day
// (0..23) the batch fires at.
func NewDailySummaryJob(
	handler commands.RunDailySummaryCommandHandler,
	clock ports.Clock,
	hour int,
	logger *slog.Logger,
) *DailySummaryJob {
	return &DailySummaryJob{
		handler: handler,
		clock:   clock,
		hour:    hour,
		cron:    cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC)),
		logger:  logger.With("component", "daily_summary_job"),
	}
}

// Start schedules the daily run.
func (j *DailySummaryJob) Start() error {
	_, err := j.cron.AddFunc(fmt.Sprintf("0 0 %d * * *", j.hour), j.Run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "daily summary job started", "hour_utc", j.hour)
	return nil
}

// Run executes one batch for the previous calendar date. Exposed so a
// missed or ad-hoc run can be triggered directly; the summary log keeps
// reruns idempotent.
func (j *DailySummaryJob) Run() {
	ctx := context.Background()
	date := j.clock.Now().UTC().AddDate(0, 0, -1)

	cmd, err := commands.NewRunDailySummaryCommand(date)
	if err != nil {
		j.logger.ErrorContext(ctx, "summary command construction failed", "error", err)
		return
	}

	if err := j.handler.Handle(ctx, cmd); err != nil {
		j.logger.ErrorContext(ctx, "daily summary batch failed",
			"date", date.Format("2006-01-02"), "error", err)
	}
}

// Stop stops the schedule. A batch already running finishes.
func (j *DailySummaryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "daily summary job stopped")
}
