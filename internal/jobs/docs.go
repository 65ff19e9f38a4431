// Package jobs provides the engine's scheduled background tasks, built
// on github.com/robfig/cron/v3.
//
// Two jobs run:
//
//  1. AssignmentSweepJob - periodically cancels stale assignment offers
//     and resolves partners for orders waiting in the pool.
//  2. DailySummaryJob - once a day, at a configured hour, produces each
//     shop's summary for the previous calendar date.
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(sweepHandler, summaryHandler, clock, cfg, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// Business "nothing to do" outcomes are not errors: an empty sweep pass
// and a day without finished orders both complete silently.
package jobs
