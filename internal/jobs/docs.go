// Package jobs provides the scheduled background tasks of the
// finalization service.
//
// Jobs run on github.com/robfig/cron/v3 schedules and are coordinated
// through JobManager:
//
//	jobManager := jobs.NewJobManager(store, idleTTL, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// SessionCleanupJob runs every minute and drops finalization sessions
// that have been idle past the configured TTL. Sessions are held only in
// memory; without the sweep an abandoned browser tab would pin its
// session forever.
package jobs
