package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// SessionSweeper drops sessions idle past the cutoff and reports how
// many were removed.
type SessionSweeper interface {
	SweepIdle(maxIdle time.Duration) int
}

// SessionCleanupJob evicts abandoned finalization sessions. Runs every
// minute; a session is abandoned when nothing touched it for the
// configured TTL. Sessions mid-commit are never swept, the store skips
// them.
type SessionCleanupJob struct {
	sweeper SessionSweeper
	idleTTL time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewSessionCleanupJob creates a cleanup job sweeping sessions idle
// longer than idleTTL.
func NewSessionCleanupJob(sweeper SessionSweeper, idleTTL time.Duration, logger *slog.Logger) *SessionCleanupJob {
	return &SessionCleanupJob{
		sweeper: sweeper,
		idleTTL: idleTTL,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "session_cleanup_job"),
	}
}

// Start begins the cleanup job on a once-a-minute schedule.
func (j *SessionCleanupJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		removed := j.sweeper.SweepIdle(j.idleTTL)
		if removed > 0 {
			j.logger.InfoContext(ctx, "Swept idle sessions", "removed", removed, "idle_ttl", j.idleTTL.String())
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Session cleanup job started (running every minute)")
	return nil
}

// Stop stops the cleanup job.
func (j *SessionCleanupJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Session cleanup job stopped")
}
