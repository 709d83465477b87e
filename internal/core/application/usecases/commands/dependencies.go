// Package commands contains the write operations of the finalization
// workflow. Every command follows the same shape: a validated command
// object, a handler holding the outbound dependencies, and a Handle method
// that loads the session, drives the aggregate and talks to the external
// services.
package commands

import (
	"context"
	"time"

	"shipment/internal/core/domain/model/kernel"
)

type (
	// AutoCommitScheduler runs the per-session auto-commit countdown.
	// Arm fails while a countdown for the session is live and forever
	// after it was cancelled; Release forgets the session entirely.
	AutoCommitScheduler interface {
		Arm(key string, onTick func(remaining time.Duration), onExpire func()) error
		Cancel(key string) bool
		Remaining(key string) (time.Duration, bool)
		Release(key string)
	}

	// CommitTrigger starts the commit of a session. The retrieval handler
	// hands it to the scheduler as the expiry action; the composition
	// root points it at the commit handler to avoid a dependency cycle.
	CommitTrigger func(ctx context.Context, sessionID kernel.UUID)
)
