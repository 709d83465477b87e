package ports

import (
	"time"

	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/core/domain/model/session"
)

// SessionStore holds the live finalization sessions. Sessions have no
// durable form: the store is in-memory by design, and a stored session
// disappears on commit, close or janitor sweep.
type SessionStore interface {
	// Add registers a new session. Fails if the id is already present.
	Add(s *session.Session) error

	// Get returns the session or an *errs.ObjectNotFoundError.
	Get(id kernel.UUID) (*session.Session, error)

	// Remove drops the session. Removing an absent id is a no-op.
	Remove(id kernel.UUID)

	// SweepIdle removes every session whose last activity is older than
	// maxIdle and returns how many were dropped. Sessions with a commit
	// in flight are skipped.
	SweepIdle(maxIdle time.Duration) int
}
