// Package memory holds the live finalization sessions. Sessions never
// touch disk: an abandoned one is swept by the janitor and a committed one
// is removed on close, so process restart simply forgets in-flight work.
package memory

import (
	"sync"
	"time"

	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/core/domain/model/session"
	"shipment/internal/core/ports"
	"shipment/internal/pkg/errs"
)

// SessionStore is a map-backed session store safe for concurrent use.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	now      func() time.Time
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session.Session),
		now:      time.Now,
	}
}

// Add registers a new session. Fails if the id is already present.
func (s *SessionStore) Add(sess *session.Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := sess.ID().String()
	if _, exists := s.sessions[key]; exists {
		return errs.NewValueIsInvalidError("session id already registered")
	}
	s.sessions[key] = sess
	return nil
}

// Get returns the session or an *errs.ObjectNotFoundError.
func (s *SessionStore) Get(id kernel.UUID) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("session", id.String())
	}
	return sess, nil
}

// Remove drops the session. Removing an absent id is a no-op.
func (s *SessionStore) Remove(id kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id.String())
}

// Len reports how many sessions are live.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SweepIdle removes every session idle for longer than maxIdle and returns
// how many were dropped. A session with a commit in flight is never swept,
// however stale it looks: its outcome must land on the aggregate.
func (s *SessionStore) SweepIdle(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, sess := range s.sessions {
		if sess.Status() == session.Committing {
			continue
		}
		if sess.LastActivity().Before(cutoff) {
			delete(s.sessions, key)
			removed++
		}
	}
	return removed
}
