package commands

import (
	"context"

	"shipment/internal/core/ports"
)

// CloseSessionCommandHandler drops a session and its countdown. Closing an
// unknown session is a no-op; abandoned labels purchased through the
// aggregator are not voided upstream.
type CloseSessionCommandHandler struct {
	store     ports.SessionStore
	scheduler AutoCommitScheduler
}

// NewCloseSessionCommandHandler creates a handler for closing sessions.
func NewCloseSessionCommandHandler(store ports.SessionStore, scheduler AutoCommitScheduler) CloseSessionCommandHandler {
	return CloseSessionCommandHandler{
		store:     store,
		scheduler: scheduler,
	}
}

// Handle removes the session from the store and releases its countdown.
func (h *CloseSessionCommandHandler) Handle(_ context.Context, cmd CloseSessionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	h.scheduler.Release(cmd.SessionID().String())
	h.store.Remove(cmd.SessionID())
	return nil
}
