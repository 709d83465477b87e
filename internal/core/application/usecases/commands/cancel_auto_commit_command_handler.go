package commands

import (
	"context"

	"shipment/internal/core/ports"
)

// CancelAutoCommitCommandHandler stops the auto-commit countdown.
// Cancellation is terminal for the session: the countdown never re-arms,
// and committing becomes an explicit operator action. When the countdown
// already fired the cancellation is too late and the commit proceeds; the
// operator observes the outcome through the status query.
type CancelAutoCommitCommandHandler struct {
	store     ports.SessionStore
	scheduler AutoCommitScheduler
}

// NewCancelAutoCommitCommandHandler creates a handler for countdown
// cancellation.
func NewCancelAutoCommitCommandHandler(store ports.SessionStore, scheduler AutoCommitScheduler) CancelAutoCommitCommandHandler {
	return CancelAutoCommitCommandHandler{
		store:     store,
		scheduler: scheduler,
	}
}

// Handle cancels the countdown and records the disarm on the session.
func (h *CancelAutoCommitCommandHandler) Handle(_ context.Context, cmd CancelAutoCommitCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	sess, err := h.store.Get(cmd.SessionID())
	if err != nil {
		return err
	}

	h.scheduler.Cancel(cmd.SessionID().String())
	sess.DisarmAutoCommit()
	return nil
}
