package commands

import (
	"context"

	"shipment/internal/core/ports"
)

// ChooseFulfillmentCommandHandler picks or switches the fulfillment path.
// Switching discards the other path's partial state and releases any
// auto-commit countdown, so the fresh path starts with a clean timer slate.
type ChooseFulfillmentCommandHandler struct {
	store     ports.SessionStore
	scheduler AutoCommitScheduler
}

// NewChooseFulfillmentCommandHandler creates a handler for fulfillment
// kind selection.
func NewChooseFulfillmentCommandHandler(store ports.SessionStore, scheduler AutoCommitScheduler) ChooseFulfillmentCommandHandler {
	return ChooseFulfillmentCommandHandler{
		store:     store,
		scheduler: scheduler,
	}
}

// Handle applies the kind choice to the session.
func (h *ChooseFulfillmentCommandHandler) Handle(_ context.Context, cmd ChooseFulfillmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	sess, err := h.store.Get(cmd.SessionID())
	if err != nil {
		return err
	}

	if err := sess.ChooseFulfillment(cmd.Kind()); err != nil {
		return err
	}

	h.scheduler.Release(cmd.SessionID().String())
	return nil
}
