package commands

import (
	"context"

	"shipment/internal/core/ports"
)

// SetManualDetailsCommandHandler records externally purchased label details
// on the manual path and marks the session ready to commit.
type SetManualDetailsCommandHandler struct {
	store ports.SessionStore
}

// NewSetManualDetailsCommandHandler creates a handler for manual label
// details.
func NewSetManualDetailsCommandHandler(store ports.SessionStore) SetManualDetailsCommandHandler {
	return SetManualDetailsCommandHandler{
		store: store,
	}
}

// Handle applies the manual details to the session.
func (h *SetManualDetailsCommandHandler) Handle(_ context.Context, cmd SetManualDetailsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	sess, err := h.store.Get(cmd.SessionID())
	if err != nil {
		return err
	}

	return sess.SetManualDetails(cmd.Carrier(), cmd.TrackingNumber(), cmd.LabelFile(), cmd.NetCost())
}
