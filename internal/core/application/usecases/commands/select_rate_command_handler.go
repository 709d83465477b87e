package commands

import (
	"context"

	"shipment/internal/core/ports"
)

// SelectRateCommandHandler records the operator's rate pick on the
// aggregator path.
type SelectRateCommandHandler struct {
	store ports.SessionStore
}

// NewSelectRateCommandHandler creates a handler for rate selection.
func NewSelectRateCommandHandler(store ports.SessionStore) SelectRateCommandHandler {
	return SelectRateCommandHandler{
		store: store,
	}
}

// Handle applies the rate selection to the session.
func (h *SelectRateCommandHandler) Handle(_ context.Context, cmd SelectRateCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	sess, err := h.store.Get(cmd.SessionID())
	if err != nil {
		return err
	}

	return sess.SelectRate(cmd.Rate())
}
