package commands

import (
	"context"

	"shipment/internal/core/domain/model/session"
	"shipment/internal/core/ports"
)

// OpenSessionCommandHandler opens finalization sessions. The session
// starts in the kind-selection state with no fulfillment path active.
type OpenSessionCommandHandler struct {
	store ports.SessionStore
}

// NewOpenSessionCommandHandler creates a handler for opening sessions.
func NewOpenSessionCommandHandler(store ports.SessionStore) OpenSessionCommandHandler {
	return OpenSessionCommandHandler{
		store: store,
	}
}

// Handle opens the session and registers it in the store.
func (h *OpenSessionCommandHandler) Handle(_ context.Context, cmd OpenSessionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	sess, err := session.NewSession(cmd.SessionID(), cmd.Quote())
	if err != nil {
		return err
	}

	return h.store.Add(sess)
}
