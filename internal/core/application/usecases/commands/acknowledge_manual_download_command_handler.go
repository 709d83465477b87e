package commands

import (
	"context"

	"shipment/internal/core/ports"
)

// AcknowledgeManualDownloadCommandHandler records the operator's
// acceptance of the manual-download fallback, unblocking the commit gate
// for a session whose label file was never retrieved. The auto-commit
// countdown does not arm on this weaker form of completeness.
type AcknowledgeManualDownloadCommandHandler struct {
	store ports.SessionStore
}

// NewAcknowledgeManualDownloadCommandHandler creates a handler for the
// manual-download acknowledgement.
func NewAcknowledgeManualDownloadCommandHandler(store ports.SessionStore) AcknowledgeManualDownloadCommandHandler {
	return AcknowledgeManualDownloadCommandHandler{
		store: store,
	}
}

// Handle applies the acknowledgement to the session.
func (h *AcknowledgeManualDownloadCommandHandler) Handle(_ context.Context, cmd AcknowledgeManualDownloadCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	sess, err := h.store.Get(cmd.SessionID())
	if err != nil {
		return err
	}

	return sess.AcknowledgeManualDownload()
}
