package commands

import (
	"errors"

	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/pkg/guard"
)

var ErrAcknowledgeManualDownloadCommandIsNotConstructed = errors.New(
	"AcknowledgeManualDownloadCommand must be created via NewAcknowledgeManualDownloadCommand constructor",
)

// AcknowledgeManualDownloadCommand represents the operator accepting to
// download the label by hand after retrieval kept failing.
type AcknowledgeManualDownloadCommand struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAcknowledgeManualDownloadCommand creates a command acknowledging the
// manual download.
func NewAcknowledgeManualDownloadCommand(sessionID kernel.UUID) (AcknowledgeManualDownloadCommand, error) {
	cmd := AcknowledgeManualDownloadCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setSessionID(sessionID); err != nil {
		return AcknowledgeManualDownloadCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AcknowledgeManualDownloadCommand) Validate() error {
	return c.guard.Validate(ErrAcknowledgeManualDownloadCommandIsNotConstructed)
}

// SessionID returns the target session identifier.
func (c AcknowledgeManualDownloadCommand) SessionID() kernel.UUID {
	return c.sessionID
}

func (c *AcknowledgeManualDownloadCommand) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	c.sessionID = sessionID
	return nil
}
