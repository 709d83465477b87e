package commands

import (
	"errors"

	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/pkg/guard"
)

var ErrCommitShipmentCommandIsNotConstructed = errors.New(
	"CommitShipmentCommand must be created via NewCommitShipmentCommand constructor",
)

// CommitShipmentCommand represents committing the finished shipment to the
// backend. Issued explicitly by the operator or by the auto-commit
// countdown; both paths converge on the same handler.
type CommitShipmentCommand struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCommitShipmentCommand creates a command to commit the shipment.
func NewCommitShipmentCommand(sessionID kernel.UUID) (CommitShipmentCommand, error) {
	cmd := CommitShipmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setSessionID(sessionID); err != nil {
		return CommitShipmentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CommitShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCommitShipmentCommandIsNotConstructed)
}

// SessionID returns the target session identifier.
func (c CommitShipmentCommand) SessionID() kernel.UUID {
	return c.sessionID
}

func (c *CommitShipmentCommand) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	c.sessionID = sessionID
	return nil
}
