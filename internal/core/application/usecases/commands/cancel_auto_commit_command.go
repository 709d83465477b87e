package commands

import (
	"errors"

	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/pkg/guard"
)

var ErrCancelAutoCommitCommandIsNotConstructed = errors.New(
	"CancelAutoCommitCommand must be created via NewCancelAutoCommitCommand constructor",
)

// CancelAutoCommitCommand represents the operator stopping the auto-commit
// countdown to review the shipment before committing by hand.
type CancelAutoCommitCommand struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCancelAutoCommitCommand creates a command to cancel the countdown.
func NewCancelAutoCommitCommand(sessionID kernel.UUID) (CancelAutoCommitCommand, error) {
	cmd := CancelAutoCommitCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setSessionID(sessionID); err != nil {
		return CancelAutoCommitCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelAutoCommitCommand) Validate() error {
	return c.guard.Validate(ErrCancelAutoCommitCommandIsNotConstructed)
}

// SessionID returns the target session identifier.
func (c CancelAutoCommitCommand) SessionID() kernel.UUID {
	return c.sessionID
}

func (c *CancelAutoCommitCommand) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	c.sessionID = sessionID
	return nil
}
