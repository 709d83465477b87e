package commands

import (
	"errors"

	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/pkg/guard"
)

var ErrCloseSessionCommandIsNotConstructed = errors.New(
	"CloseSessionCommand must be created via NewCloseSessionCommand constructor",
)

// CloseSessionCommand represents dropping a finalization session, whether
// committed or abandoned.
type CloseSessionCommand struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCloseSessionCommand creates a command to close a session.
func NewCloseSessionCommand(sessionID kernel.UUID) (CloseSessionCommand, error) {
	cmd := CloseSessionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setSessionID(sessionID); err != nil {
		return CloseSessionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CloseSessionCommand) Validate() error {
	return c.guard.Validate(ErrCloseSessionCommandIsNotConstructed)
}

// SessionID returns the identifier of the session to close.
func (c CloseSessionCommand) SessionID() kernel.UUID {
	return c.sessionID
}

func (c *CloseSessionCommand) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	c.sessionID = sessionID
	return nil
}
