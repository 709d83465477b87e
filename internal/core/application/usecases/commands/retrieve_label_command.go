package commands

import (
	"errors"

	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/pkg/guard"
)

var ErrRetrieveLabelCommandIsNotConstructed = errors.New(
	"RetrieveLabelCommand must be created via NewRetrieveLabelCommand constructor",
)

// RetrieveLabelCommand represents downloading the purchased label document
// into the session.
type RetrieveLabelCommand struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRetrieveLabelCommand creates a command to retrieve the label asset.
func NewRetrieveLabelCommand(sessionID kernel.UUID) (RetrieveLabelCommand, error) {
	cmd := RetrieveLabelCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setSessionID(sessionID); err != nil {
		return RetrieveLabelCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RetrieveLabelCommand) Validate() error {
	return c.guard.Validate(ErrRetrieveLabelCommandIsNotConstructed)
}

// SessionID returns the target session identifier.
func (c RetrieveLabelCommand) SessionID() kernel.UUID {
	return c.sessionID
}

func (c *RetrieveLabelCommand) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	c.sessionID = sessionID
	return nil
}
