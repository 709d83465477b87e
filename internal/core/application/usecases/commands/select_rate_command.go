package commands

import (
	"errors"

	"shipment/internal/core/domain/model/fulfillment"
	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/pkg/guard"
)

var ErrSelectRateCommandIsNotConstructed = errors.New(
	"SelectRateCommand must be created via NewSelectRateCommand constructor",
)

// SelectRateCommand represents the operator picking one of the quoted
// rates. The full rate travels with the command: rates are not stored on
// the session, the caller echoes back the one it picked from the query
// result.
type SelectRateCommand struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID
	rate      fulfillment.Rate

	guard guard.ConstructorGuard
}

// NewSelectRateCommand creates a command to select a quoted rate.
func NewSelectRateCommand(sessionID kernel.UUID, rate fulfillment.Rate) (SelectRateCommand, error) {
	cmd := SelectRateCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setSessionID(sessionID),
		cmd.setRate(rate),
	); err != nil {
		return SelectRateCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SelectRateCommand) Validate() error {
	return c.guard.Validate(ErrSelectRateCommandIsNotConstructed)
}

// SessionID returns the target session identifier.
func (c SelectRateCommand) SessionID() kernel.UUID {
	return c.sessionID
}

// Rate returns the chosen rate.
func (c SelectRateCommand) Rate() fulfillment.Rate {
	return c.rate
}

func (c *SelectRateCommand) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	c.sessionID = sessionID
	return nil
}

func (c *SelectRateCommand) setRate(rate fulfillment.Rate) error {
	if err := rate.Validate(); err != nil {
		return err
	}

	c.rate = rate
	return nil
}
