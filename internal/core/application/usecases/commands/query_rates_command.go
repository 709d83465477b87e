package commands

import (
	"errors"

	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/pkg/guard"
)

var ErrQueryRatesCommandIsNotConstructed = errors.New(
	"QueryRatesCommand must be created via NewQueryRatesCommand constructor",
)

// QueryRatesCommand represents a request for the priced service options on
// the session's route. It is a command rather than a query because asking
// for rates moves the session onto the aggregator acquisition path.
type QueryRatesCommand struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID

	guard guard.ConstructorGuard
}

// NewQueryRatesCommand creates a command to query rates for a session.
func NewQueryRatesCommand(sessionID kernel.UUID) (QueryRatesCommand, error) {
	cmd := QueryRatesCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setSessionID(sessionID); err != nil {
		return QueryRatesCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c QueryRatesCommand) Validate() error {
	return c.guard.Validate(ErrQueryRatesCommandIsNotConstructed)
}

// SessionID returns the target session identifier.
func (c QueryRatesCommand) SessionID() kernel.UUID {
	return c.sessionID
}

func (c *QueryRatesCommand) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	c.sessionID = sessionID
	return nil
}
