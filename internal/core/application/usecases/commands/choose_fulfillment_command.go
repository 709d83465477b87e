package commands

import (
	"errors"

	"shipment/internal/core/domain/model/fulfillment"
	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/pkg/guard"
)

var (
	ErrChooseFulfillmentCommandIsNotConstructed = errors.New(
		"ChooseFulfillmentCommand must be created via NewChooseFulfillmentCommand constructor",
	)
	ErrFulfillmentKindIsInvalid = errors.New("fulfillment kind must be external or aggregator")
)

// ChooseFulfillmentCommand represents picking (or switching) the
// fulfillment path of a session.
type ChooseFulfillmentCommand struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID
	kind      fulfillment.Kind

	guard guard.ConstructorGuard
}

// NewChooseFulfillmentCommand creates a command to choose the fulfillment
// kind.
func NewChooseFulfillmentCommand(sessionID kernel.UUID, kind fulfillment.Kind) (ChooseFulfillmentCommand, error) {
	cmd := ChooseFulfillmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setSessionID(sessionID),
		cmd.setKind(kind),
	); err != nil {
		return ChooseFulfillmentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChooseFulfillmentCommand) Validate() error {
	return c.guard.Validate(ErrChooseFulfillmentCommandIsNotConstructed)
}

// SessionID returns the target session identifier.
func (c ChooseFulfillmentCommand) SessionID() kernel.UUID {
	return c.sessionID
}

// Kind returns the chosen fulfillment kind.
func (c ChooseFulfillmentCommand) Kind() fulfillment.Kind {
	return c.kind
}

func (c *ChooseFulfillmentCommand) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	c.sessionID = sessionID
	return nil
}

func (c *ChooseFulfillmentCommand) setKind(kind fulfillment.Kind) error {
	if kind != fulfillment.KindExternal && kind != fulfillment.KindAggregator {
		return ErrFulfillmentKindIsInvalid
	}

	c.kind = kind
	return nil
}
