package commands

import (
	"errors"

	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/core/ports"
	"shipment/internal/pkg/errs"
	"shipment/internal/pkg/guard"
)

var ErrPurchaseLabelCommandIsNotConstructed = errors.New(
	"PurchaseLabelCommand must be created via NewPurchaseLabelCommand constructor",
)

// PurchaseLabelCommand represents buying a label for the session's
// selected rate. The sender and recipient addresses are assembled by the
// caller from the customer and destination records.
type PurchaseLabelCommand struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID
	sender    ports.Address
	recipient ports.Address

	guard guard.ConstructorGuard
}

// NewPurchaseLabelCommand creates a command to purchase a label.
func NewPurchaseLabelCommand(sessionID kernel.UUID, sender, recipient ports.Address) (PurchaseLabelCommand, error) {
	cmd := PurchaseLabelCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setSessionID(sessionID),
		cmd.setSender(sender),
		cmd.setRecipient(recipient),
	); err != nil {
		return PurchaseLabelCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PurchaseLabelCommand) Validate() error {
	return c.guard.Validate(ErrPurchaseLabelCommandIsNotConstructed)
}

// SessionID returns the target session identifier.
func (c PurchaseLabelCommand) SessionID() kernel.UUID {
	return c.sessionID
}

// Sender returns the origin address.
func (c PurchaseLabelCommand) Sender() ports.Address {
	return c.sender
}

// Recipient returns the destination address.
func (c PurchaseLabelCommand) Recipient() ports.Address {
	return c.recipient
}

func (c *PurchaseLabelCommand) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	c.sessionID = sessionID
	return nil
}

func (c *PurchaseLabelCommand) setSender(sender ports.Address) error {
	if sender.Zip == "" {
		return errs.NewValueIsRequiredError("sender zip")
	}

	c.sender = sender
	return nil
}

func (c *PurchaseLabelCommand) setRecipient(recipient ports.Address) error {
	if recipient.Zip == "" {
		return errs.NewValueIsRequiredError("recipient zip")
	}

	c.recipient = recipient
	return nil
}
