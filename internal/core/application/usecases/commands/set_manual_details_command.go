package commands

import (
	"errors"

	"shipment/internal/core/domain/model/fulfillment"
	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/pkg/errs"
	"shipment/internal/pkg/guard"
)

var ErrSetManualDetailsCommandIsNotConstructed = errors.New(
	"SetManualDetailsCommand must be created via NewSetManualDetailsCommand constructor",
)

// SetManualDetailsCommand represents the operator supplying an externally
// purchased label: carrier, tracking number, the uploaded label document
// and the net cost actually paid.
type SetManualDetailsCommand struct { //nolint:recvcheck //using for validation
	sessionID      kernel.UUID
	carrier        string
	trackingNumber string
	labelFile      fulfillment.LabelFile
	netCost        kernel.Money

	guard guard.ConstructorGuard
}

// NewSetManualDetailsCommand creates a command carrying the manual label
// details.
func NewSetManualDetailsCommand(
	sessionID kernel.UUID,
	carrier, trackingNumber string,
	labelFile fulfillment.LabelFile,
	netCost kernel.Money,
) (SetManualDetailsCommand, error) {
	cmd := SetManualDetailsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setSessionID(sessionID),
		cmd.setCarrier(carrier),
		cmd.setTrackingNumber(trackingNumber),
		cmd.setLabelFile(labelFile),
		cmd.setNetCost(netCost),
	); err != nil {
		return SetManualDetailsCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SetManualDetailsCommand) Validate() error {
	return c.guard.Validate(ErrSetManualDetailsCommandIsNotConstructed)
}

// SessionID returns the target session identifier.
func (c SetManualDetailsCommand) SessionID() kernel.UUID {
	return c.sessionID
}

// Carrier returns the carrier the label was bought from.
func (c SetManualDetailsCommand) Carrier() string {
	return c.carrier
}

// TrackingNumber returns the carrier tracking number.
func (c SetManualDetailsCommand) TrackingNumber() string {
	return c.trackingNumber
}

// LabelFile returns the uploaded label document.
func (c SetManualDetailsCommand) LabelFile() fulfillment.LabelFile {
	return c.labelFile
}

// NetCost returns the net cost paid for the label.
func (c SetManualDetailsCommand) NetCost() kernel.Money {
	return c.netCost
}

func (c *SetManualDetailsCommand) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	c.sessionID = sessionID
	return nil
}

func (c *SetManualDetailsCommand) setCarrier(carrier string) error {
	if carrier == "" {
		return errs.NewValueIsRequiredError("carrier")
	}

	c.carrier = carrier
	return nil
}

func (c *SetManualDetailsCommand) setTrackingNumber(trackingNumber string) error {
	if trackingNumber == "" {
		return errs.NewValueIsRequiredError("trackingNumber")
	}

	c.trackingNumber = trackingNumber
	return nil
}

func (c *SetManualDetailsCommand) setLabelFile(labelFile fulfillment.LabelFile) error {
	if err := labelFile.Validate(); err != nil {
		return err
	}

	c.labelFile = labelFile
	return nil
}

func (c *SetManualDetailsCommand) setNetCost(netCost kernel.Money) error {
	if err := netCost.Validate(); err != nil {
		return err
	}

	c.netCost = netCost
	return nil
}
