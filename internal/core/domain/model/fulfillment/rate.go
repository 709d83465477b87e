package fulfillment

import (
	"errors"

	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/pkg/errs"
)

// Rate is one priced service option returned by the aggregator for a given
// route and parcel. Rates are immutable; the list order is whatever the
// upstream API returned and is never re-ranked locally.
type Rate struct {
	id           string
	carrier      string
	serviceName  string
	shippingType string
	total        kernel.Money

	isConstructed bool
}

// NewRate creates a validated Rate.
func NewRate(id, carrier, serviceName, shippingType string, total kernel.Money) (Rate, error) {
	if err := errors.Join(
		requireField("rate id", id),
		requireField("carrier", carrier),
		requireField("serviceName", serviceName),
		total.Validate(),
	); err != nil {
		return Rate{}, err
	}

	return Rate{
		id:            id,
		carrier:       carrier,
		serviceName:   serviceName,
		shippingType:  shippingType,
		total:         total,
		isConstructed: true,
	}, nil
}

// ID returns the upstream rate token used to purchase a label.
func (r Rate) ID() string {
	return r.id
}

// Carrier returns the carrier name, e.g. "fedex".
func (r Rate) Carrier() string {
	return r.carrier
}

// ServiceName returns the human-readable service, e.g. "Ground Economy".
func (r Rate) ServiceName() string {
	return r.serviceName
}

// ShippingType returns the upstream service classification, e.g.
// "express" or "ground". May be empty for carriers that do not report it.
func (r Rate) ShippingType() string {
	return r.shippingType
}

// Total returns the price of this service option.
func (r Rate) Total() kernel.Money {
	return r.total
}

// Validate returns an error for a zero-value Rate.
func (r Rate) Validate() error {
	if !r.isConstructed {
		return errs.NewValueIsRequiredError("rate must be created via NewRate")
	}
	return nil
}

func requireField(name, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}
