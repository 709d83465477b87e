package quote

import (
	"errors"

	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/pkg/errs"
)

// ErrQuoteIsNotConstructed is returned when a Quote was not created through
// the NewQuote factory.
var ErrQuoteIsNotConstructed = errors.New("Quote must be created via NewQuote constructor")

// Quote is the immutable record of a confirmed priced service.
//
// Invariants:
//   - Origin and destination zip codes are valid 5-digit postal codes.
//   - The parcel weight is positive.
//   - The selected rate identifier is present.
//   - The tax-inclusive total is a valid non-negative amount.
//
// A Quote carries the customer and destination record identifiers so a
// committed shipment can be linked back to them, and so the consistency
// guard can compare the quoted postal codes against the live records.
type Quote struct {
	id             kernel.UUID
	customerID     kernel.UUID
	destinationID  kernel.UUID
	originZip      kernel.ZipCode
	destZip        kernel.ZipCode
	parcel         Parcel
	selectedRateID string
	priceWithTax   kernel.Money

	isConstructed bool
}

// NewQuote creates a validated, immutable Quote.
func NewQuote(
	id, customerID, destinationID kernel.UUID,
	originZip, destZip kernel.ZipCode,
	parcel Parcel,
	selectedRateID string,
	priceWithTax kernel.Money,
) (*Quote, error) {
	q := &Quote{isConstructed: true}

	if err := errors.Join(
		q.setIDs(id, customerID, destinationID),
		q.setRoute(originZip, destZip),
		q.setParcel(parcel),
		q.setSelectedRateID(selectedRateID),
		q.setPriceWithTax(priceWithTax),
	); err != nil {
		return nil, err
	}

	return q, nil
}

// Validate ensures the Quote was built through NewQuote.
func (q *Quote) Validate() error {
	if q == nil || !q.isConstructed {
		return ErrQuoteIsNotConstructed
	}
	return nil
}

// ID returns the quote identifier.
func (q *Quote) ID() kernel.UUID {
	return q.id
}

// CustomerID returns the customer record identifier.
func (q *Quote) CustomerID() kernel.UUID {
	return q.customerID
}

// DestinationID returns the destination record identifier.
func (q *Quote) DestinationID() kernel.UUID {
	return q.destinationID
}

// OriginZip returns the postal code the quote was priced from.
func (q *Quote) OriginZip() kernel.ZipCode {
	return q.originZip
}

// DestZip returns the postal code the quote was priced to.
func (q *Quote) DestZip() kernel.ZipCode {
	return q.destZip
}

// Parcel returns the quoted parcel.
func (q *Quote) Parcel() Parcel {
	return q.parcel
}

// SelectedRateID returns the identifier of the priced service the customer
// confirmed.
func (q *Quote) SelectedRateID() string {
	return q.selectedRateID
}

// PriceWithTax returns the tax-inclusive quoted total.
func (q *Quote) PriceWithTax() kernel.Money {
	return q.priceWithTax
}

func (q *Quote) setIDs(id, customerID, destinationID kernel.UUID) error {
	if err := errors.Join(id.Validate(), customerID.Validate(), destinationID.Validate()); err != nil {
		return err
	}
	q.id = id
	q.customerID = customerID
	q.destinationID = destinationID
	return nil
}

func (q *Quote) setRoute(originZip, destZip kernel.ZipCode) error {
	if err := errors.Join(originZip.Validate(), destZip.Validate()); err != nil {
		return err
	}
	q.originZip = originZip
	q.destZip = destZip
	return nil
}

func (q *Quote) setParcel(parcel Parcel) error {
	if err := parcel.Validate(); err != nil {
		return err
	}
	q.parcel = parcel
	return nil
}

func (q *Quote) setSelectedRateID(selectedRateID string) error {
	if selectedRateID == "" {
		return errs.NewValueIsRequiredError("selectedRateID")
	}
	q.selectedRateID = selectedRateID
	return nil
}

func (q *Quote) setPriceWithTax(priceWithTax kernel.Money) error {
	if err := priceWithTax.Validate(); err != nil {
		return err
	}
	q.priceWithTax = priceWithTax
	return nil
}
