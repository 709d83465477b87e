package services

import (
	"errors"
	"fmt"
	"strings"

	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/core/domain/model/quote"
)

// ErrZipMismatch is the sentinel for postal-code drift between quotation
// time and commit time.
var ErrZipMismatch = errors.New("postal codes changed since quotation")

// ZipMismatch describes one drifted side of the route.
type ZipMismatch struct {
	// Side is "origin" or "destination".
	Side string

	// Quoted is the postal code the price was computed with.
	Quoted kernel.ZipCode

	// Current is the postal code now bound to the customer or
	// destination record.
	Current kernel.ZipCode
}

// ZipMismatchError reports every side of the route whose postal code no
// longer matches the quote. Commit is blocked; the operator must re-quote.
// Never auto-retried.
type ZipMismatchError struct {
	Mismatches []ZipMismatch
}

func (e *ZipMismatchError) Error() string {
	parts := make([]string, 0, len(e.Mismatches))
	for _, m := range e.Mismatches {
		parts = append(parts, fmt.Sprintf("%s quoted as %s but record now holds %s",
			m.Side, m.Quoted, m.Current))
	}
	return fmt.Sprintf("%s: %s", ErrZipMismatch, strings.Join(parts, "; "))
}

func (e *ZipMismatchError) Unwrap() error {
	return ErrZipMismatch
}

// ZipConsistencyGuard validates that the postal codes a quote was priced
// with still match the customer and destination records at commit time.
// Pricing is postal-code sensitive; without this gate a shipment could
// commit at a stale price after a record edit.
type ZipConsistencyGuard struct{}

// NewZipConsistencyGuard creates the guard.
func NewZipConsistencyGuard() ZipConsistencyGuard {
	return ZipConsistencyGuard{}
}

// Check compares the quote's route against the live postal codes. Returns
// nil when both sides match, a *ZipMismatchError naming each drifted side
// otherwise.
func (g ZipConsistencyGuard) Check(q *quote.Quote, customerZip, destinationZip kernel.ZipCode) error {
	if err := q.Validate(); err != nil {
		return err
	}
	if err := errors.Join(customerZip.Validate(), destinationZip.Validate()); err != nil {
		return err
	}

	var mismatches []ZipMismatch
	if !q.OriginZip().IsEqual(customerZip) {
		mismatches = append(mismatches, ZipMismatch{
			Side:    "origin",
			Quoted:  q.OriginZip(),
			Current: customerZip,
		})
	}
	if !q.DestZip().IsEqual(destinationZip) {
		mismatches = append(mismatches, ZipMismatch{
			Side:    "destination",
			Quoted:  q.DestZip(),
			Current: destinationZip,
		})
	}

	if len(mismatches) > 0 {
		return &ZipMismatchError{Mismatches: mismatches}
	}
	return nil
}
