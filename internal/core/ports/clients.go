// Package ports defines the interfaces the application core needs from the
// outside world: the carrier aggregator, the label storage, the backend
// shipment API and the in-memory session store. Adapters implement them.
package ports

import (
	"context"
	"errors"

	"shipment/internal/core/domain/model/fulfillment"
	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/core/domain/model/quote"
)

// ErrRetrievalExhausted is the sentinel wrapped by a LabelRetriever once
// its whole retry budget failed. Only this outcome degrades the session to
// the manual-download fallback; any other download error is a plain
// failure of the attempt.
var ErrRetrievalExhausted = errors.New("label retrieval budget exhausted")

// Address is the postal address payload sent to the aggregator when
// purchasing a label. Kept as plain data: it is assembled from the
// customer and destination records, which live outside this subsystem.
type Address struct {
	Name         string
	Company      string
	Street       string
	StreetNumber string
	Neighborhood string
	City         string
	State        string
	Zip          string
	Country      string
	Phone        string
	Email        string
}

// RateShoppingClient queries the carrier aggregator for priced service
// options on a route. An empty slice is a valid, non-error result meaning
// no service covers the route; it is distinct from any failure.
type RateShoppingClient interface {
	QueryRates(ctx context.Context, originZip, destZip kernel.ZipCode, parcel quote.Parcel) ([]fulfillment.Rate, error)
}

// LabelAcquisitionClient purchases a label for a previously queried rate.
// Validation failures surface as *errs.ValidationError with the upstream
// field-path to message mapping preserved.
type LabelAcquisitionClient interface {
	PurchaseLabel(ctx context.Context, sender, recipient Address, rateID string) (*fulfillment.LabelAsset, error)
}

// LabelRetriever downloads the purchased label asset. Retry is bounded and
// owned by the implementation; exhaustion surfaces as an error matching
// ErrRetrievalExhausted and the caller degrades to the manual-download
// fallback.
type LabelRetriever interface {
	Download(ctx context.Context, remoteURL string) (fulfillment.LabelFile, error)
}

// ShipmentSubmission is everything the backend needs to persist a
// finished shipment.
type ShipmentSubmission struct {
	QuoteID        kernel.UUID
	CustomerID     kernel.UUID
	DestinationID  kernel.UUID
	Carrier        string
	TrackingNumber string
	PriceWithTax   kernel.Money
	NetCost        *kernel.Money
	DeclaredValue  *kernel.Money
	LabelFile      *fulfillment.LabelFile
	LabelRemoteURL string

	// IdempotencyKey deduplicates retried submissions on the backend. One
	// key is generated per logical commit, so backoff retries of the same
	// commit cannot create a duplicate shipment.
	IdempotencyKey string
}

// ShipmentCommitClient submits the finished shipment to the backend.
// Rate-limit responses are retried with exponential backoff inside the
// implementation; a timeout whose outcome is unknown surfaces as
// *backend.CommitOutcomeUnknownError.
type ShipmentCommitClient interface {
	Commit(ctx context.Context, submission ShipmentSubmission) (shipmentID string, err error)
}

// RecordReader fetches the postal codes currently bound to the customer
// and destination records, for the consistency check at commit time.
type RecordReader interface {
	CurrentZips(ctx context.Context, customerID, destinationID kernel.UUID) (customerZip, destinationZip kernel.ZipCode, err error)
}
