package commands

import (
	"context"
	"fmt"
	"log/slog"

	"shipment/internal/core/domain/model/fulfillment"
	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/core/domain/model/session"
	"shipment/internal/core/domain/services"
	"shipment/internal/core/ports"
)

// CommitShipmentCommandHandler runs the commit sequence: stop any live
// countdown, re-read the customer and destination records, verify the
// quoted postal codes still hold, gate on structural completeness and
// submit to the backend. A failed commit leaves the session recoverable;
// the operator fixes the cause and retries without redoing acquisition.
type CommitShipmentCommandHandler struct {
	store     ports.SessionStore
	records   ports.RecordReader
	committer ports.ShipmentCommitClient
	zipGuard  services.ZipConsistencyGuard
	scheduler AutoCommitScheduler
}

// NewCommitShipmentCommandHandler creates a handler for shipment commits.
func NewCommitShipmentCommandHandler(
	store ports.SessionStore,
	records ports.RecordReader,
	committer ports.ShipmentCommitClient,
	zipGuard services.ZipConsistencyGuard,
	scheduler AutoCommitScheduler,
) CommitShipmentCommandHandler {
	return CommitShipmentCommandHandler{
		store:     store,
		records:   records,
		committer: committer,
		zipGuard:  zipGuard,
		scheduler: scheduler,
	}
}

// Handle commits the session's shipment to the backend.
func (h *CommitShipmentCommandHandler) Handle(ctx context.Context, cmd CommitShipmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	sess, err := h.store.Get(cmd.SessionID())
	if err != nil {
		return err
	}

	// A manual commit racing the countdown: whichever gets here first
	// stops the other through the Committing transition below.
	h.scheduler.Cancel(cmd.SessionID().String())

	q := sess.Quote()
	customerZip, destinationZip, err := h.records.CurrentZips(ctx, q.CustomerID(), q.DestinationID())
	if err != nil {
		return err
	}
	if err := h.zipGuard.Check(q, customerZip, destinationZip); err != nil {
		return err
	}

	if err := sess.BeginCommit(); err != nil {
		return err
	}

	submission, err := buildSubmission(sess)
	if err != nil {
		if failErr := sess.FailCommit(err); failErr != nil {
			return failErr
		}
		return err
	}

	shipmentID, err := h.committer.Commit(ctx, submission)
	if err != nil {
		if failErr := sess.FailCommit(err); failErr != nil {
			return failErr
		}
		return err
	}

	if err := sess.CompleteCommit(shipmentID); err != nil {
		return err
	}
	h.scheduler.Release(cmd.SessionID().String())
	return nil
}

// HandleExpiry commits a session whose countdown ran out. It is the
// CommitTrigger of the retrieval handler: the expiry has no caller to
// return an error to, so failures are logged and the session is left in
// its recoverable failure state for the operator.
func (h *CommitShipmentCommandHandler) HandleExpiry(ctx context.Context, sessionID kernel.UUID) {
	cmd, err := NewCommitShipmentCommand(sessionID)
	if err != nil {
		slog.Error("auto-commit skipped: invalid session id", "error", err)
		return
	}

	if err := h.Handle(ctx, cmd); err != nil {
		slog.Error("auto-commit failed", "session_id", sessionID.String(), "error", err)
	}
}

// buildSubmission flattens the session into the backend payload. The
// idempotency key is derived from the session and tracking number, so
// every retry of the same logical commit deduplicates server-side.
func buildSubmission(sess *session.Session) (ports.ShipmentSubmission, error) {
	q := sess.Quote()
	submission := ports.ShipmentSubmission{
		QuoteID:       q.ID(),
		CustomerID:    q.CustomerID(),
		DestinationID: q.DestinationID(),
		PriceWithTax:  q.PriceWithTax(),
		DeclaredValue: q.Parcel().DeclaredValue(),
	}

	switch choice := sess.Choice().(type) {
	case *fulfillment.Manual:
		submission.Carrier = choice.Carrier()
		submission.TrackingNumber = choice.TrackingNumber()
		submission.NetCost = choice.NetCost()
		submission.LabelFile = choice.LabelFile()

	case *fulfillment.Aggregator:
		label := choice.Label()
		price := label.PriceCharged()
		submission.Carrier = choice.Rate().Carrier()
		submission.TrackingNumber = label.TrackingNumber()
		submission.NetCost = &price
		submission.LabelFile = label.LocalFile()
		submission.LabelRemoteURL = label.RemoteURL()

	default:
		return ports.ShipmentSubmission{}, fmt.Errorf("unsupported fulfillment choice %T", sess.Choice())
	}

	submission.IdempotencyKey = sess.ID().String() + ":" + submission.TrackingNumber
	return submission, nil
}
