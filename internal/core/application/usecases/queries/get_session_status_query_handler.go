package queries

import (
	"context"
	"math"
	"time"

	"shipment/internal/core/domain/model/fulfillment"
	"shipment/internal/core/domain/model/session"
	"shipment/internal/core/ports"
)

// CountdownReader exposes the remaining time of a session's auto-commit
// countdown.
type CountdownReader interface {
	Remaining(key string) (time.Duration, bool)
}

// GetSessionStatusQueryHandler assembles the session read model.
type GetSessionStatusQueryHandler struct {
	store      ports.SessionStore
	countdowns CountdownReader
}

// NewGetSessionStatusQueryHandler creates a handler for session status
// queries.
func NewGetSessionStatusQueryHandler(store ports.SessionStore, countdowns CountdownReader) GetSessionStatusQueryHandler {
	return GetSessionStatusQueryHandler{
		store:      store,
		countdowns: countdowns,
	}
}

// Handle returns the current state of the session.
func (h GetSessionStatusQueryHandler) Handle(
	_ context.Context,
	query GetSessionStatusQuery,
) (GetSessionStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetSessionStatusQueryResponse{}, err
	}

	sess, err := h.store.Get(query.SessionID())
	if err != nil {
		return GetSessionStatusQueryResponse{}, err
	}

	response := GetSessionStatusQueryResponse{
		SessionID:  sess.ID(),
		Status:     sess.Status().String(),
		ShipmentID: sess.ShipmentID(),
	}
	if sess.Choice() != nil {
		response.Kind = sess.Choice().Kind().String()
	}
	if cause := sess.CommitCause(); cause != nil {
		response.CommitFailureCause = cause.Error()
	}

	if agg, ok := sess.Choice().(*fulfillment.Aggregator); ok {
		if rate := agg.Rate(); rate != nil {
			response.SelectedRateID = rate.ID()
		}
		if label := agg.Label(); label != nil {
			response.TrackingNumber = label.TrackingNumber()
			if sess.ManualDownloadFallback() {
				response.ManualDownloadURL = label.RemoteURL()
			}
		}
	}

	// A cancelled countdown stays registered until the session releases
	// its key, so the disarm flag, not mere key presence, decides armed.
	remaining, live := h.countdowns.Remaining(query.SessionID().String())
	if live && sess.Status() == session.AssetReady && !sess.AutoCommitDisarmed() {
		response.AutoCommitArmed = true
		response.RemainingSeconds = int(math.Ceil(remaining.Seconds()))
	}

	return response, nil
}
