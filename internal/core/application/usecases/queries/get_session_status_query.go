// Package queries contains the read operations of the finalization
// workflow. Queries return flat read models assembled from the live
// session and its countdown; nothing here mutates state.
package queries

import (
	"errors"

	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/pkg/guard"
)

var ErrGetSessionStatusQueryIsNotConstructed = errors.New(
	"GetSessionStatusQuery must be created via NewGetSessionStatusQuery constructor",
)

// GetSessionStatusQuery retrieves the current state of one finalization
// session: lifecycle status, fulfillment kind, countdown and commit
// outcome. The UI polls it to render the workflow.
type GetSessionStatusQuery struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetSessionStatusQuery creates a query for one session's status.
func NewGetSessionStatusQuery(sessionID kernel.UUID) (GetSessionStatusQuery, error) {
	query := GetSessionStatusQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setSessionID(sessionID); err != nil {
		return GetSessionStatusQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetSessionStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetSessionStatusQueryIsNotConstructed)
}

// SessionID returns the session being inspected.
func (q GetSessionStatusQuery) SessionID() kernel.UUID {
	return q.sessionID
}

func (q *GetSessionStatusQuery) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	q.sessionID = sessionID
	return nil
}

// GetSessionStatusQueryResponse is the read model of one session.
type GetSessionStatusQueryResponse struct {
	SessionID kernel.UUID
	Status    string

	// Kind is "external", "aggregator" or "" while no path is chosen.
	Kind string

	// SelectedRateID and TrackingNumber are filled as the aggregator
	// path progresses, empty elsewhere.
	SelectedRateID string
	TrackingNumber string

	// ManualDownloadURL carries the label's remote URL once the
	// retrieval fallback is active, empty otherwise.
	ManualDownloadURL string

	// AutoCommitArmed reports a live countdown; RemainingSeconds counts
	// it down and is zero when no countdown is live.
	AutoCommitArmed  bool
	RemainingSeconds int

	// ShipmentID is set once the session committed.
	ShipmentID string

	// CommitFailureCause describes the last failed commit, empty
	// otherwise.
	CommitFailureCause string
}
