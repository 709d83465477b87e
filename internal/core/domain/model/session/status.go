package session

import (
	"fmt"

	"shipment/internal/pkg/errs"
)

// Status is the lifecycle state of a finalization session. It is a value
// object: transition methods return the next status or an error, and the
// Session aggregate is the only writer.
type Status int

const (
	// Unknown is the invalid zero value.
	Unknown Status = iota

	// Selecting: the session is open but no fulfillment path is chosen.
	Selecting

	// Configuring: a fulfillment kind is chosen and its draft is empty.
	Configuring

	// ManualReady: the manual path holds all required label data.
	ManualReady

	// AcquiringRate: a rate query against the aggregator is in flight or
	// its results are being presented.
	AcquiringRate

	// RateSelected: the operator picked one priced service.
	RateSelected

	// GeneratingLabel: a label purchase is in flight.
	GeneratingLabel

	// LabelReady: a label was purchased; its file is not yet local.
	LabelReady

	// RetrievingAsset: the label file download is in flight.
	RetrievingAsset

	// AssetReady: the aggregator path is done acquiring; either the label
	// file is local or the session fell back to manual download.
	AssetReady

	// Committing: a commit request is in flight. At most one commit may
	// be in flight per session, which this status enforces.
	Committing

	// Committed: the shipment is persisted. Terminal.
	Committed

	// CommitFailed: the commit attempt failed; retry is allowed while the
	// fulfillment choice stays structurally complete.
	CommitFailed
)

func statusNames() map[Status]string {
	return map[Status]string{
		Unknown:         "Unknown",
		Selecting:       "Selecting",
		Configuring:     "Configuring",
		ManualReady:     "ManualReady",
		AcquiringRate:   "AcquiringRate",
		RateSelected:    "RateSelected",
		GeneratingLabel: "GeneratingLabel",
		LabelReady:      "LabelReady",
		RetrievingAsset: "RetrievingAsset",
		AssetReady:      "AssetReady",
		Committing:      "Committing",
		Committed:       "Committed",
		CommitFailed:    "CommitFailed",
	}
}

// String returns the status name, "Unknown" for invalid values.
func (s Status) String() string {
	if name, ok := statusNames()[s]; ok {
		return name
	}
	return "Unknown"
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > CommitFailed {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%d is not a valid session status", int(s)),
		)
	}
	return nil
}

// IsTerminal reports whether the session is finished. Only Committed is
// terminal; CommitFailed allows a retry.
func (s Status) IsTerminal() bool {
	return s == Committed
}

// ChooseKind transitions to Configuring. Allowed from every state where no
// commit is in flight and the session is not committed: choosing (or
// switching) the fulfillment kind discards the previous path's state.
func (s Status) ChooseKind() (Status, error) {
	switch s {
	case Selecting, Configuring, ManualReady,
		AcquiringRate, RateSelected, GeneratingLabel,
		LabelReady, RetrievingAsset, AssetReady, CommitFailed:
		return Configuring, nil
	default:
		return 0, s.transitionError("choose fulfillment kind")
	}
}

// ManualDetailsSet transitions to ManualReady. Allowed from Configuring and
// from ManualReady itself so the operator can correct previously entered
// data.
func (s Status) ManualDetailsSet() (Status, error) {
	if s != Configuring && s != ManualReady {
		return 0, s.transitionError("set manual label details")
	}
	return ManualReady, nil
}

// StartRateQuery transitions to AcquiringRate. Re-querying while already
// in AcquiringRate is allowed; an empty result list keeps the session
// there waiting for new parameters or another query.
func (s Status) StartRateQuery() (Status, error) {
	if s != Configuring && s != AcquiringRate {
		return 0, s.transitionError("query rates")
	}
	return AcquiringRate, nil
}

// RateChosen transitions to RateSelected.
func (s Status) RateChosen() (Status, error) {
	if s != AcquiringRate {
		return 0, s.transitionError("select a rate")
	}
	return RateSelected, nil
}

// StartLabelPurchase transitions to GeneratingLabel.
func (s Status) StartLabelPurchase() (Status, error) {
	if s != RateSelected {
		return 0, s.transitionError("purchase a label")
	}
	return GeneratingLabel, nil
}

// LabelPurchased transitions to LabelReady.
func (s Status) LabelPurchased() (Status, error) {
	if s != GeneratingLabel {
		return 0, s.transitionError("attach a purchased label")
	}
	return LabelReady, nil
}

// LabelPurchaseFailed returns to RateSelected so the purchase can be
// retried after the operator corrects the payload.
func (s Status) LabelPurchaseFailed() (Status, error) {
	if s != GeneratingLabel {
		return 0, s.transitionError("fail a label purchase")
	}
	return RateSelected, nil
}

// StartRetrieval transitions to RetrievingAsset.
func (s Status) StartRetrieval() (Status, error) {
	if s != LabelReady {
		return 0, s.transitionError("retrieve the label file")
	}
	return RetrievingAsset, nil
}

// RetrievalAborted returns to LabelReady after a download that failed
// without exhausting its budget, e.g. an aborted request. The download can
// be started again; only budget exhaustion degrades the session.
func (s Status) RetrievalAborted() (Status, error) {
	if s != RetrievingAsset {
		return 0, s.transitionError("abort label retrieval")
	}
	return LabelReady, nil
}

// AssetRetrieved transitions to AssetReady. Used both when the download
// succeeded and when the session degrades to the manual-download fallback
// after the retrieval budget is exhausted.
func (s Status) AssetRetrieved() (Status, error) {
	if s != RetrievingAsset {
		return 0, s.transitionError("finish label retrieval")
	}
	return AssetReady, nil
}

// StartCommit transitions to Committing. Allowed from the two ready states
// and from CommitFailed (retry). Committing itself is excluded, which is
// what keeps a second commit from starting while one is in flight.
func (s Status) StartCommit() (Status, error) {
	switch s {
	case ManualReady, AssetReady, CommitFailed:
		return Committing, nil
	default:
		return 0, s.transitionError("commit the shipment")
	}
}

// CommitSucceeded transitions to Committed.
func (s Status) CommitSucceeded() (Status, error) {
	if s != Committing {
		return 0, s.transitionError("record a successful commit")
	}
	return Committed, nil
}

// CommitFailedNow transitions to CommitFailed.
func (s Status) CommitFailedNow() (Status, error) {
	if s != Committing {
		return 0, s.transitionError("record a failed commit")
	}
	return CommitFailed, nil
}

func (s Status) transitionError(action string) error {
	return errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("cannot %s while session is %s", action, s),
	)
}
