package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"shipment/internal/core/domain/model/fulfillment"
	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/core/domain/model/quote"
)

var (
	// ErrSessionIsNotConstructed is returned when a Session was not
	// created through NewSession.
	ErrSessionIsNotConstructed = errors.New("Session must be created via NewSession constructor")

	// ErrNoFulfillmentChoice is returned by operations that require a
	// fulfillment kind to be chosen first.
	ErrNoFulfillmentChoice = errors.New("no fulfillment kind has been chosen")

	// ErrWrongFulfillmentKind is returned when an operation targets the
	// path that is not active, e.g. selecting a rate on a manual session.
	ErrWrongFulfillmentKind = errors.New("operation does not apply to the active fulfillment kind")

	// ErrChoiceIncomplete wraps the per-path completeness failure that
	// blocked a commit attempt.
	ErrChoiceIncomplete = errors.New("fulfillment choice is not structurally complete")

	// ErrManualDownloadNotOffered is returned when the operator
	// acknowledges manual download but retrieval never exhausted its
	// budget for this session.
	ErrManualDownloadNotOffered = errors.New("manual download was not offered for this session")
)

// Session is the aggregate root of one finalization flow. It owns the
// quote, the active fulfillment choice and the lifecycle status and is the
// only place state transitions happen.
//
// Sessions hold no durable state: they live in memory and are destroyed on
// successful commit, explicit cancel or session close. Every mutating
// method revalidates the current status, so a stale network result applied
// to a session that has moved on is rejected rather than applied.
//
// Methods are safe for concurrent use: request goroutines, the countdown
// expiry and the cleanup job all reach the same session. The status gate
// and the transition it admits happen under one lock, which is what keeps
// two racing commits from both passing BeginCommit.
type Session struct {
	mu sync.RWMutex

	id          kernel.UUID
	quote       *quote.Quote
	choice      fulfillment.Choice
	status      Status
	shipmentID  string
	commitCause error

	// manualDownloadFallback is set when label retrieval exhausted its
	// budget and the session degraded to exposing the remote URL.
	manualDownloadFallback bool

	// autoCommitDisarmed is set once the operator cancels the countdown.
	// Cancellation is terminal: the timer never re-arms for this session.
	autoCommitDisarmed bool

	lastActivity  time.Time
	isConstructed bool
}

// NewSession opens a finalization session for a confirmed quote.
func NewSession(id kernel.UUID, q *quote.Quote) (*Session, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	return &Session{
		id:            id,
		quote:         q,
		status:        Selecting,
		lastActivity:  time.Now(),
		isConstructed: true,
	}, nil
}

// Validate ensures the session was built through NewSession.
func (s *Session) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSessionIsNotConstructed
	}
	return nil
}

// ID returns the session identifier.
func (s *Session) ID() kernel.UUID {
	return s.id
}

// Quote returns the quote being finalized.
func (s *Session) Quote() *quote.Quote {
	return s.quote
}

// Status returns the current lifecycle status.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Choice returns the active fulfillment choice, nil while Selecting.
func (s *Session) Choice() fulfillment.Choice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.choice
}

// ShipmentID returns the backend identifier of the committed shipment.
// Empty until the session reaches Committed.
func (s *Session) ShipmentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shipmentID
}

// CommitCause returns the error recorded by the last failed commit, nil
// otherwise.
func (s *Session) CommitCause() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commitCause
}

// ManualDownloadFallback reports whether retrieval exhausted its budget
// and the remote URL is being exposed for manual download.
func (s *Session) ManualDownloadFallback() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manualDownloadFallback
}

// AutoCommitDisarmed reports whether the operator cancelled the countdown.
func (s *Session) AutoCommitDisarmed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autoCommitDisarmed
}

// LastActivity returns the time of the last state change. The session
// janitor uses it to expire abandoned sessions.
func (s *Session) LastActivity() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActivity
}

// ChooseFulfillment picks (or switches) the fulfillment kind. Switching
// discards the other path's partial state entirely: a fresh draft replaces
// whatever was accumulated. Labels already purchased upstream are not
// voided.
func (s *Session) ChooseFulfillment(kind fulfillment.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.status.ChooseKind()
	if err != nil {
		return err
	}

	switch kind {
	case fulfillment.KindExternal:
		s.choice = fulfillment.NewManual()
	case fulfillment.KindAggregator:
		s.choice = fulfillment.NewAggregator()
	default:
		return fmt.Errorf("unknown fulfillment kind %d", int(kind))
	}

	s.manualDownloadFallback = false
	s.autoCommitDisarmed = false
	s.transition(next)
	return nil
}

// SetManualDetails records the operator-supplied label data on the manual
// path and marks the session ready to commit.
func (s *Session) SetManualDetails(carrier, trackingNumber string, labelFile fulfillment.LabelFile, netCost kernel.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	manual, err := s.manualChoice()
	if err != nil {
		return err
	}
	next, err := s.status.ManualDetailsSet()
	if err != nil {
		return err
	}
	if err := manual.SetDetails(carrier, trackingNumber, labelFile, netCost); err != nil {
		return err
	}

	s.transition(next)
	return nil
}

// StartRateQuery marks a rate query in flight on the aggregator path.
func (s *Session) StartRateQuery() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.aggregatorChoice(); err != nil {
		return err
	}
	next, err := s.status.StartRateQuery()
	if err != nil {
		return err
	}

	s.transition(next)
	return nil
}

// SelectRate records the operator's pick from the queried rates.
func (s *Session) SelectRate(rate fulfillment.Rate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	agg, err := s.aggregatorChoice()
	if err != nil {
		return err
	}
	next, err := s.status.RateChosen()
	if err != nil {
		return err
	}
	if err := agg.SelectRate(rate); err != nil {
		return err
	}

	s.transition(next)
	return nil
}

// StartLabelPurchase marks a label purchase in flight.
func (s *Session) StartLabelPurchase() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.aggregatorChoice(); err != nil {
		return err
	}
	next, err := s.status.StartLabelPurchase()
	if err != nil {
		return err
	}

	s.transition(next)
	return nil
}

// AttachLabel applies a successful label purchase. Rejected when the
// session is no longer waiting for one, which drops stale results.
func (s *Session) AttachLabel(label *fulfillment.LabelAsset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	agg, err := s.aggregatorChoice()
	if err != nil {
		return err
	}
	next, err := s.status.LabelPurchased()
	if err != nil {
		return err
	}
	if err := agg.AttachLabel(label); err != nil {
		return err
	}

	s.transition(next)
	return nil
}

// FailLabelPurchase returns the session to RateSelected after a failed
// purchase so the operator can correct the payload and retry.
func (s *Session) FailLabelPurchase() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.aggregatorChoice(); err != nil {
		return err
	}
	next, err := s.status.LabelPurchaseFailed()
	if err != nil {
		return err
	}

	s.transition(next)
	return nil
}

// StartRetrieval marks the label download in flight.
func (s *Session) StartRetrieval() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.aggregatorChoice(); err != nil {
		return err
	}
	next, err := s.status.StartRetrieval()
	if err != nil {
		return err
	}

	s.transition(next)
	return nil
}

// AttachRetrievedFile applies a successful label download and completes
// the acquisition phase.
func (s *Session) AttachRetrievedFile(file fulfillment.LabelFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	agg, err := s.aggregatorChoice()
	if err != nil {
		return err
	}
	next, err := s.status.AssetRetrieved()
	if err != nil {
		return err
	}
	if err := agg.AttachLocalFile(file); err != nil {
		return err
	}

	s.transition(next)
	return nil
}

// AbortRetrieval returns the session to LabelReady after a download that
// failed without exhausting its budget, so the download can be retried.
func (s *Session) AbortRetrieval() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.aggregatorChoice(); err != nil {
		return err
	}
	next, err := s.status.RetrievalAborted()
	if err != nil {
		return err
	}

	s.transition(next)
	return nil
}

// FallbackToManualDownload degrades the session after the retrieval budget
// is exhausted: the session still reaches AssetReady, but the remote URL is
// exposed for manual download and the auto-commit timer must not arm.
func (s *Session) FallbackToManualDownload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.aggregatorChoice(); err != nil {
		return err
	}
	next, err := s.status.AssetRetrieved()
	if err != nil {
		return err
	}

	s.manualDownloadFallback = true
	s.transition(next)
	return nil
}

// AcknowledgeManualDownload records that the operator accepted downloading
// the label by hand, unblocking a manual commit. Only offered after the
// retrieval fallback.
func (s *Session) AcknowledgeManualDownload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	agg, err := s.aggregatorChoice()
	if err != nil {
		return err
	}
	if s.status != AssetReady || !s.manualDownloadFallback {
		return ErrManualDownloadNotOffered
	}

	if err := agg.AcknowledgeManualDownload(); err != nil {
		return err
	}
	s.touch()
	return nil
}

// ShouldArmAutoCommit reports whether reaching the current state arms the
// 60-second countdown: aggregator path, label file actually retrieved, and
// the operator has not cancelled a previous countdown.
func (s *Session) ShouldArmAutoCommit() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agg, ok := s.choice.(*fulfillment.Aggregator)
	if !ok {
		return false
	}
	return s.status == AssetReady && agg.RetrievedLocalFile() && !s.autoCommitDisarmed
}

// DisarmAutoCommit records the operator's cancellation of the countdown.
// Terminal for this session: the timer never re-arms. The session stays in
// AssetReady and can still be committed manually.
func (s *Session) DisarmAutoCommit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.autoCommitDisarmed = true
	s.touch()
}

// BeginCommit gates and starts a commit attempt. The active choice must be
// structurally complete, and no other commit may be in flight (enforced by
// the Committing status transition).
func (s *Session) BeginCommit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.choice == nil {
		return ErrNoFulfillmentChoice
	}
	if err := s.choice.Complete(); err != nil {
		return fmt.Errorf("%w: %w", ErrChoiceIncomplete, err)
	}
	next, err := s.status.StartCommit()
	if err != nil {
		return err
	}

	s.transition(next)
	return nil
}

// CompleteCommit records the persisted shipment identifier. Terminal.
func (s *Session) CompleteCommit(shipmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.status.CommitSucceeded()
	if err != nil {
		return err
	}
	if shipmentID == "" {
		return fmt.Errorf("backend returned an empty shipment id")
	}

	s.shipmentID = shipmentID
	s.commitCause = nil
	s.transition(next)
	return nil
}

// FailCommit records a failed commit attempt. Recoverable: the operator
// may retry without redoing acquisition or retrieval.
func (s *Session) FailCommit(cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.status.CommitFailedNow()
	if err != nil {
		return err
	}

	s.commitCause = cause
	s.transition(next)
	return nil
}

func (s *Session) manualChoice() (*fulfillment.Manual, error) {
	if s.choice == nil {
		return nil, ErrNoFulfillmentChoice
	}
	manual, ok := s.choice.(*fulfillment.Manual)
	if !ok {
		return nil, ErrWrongFulfillmentKind
	}
	return manual, nil
}

func (s *Session) aggregatorChoice() (*fulfillment.Aggregator, error) {
	if s.choice == nil {
		return nil, ErrNoFulfillmentChoice
	}
	agg, ok := s.choice.(*fulfillment.Aggregator)
	if !ok {
		return nil, ErrWrongFulfillmentKind
	}
	return agg, nil
}

func (s *Session) transition(next Status) {
	s.status = next
	s.touch()
}

func (s *Session) touch() {
	s.lastActivity = time.Now()
}
