package fulfillment

import (
	"errors"
	"fmt"

	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/pkg/errs"
)

var (
	// ErrRateAlreadySelected is returned when a second rate selection is
	// attempted on the same aggregator choice. A rate is selected at most
	// once per finalization session.
	ErrRateAlreadySelected = errors.New("a rate has already been selected")

	// ErrNoRateSelected is returned when a label is attached before a rate
	// was selected. Acquisition strictly precedes labeling.
	ErrNoRateSelected = errors.New("no rate has been selected")

	// ErrNoLabelPurchased is returned when retrieval results or a
	// manual-download acknowledgement arrive before a label exists.
	ErrNoLabelPurchased = errors.New("no label has been purchased")
)

// Kind identifies which fulfillment path a choice represents.
type Kind int

const (
	// KindUnknown is the invalid zero value.
	KindUnknown Kind = iota

	// KindExternal is the manual path: the operator already holds a label
	// purchased outside the system.
	KindExternal

	// KindAggregator is the integrated path: a label is purchased through
	// the rate-shopping aggregator.
	KindAggregator
)

// String returns the kind name used in API payloads and logs.
func (k Kind) String() string {
	switch k {
	case KindExternal:
		return "external"
	case KindAggregator:
		return "aggregator"
	default:
		return "unknown"
	}
}

// Choice is the fulfillment path of a finalization session. Exactly one
// implementation is active per session: *Manual or *Aggregator. Switching
// paths discards the previous choice entirely, which is how partial draft
// state is reset.
type Choice interface {
	// Kind reports which path this choice is.
	Kind() Kind

	// Complete reports whether the choice is structurally ready to commit.
	// A nil return means the commit gate is open for this path.
	Complete() error
}

// Manual is the external-label path. The operator supplies the carrier,
// tracking number, label file and net cost by hand; all four are required
// before the choice is complete.
type Manual struct {
	carrier        string
	trackingNumber string
	labelFile      *LabelFile
	netCost        *kernel.Money
}

// NewManual creates an empty manual draft.
func NewManual() *Manual {
	return &Manual{}
}

// Kind reports KindExternal.
func (m *Manual) Kind() Kind {
	return KindExternal
}

// SetDetails records the operator-supplied label data. The net cost is
// non-negative by construction of Money.
func (m *Manual) SetDetails(carrier, trackingNumber string, labelFile LabelFile, netCost kernel.Money) error {
	if err := errors.Join(
		requireField("carrier", carrier),
		requireField("trackingNumber", trackingNumber),
		labelFile.Validate(),
		netCost.Validate(),
	); err != nil {
		return err
	}

	m.carrier = carrier
	m.trackingNumber = trackingNumber
	m.labelFile = &labelFile
	m.netCost = &netCost
	return nil
}

// Carrier returns the operator-supplied carrier name.
func (m *Manual) Carrier() string {
	return m.carrier
}

// TrackingNumber returns the operator-supplied tracking number.
func (m *Manual) TrackingNumber() string {
	return m.trackingNumber
}

// LabelFile returns the operator-supplied label file, nil while unset.
func (m *Manual) LabelFile() *LabelFile {
	return m.labelFile
}

// NetCost returns the operator-supplied net cost, nil while unset.
func (m *Manual) NetCost() *kernel.Money {
	return m.netCost
}

// Complete reports whether all four manual fields are present.
func (m *Manual) Complete() error {
	return errors.Join(
		requireField("carrier", m.carrier),
		requireField("trackingNumber", m.trackingNumber),
		requirePresent("labelFile", m.labelFile != nil),
		requirePresent("netCost", m.netCost != nil),
	)
}

// Aggregator is the integrated path. State accrues strictly in order:
// a rate is selected, a label is purchased for it, and the label file is
// retrieved (or the operator acknowledges downloading it by hand).
type Aggregator struct {
	rate              *Rate
	label             *LabelAsset
	manualDownloadAck bool
}

// NewAggregator creates an empty aggregator draft.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Kind reports KindAggregator.
func (a *Aggregator) Kind() Kind {
	return KindAggregator
}

// SelectRate records the rate the operator picked. At most one rate may be
// selected per session.
func (a *Aggregator) SelectRate(rate Rate) error {
	if err := rate.Validate(); err != nil {
		return err
	}
	if a.rate != nil {
		return ErrRateAlreadySelected
	}
	a.rate = &rate
	return nil
}

// AttachLabel records the purchased label. A rate must be selected first,
// and the label must match it.
func (a *Aggregator) AttachLabel(label *LabelAsset) error {
	if err := label.Validate(); err != nil {
		return err
	}
	if a.rate == nil {
		return ErrNoRateSelected
	}
	a.label = label
	return nil
}

// AttachLocalFile transfers a retrieved label file onto the purchased label.
func (a *Aggregator) AttachLocalFile(file LabelFile) error {
	if a.label == nil {
		return ErrNoLabelPurchased
	}
	return a.label.AttachLocalFile(file)
}

// AcknowledgeManualDownload records that the operator accepted downloading
// the label by hand after retrieval kept failing. It substitutes for the
// local file in the completeness rule.
func (a *Aggregator) AcknowledgeManualDownload() error {
	if a.label == nil {
		return ErrNoLabelPurchased
	}
	a.manualDownloadAck = true
	return nil
}

// Rate returns the selected rate, nil while unset.
func (a *Aggregator) Rate() *Rate {
	return a.rate
}

// Label returns the purchased label, nil while unset.
func (a *Aggregator) Label() *LabelAsset {
	return a.label
}

// ManualDownloadAcknowledged reports whether the operator accepted the
// manual-download fallback.
func (a *Aggregator) ManualDownloadAcknowledged() bool {
	return a.manualDownloadAck
}

// Complete reports whether the aggregator path is ready to commit: a rate
// is selected, a label exists, and either the label file was retrieved or
// the operator acknowledged manual download.
func (a *Aggregator) Complete() error {
	if a.rate == nil {
		return ErrNoRateSelected
	}
	if a.label == nil {
		return ErrNoLabelPurchased
	}
	if a.label.LocalFile() == nil && !a.manualDownloadAck {
		return fmt.Errorf("label file is neither retrieved nor acknowledged for manual download: %w",
			errs.NewValueIsRequiredError("localFile"))
	}
	return nil
}

// RetrievedLocalFile reports whether the label file was actually retrieved.
// The auto-commit timer arms only on this strict form of completeness, not
// on the manual-download acknowledgement.
func (a *Aggregator) RetrievedLocalFile() bool {
	return a.label != nil && a.label.LocalFile() != nil
}

func requirePresent(name string, present bool) error {
	if !present {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}
