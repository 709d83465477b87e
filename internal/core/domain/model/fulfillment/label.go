package fulfillment

import (
	"errors"
	"time"

	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/pkg/errs"
)

// ErrLocalFileAlreadyAttached is returned when a retrieval result is
// applied to an asset that already owns a local file.
var ErrLocalFileAlreadyAttached = errors.New("label asset already has a local file")

// LabelFile is the downloaded binary artifact of a shipping label.
type LabelFile struct {
	filename    string
	contentType string
	data        []byte
}

// NewLabelFile creates a LabelFile. Content type defaults to
// application/octet-stream when the origin did not report one.
func NewLabelFile(filename, contentType string, data []byte) (LabelFile, error) {
	if filename == "" {
		return LabelFile{}, errs.NewValueIsRequiredError("filename")
	}
	if len(data) == 0 {
		return LabelFile{}, errs.NewValueIsRequiredError("file data")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return LabelFile{filename: filename, contentType: contentType, data: data}, nil
}

// Filename returns the inferred file name.
func (f LabelFile) Filename() string {
	return f.filename
}

// ContentType returns the MIME type of the file.
func (f LabelFile) ContentType() string {
	return f.contentType
}

// Data returns the file contents.
func (f LabelFile) Data() []byte {
	return f.data
}

// Validate returns an error for a zero-value LabelFile.
func (f LabelFile) Validate() error {
	if f.filename == "" {
		return errs.NewValueIsRequiredError("label file must be created via NewLabelFile")
	}
	return nil
}

// LabelAsset is a purchased shipping label. The remote URL is authoritative
// until the local file has been retrieved; a LabelAsset can never hold a
// local file without also holding the remote URL and the tracking number,
// which the constructor makes mandatory.
type LabelAsset struct {
	trackingNumber string
	createdAt      time.Time
	priceCharged   kernel.Money
	remoteURL      string
	localFile      *LabelFile

	isConstructed bool
}

// NewLabelAsset creates a LabelAsset fresh from a label purchase, with no
// local file yet.
func NewLabelAsset(trackingNumber string, createdAt time.Time, priceCharged kernel.Money, remoteURL string) (*LabelAsset, error) {
	if err := errors.Join(
		requireField("trackingNumber", trackingNumber),
		requireField("remoteURL", remoteURL),
		priceCharged.Validate(),
	); err != nil {
		return nil, err
	}
	if createdAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("createdAt")
	}

	return &LabelAsset{
		trackingNumber: trackingNumber,
		createdAt:      createdAt,
		priceCharged:   priceCharged,
		remoteURL:      remoteURL,
		isConstructed:  true,
	}, nil
}

// TrackingNumber returns the carrier tracking number.
func (a *LabelAsset) TrackingNumber() string {
	return a.trackingNumber
}

// CreatedAt returns the purchase timestamp reported by the aggregator.
func (a *LabelAsset) CreatedAt() time.Time {
	return a.createdAt
}

// PriceCharged returns the amount the aggregator charged for the label.
func (a *LabelAsset) PriceCharged() kernel.Money {
	return a.priceCharged
}

// RemoteURL returns the label download URL.
func (a *LabelAsset) RemoteURL() string {
	return a.remoteURL
}

// LocalFile returns the retrieved label file, nil while retrieval has not
// succeeded.
func (a *LabelAsset) LocalFile() *LabelFile {
	return a.localFile
}

// AttachLocalFile transfers ownership of a retrieved file to the asset.
// It can be called at most once per asset.
func (a *LabelAsset) AttachLocalFile(file LabelFile) error {
	if err := file.Validate(); err != nil {
		return err
	}
	if a.localFile != nil {
		return ErrLocalFileAlreadyAttached
	}
	a.localFile = &file
	return nil
}

// Validate returns an error for an asset not built through NewLabelAsset.
func (a *LabelAsset) Validate() error {
	if a == nil || !a.isConstructed {
		return errs.NewValueIsRequiredError("label asset must be created via NewLabelAsset")
	}
	return nil
}
