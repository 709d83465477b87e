package commands

import (
	"context"
	"errors"

	"shipment/internal/core/domain/model/fulfillment"
	"shipment/internal/core/ports"
	"shipment/internal/pkg/errs"
)

// Placeholder values substituted by the auto-fix remediation when the
// aggregator rejects an address for a gap the operator rarely can fill in
// from the record.
const (
	PlaceholderEmail        = "envios@noreply.invalid"
	PlaceholderStreetNumber = "S/N"
)

// PurchaseLabelCommandHandler buys a label for the selected rate. When the
// aggregator rejects the payload with field errors the handler applies the
// auto-fix defaults (placeholder email, placeholder street number) and
// retries exactly once; a second validation failure goes back to the
// operator untouched.
type PurchaseLabelCommandHandler struct {
	store  ports.SessionStore
	labels ports.LabelAcquisitionClient
}

// NewPurchaseLabelCommandHandler creates a handler for label purchases.
func NewPurchaseLabelCommandHandler(store ports.SessionStore, labels ports.LabelAcquisitionClient) PurchaseLabelCommandHandler {
	return PurchaseLabelCommandHandler{
		store:  store,
		labels: labels,
	}
}

// Handle purchases the label and attaches it to the session. On failure
// the session returns to the rate-selected state so the purchase can be
// retried with a corrected payload.
func (h *PurchaseLabelCommandHandler) Handle(ctx context.Context, cmd PurchaseLabelCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	sess, err := h.store.Get(cmd.SessionID())
	if err != nil {
		return err
	}

	agg, ok := sess.Choice().(*fulfillment.Aggregator)
	if !ok || agg.Rate() == nil {
		return fulfillment.ErrNoRateSelected
	}
	rateID := agg.Rate().ID()

	if err := sess.StartLabelPurchase(); err != nil {
		return err
	}

	label, err := h.purchaseWithAutoFix(ctx, cmd.Sender(), cmd.Recipient(), rateID)
	if err != nil {
		if failErr := sess.FailLabelPurchase(); failErr != nil {
			return errors.Join(err, failErr)
		}
		return err
	}

	return sess.AttachLabel(label)
}

func (h *PurchaseLabelCommandHandler) purchaseWithAutoFix(ctx context.Context, sender, recipient ports.Address, rateID string) (*fulfillment.LabelAsset, error) {
	label, err := h.labels.PurchaseLabel(ctx, sender, recipient, rateID)
	if err == nil {
		return label, nil
	}

	var validationErr *errs.ValidationError
	if !errors.As(err, &validationErr) {
		return nil, err
	}

	fixedSender, senderFixed := autoFixAddress("address_from", sender, validationErr)
	fixedRecipient, recipientFixed := autoFixAddress("address_to", recipient, validationErr)
	if !senderFixed && !recipientFixed {
		return nil, err
	}

	return h.labels.PurchaseLabel(ctx, fixedSender, fixedRecipient, rateID)
}

// autoFixAddress substitutes defaults for the field errors the workflow
// knows how to fill in. Anything else stays operator-facing.
func autoFixAddress(prefix string, addr ports.Address, validationErr *errs.ValidationError) (ports.Address, bool) {
	fixed := false
	if _, ok := validationErr.Field(prefix + ".email"); ok {
		addr.Email = PlaceholderEmail
		fixed = true
	}
	if _, ok := validationErr.Field(prefix + ".street_number"); ok {
		addr.StreetNumber = PlaceholderStreetNumber
		fixed = true
	}
	return addr, fixed
}
