package commands

import (
	"context"
	"errors"
	"fmt"

	"shipment/internal/core/domain/model/fulfillment"
	"shipment/internal/core/ports"
)

// ErrManualDownloadFallback is returned when the retrieval budget ran out
// and the session degraded to offering the remote URL for manual download.
// The session is still committable once the operator acknowledges the
// download.
var ErrManualDownloadFallback = errors.New("label retrieval exhausted, manual download offered")

// RetrieveLabelCommandHandler downloads the purchased label document. On
// success the session reaches strict completeness and the auto-commit
// countdown arms; on exhaustion the session degrades to the
// manual-download fallback and the countdown stays off.
type RetrieveLabelCommandHandler struct {
	store     ports.SessionStore
	retriever ports.LabelRetriever
	scheduler AutoCommitScheduler
	commit    CommitTrigger
}

// NewRetrieveLabelCommandHandler creates a handler for label retrieval.
// commit is invoked when the auto-commit countdown expires.
func NewRetrieveLabelCommandHandler(
	store ports.SessionStore,
	retriever ports.LabelRetriever,
	scheduler AutoCommitScheduler,
	commit CommitTrigger,
) RetrieveLabelCommandHandler {
	return RetrieveLabelCommandHandler{
		store:     store,
		retriever: retriever,
		scheduler: scheduler,
		commit:    commit,
	}
}

// Handle downloads the label and applies the outcome to the session.
func (h *RetrieveLabelCommandHandler) Handle(ctx context.Context, cmd RetrieveLabelCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	sess, err := h.store.Get(cmd.SessionID())
	if err != nil {
		return err
	}

	agg, ok := sess.Choice().(*fulfillment.Aggregator)
	if !ok || agg.Label() == nil {
		return fulfillment.ErrNoLabelPurchased
	}
	remoteURL := agg.Label().RemoteURL()

	if err := sess.StartRetrieval(); err != nil {
		return err
	}

	file, err := h.retriever.Download(ctx, remoteURL)
	if err != nil {
		// Only a spent retry budget degrades the session. An aborted or
		// otherwise failed download returns it to LabelReady for another
		// try.
		if !errors.Is(err, ports.ErrRetrievalExhausted) {
			if abortErr := sess.AbortRetrieval(); abortErr != nil {
				return errors.Join(err, abortErr)
			}
			return err
		}
		if fallbackErr := sess.FallbackToManualDownload(); fallbackErr != nil {
			return errors.Join(err, fallbackErr)
		}
		return fmt.Errorf("%w: %w", ErrManualDownloadFallback, err)
	}

	if err := sess.AttachRetrievedFile(file); err != nil {
		return err
	}

	if sess.ShouldArmAutoCommit() {
		sessionID := cmd.SessionID()
		if err := h.scheduler.Arm(sessionID.String(), nil, func() {
			h.commit(context.Background(), sessionID)
		}); err != nil {
			return err
		}
	}
	return nil
}
