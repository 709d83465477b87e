package commands_test

import (
	"context"
	"testing"

	"shipment/internal/core/application/usecases/commands"
	"shipment/internal/core/domain/model/session"
	"shipment/internal/core/domain/services"
	"shipment/internal/core/ports"
	"shipment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func commitFixture(t *testing.T, sess *session.Session) (*MockSessionStore, *MockRecordReader, *MockShipmentCommitClient, *MockScheduler) {
	t.Helper()

	store := &MockSessionStore{}
	store.On("Get", sess.ID()).Return(sess, nil)

	records := &MockRecordReader{}
	records.On("CurrentZips", mock.Anything, sess.Quote().CustomerID(), sess.Quote().DestinationID()).
		Return(mustZip(t, "62000"), mustZip(t, "06700"), nil)

	committer := &MockShipmentCommitClient{}

	scheduler := &MockScheduler{}
	scheduler.On("Cancel", sess.ID().String()).Return(false)
	scheduler.On("Release", sess.ID().String()).Return()

	return store, records, committer, scheduler
}

func TestCommitShipmentCommandHandler_Handle(t *testing.T) {
	t.Run("commits an aggregator session end to end", func(t *testing.T) {
		// Given
		sess := sessionAssetReady(t)
		store, records, committer, scheduler := commitFixture(t, sess)

		var submitted ports.ShipmentSubmission
		committer.On("Commit", mock.Anything, mock.MatchedBy(func(s ports.ShipmentSubmission) bool {
			submitted = s
			return true
		})).Return("SHP-001", nil)

		handler := commands.NewCommitShipmentCommandHandler(store, records, committer,
			services.NewZipConsistencyGuard(), scheduler)
		cmd, err := commands.NewCommitShipmentCommand(sess.ID())
		require.NoError(t, err)

		// When
		err = handler.Handle(context.Background(), cmd)

		// Then
		require.NoError(t, err)
		assert.Equal(t, session.Committed, sess.Status())
		assert.Equal(t, "SHP-001", sess.ShipmentID())

		assert.Equal(t, "fedex", submitted.Carrier)
		assert.Equal(t, "TRK123", submitted.TrackingNumber)
		assert.Equal(t, "https://labels.example.com/TRK123.pdf", submitted.LabelRemoteURL)
		require.NotNil(t, submitted.LabelFile)
		require.NotNil(t, submitted.NetCost)
		assert.Equal(t, "250.00 MXN", submitted.NetCost.String())
		assert.Equal(t, sess.ID().String()+":TRK123", submitted.IdempotencyKey)
		scheduler.AssertCalled(t, "Release", sess.ID().String())
	})

	t.Run("commits a manual session", func(t *testing.T) {
		// Given
		sess := sessionManualReady(t)
		store, records, committer, scheduler := commitFixture(t, sess)

		committer.On("Commit", mock.Anything, mock.MatchedBy(func(s ports.ShipmentSubmission) bool {
			return s.Carrier == "estafeta" && s.TrackingNumber == "TRK999" &&
				s.LabelRemoteURL == "" && s.LabelFile != nil
		})).Return("SHP-002", nil)

		handler := commands.NewCommitShipmentCommandHandler(store, records, committer,
			services.NewZipConsistencyGuard(), scheduler)
		cmd, err := commands.NewCommitShipmentCommand(sess.ID())
		require.NoError(t, err)

		// When
		err = handler.Handle(context.Background(), cmd)

		// Then
		require.NoError(t, err)
		assert.Equal(t, session.Committed, sess.Status())
	})

	t.Run("a drifted postal code blocks the commit", func(t *testing.T) {
		// Given
		sess := sessionAssetReady(t)

		store := &MockSessionStore{}
		store.On("Get", sess.ID()).Return(sess, nil)

		records := &MockRecordReader{}
		records.On("CurrentZips", mock.Anything, mock.Anything, mock.Anything).
			Return(mustZip(t, "62100"), mustZip(t, "06700"), nil)

		committer := &MockShipmentCommitClient{}
		scheduler := &MockScheduler{}
		scheduler.On("Cancel", sess.ID().String()).Return(true)

		handler := commands.NewCommitShipmentCommandHandler(store, records, committer,
			services.NewZipConsistencyGuard(), scheduler)
		cmd, err := commands.NewCommitShipmentCommand(sess.ID())
		require.NoError(t, err)

		// When
		err = handler.Handle(context.Background(), cmd)

		// Then
		require.ErrorIs(t, err, services.ErrZipMismatch)
		assert.Equal(t, session.AssetReady, sess.Status(), "session is not burned by the guard")
		committer.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
	})

	t.Run("a failed commit is retryable", func(t *testing.T) {
		// Given
		sess := sessionAssetReady(t)
		store, records, committer, scheduler := commitFixture(t, sess)

		committer.On("Commit", mock.Anything, mock.Anything).
			Return("", errs.NewRateLimitError("shipment commit", 4)).Once()
		committer.On("Commit", mock.Anything, mock.Anything).
			Return("SHP-003", nil).Once()

		handler := commands.NewCommitShipmentCommandHandler(store, records, committer,
			services.NewZipConsistencyGuard(), scheduler)
		cmd, err := commands.NewCommitShipmentCommand(sess.ID())
		require.NoError(t, err)

		// When
		err = handler.Handle(context.Background(), cmd)
		require.ErrorIs(t, err, errs.ErrRateLimited)
		require.Equal(t, session.CommitFailed, sess.Status())
		require.ErrorIs(t, sess.CommitCause(), errs.ErrRateLimited)

		err = handler.Handle(context.Background(), cmd)

		// Then
		require.NoError(t, err)
		assert.Equal(t, session.Committed, sess.Status())
	})

	t.Run("an incomplete choice never reaches the backend", func(t *testing.T) {
		// Given
		sess := sessionWithPurchasedLabel(t)
		store, records, committer, scheduler := commitFixture(t, sess)

		handler := commands.NewCommitShipmentCommandHandler(store, records, committer,
			services.NewZipConsistencyGuard(), scheduler)
		cmd, err := commands.NewCommitShipmentCommand(sess.ID())
		require.NoError(t, err)

		// When
		err = handler.Handle(context.Background(), cmd)

		// Then
		require.ErrorIs(t, err, session.ErrChoiceIncomplete)
		committer.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
	})

	t.Run("a second commit cannot start while one is in flight", func(t *testing.T) {
		// Given
		sess := sessionManualReady(t)
		require.NoError(t, sess.BeginCommit())

		store, records, committer, scheduler := commitFixture(t, sess)

		handler := commands.NewCommitShipmentCommandHandler(store, records, committer,
			services.NewZipConsistencyGuard(), scheduler)
		cmd, err := commands.NewCommitShipmentCommand(sess.ID())
		require.NoError(t, err)

		// When
		err = handler.Handle(context.Background(), cmd)

		// Then
		require.Error(t, err)
		committer.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
	})
}
