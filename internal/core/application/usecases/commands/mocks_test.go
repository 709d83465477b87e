package commands_test

import (
	"context"
	"testing"
	"time"

	"shipment/internal/core/domain/model/fulfillment"
	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/core/domain/model/quote"
	"shipment/internal/core/domain/model/session"
	"shipment/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSessionStore struct{ mock.Mock }

func (m *MockSessionStore) Add(s *session.Session) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockSessionStore) Get(id kernel.UUID) (*session.Session, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionStore) Remove(id kernel.UUID) {
	m.Called(id)
}

func (m *MockSessionStore) SweepIdle(maxIdle time.Duration) int {
	args := m.Called(maxIdle)
	return args.Int(0)
}

type MockRateShoppingClient struct{ mock.Mock }

func (m *MockRateShoppingClient) QueryRates(ctx context.Context, originZip, destZip kernel.ZipCode, parcel quote.Parcel) ([]fulfillment.Rate, error) {
	args := m.Called(ctx, originZip, destZip, parcel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillment.Rate), args.Error(1)
}

type MockLabelAcquisitionClient struct{ mock.Mock }

func (m *MockLabelAcquisitionClient) PurchaseLabel(ctx context.Context, sender, recipient ports.Address, rateID string) (*fulfillment.LabelAsset, error) {
	args := m.Called(ctx, sender, recipient, rateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.LabelAsset), args.Error(1)
}

type MockLabelRetriever struct{ mock.Mock }

func (m *MockLabelRetriever) Download(ctx context.Context, remoteURL string) (fulfillment.LabelFile, error) {
	args := m.Called(ctx, remoteURL)
	return args.Get(0).(fulfillment.LabelFile), args.Error(1)
}

type MockShipmentCommitClient struct{ mock.Mock }

func (m *MockShipmentCommitClient) Commit(ctx context.Context, submission ports.ShipmentSubmission) (string, error) {
	args := m.Called(ctx, submission)
	return args.String(0), args.Error(1)
}

type MockRecordReader struct{ mock.Mock }

func (m *MockRecordReader) CurrentZips(ctx context.Context, customerID, destinationID kernel.UUID) (kernel.ZipCode, kernel.ZipCode, error) {
	args := m.Called(ctx, customerID, destinationID)
	return args.Get(0).(kernel.ZipCode), args.Get(1).(kernel.ZipCode), args.Error(2)
}

type MockScheduler struct{ mock.Mock }

func (m *MockScheduler) Arm(key string, onTick func(time.Duration), onExpire func()) error {
	args := m.Called(key, onTick, onExpire)
	return args.Error(0)
}

func (m *MockScheduler) Cancel(key string) bool {
	args := m.Called(key)
	return args.Bool(0)
}

func (m *MockScheduler) Remaining(key string) (time.Duration, bool) {
	args := m.Called(key)
	return args.Get(0).(time.Duration), args.Bool(1)
}

func (m *MockScheduler) Release(key string) {
	m.Called(key)
}

func mustZip(t *testing.T, v string) kernel.ZipCode {
	t.Helper()
	z, err := kernel.NewZipCode(v)
	require.NoError(t, err)
	return z
}

func mustMoney(t *testing.T, amount string) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoneyFromString(amount, "MXN")
	require.NoError(t, err)
	return m
}

func mustRate(t *testing.T, id string) fulfillment.Rate {
	t.Helper()
	rate, err := fulfillment.NewRate(id, "fedex", "Ground Economy", "ground", mustMoney(t, "250.00"))
	require.NoError(t, err)
	return rate
}

func mustLabelFile(t *testing.T) fulfillment.LabelFile {
	t.Helper()
	file, err := fulfillment.NewLabelFile("TRK123.pdf", "application/pdf", []byte("%PDF-1.4 label"))
	require.NoError(t, err)
	return file
}

func mustLabelAsset(t *testing.T) *fulfillment.LabelAsset {
	t.Helper()
	label, err := fulfillment.NewLabelAsset(
		"TRK123",
		time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC),
		mustMoney(t, "250.00"),
		"https://labels.example.com/TRK123.pdf",
	)
	require.NoError(t, err)
	return label
}

func mustQuote(t *testing.T) *quote.Quote {
	t.Helper()
	parcel, err := quote.NewParcel(decimal.NewFromFloat(1.5))
	require.NoError(t, err)

	q, err := quote.NewQuote(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		mustZip(t, "62000"), mustZip(t, "06700"),
		parcel, "R1", mustMoney(t, "269.50"),
	)
	require.NoError(t, err)
	return q
}

func openedSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := session.NewSession(kernel.NewUUID(), mustQuote(t))
	require.NoError(t, err)
	return sess
}

// sessionWithSelectedRate drives a fresh session to the rate-selected step
// of the aggregator path.
func sessionWithSelectedRate(t *testing.T) *session.Session {
	t.Helper()
	sess := openedSession(t)
	require.NoError(t, sess.ChooseFulfillment(fulfillment.KindAggregator))
	require.NoError(t, sess.StartRateQuery())
	require.NoError(t, sess.SelectRate(mustRate(t, "R1")))
	return sess
}

// sessionWithPurchasedLabel continues through a successful label purchase.
func sessionWithPurchasedLabel(t *testing.T) *session.Session {
	t.Helper()
	sess := sessionWithSelectedRate(t)
	require.NoError(t, sess.StartLabelPurchase())
	require.NoError(t, sess.AttachLabel(mustLabelAsset(t)))
	return sess
}

// sessionAssetReady continues through a successful retrieval.
func sessionAssetReady(t *testing.T) *session.Session {
	t.Helper()
	sess := sessionWithPurchasedLabel(t)
	require.NoError(t, sess.StartRetrieval())
	require.NoError(t, sess.AttachRetrievedFile(mustLabelFile(t)))
	return sess
}

// sessionManualReady drives a fresh session down the external path.
func sessionManualReady(t *testing.T) *session.Session {
	t.Helper()
	sess := openedSession(t)
	require.NoError(t, sess.ChooseFulfillment(fulfillment.KindExternal))
	require.NoError(t, sess.SetManualDetails("estafeta", "TRK999", mustLabelFile(t), mustMoney(t, "200.00")))
	return sess
}
