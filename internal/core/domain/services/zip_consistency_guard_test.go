package services_test

import (
	"testing"

	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/core/domain/model/quote"
	"shipment/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustZip(t *testing.T, v string) kernel.ZipCode {
	t.Helper()
	z, err := kernel.NewZipCode(v)
	require.NoError(t, err)
	return z
}

func quoteFor(t *testing.T, origin, dest string) *quote.Quote {
	t.Helper()
	parcel, err := quote.NewParcel(decimal.NewFromFloat(1.5))
	require.NoError(t, err)
	price, err := kernel.NewMoneyFromString("269.50", "MXN")
	require.NoError(t, err)
	q, err := quote.NewQuote(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		mustZip(t, origin), mustZip(t, dest),
		parcel, "R1", price,
	)
	require.NoError(t, err)
	return q
}

func TestZipConsistencyGuard_Check(t *testing.T) {
	guard := services.NewZipConsistencyGuard()

	t.Run("passes when both sides match", func(t *testing.T) {
		q := quoteFor(t, "62000", "06700")
		require.NoError(t, guard.Check(q, mustZip(t, "62000"), mustZip(t, "06700")))
	})

	t.Run("blocks on origin drift", func(t *testing.T) {
		q := quoteFor(t, "62000", "06700")
		err := guard.Check(q, mustZip(t, "62100"), mustZip(t, "06700"))
		require.ErrorIs(t, err, services.ErrZipMismatch)

		var mismatch *services.ZipMismatchError
		require.ErrorAs(t, err, &mismatch)
		require.Len(t, mismatch.Mismatches, 1)
		assert.Equal(t, "origin", mismatch.Mismatches[0].Side)
		assert.Equal(t, "62000", mismatch.Mismatches[0].Quoted.String())
		assert.Equal(t, "62100", mismatch.Mismatches[0].Current.String())
	})

	t.Run("blocks on destination drift", func(t *testing.T) {
		q := quoteFor(t, "62000", "06700")
		err := guard.Check(q, mustZip(t, "62000"), mustZip(t, "06710"))
		require.ErrorIs(t, err, services.ErrZipMismatch)
	})

	t.Run("reports both sides when both drifted", func(t *testing.T) {
		q := quoteFor(t, "62000", "06700")
		err := guard.Check(q, mustZip(t, "62100"), mustZip(t, "06710"))

		var mismatch *services.ZipMismatchError
		require.ErrorAs(t, err, &mismatch)
		require.Len(t, mismatch.Mismatches, 2)
		assert.Contains(t, mismatch.Error(), "origin quoted as 62000 but record now holds 62100")
		assert.Contains(t, mismatch.Error(), "destination quoted as 06700 but record now holds 06710")
	})

	t.Run("rejects invalid inputs", func(t *testing.T) {
		q := quoteFor(t, "62000", "06700")
		require.Error(t, guard.Check(nil, mustZip(t, "62000"), mustZip(t, "06700")))
		require.Error(t, guard.Check(q, kernel.ZipCode{}, mustZip(t, "06700")))
	})
}
