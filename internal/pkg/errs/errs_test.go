package errs_test

import (
	"errors"
	"testing"

	"shipment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("trackingNumber")

		assert.Equal(t, "trackingNumber", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is required: trackingNumber", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})

	t.Run("NewValueIsRequiredErrorWithCause", func(t *testing.T) {
		cause := errors.New("field missing in payload")
		err := errs.NewValueIsRequiredErrorWithCause("carrier", cause)

		assert.Equal(t, "carrier", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is required: carrier (cause: field missing in payload)", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("originZip")

		assert.Equal(t, "originZip", err.ParamName)
		assert.Equal(t, "value is invalid: originZip", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("must be 5 digits")
		err := errs.NewValueIsInvalidErrorWithCause("originZip", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: originZip (cause: must be 5 digits)", err.Error())
	})

	t.Run("sanitizes newlines in param name", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("zip\ncode")
		assert.NotContains(t, err.Error(), "\n")
		assert.Contains(t, err.Error(), "zip code")
	})
}

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("sessionID", "abc-123")

		assert.Equal(t, "sessionID", err.ParamName)
		assert.Equal(t, "abc-123", err.ID)
		assert.Equal(t, "object not found: abc-123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("store closed")
		err := errs.NewObjectNotFoundErrorWithCause("sessionID", "abc-123", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: sessionID, ID is: abc-123 (cause: store closed)",
			err.Error())
	})
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	require.ErrorIs(t, errs.NewValueIsRequiredError("carrier"), errs.ErrValueIsRequired)
	require.ErrorIs(t, errs.NewValueIsInvalidError("zip"), errs.ErrValueIsInvalid)
	require.ErrorIs(t, errs.NewObjectNotFoundError("id", "x"), errs.ErrObjectNotFound)
}
