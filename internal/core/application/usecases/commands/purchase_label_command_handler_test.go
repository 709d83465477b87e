package commands_test

import (
	"context"
	"testing"

	"shipment/internal/core/application/usecases/commands"
	"shipment/internal/core/domain/model/session"
	"shipment/internal/core/ports"
	"shipment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func purchaseAddresses() (ports.Address, ports.Address) {
	sender := ports.Address{
		Name: "Almacen Central", Street: "Av. Morelos", StreetNumber: "12",
		City: "Cuernavaca", State: "MOR", Zip: "62000", Country: "MX",
		Email: "almacen@example.com",
	}
	recipient := ports.Address{
		Name: "Cliente Final", Street: "Calle Colima",
		City: "CDMX", State: "CMX", Zip: "06700", Country: "MX",
	}
	return sender, recipient
}

func TestPurchaseLabelCommandHandler_Handle(t *testing.T) {
	t.Run("attaches the purchased label", func(t *testing.T) {
		// Given
		sess := sessionWithSelectedRate(t)
		sender, recipient := purchaseAddresses()

		store := &MockSessionStore{}
		store.On("Get", sess.ID()).Return(sess, nil)

		labels := &MockLabelAcquisitionClient{}
		labels.On("PurchaseLabel", mock.Anything, sender, recipient, "R1").
			Return(mustLabelAsset(t), nil)

		handler := commands.NewPurchaseLabelCommandHandler(store, labels)
		cmd, err := commands.NewPurchaseLabelCommand(sess.ID(), sender, recipient)
		require.NoError(t, err)

		// When
		err = handler.Handle(context.Background(), cmd)

		// Then
		require.NoError(t, err)
		assert.Equal(t, session.LabelReady, sess.Status())
		labels.AssertNumberOfCalls(t, "PurchaseLabel", 1)
	})

	t.Run("auto-fixes known field errors and retries exactly once", func(t *testing.T) {
		// Given
		sess := sessionWithSelectedRate(t)
		sender, recipient := purchaseAddresses()

		store := &MockSessionStore{}
		store.On("Get", sess.ID()).Return(sess, nil)

		fixedRecipient := recipient
		fixedRecipient.Email = commands.PlaceholderEmail
		fixedRecipient.StreetNumber = commands.PlaceholderStreetNumber

		labels := &MockLabelAcquisitionClient{}
		labels.On("PurchaseLabel", mock.Anything, sender, recipient, "R1").
			Return(nil, errs.NewValidationError(map[string]string{
				"address_to.email":         "invalid email",
				"address_to.street_number": "street number is required",
			})).Once()
		labels.On("PurchaseLabel", mock.Anything, sender, fixedRecipient, "R1").
			Return(mustLabelAsset(t), nil).Once()

		handler := commands.NewPurchaseLabelCommandHandler(store, labels)
		cmd, err := commands.NewPurchaseLabelCommand(sess.ID(), sender, recipient)
		require.NoError(t, err)

		// When
		err = handler.Handle(context.Background(), cmd)

		// Then
		require.NoError(t, err)
		assert.Equal(t, session.LabelReady, sess.Status())
		labels.AssertExpectations(t)
	})

	t.Run("a second validation failure surfaces to the operator", func(t *testing.T) {
		// Given
		sess := sessionWithSelectedRate(t)
		sender, recipient := purchaseAddresses()

		store := &MockSessionStore{}
		store.On("Get", sess.ID()).Return(sess, nil)

		labels := &MockLabelAcquisitionClient{}
		labels.On("PurchaseLabel", mock.Anything, mock.Anything, mock.Anything, "R1").
			Return(nil, errs.NewValidationError(map[string]string{"address_to.email": "invalid email"})).
			Twice()

		handler := commands.NewPurchaseLabelCommandHandler(store, labels)
		cmd, err := commands.NewPurchaseLabelCommand(sess.ID(), sender, recipient)
		require.NoError(t, err)

		// When
		err = handler.Handle(context.Background(), cmd)

		// Then
		require.ErrorIs(t, err, errs.ErrValidation)
		assert.Equal(t, session.RateSelected, sess.Status(), "purchase can be retried after correction")
		labels.AssertNumberOfCalls(t, "PurchaseLabel", 2)
	})

	t.Run("unfixable validation failures are not retried", func(t *testing.T) {
		// Given
		sess := sessionWithSelectedRate(t)
		sender, recipient := purchaseAddresses()

		store := &MockSessionStore{}
		store.On("Get", sess.ID()).Return(sess, nil)

		labels := &MockLabelAcquisitionClient{}
		labels.On("PurchaseLabel", mock.Anything, mock.Anything, mock.Anything, "R1").
			Return(nil, errs.NewValidationError(map[string]string{"parcel.weight": "exceeds service limit"}))

		handler := commands.NewPurchaseLabelCommandHandler(store, labels)
		cmd, err := commands.NewPurchaseLabelCommand(sess.ID(), sender, recipient)
		require.NoError(t, err)

		// When
		err = handler.Handle(context.Background(), cmd)

		// Then
		require.ErrorIs(t, err, errs.ErrValidation)
		labels.AssertNumberOfCalls(t, "PurchaseLabel", 1)
	})

	t.Run("transient failures return the session to rate selected", func(t *testing.T) {
		// Given
		sess := sessionWithSelectedRate(t)
		sender, recipient := purchaseAddresses()

		store := &MockSessionStore{}
		store.On("Get", sess.ID()).Return(sess, nil)

		labels := &MockLabelAcquisitionClient{}
		labels.On("PurchaseLabel", mock.Anything, mock.Anything, mock.Anything, "R1").
			Return(nil, errs.NewTransientError("label purchase", 502, assert.AnError))

		handler := commands.NewPurchaseLabelCommandHandler(store, labels)
		cmd, err := commands.NewPurchaseLabelCommand(sess.ID(), sender, recipient)
		require.NoError(t, err)

		// When
		err = handler.Handle(context.Background(), cmd)

		// Then
		require.ErrorIs(t, err, errs.ErrTransient)
		assert.Equal(t, session.RateSelected, sess.Status())
		labels.AssertNumberOfCalls(t, "PurchaseLabel", 1)
	})
}
