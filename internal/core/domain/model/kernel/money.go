package kernel

import (
	"fmt"

	"shipment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Money is a value object for a non-negative monetary amount with its
// currency. Amounts use decimal arithmetic; shipping prices are
// tax-inclusive totals where rounding drift is not acceptable.
//
// The zero value is invalid; construct through NewMoney or
// NewMoneyFromString.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney creates a Money from a decimal amount and an ISO 4217 currency
// code. Negative amounts are rejected: quoted prices, label charges and
// manual net costs are all non-negative by rule.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if currency == "" {
		return Money{}, errs.NewValueIsRequiredError("currency")
	}
	if len(currency) != 3 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"currency",
			fmt.Errorf("%q is not a 3-letter currency code", currency),
		)
	}
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount",
			fmt.Errorf("%s is negative", amount),
		)
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromString parses the amount from its decimal string form.
func NewMoneyFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(d, currency)
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the 3-letter currency code.
func (m Money) Currency() string {
	return m.currency
}

// String renders the amount with two decimal places and the currency,
// e.g. "269.50 MXN".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

// IsEqual compares amount and currency.
func (m Money) IsEqual(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// Validate returns an error for the zero value.
func (m Money) Validate() error {
	if m.currency == "" {
		return errs.NewValueIsRequiredError("money must be created via NewMoney")
	}
	return nil
}
