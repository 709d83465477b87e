package kernel

import (
	"fmt"

	"shipment/internal/pkg/errs"
)

const zipCodeLength = 5

// ZipCode is a value object for a 5-digit postal code. Pricing is postal
// code sensitive, so zip codes are validated once at the boundary and then
// carried as values through the whole workflow.
//
// The zero value is invalid; construct through NewZipCode.
type ZipCode struct {
	value string
}

// NewZipCode creates a ZipCode from its string form. The string must be
// exactly five ASCII digits; leading zeros are significant ("06700" and
// "6700" are not the same postal code).
func NewZipCode(value string) (ZipCode, error) {
	if value == "" {
		return ZipCode{}, errs.NewValueIsRequiredError("zip code")
	}
	if len(value) != zipCodeLength {
		return ZipCode{}, errs.NewValueIsInvalidErrorWithCause(
			"zip code",
			fmt.Errorf("%q must be exactly %d digits", value, zipCodeLength),
		)
	}
	for _, c := range value {
		if c < '0' || c > '9' {
			return ZipCode{}, errs.NewValueIsInvalidErrorWithCause(
				"zip code",
				fmt.Errorf("%q contains a non-digit character", value),
			)
		}
	}
	return ZipCode{value: value}, nil
}

// String returns the postal code digits.
func (z ZipCode) String() string {
	return z.value
}

// IsEqual compares two zip codes by value.
func (z ZipCode) IsEqual(other ZipCode) bool {
	return z.value == other.value
}

// Validate returns an error for the zero value.
func (z ZipCode) Validate() error {
	if z.value == "" {
		return errs.NewValueIsRequiredError("zip code must be created via NewZipCode")
	}
	return nil
}
