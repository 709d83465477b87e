package quote

import (
	"fmt"

	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Parcel is a value object describing the physical package being quoted.
// Weight is mandatory and strictly positive; dimensions and declared value
// are optional because many carriers quote small parcels on weight alone.
type Parcel struct {
	weightKg      decimal.Decimal
	heightCm      *decimal.Decimal
	lengthCm      *decimal.Decimal
	widthCm       *decimal.Decimal
	declaredValue *kernel.Money

	isConstructed bool
}

// NewParcel creates a Parcel with just a weight.
func NewParcel(weightKg decimal.Decimal) (Parcel, error) {
	if !weightKg.IsPositive() {
		return Parcel{}, errs.NewValueIsInvalidErrorWithCause(
			"weightKg",
			fmt.Errorf("%s is not greater than 0", weightKg),
		)
	}
	return Parcel{weightKg: weightKg, isConstructed: true}, nil
}

// NewParcelWithDimensions creates a Parcel with dimensions and a declared
// value. Each dimension must be positive when present.
func NewParcelWithDimensions(
	weightKg decimal.Decimal,
	heightCm, lengthCm, widthCm *decimal.Decimal,
	declaredValue *kernel.Money,
) (Parcel, error) {
	parcel, err := NewParcel(weightKg)
	if err != nil {
		return Parcel{}, err
	}

	for name, dim := range map[string]*decimal.Decimal{
		"heightCm": heightCm,
		"lengthCm": lengthCm,
		"widthCm":  widthCm,
	} {
		if dim != nil && !dim.IsPositive() {
			return Parcel{}, errs.NewValueIsInvalidErrorWithCause(
				name,
				fmt.Errorf("%s is not greater than 0", dim),
			)
		}
	}
	if declaredValue != nil {
		if err := declaredValue.Validate(); err != nil {
			return Parcel{}, err
		}
	}

	parcel.heightCm = heightCm
	parcel.lengthCm = lengthCm
	parcel.widthCm = widthCm
	parcel.declaredValue = declaredValue
	return parcel, nil
}

// WeightKg returns the parcel weight in kilograms.
func (p Parcel) WeightKg() decimal.Decimal {
	return p.weightKg
}

// HeightCm returns the height in centimeters, nil when not provided.
func (p Parcel) HeightCm() *decimal.Decimal {
	return p.heightCm
}

// LengthCm returns the length in centimeters, nil when not provided.
func (p Parcel) LengthCm() *decimal.Decimal {
	return p.lengthCm
}

// WidthCm returns the width in centimeters, nil when not provided.
func (p Parcel) WidthCm() *decimal.Decimal {
	return p.widthCm
}

// DeclaredValue returns the declared value, nil when not provided.
func (p Parcel) DeclaredValue() *kernel.Money {
	return p.declaredValue
}

// Validate returns an error for a zero-value Parcel.
func (p Parcel) Validate() error {
	if !p.isConstructed {
		return errs.NewValueIsRequiredError("parcel must be created via NewParcel")
	}
	return nil
}
