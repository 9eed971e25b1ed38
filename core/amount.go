package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxAmountScale bounds both the decimal places and the magnitude exponent of
// an amount. Anything outside is rejected before arithmetic, since comparing
// decimals rescales them to a common exponent.
const MaxAmountScale = 36

// ParseAmount parses a decimal amount, exponent notation included, within
// MaxAmountScale. Errors wrap ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	if len(s) > 2*MaxAmountScale+8 {
		return decimal.Zero, fmt.Errorf("%w: too long", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	if exp := d.Exponent(); exp < -MaxAmountScale || exp > MaxAmountScale {
		return decimal.Zero, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
	}

	return d, nil
}
