package token

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Normalize converts an atomic integer amount into token units, 10^decimals atomic units per token.
func Normalize(atomic string, decimals int32) (decimal.Decimal, error) {
	v, ok := new(big.Int).SetString(atomic, 10)
	if !ok {
		return decimal.Zero, fmt.Errorf("invalid atomic amount %q", atomic)
	}

	if v.Sign() < 0 {
		return decimal.Zero, fmt.Errorf("negative atomic amount %q", atomic)
	}

	return decimal.NewFromBigInt(v, -decimals), nil
}
