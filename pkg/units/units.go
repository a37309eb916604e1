// Package units converts between wei and decimal token amounts.
package units

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// EtherDecimals is the number of decimals of the native token
const EtherDecimals = 18

// ToWei parses a decimal amount such as "0.5" into base units.
// Amounts with more fractional digits than decimals are rejected.
func ToWei(amount string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("amount %q is negative", amount)
	}
	scaled := d.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, fmt.Errorf("amount %q has more than %d decimals", amount, decimals)
	}
	return scaled.BigInt(), nil
}

// FromWei converts base units to a decimal amount
func FromWei(wei *big.Int, decimals int32) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -decimals)
}

// FormatEther renders wei as ether without trailing zeros
func FormatEther(wei *big.Int) string {
	return FromWei(wei, EtherDecimals).String()
}

// Gwei converts a gwei amount to wei
func Gwei(gwei int64) *big.Int {
	return decimal.NewFromInt(gwei).Shift(9).BigInt()
}
