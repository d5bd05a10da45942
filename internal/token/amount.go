// internal/token/amount.go
package token

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// LamportsPerSOL is the SOL minor-unit scale.
const LamportsPerSOL = 1_000_000_000

const (
	// maxAmountText bounds what the parser looks at at all.
	maxAmountText = 64
	// maxUnitDigits is the digit count of the largest uint64.
	maxUnitDigits = 20
	// maxFractionDigits is far beyond any mint's decimals; finer input is noise.
	maxFractionDigits = 30
)

var (
	ErrEmptyAmount       = errors.New("amount is empty")
	ErrMalformedAmount   = errors.New("amount is not a number")
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrAmountOverflow    = errors.New("amount does not fit in minor units")
	ErrAmountTooPrecise  = errors.New("amount has too many fractional digits")
)

// ParseAmount parses user-entered decimal text and requires a strictly positive value.
func ParseAmount(text string) (decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	if len(text) > maxAmountText {
		return decimal.Zero, fmt.Errorf("%w: %d characters", ErrMalformedAmount, len(text))
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, text)
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrNonPositiveAmount
	}
	// "1e99999999" is short text for an enormous number
	if integerDigits(d) > maxUnitDigits {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrAmountOverflow, text)
	}
	if d.Exponent() < -maxFractionDigits {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrAmountTooPrecise, text)
	}
	return d, nil
}

// integerDigits is the number of digits left of the decimal point; zero or
// negative for values below one.
func integerDigits(d decimal.Decimal) int {
	return d.NumDigits() + int(d.Exponent())
}

// ToMinorUnits scales amount by 10^decimals and floors the result.
func ToMinorUnits(amount decimal.Decimal, decimals uint8) (uint64, error) {
	if amount.IsNegative() {
		return 0, ErrNonPositiveAmount
	}
	// size checks go before Shift/Floor, which materialize 10^exponent
	digits := integerDigits(amount) + int(decimals)
	if digits > maxUnitDigits {
		return 0, ErrAmountOverflow
	}
	if digits <= 0 {
		return 0, nil
	}
	scaled := amount.Shift(int32(decimals)).Floor()
	if !scaled.BigInt().IsUint64() {
		return 0, ErrAmountOverflow
	}
	return scaled.BigInt().Uint64(), nil
}

// FromMinorUnits converts an integer amount back to a decimal value.
func FromMinorUnits(units uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(units), -int32(decimals))
}

// Format renders minor units with a fixed number of fractional digits.
func Format(units uint64, decimals uint8, places int32) string {
	return FromMinorUnits(units, decimals).StringFixed(places)
}
