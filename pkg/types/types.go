package types

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// AmountPlaces is a number of fractional digits money values are kept with
const AmountPlaces = 2

// DefaultMaxAmount is the largest amount a single entry or opening balance may have
var DefaultMaxAmount = decimal.RequireFromString("99999999.99")

// ParseAmount parses a money value like "150.25".
// Values with more than two fractional digits are rejected
func ParseAmount(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "Failed to parse amount %q", raw)
	}
	if !IsCentPrecise(value) {
		return decimal.Zero, errors.Errorf("Amount %v has more than %v fractional digits", raw, AmountPlaces)
	}
	return value, nil
}

// IsCentPrecise checks the value has at most two fractional digits
func IsCentPrecise(value decimal.Decimal) bool {
	return value.Equal(value.Round(AmountPlaces))
}

// ToCents converts a money value to an integer number of cents
func ToCents(value decimal.Decimal) int64 {
	return value.Shift(AmountPlaces).Round(0).IntPart()
}

// FromCents converts an integer number of cents to a money value
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -AmountPlaces)
}

// FormatAmount renders a money value with exactly two fractional digits
func FormatAmount(value decimal.Decimal) string {
	return value.StringFixed(AmountPlaces)
}
