// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// Quantity represents a physical stock quantity (kilograms, doses, pieces).
// Same decimal backing as Money: quantities are arithmetic inputs to
// costing and must not accumulate binary floating point error.
type Quantity = decimal.Decimal

// NewFromFloat creates a decimal from a float.
// WARNING: Use NewFromString for precise values.
func NewFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// NewFromString creates a decimal from a string.
// This is the preferred constructor for values arriving over the wire.
func NewFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustDecimal creates a decimal from a string, panics on error.
// Use only for constants and tests.
func MustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns the zero decimal value.
func Zero() decimal.Decimal {
	return decimal.Zero
}
