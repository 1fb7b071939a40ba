package utils

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value in the smallest currency unit (paise/cents).
// Integer arithmetic keeps running balances exact across a simulated ledger.
type Money int64

// NewMoney creates a Money value from major and minor units
func NewMoney(major int64, minor int) Money {
	return Money(major*100 + int64(minor))
}

// Units creates a Money value from whole major units
func Units(major int64) Money {
	return Money(major * 100)
}

// FromFloat creates a Money value from a float64, rounding half away from
// zero to the nearest minor unit.
func FromFloat(amount float64) Money {
	if amount >= 0 {
		return Money(amount*100 + 0.5)
	}
	return Money(amount*100 - 0.5)
}

// FromDecimal converts a decimal to Money, rounding to two places.
func FromDecimal(d decimal.Decimal) Money {
	return Money(d.Round(2).Shift(2).IntPart())
}

// Float64 returns the value in major units (for arithmetic on rates only)
func (m Money) Float64() float64 {
	return float64(m) / 100
}

// Decimal returns the exact decimal representation with two places
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// Add returns the sum of two Money values
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub returns the difference of two Money values
func (m Money) Sub(other Money) Money {
	return m - other
}

// MulFloat multiplies by a float and rounds to the nearest minor unit
func (m Money) MulFloat(f float64) Money {
	result := float64(m) * f
	if result >= 0 {
		return Money(result + 0.5)
	}
	return Money(result - 0.5)
}

// Div divides by an integer, rounding half up on the minor unit
func (m Money) Div(n int64) Money {
	if n == 0 {
		return m
	}
	return FromDecimal(m.Decimal().Div(decimal.NewFromInt(n)))
}

// IsPositive returns true if the value is positive
func (m Money) IsPositive() bool {
	return m > 0
}

// Max returns the larger of two Money values
func (m Money) Max(other Money) Money {
	if m > other {
		return m
	}
	return other
}

// String returns a plain representation (e.g., "123.45")
func (m Money) String() string {
	negative := m < 0
	if negative {
		m = -m
	}
	result := fmt.Sprintf("%d.%02d", int64(m)/100, int64(m)%100)
	if negative {
		result = "-" + result
	}
	return result
}

// Value implements driver.Valuer so Money persists into NUMERIC columns.
func (m Money) Value() (driver.Value, error) {
	return m.Decimal().StringFixed(2), nil
}

// Scan implements sql.Scanner for NUMERIC/DECIMAL columns.
func (m *Money) Scan(src any) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return fmt.Errorf("failed to scan money: %w", err)
	}
	*m = FromDecimal(d)
	return nil
}

// MarshalJSON renders the value as a plain decimal number (e.g., 1250.50)
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string
func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("failed to decode money: %w", err)
	}
	*m = FromDecimal(d)
	return nil
}
