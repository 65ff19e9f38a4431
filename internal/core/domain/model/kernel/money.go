package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Money is a non-negative monetary amount held in paise (1/100 rupee).
// Keeping amounts integral avoids floating-point drift in order totals.
// The zero value is a valid zero amount.
type Money struct {
	paise int64
}

// NewMoney creates a Money amount from paise. Negative amounts are invalid.
func NewMoney(paise int64) (Money, error) {
	if paise < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount", fmt.Errorf("%d paise is negative", paise))
	}
	return Money{paise: paise}, nil
}

// MustMoney creates a Money amount and panics on a negative value.
// Intended for constants and tests.
func MustMoney(paise int64) Money {
	m, err := NewMoney(paise)
	if err != nil {
		panic(err)
	}
	return m
}

// Paise returns the raw amount in paise.
func (m Money) Paise() int64 {
	return m.paise
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.paise == 0
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{paise: m.paise + other.paise}
}

// Sub returns m minus other, failing if the result would be negative.
func (m Money) Sub(other Money) (Money, error) {
	return NewMoney(m.paise - other.paise)
}

// IsEqual reports whether two amounts are equal.
func (m Money) IsEqual(other Money) bool {
	return m.paise == other.paise
}

// String renders the amount in rupees, e.g. "₹125.50".
func (m Money) String() string {
	return fmt.Sprintf("₹%d.%02d", m.paise/100, m.paise%100)
}
