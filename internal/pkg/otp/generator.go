// Package otp generates short numeric handoff codes. Codes prove physical
// possession at a handoff point and are drawn from crypto/rand so they are
// not predictable from order identifiers or timestamps.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"fulfillment/internal/pkg/errs"
)

const (
	// MinDigits is the shortest code the generator will produce.
	MinDigits = 4
	// MaxDigits is the longest code the generator will produce.
	MaxDigits = 8
)

// Generator produces uniformly random, left-zero-padded numeric codes.
// The zero value is ready to use.
type Generator struct{}

// NewGenerator creates a Generator.
func NewGenerator() Generator {
	return Generator{}
}

// Generate returns a random code of exactly digits length, left-padded with
// zeros. digits must be within [MinDigits, MaxDigits].
func (Generator) Generate(digits int) (string, error) {
	if digits < MinDigits || digits > MaxDigits {
		return "", errs.NewValueIsOutOfRangeError("digits", digits, MinDigits, MaxDigits)
	}

	limit := big.NewInt(1)
	for range digits {
		limit.Mul(limit, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	return fmt.Sprintf("%0*d", digits, n), nil
}
