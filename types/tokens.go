// Package types provides common types used across Skilltree.
package types

import (
	"fmt"
	"strings"
)

// E8sPerToken is the number of e8s (the smallest unit) in one whole token.
const E8sPerToken = 100_000_000

// Tokens is a monetary amount in e8s, the smallest currency unit.
// All arithmetic is integer-only, never floating point. Amounts are
// unsigned: the ledger never represents a negative balance.
type Tokens uint64

// E8s creates a Tokens value from a raw e8s amount.
func E8s(n uint64) Tokens { return Tokens(n) }

// Whole creates a Tokens value from a whole-token amount.
func Whole(n uint64) Tokens { return Tokens(n * E8sPerToken) }

// E8s returns the raw e8s amount.
func (t Tokens) E8s() uint64 { return uint64(t) }

// Arithmetic operations

// Add adds two Tokens values.
func (t Tokens) Add(other Tokens) Tokens { return t + other }

// Sub subtracts another Tokens value. Panics on underflow; callers must
// check sufficiency first (the ledger never holds a negative balance).
func (t Tokens) Sub(other Tokens) Tokens {
	if other > t {
		panic(fmt.Sprintf("tokens: underflow: %d - %d", uint64(t), uint64(other)))
	}
	return t - other
}

// Mul multiplies the amount by a quantity.
func (t Tokens) Mul(qty uint64) Tokens { return t * Tokens(qty) }

// Share returns the amount divided by divisor, truncated toward zero.
// Share(10) is the 10% royalty share of a sale price.
func (t Tokens) Share(divisor uint64) Tokens {
	if divisor == 0 {
		panic("tokens: division by zero")
	}
	return t / Tokens(divisor)
}

// Comparison methods

// IsZero returns true if the amount is zero.
func (t Tokens) IsZero() bool { return t == 0 }

// IsPositive returns true if the amount is greater than zero.
func (t Tokens) IsPositive() bool { return t > 0 }

// LessThan returns true if this amount is less than other.
func (t Tokens) LessThan(other Tokens) bool { return t < other }

// Covers returns true if this amount is at least the given price.
func (t Tokens) Covers(price Tokens) bool { return t >= price }

// String renders the amount in whole tokens with all eight decimal
// places, e.g. Tokens(150_000_000) -> "1.50000000".
func (t Tokens) String() string {
	return fmt.Sprintf("%d.%08d", uint64(t)/E8sPerToken, uint64(t)%E8sPerToken)
}

// Sum calculates the sum of multiple Tokens values.
func Sum(values ...Tokens) Tokens {
	var total Tokens
	for _, v := range values {
		total += v
	}
	return total
}

// Principal is an opaque caller identity supplied by the host's identity
// resolution. The ledger trusts it implicitly and never interprets it.
type Principal string

// IsZero reports whether the principal is unset.
func (p Principal) IsZero() bool { return strings.TrimSpace(string(p)) == "" }

func (p Principal) String() string { return string(p) }
