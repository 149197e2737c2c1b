// Package utils provides the classical modular-arithmetic helpers used to
// precompute scalar circuit parameters (bit weights, powers and inverses).
package utils

import (
	"math/big"
	"math/bits"

	"golang.org/x/exp/constraints"
)

// GCD returns the greatest common divisor of a and b.
func GCD(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// MulMod returns a*b mod m using a full 128-bit intermediate product.
// m must be non-zero.
func MulMod(a, b, m uint64) uint64 {
	a %= m
	b %= m
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi, lo, m)
	return rem
}

// ModExp returns base^exp mod m by square and multiply. m must be non-zero.
func ModExp(base, exp, m uint64) uint64 {
	if m == 1 {
		return 0
	}
	result := uint64(1)
	base %= m
	for exp > 0 {
		if exp&1 == 1 {
			result = MulMod(result, base, m)
		}
		base = MulMod(base, base, m)
		exp >>= 1
	}
	return result
}

// ModInverse returns the inverse of k modulo n, computed with the extended
// Euclidean algorithm so composite moduli are supported. It reports false
// when gcd(k, n) != 1.
func ModInverse(k, n uint64) (uint64, bool) {
	var inv big.Int
	if inv.ModInverse(new(big.Int).SetUint64(k), new(big.Int).SetUint64(n)) == nil {
		return 0, false
	}
	return inv.Uint64(), true
}

// Max returns the larger of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}
