// Package modular implements the small amount of residue arithmetic the
// elliptic curve layer needs: the Euclidean gcd and modular inversion over
// Z/mZ where m is not assumed prime.
//
// When m is composite an inverse can legitimately fail to exist. That
// failure is reported as *NotInvertibleError carrying the exact offending
// value, because callers factoring the modulus recover it and compute
// gcd(value, m).
package modular

import (
	"fmt"
	"math/big"
)

var one = big.NewInt(1)

// NotInvertibleError reports that Value has no multiplicative inverse
// modulo Modulus, i.e. gcd(Value, Modulus) != 1.
type NotInvertibleError struct {
	Value   *big.Int
	Modulus *big.Int
}

func (e *NotInvertibleError) Error() string {
	return fmt.Sprintf("modular: %s is not invertible mod %s", e.Value, e.Modulus)
}

// GCD returns the non-negative greatest common divisor of a and b.
// Either argument may be negative or zero.
func GCD(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, a, b)
}

// Inverse returns v^-1 mod m, computed with the extended Euclidean
// algorithm, with the result normalized to [0, m). m must be > 1.
//
// It fails with *NotInvertibleError exactly when gcd(v, m) != 1. The error
// carries v unmodified so the caller can derive gcd(v, m) itself; Inverse
// never substitutes a wrong value or a generic error for this condition.
func Inverse(v, m *big.Int) (*big.Int, error) {
	x := new(big.Int)
	g := new(big.Int).GCD(x, nil, new(big.Int).Mod(v, m), m)
	if g.Cmp(one) != 0 {
		return nil, &NotInvertibleError{
			Value:   new(big.Int).Set(v),
			Modulus: new(big.Int).Set(m),
		}
	}
	return x.Mod(x, m), nil
}
