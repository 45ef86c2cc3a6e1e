// Package weierstrass implements affine point arithmetic on short
// Weierstrass curves y^2 = x^3 + ax + b over the ring Z/nZ, for any
// modulus n > 1.
//
// The modulus is deliberately not required to be prime. Lenstra's elliptic
// curve method runs the group law over Z/nZ for the composite n being
// factored and harvests the slope denominators that fail to invert: a
// failed inversion inside Add or ScalarMult surfaces as *NonInvertibleError
// carrying the exact denominator. For callers factoring n this is routine
// control flow, not a fault.
package weierstrass

import (
	"fmt"
	"math/big"
)

var (
	one   = big.NewInt(1)
	three = big.NewInt(3)
	four  = big.NewInt(4)
	x27   = big.NewInt(27)
)

// Curve holds the parameters (a, b) of y^2 = x^3 + ax + b over Z/nZ.
// A Curve is immutable after construction.
type Curve struct {
	A *big.Int
	B *big.Int
	N *big.Int
}

// SingularCurveError reports curve parameters whose discriminant
// 4a^3 + 27b^2 vanishes modulo N.
type SingularCurveError struct {
	A, B, N *big.Int
}

func (e *SingularCurveError) Error() string {
	return fmt.Sprintf("weierstrass: curve y^2 = x^3 + %s*x + %s is singular mod %s", e.A, e.B, e.N)
}

// NewCurve returns the curve y^2 = x^3 + ax + b over Z/nZ with a and b
// normalized to [0, n). n must be > 1.
//
// Construction fails with *SingularCurveError when 4a^3 + 27b^2 == 0
// (mod n). Over a prime modulus that is the usual non-singularity
// criterion; over a composite modulus it is only a sanity check, since
// Z/nZ is not a field. Construction over composite moduli must succeed
// regardless, as that is the setting ECM operates in.
func NewCurve(a, b, n *big.Int) (*Curve, error) {
	if n.Cmp(one) <= 0 {
		return nil, fmt.Errorf("weierstrass: modulus must be > 1, got %s", n)
	}
	ar := new(big.Int).Mod(a, n)
	br := new(big.Int).Mod(b, n)

	// disc = 4a^3 + 27b^2 mod n
	disc := new(big.Int).Exp(ar, three, n)
	disc.Mul(disc, four)
	b2 := new(big.Int).Mul(br, br)
	b2.Mul(b2, x27)
	disc.Add(disc, b2)
	disc.Mod(disc, n)
	if disc.Sign() == 0 {
		return nil, &SingularCurveError{A: ar, B: br, N: new(big.Int).Set(n)}
	}

	return &Curve{A: ar, B: br, N: new(big.Int).Set(n)}, nil
}

// Equal reports whether c and o have identical (a, b, n).
func (c *Curve) Equal(o *Curve) bool {
	if c == o {
		return true
	}
	return c.A.Cmp(o.A) == 0 && c.B.Cmp(o.B) == 0 && c.N.Cmp(o.N) == 0
}

func (c *Curve) String() string {
	return fmt.Sprintf("y^2 = x^3 + %s*x + %s mod %s", c.A, c.B, c.N)
}

// rhs evaluates x^3 + ax + b mod n. x must already be reduced mod n.
func (c *Curve) rhs(x *big.Int) *big.Int {
	r := new(big.Int).Exp(x, three, c.N)
	ax := new(big.Int).Mul(c.A, x)
	r.Add(r, ax)
	r.Add(r, c.B)
	return r.Mod(r, c.N)
}
