package weierstrass

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/smallyu/go-ecm/internal/crypto/modular"
)

// Point is a point on a Curve: either the point at infinity (the group
// identity, carrying no coordinates) or an affine point (x, y) with both
// coordinates normalized to [0, n). The zero Point is not valid; points
// are created through Infinity and NewPoint.
//
// Points are immutable; every group operation returns a new Point.
type Point struct {
	curve *Curve
	x, y  *big.Int // both nil iff this is the point at infinity
}

// NotOnCurveError reports coordinates that fail the curve equation at
// construction time.
type NotOnCurveError struct {
	X, Y  *big.Int
	Curve *Curve
}

func (e *NotOnCurveError) Error() string {
	return fmt.Sprintf("weierstrass: point (%s, %s) is not on %s", e.X, e.Y, e.Curve)
}

// CurveMismatchError reports a group operation whose operands live on
// different curves. It indicates a programming error and is never
// recovered into a factor.
type CurveMismatchError struct {
	P, Q *Curve
}

func (e *CurveMismatchError) Error() string {
	return fmt.Sprintf("weierstrass: operands on different curves: %s vs %s", e.P, e.Q)
}

// NonInvertibleError is the group-law-level surfacing of a failed modular
// inversion: the slope denominator computed during an addition or doubling
// step shares a factor with the modulus. For callers running ECM this is
// the discovery channel for factors of N, so the denominator is carried
// through unmodified.
type NonInvertibleError struct {
	Denominator *big.Int
	Modulus     *big.Int
	cause       error
}

func (e *NonInvertibleError) Error() string {
	return fmt.Sprintf("weierstrass: slope denominator %s is not invertible mod %s", e.Denominator, e.Modulus)
}

func (e *NonInvertibleError) Unwrap() error { return e.cause }

// Infinity returns the point at infinity on c.
func Infinity(c *Curve) Point {
	return Point{curve: c}
}

// NewPoint returns the affine point (x, y) on c, with coordinates reduced
// mod n. Membership y^2 == x^3 + ax + b (mod n) is checked eagerly and
// construction fails with *NotOnCurveError when it does not hold. Over a
// composite modulus the check is only as meaningful as the ring allows,
// but it is never skipped.
func NewPoint(c *Curve, x, y *big.Int) (Point, error) {
	xr := new(big.Int).Mod(x, c.N)
	yr := new(big.Int).Mod(y, c.N)

	lhs := new(big.Int).Mul(yr, yr)
	lhs.Mod(lhs, c.N)
	if lhs.Cmp(c.rhs(xr)) != 0 {
		return Point{}, &NotOnCurveError{X: xr, Y: yr, Curve: c}
	}
	return Point{curve: c, x: xr, y: yr}, nil
}

// Curve returns the curve p lives on.
func (p Point) Curve() *Curve { return p.curve }

// IsInfinity reports whether p is the point at infinity.
func (p Point) IsInfinity() bool { return p.x == nil }

// X returns the x coordinate, or nil for the point at infinity.
// The returned value must not be modified.
func (p Point) X() *big.Int { return p.x }

// Y returns the y coordinate, or nil for the point at infinity.
// The returned value must not be modified.
func (p Point) Y() *big.Int { return p.y }

// Equal reports whether p and q represent the same point: both at
// infinity, or congruent coordinates on curves with identical parameters.
func (p Point) Equal(q Point) bool {
	if !p.curve.Equal(q.curve) {
		return false
	}
	if p.IsInfinity() || q.IsInfinity() {
		return p.IsInfinity() && q.IsInfinity()
	}
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

// Negate returns -p. The point at infinity is its own negation; otherwise
// -(x, y) = (x, -y mod n). The addition formulas below derive y3 from the
// same sign convention, which is what makes p + (-p) the identity.
func (p Point) Negate() Point {
	if p.IsInfinity() {
		return p
	}
	ny := new(big.Int).Neg(p.y)
	ny.Mod(ny, p.curve.N)
	return Point{curve: p.curve, x: p.x, y: ny}
}

// Add returns p + q under the chord-and-tangent group law.
//
// A *NonInvertibleError from the slope inversion is returned as-is: it
// must reach the caller that knows how to turn the denominator into a
// factor of the modulus. A *CurveMismatchError indicates misuse and is
// never convertible into a factor.
func (p Point) Add(q Point) (Point, error) {
	if !p.curve.Equal(q.curve) {
		return Point{}, &CurveMismatchError{P: p.curve, Q: q.curve}
	}
	if p.IsInfinity() {
		return q, nil
	}
	if q.IsInfinity() {
		return p, nil
	}
	if p.Equal(q.Negate()) {
		return Infinity(p.curve), nil
	}

	n := p.curve.N
	var num, den *big.Int
	if p.Equal(q) {
		// Doubling. A 2-torsion point (y == 0) doubles to infinity;
		// the cancellation check above already covers it, but the
		// guard keeps the case explicit.
		if p.y.Sign() == 0 {
			return Infinity(p.curve), nil
		}
		// lambda = (3x^2 + a) / 2y
		num = new(big.Int).Mul(p.x, p.x)
		num.Mul(num, three)
		num.Add(num, p.curve.A)
		num.Mod(num, n)
		den = new(big.Int).Lsh(p.y, 1)
		den.Mod(den, n)
	} else {
		// lambda = (y2 - y1) / (x2 - x1)
		num = new(big.Int).Sub(q.y, p.y)
		num.Mod(num, n)
		den = new(big.Int).Sub(q.x, p.x)
		den.Mod(den, n)
	}

	inv, err := modular.Inverse(den, n)
	if err != nil {
		var nie *modular.NotInvertibleError
		if errors.As(err, &nie) {
			return Point{}, &NonInvertibleError{
				Denominator: nie.Value,
				Modulus:     nie.Modulus,
				cause:       err,
			}
		}
		return Point{}, err
	}
	lambda := num.Mul(num, inv)
	lambda.Mod(lambda, n)

	// x3 = lambda^2 - x1 - x2; y3 = lambda*(x1 - x3) - y1
	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, p.x)
	x3.Sub(x3, q.x)
	x3.Mod(x3, n)

	y3 := new(big.Int).Sub(p.x, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, p.y)
	y3.Mod(y3, n)

	return Point{curve: p.curve, x: x3, y: y3}, nil
}

// Sub returns p - q, i.e. p + (-q).
func (p Point) Sub(q Point) (Point, error) {
	return p.Add(q.Negate())
}

// Double returns 2p.
func (p Point) Double() (Point, error) {
	return p.Add(p)
}

// ScalarMult returns k*p via binary double-and-add, processing the bits of
// k from least to most significant.
//
// A negative k multiplies -p by -k; k == 0 yields the point at infinity;
// the point at infinity is fixed under any scalar. Any *NonInvertibleError
// raised by an intermediate addition or doubling propagates unmodified;
// ScalarMult never intercepts it.
func (p Point) ScalarMult(k *big.Int) (Point, error) {
	if k.Sign() < 0 {
		return p.Negate().ScalarMult(new(big.Int).Neg(k))
	}
	if k.Sign() == 0 {
		return Infinity(p.curve), nil
	}
	if p.IsInfinity() {
		return p, nil
	}

	var err error
	result := Infinity(p.curve)
	current := p
	for e := new(big.Int).Set(k); e.Sign() > 0; e.Rsh(e, 1) {
		if e.Bit(0) == 1 {
			result, err = result.Add(current)
			if err != nil {
				return Point{}, err
			}
		}
		current, err = current.Add(current)
		if err != nil {
			return Point{}, err
		}
	}
	return result, nil
}

func (p Point) String() string {
	if p.IsInfinity() {
		return "(infinity)"
	}
	return fmt.Sprintf("(%s, %s)", p.x, p.y)
}
