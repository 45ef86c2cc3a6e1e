package factor

import (
	"context"
	"errors"
	"math/big"
	"math/rand"

	"go.uber.org/zap"

	"github.com/smallyu/go-ecm/internal/crypto/modular"
	"github.com/smallyu/go-ecm/internal/crypto/weierstrass"
)

// Hybrid interleaves a Lenstra-style curve walk with Pollard-Rho-style
// gcd probes.
//
// Each attempt fits a curve through two random points: the coefficient a
// falls out of the secant condition between them and b is derived from
// the first, so both lie on the curve by construction. Two walkers P and
// Q start at the first point; each step advances P by 2R and Q by R,
// where R is the second point. Because the running difference P - Q
// steps through multiples of
// R, the gcds of the coordinate differences act as collision probes for
// the group order modulo an unknown prime factor. Any non-invertible
// slope denominator hit along the way is recycled into a factor exactly
// as in ECM.
//
// cfg.SmoothnessBound is reused as the walk length per attempt;
// cfg.Workers is ignored, attempts run sequentially.
func Hybrid(ctx context.Context, n *big.Int, cfg Config) (*big.Int, error) {
	if err := checkN(n); err != nil {
		return nil, err
	}
	if n.Cmp(big.NewInt(4)) < 0 {
		return nil, ErrNoFactor
	}
	cfg = cfg.withDefaults()

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := hybridAttempt(ctx, n, cfg.SmoothnessBound, cfg.Rand)
		switch {
		case err == nil:
			cfg.Logger.Debug("hybrid: factor found",
				zap.String("n", n.String()),
				zap.String("factor", d.String()),
				zap.Int("attempt", attempt))
			return d, nil
		case errors.Is(err, ErrNoFactor):
			continue
		default:
			return nil, err
		}
	}
	return nil, ErrNoFactor
}

func hybridAttempt(ctx context.Context, n *big.Int, bound int, rnd *rand.Rand) (*big.Int, error) {
	x1 := new(big.Int).Rand(rnd, n)
	y1 := new(big.Int).Rand(rnd, n)
	y2 := new(big.Int).Rand(rnd, n)
	x2 := new(big.Int).Rand(rnd, n)
	for x1.Cmp(x2) == 0 {
		x2 = new(big.Int).Rand(rnd, n)
	}

	// Solve the secant condition for a:
	//   a = (y1^2 - y2^2 - (x1^3 - x2^3)) / (x1 - x2) mod n.
	// The division can itself fail to invert, which is already a probe.
	num := new(big.Int).Mul(y1, y1)
	num.Sub(num, new(big.Int).Mul(y2, y2))
	num.Sub(num, new(big.Int).Exp(x1, three, n))
	num.Add(num, new(big.Int).Exp(x2, three, n))
	num.Mod(num, n)

	den := new(big.Int).Sub(x1, x2)
	den.Mod(den, n)
	inv, err := modular.Inverse(den, n)
	if err != nil {
		var nie *modular.NotInvertibleError
		if errors.As(err, &nie) {
			if d, ok := gcdOrNoFactor(nie.Value, n); ok {
				return d, nil
			}
			return nil, ErrNoFactor
		}
		return nil, err
	}
	a := num.Mul(num, inv)
	a.Mod(a, n)

	// b from the first point: b = y1^2 - x1^3 - a*x1 mod n.
	b := new(big.Int).Mul(y1, y1)
	b.Sub(b, new(big.Int).Exp(x1, three, n))
	b.Sub(b, new(big.Int).Mul(a, x1))
	b.Mod(b, n)

	curve, err := weierstrass.NewCurve(a, b, n)
	if err != nil {
		var sce *weierstrass.SingularCurveError
		if errors.As(err, &sce) {
			return nil, ErrNoFactor
		}
		return nil, err
	}

	p, err := weierstrass.NewPoint(curve, x1, y1)
	if err != nil {
		return nil, err
	}
	r, err := weierstrass.NewPoint(curve, x2, y2)
	if err != nil {
		return nil, err
	}
	q := p

	for i := 0; i < bound; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if p, err = p.Add(r); err != nil {
			return factorFromGroupLaw(err, n)
		}
		if p, err = p.Add(r); err != nil {
			return factorFromGroupLaw(err, n)
		}
		if q, err = q.Add(r); err != nil {
			return factorFromGroupLaw(err, n)
		}

		// A walk that reaches infinity has degenerated; no coordinates
		// left to probe.
		if p.IsInfinity() || q.IsInfinity() {
			return nil, ErrNoFactor
		}

		if d, ok := gcdOrNoFactor(new(big.Int).Sub(q.X(), p.X()), n); ok {
			return d, nil
		}
		if d, ok := gcdOrNoFactor(new(big.Int).Sub(q.Y(), p.Y()), n); ok {
			return d, nil
		}
	}
	return nil, ErrNoFactor
}
