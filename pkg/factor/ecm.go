package factor

import (
	"context"
	"errors"
	"math/big"
	"math/rand"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/smallyu/go-ecm/internal/crypto/modular"
	"github.com/smallyu/go-ecm/internal/crypto/weierstrass"
)

// ECM attempts to find a non-trivial divisor of n using stage 1 of
// Lenstra's elliptic curve method.
//
// Each attempt samples a random curve through a random point over Z/nZ
// and multiplies the point successively by every integer in
// [2, SmoothnessBound]. If the point's order modulo some unknown prime
// factor p of n is smooth, one of those multiplications hits a slope
// denominator divisible by p but not by n, the modular inverse fails, and
// gcd(denominator, n) exposes p. An inversion failure is therefore the
// success path here, not an error.
//
// Attempts run on cfg.Workers goroutines; the first verified factor
// cancels the rest. ECM returns ErrNoFactor once MaxAttempts curves have
// been exhausted, or ctx.Err() if the context ends first.
func ECM(ctx context.Context, n *big.Int, cfg Config) (*big.Int, error) {
	if err := checkN(n); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg      sync.WaitGroup
		tickets atomic.Int64
		found   = make(chan *big.Int, cfg.Workers)
		failed  = make(chan error, cfg.Workers)
	)
	for w := 0; w < cfg.Workers; w++ {
		// Workers must not share a generator or replay each other's
		// curves, so each derives an independently seeded source.
		rnd := rand.New(rand.NewSource(cfg.Rand.Int63()))
		logger := cfg.Logger.With(zap.Int("worker", w))

		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				attempt := tickets.Add(1)
				if attempt > int64(cfg.MaxAttempts) {
					return
				}
				d, err := ecmAttempt(ctx, n, cfg.SmoothnessBound, rnd)
				switch {
				case err == nil:
					logger.Debug("ecm: factor found",
						zap.String("n", n.String()),
						zap.String("factor", d.String()),
						zap.Int64("attempt", attempt))
					found <- d
					cancel()
					return
				case errors.Is(err, ErrNoFactor):
					logger.Debug("ecm: attempt exhausted", zap.Int64("attempt", attempt))
				case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
					return
				default:
					failed <- err
					cancel()
					return
				}
			}
		}()
	}
	wg.Wait()

	select {
	case d := <-found:
		return d, nil
	default:
	}
	select {
	case err := <-failed:
		return nil, err
	default:
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}
	return nil, ErrNoFactor
}

// ecmAttempt runs a single random curve. It returns a verified
// non-trivial divisor of n, or ErrNoFactor when the attempt yielded
// nothing usable: a singular curve draw, a denominator whose gcd with n
// collapsed to 1 or n, or a smoothness bound too small for this curve's
// group order. Any other error is a defect and surfaces as-is.
func ecmAttempt(ctx context.Context, n *big.Int, bound int, rnd *rand.Rand) (*big.Int, error) {
	// Sample x, y, a in [0, n) and derive b = y^2 - x^3 - a*x mod n, so
	// (x, y) lies on y^2 = x^3 + ax + b by construction. No rejection
	// sampling for membership is ever needed.
	x := new(big.Int).Rand(rnd, n)
	y := new(big.Int).Rand(rnd, n)
	a := new(big.Int).Rand(rnd, n)

	b := new(big.Int).Mul(y, y)
	b.Sub(b, new(big.Int).Exp(x, three, n))
	b.Sub(b, new(big.Int).Mul(a, x))
	b.Mod(b, n)

	curve, err := weierstrass.NewCurve(a, b, n)
	if err != nil {
		var sce *weierstrass.SingularCurveError
		if errors.As(err, &sce) {
			// Unlucky draw; the orchestration loop moves on.
			return nil, ErrNoFactor
		}
		return nil, err
	}

	cur, err := weierstrass.NewPoint(curve, x, y)
	if err != nil {
		// b was derived from (x, y); a membership failure here is a
		// logic defect and must surface, never be retried away.
		return nil, err
	}

	// Multiply by each small integer in sequence rather than by the
	// product as one big scalar: a failure at step i then pinpoints a
	// denominator without recomputing anything.
	for i := int64(2); i <= int64(bound); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := cur.ScalarMult(big.NewInt(i))
		if err != nil {
			return factorFromGroupLaw(err, n)
		}
		cur = next
	}
	return nil, ErrNoFactor
}

// gcdOrNoFactor is a convenience for methods probing gcd(v, n) directly:
// it returns (gcd, true) only when the gcd is a non-trivial divisor.
func gcdOrNoFactor(v, n *big.Int) (*big.Int, bool) {
	d := modular.GCD(v, n)
	if isNonTrivial(d, n) {
		return d, true
	}
	return d, false
}
