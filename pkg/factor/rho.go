package factor

import (
	"context"
	"math/big"
	"math/rand"
)

// PollardRho performs one Floyd cycle-detection attempt on n: two
// sequences iterate x -> x^2 + 1 mod n from a common random start, the
// fast one advancing twice per step, and gcd(A - B, n) is probed each
// step.
//
// It returns a non-trivial divisor, or ErrNoFactor when the cycle
// collapses (the gcd reaches n) without exposing one. There is no
// internal retry loop: the caller retries with fresh randomness or
// escalates to ECM. The walk always terminates because the two sequences
// must meet inside the cycle.
func PollardRho(ctx context.Context, n *big.Int, rnd *rand.Rand) (*big.Int, error) {
	if err := checkN(n); err != nil {
		return nil, err
	}
	if n.Cmp(big.NewInt(4)) < 0 {
		// 2 and 3 are prime; no non-trivial divisor exists.
		return nil, ErrNoFactor
	}

	start := randBetween(rnd, n)
	a := new(big.Int).Set(start)
	b := new(big.Int).Set(start)

	step := func(v *big.Int) {
		v.Mul(v, v)
		v.Add(v, one)
		v.Mod(v, n)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		step(a)
		step(b)
		step(b)

		d, ok := gcdOrNoFactor(new(big.Int).Sub(a, b), n)
		if ok {
			return d, nil
		}
		if d.Cmp(n) == 0 {
			return nil, ErrNoFactor
		}
	}
}
