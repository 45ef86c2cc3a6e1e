package factor

import (
	"context"
	"math/big"
	"math/rand"
)

// PollardPMinusOne performs one attempt of Pollard's p-1 method: a random
// base A is raised to the successive exponents k = 2, 3, ..., bound,
// probing gcd(A - 1, n) after each step. It finds a prime factor p of n
// whenever p-1 divides k! for some k within the bound, i.e. when p-1 is
// built from small primes.
//
// Like PollardRho this is a single attempt: it returns a non-trivial
// divisor, or ErrNoFactor when the base collapses (gcd reaches n) or the
// bound runs out. bound <= 0 selects DefaultSmoothnessBound.
func PollardPMinusOne(ctx context.Context, n *big.Int, rnd *rand.Rand, bound int) (*big.Int, error) {
	if err := checkN(n); err != nil {
		return nil, err
	}
	if bound <= 0 {
		bound = DefaultSmoothnessBound
	}
	if n.Cmp(big.NewInt(4)) < 0 {
		return nil, ErrNoFactor
	}

	a := randBetween(rnd, n)

	// The base itself may already share a factor with n.
	if d, ok := gcdOrNoFactor(a, n); ok {
		return d, nil
	}

	am1 := new(big.Int)
	for k := int64(2); k <= int64(bound); k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a.Exp(a, big.NewInt(k), n)

		d, ok := gcdOrNoFactor(am1.Sub(a, one), n)
		if ok {
			return d, nil
		}
		if d.Cmp(n) == 0 {
			// A == 1 mod every prime factor at once; this base is spent.
			return nil, ErrNoFactor
		}
	}
	return nil, ErrNoFactor
}
