// Package factor implements integer factorization heuristics: stage 1 of
// Lenstra's elliptic curve method, Pollard's Rho, Pollard's p-1, and a
// Lenstra/Rho hybrid walk.
//
// Every routine either returns a verified non-trivial divisor d of the
// input n, with 1 < d < n and n mod d == 0, or fails with ErrNoFactor.
// It never guesses. Splitting n completely is the caller's loop: divide
// out discovered factors, retry with fresh randomness, and escalate
// between methods as needed.
package factor

import (
	"errors"
	"fmt"
	"math/big"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/smallyu/go-ecm/internal/crypto/modular"
	"github.com/smallyu/go-ecm/internal/crypto/weierstrass"
)

// ErrNoFactor is returned when an attempt (or a whole budget of attempts)
// completes without producing a non-trivial divisor. It is an expected
// outcome for probabilistic methods, not a fault.
var ErrNoFactor = errors.New("factor: no non-trivial factor found")

// Defaults for Config fields left at their zero value.
const (
	DefaultSmoothnessBound = 1000
	DefaultMaxAttempts     = 100
)

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// Config tunes the curve-based factorizers (ECM and Hybrid).
type Config struct {
	// SmoothnessBound is the stage-1 bound B. Each ECM attempt multiplies
	// its point successively by every integer in [2, B]; each Hybrid
	// attempt walks B steps.
	SmoothnessBound int

	// MaxAttempts bounds the number of random curves tried (across all
	// workers) before giving up with ErrNoFactor.
	MaxAttempts int

	// Workers is the number of concurrent attempt loops ECM runs.
	// Attempts on independent random curves are embarrassingly parallel;
	// the first verified factor wins and cancels the rest.
	Workers int

	// Rand seeds the curve and point sampling. Each ECM worker derives
	// its own generator from it, so a seeded Rand gives reproducible
	// runs. Nil means seeded from the wall clock.
	Rand *rand.Rand

	// Logger receives per-attempt debug output. Nil means no logging.
	Logger *zap.Logger
}

func (c Config) withDefaults() Config {
	if c.SmoothnessBound <= 0 {
		c.SmoothnessBound = DefaultSmoothnessBound
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

func checkN(n *big.Int) error {
	if n == nil || n.Cmp(two) < 0 {
		return fmt.Errorf("factor: n must be an integer >= 2, got %s", n)
	}
	return nil
}

// isNonTrivial reports whether 1 < d < n.
func isNonTrivial(d, n *big.Int) bool {
	return d.Cmp(one) > 0 && d.Cmp(n) < 0
}

// factorFromGroupLaw converts a *weierstrass.NonInvertibleError into a
// divisor of n via gcd(denominator, n). A gcd of 1 or n means the failure
// was not useful and the attempt reports ErrNoFactor; any other error is
// a genuine defect and passes through untouched.
func factorFromGroupLaw(err error, n *big.Int) (*big.Int, error) {
	var nie *weierstrass.NonInvertibleError
	if errors.As(err, &nie) {
		d := modular.GCD(nie.Denominator, n)
		if isNonTrivial(d, n) {
			return d, nil
		}
		return nil, ErrNoFactor
	}
	return nil, err
}

// randBetween returns a uniform value in [2, n-1). n must be >= 4.
func randBetween(rnd *rand.Rand, n *big.Int) *big.Int {
	limit := new(big.Int).Sub(n, three)
	v := new(big.Int).Rand(rnd, limit)
	return v.Add(v, two)
}
