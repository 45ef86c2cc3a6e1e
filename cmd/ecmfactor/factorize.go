package main

import (
	"context"
	"fmt"
	"math/big"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smallyu/go-ecm/pkg/factor"
)

// rhoTriesPerSplit is how many cheap Pollard Rho attempts are spent on a
// composite before escalating to ECM curves.
const rhoTriesPerSplit = 5

func newFactorCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "factor <n>",
		Short: "Fully factor a positive integer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			n, ok := new(big.Int).SetString(args[0], 10)
			if !ok || n.Cmp(big.NewInt(2)) < 0 {
				return errors.Errorf("argument must be an integer >= 2, got %q", args[0])
			}

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			rnd := newRand()
			started := time.Now()
			primes, err := factorize(ctx, n, ecmConfig(logger, rnd), rnd, logger)
			if err != nil {
				return err
			}

			parts := make([]string, len(primes))
			for i, p := range primes {
				parts[i] = p.String()
			}
			fmt.Printf("%s = %s\n", n, strings.Join(parts, " * "))
			logger.Info("factorization complete",
				zap.Int("primes", len(primes)),
				zap.Duration("elapsed", time.Since(started)))
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "overall time budget (0 = none)")
	return cmd
}

// factorize splits n into its prime factorization (with multiplicity,
// ascending). Each composite is split by a few Rho attempts, then ECM;
// both halves of every split go back on the work list until only primes
// remain.
func factorize(ctx context.Context, n *big.Int, cfg factor.Config, rnd *rand.Rand, logger *zap.Logger) ([]*big.Int, error) {
	var primes []*big.Int
	rest := new(big.Int).Set(n)

	// Rho and ECM earn their keep on odd composites; peel the smallest
	// primes off by division first.
	for _, sp := range []int64{2, 3} {
		p := big.NewInt(sp)
		for new(big.Int).Mod(rest, p).Sign() == 0 {
			primes = append(primes, big.NewInt(sp))
			rest.Div(rest, p)
		}
	}

	var pending []*big.Int
	if rest.Cmp(big.NewInt(1)) > 0 {
		pending = append(pending, rest)
	}

	for len(pending) > 0 {
		m := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		if m.ProbablyPrime(32) {
			primes = append(primes, m)
			continue
		}

		d, err := splitOne(ctx, m, cfg, rnd)
		if err != nil {
			return nil, errors.Wrapf(err, "splitting %s", m)
		}
		logger.Debug("split composite",
			zap.String("n", m.String()), zap.String("divisor", d.String()))
		pending = append(pending, d, new(big.Int).Div(m, d))
	}

	sort.Slice(primes, func(i, j int) bool { return primes[i].Cmp(primes[j]) < 0 })
	return primes, nil
}

// splitOne finds a single non-trivial divisor of the composite m.
func splitOne(ctx context.Context, m *big.Int, cfg factor.Config, rnd *rand.Rand) (*big.Int, error) {
	for i := 0; i < rhoTriesPerSplit; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := factor.PollardRho(ctx, m, rnd)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, factor.ErrNoFactor) {
			return nil, err
		}
	}
	return factor.ECM(ctx, m, cfg)
}
