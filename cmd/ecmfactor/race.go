package main

import (
	"context"
	"math/big"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/smallyu/go-ecm/internal/challenge"
	"github.com/smallyu/go-ecm/pkg/factor"
)

// A raceMethod is one contender: it keeps attempting until it finds a
// divisor or its context expires.
type raceMethod struct {
	name string
	run  func(ctx context.Context, n *big.Int, rnd *rand.Rand) (*big.Int, error)
}

func newRaceCommand() *cobra.Command {
	var (
		file    string
		out     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "race",
		Short: "Race every method against a challenge file",
		Long: `Race reads "bits, number" lines from a challenge file, runs each
factorization method concurrently on every number with a per-method time
budget, and appends one JSON result record per method and number to the
output file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			challenges, err := challenge.ReadFile(file, logger)
			if err != nil {
				return err
			}
			if len(challenges) == 0 {
				return errors.Errorf("no challenges in %s", file)
			}

			outFile, err := os.Create(out)
			if err != nil {
				return errors.Wrapf(err, "creating output file %s", out)
			}
			defer outFile.Close()
			writer := challenge.NewWriter(outFile)

			rnd := newRand()
			for _, ch := range challenges {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				logger.Info("racing challenge",
					zap.Int("bits", ch.Bits), zap.String("n", ch.N.String()))
				if err := raceOne(cmd.Context(), ch, timeout, rnd, writer, logger); err != nil {
					return err
				}
			}
			logger.Info("race complete", zap.Int("challenges", len(challenges)), zap.String("out", out))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", `challenge file with one "bits, number" pair per line`)
	cmd.Flags().StringVar(&out, "out", "results.jsonl", "output file for JSON result records")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "per-method time budget")
	cobra.CheckErr(cmd.MarkFlagRequired("file"))
	return cmd
}

func raceOne(ctx context.Context, ch challenge.Challenge, timeout time.Duration, rnd *rand.Rand, writer *challenge.Writer, logger *zap.Logger) error {
	methods := []raceMethod{
		{name: "rho", run: func(ctx context.Context, n *big.Int, rnd *rand.Rand) (*big.Int, error) {
			return retryUntil(ctx, func() (*big.Int, error) {
				return factor.PollardRho(ctx, n, rnd)
			})
		}},
		{name: "pminus1", run: func(ctx context.Context, n *big.Int, rnd *rand.Rand) (*big.Int, error) {
			return retryUntil(ctx, func() (*big.Int, error) {
				return factor.PollardPMinusOne(ctx, n, rnd, viper.GetInt("bound"))
			})
		}},
		{name: "ecm", run: func(ctx context.Context, n *big.Int, rnd *rand.Rand) (*big.Int, error) {
			return retryUntil(ctx, func() (*big.Int, error) {
				return factor.ECM(ctx, n, ecmConfig(logger.Named("ecm"), rnd))
			})
		}},
		{name: "hybrid", run: func(ctx context.Context, n *big.Int, rnd *rand.Rand) (*big.Int, error) {
			return retryUntil(ctx, func() (*big.Int, error) {
				return factor.Hybrid(ctx, n, ecmConfig(logger.Named("hybrid"), rnd))
			})
		}},
	}

	var (
		wg       sync.WaitGroup
		writeErr error
		errOnce  sync.Once
	)
	for _, m := range methods {
		// math/rand generators are not safe for concurrent use; derive
		// one per method before launching.
		methodRnd := rand.New(rand.NewSource(rnd.Int63()))

		wg.Add(1)
		go func(m raceMethod, rnd *rand.Rand) {
			defer wg.Done()

			methodCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			started := time.Now()
			d, err := m.run(methodCtx, ch.N, rnd)
			elapsed := time.Since(started)

			rec := challenge.Result{
				Bits:           ch.Bits,
				N:              ch.N.String(),
				Method:         m.name,
				ElapsedSeconds: elapsed.Seconds(),
			}
			switch {
			case err == nil:
				rec.Found = true
				rec.Factor = d.String()
				logger.Info("factor found", zap.String("method", m.name),
					zap.String("factor", d.String()), zap.Duration("elapsed", elapsed))
			default:
				rec.Error = err.Error()
				logger.Info("no factor", zap.String("method", m.name),
					zap.Error(err), zap.Duration("elapsed", elapsed))
			}
			if err := writer.Write(rec); err != nil {
				errOnce.Do(func() { writeErr = err })
			}
		}(m, methodRnd)
	}
	wg.Wait()
	return writeErr
}

// retryUntil repeats single-attempt factorizers until they produce a
// divisor or the context expires; ErrNoFactor just means try again with
// the next stretch of randomness.
func retryUntil(ctx context.Context, attempt func() (*big.Int, error)) (*big.Int, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := attempt()
		if errors.Is(err, factor.ErrNoFactor) {
			continue
		}
		return d, err
	}
}
