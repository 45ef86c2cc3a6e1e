// Command ecmfactor factors integers with Lenstra's elliptic curve
// method, falling back on (and racing against) the Pollard family of
// heuristics.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/smallyu/go-ecm/pkg/factor"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ecmfactor:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ecmfactor",
		Short:         "Integer factorization via Lenstra's elliptic curve method",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json, logfmt)")
	flags.Int("bound", factor.DefaultSmoothnessBound, "ECM stage-1 smoothness bound B")
	flags.Int("attempts", factor.DefaultMaxAttempts, "random curves tried before giving up")
	flags.Int("workers", runtime.NumCPU(), "concurrent ECM attempt loops")
	flags.Int64("seed", 0, "randomness seed, 0 seeds from the wall clock")

	viper.SetEnvPrefix("ecmfactor")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	cobra.CheckErr(viper.BindPFlags(flags))

	cmd.AddCommand(newFactorCommand(), newRaceCommand())
	return cmd
}

// newRand builds the run's root randomness source from the configured
// seed. Worker- and method-level generators are derived from it so a
// fixed seed reproduces a whole run.
func newRand() *rand.Rand {
	seed := viper.GetInt64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func ecmConfig(logger *zap.Logger, rnd *rand.Rand) factor.Config {
	return factor.Config{
		SmoothnessBound: viper.GetInt("bound"),
		MaxAttempts:     viper.GetInt("attempts"),
		Workers:         viper.GetInt("workers"),
		Rand:            rnd,
		Logger:          logger,
	}
}
