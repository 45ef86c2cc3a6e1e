package factor

import (
	"context"
	"errors"
	"math/big"
	"math/rand"
	"testing"
)

func TestHybridFindsFactor(t *testing.T) {
	// 1081 = 23 * 47. The difference walk cycles within the small curve
	// group mod 23 well inside the step budget.
	n := big.NewInt(1081)
	cfg := Config{
		SmoothnessBound: 200,
		Rand:            rand.New(rand.NewSource(31)),
	}

	d, err := Hybrid(context.Background(), n, cfg)
	if err != nil {
		t.Fatalf("Hybrid failed: %v", err)
	}
	assertDivides(t, d, n)
}

func TestHybridSmallComposite(t *testing.T) {
	n := big.NewInt(35)
	cfg := Config{
		SmoothnessBound: 100,
		Rand:            rand.New(rand.NewSource(32)),
	}

	d, err := Hybrid(context.Background(), n, cfg)
	if err != nil {
		t.Fatalf("Hybrid failed: %v", err)
	}
	assertDivides(t, d, n)
}

func TestHybridPrimeTerminates(t *testing.T) {
	n := big.NewInt(103)
	cfg := Config{
		SmoothnessBound: 20,
		MaxAttempts:     3,
		Rand:            rand.New(rand.NewSource(33)),
	}

	_, err := Hybrid(context.Background(), n, cfg)
	if !errors.Is(err, ErrNoFactor) {
		t.Fatalf("expected ErrNoFactor on a prime, got %v", err)
	}
}

func TestHybridHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Hybrid(ctx, big.NewInt(1081), Config{Rand: rand.New(rand.NewSource(34))})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
