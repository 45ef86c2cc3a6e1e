package factor

import (
	"context"
	"errors"
	"math/big"
	"math/rand"
	"testing"
)

func TestPollardPMinusOneFindsFactor(t *testing.T) {
	// 299 = 13 * 23, and 13 - 1 = 12 = 2^2 * 3 is very smooth, so small
	// exponent products expose 13 for almost every base.
	n := big.NewInt(299)
	rnd := rand.New(rand.NewSource(21))

	for attempt := 0; attempt < 20; attempt++ {
		d, err := PollardPMinusOne(context.Background(), n, rnd, 50)
		if errors.Is(err, ErrNoFactor) {
			continue
		}
		if err != nil {
			t.Fatalf("PollardPMinusOne failed: %v", err)
		}
		assertDivides(t, d, n)
		return
	}
	t.Fatal("no factor of 299 found in 20 attempts")
}

func TestPollardPMinusOnePrimeTerminates(t *testing.T) {
	n := big.NewInt(101)
	rnd := rand.New(rand.NewSource(22))

	_, err := PollardPMinusOne(context.Background(), n, rnd, 30)
	if !errors.Is(err, ErrNoFactor) {
		t.Fatalf("expected ErrNoFactor on a prime, got %v", err)
	}
}

func TestPollardPMinusOneDefaultBound(t *testing.T) {
	n := big.NewInt(299)
	rnd := rand.New(rand.NewSource(23))

	// bound <= 0 selects the default; the call must still terminate.
	d, err := PollardPMinusOne(context.Background(), n, rnd, 0)
	if err != nil && !errors.Is(err, ErrNoFactor) {
		t.Fatalf("PollardPMinusOne failed: %v", err)
	}
	if err == nil {
		assertDivides(t, d, n)
	}
}
