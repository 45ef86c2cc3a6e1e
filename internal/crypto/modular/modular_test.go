package modular

import (
	"errors"
	"math/big"
	"testing"
)

func TestGCD(t *testing.T) {
	cases := []struct {
		a, b, want int64
	}{
		{12, 18, 6},
		{35, 5, 5},
		{17, 31, 1},
		{0, 9, 9},
		{0, 0, 0},
		{-12, 18, 6},
		{12, -18, 6},
	}
	for _, c := range cases {
		got := GCD(big.NewInt(c.a), big.NewInt(c.b))
		if got.Cmp(big.NewInt(c.want)) != 0 {
			t.Errorf("GCD(%d, %d) = %s, want %d", c.a, c.b, got, c.want)
		}
		if got.Sign() < 0 {
			t.Errorf("GCD(%d, %d) is negative", c.a, c.b)
		}
	}
}

func TestInverse(t *testing.T) {
	t.Run("prime modulus roundtrip", func(t *testing.T) {
		m := big.NewInt(97)
		for v := int64(1); v < 97; v++ {
			inv, err := Inverse(big.NewInt(v), m)
			if err != nil {
				t.Fatalf("Inverse(%d, 97) failed: %v", v, err)
			}
			prod := new(big.Int).Mul(big.NewInt(v), inv)
			prod.Mod(prod, m)
			if prod.Cmp(big.NewInt(1)) != 0 {
				t.Errorf("%d * %s != 1 mod 97", v, inv)
			}
			if inv.Sign() < 0 || inv.Cmp(m) >= 0 {
				t.Errorf("Inverse(%d, 97) = %s out of [0, 97)", v, inv)
			}
		}
	})

	t.Run("negative value", func(t *testing.T) {
		m := big.NewInt(97)
		inv, err := Inverse(big.NewInt(-3), m)
		if err != nil {
			t.Fatalf("Inverse(-3, 97) failed: %v", err)
		}
		prod := new(big.Int).Mul(big.NewInt(-3), inv)
		prod.Mod(prod, m)
		if prod.Cmp(big.NewInt(1)) != 0 {
			t.Errorf("-3 * %s != 1 mod 97", inv)
		}
	})

	t.Run("shared factor surfaces the offending value", func(t *testing.T) {
		// 35 = 5 * 7 and gcd(5, 35) = 5, so 5 has no inverse mod 35.
		_, err := Inverse(big.NewInt(5), big.NewInt(35))
		if err == nil {
			t.Fatal("Inverse(5, 35) should fail")
		}
		var nie *NotInvertibleError
		if !errors.As(err, &nie) {
			t.Fatalf("expected *NotInvertibleError, got %T: %v", err, err)
		}
		if nie.Value.Cmp(big.NewInt(5)) != 0 {
			t.Errorf("error carries value %s, want 5", nie.Value)
		}
		if nie.Modulus.Cmp(big.NewInt(35)) != 0 {
			t.Errorf("error carries modulus %s, want 35", nie.Modulus)
		}
		if g := GCD(nie.Value, nie.Modulus); g.Cmp(big.NewInt(5)) != 0 {
			t.Errorf("gcd(%s, %s) = %s, want 5", nie.Value, nie.Modulus, g)
		}
	})

	t.Run("zero is never invertible", func(t *testing.T) {
		_, err := Inverse(big.NewInt(0), big.NewInt(35))
		var nie *NotInvertibleError
		if !errors.As(err, &nie) {
			t.Fatalf("expected *NotInvertibleError, got %v", err)
		}
	})

	t.Run("multiple of the modulus is never invertible", func(t *testing.T) {
		_, err := Inverse(big.NewInt(70), big.NewInt(35))
		var nie *NotInvertibleError
		if !errors.As(err, &nie) {
			t.Fatalf("expected *NotInvertibleError, got %v", err)
		}
		if nie.Value.Cmp(big.NewInt(70)) != 0 {
			t.Errorf("error carries value %s, want the original 70", nie.Value)
		}
	})
}
