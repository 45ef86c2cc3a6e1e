package weierstrass

import (
	"math/big"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
)

// The generic ring arithmetic is checked against a hardened production
// implementation on the one curve both can represent: secp256k1, i.e.
// y^2 = x^3 + 7 over the prime P. Every inverse exists there, so the two
// must agree exactly.

func secpCurve(t *testing.T) (*Curve, Point) {
	t.Helper()
	params := secp256k1.S256().Params()
	c, err := NewCurve(big.NewInt(0), big.NewInt(7), params.P)
	assert.NoError(t, err)
	g, err := NewPoint(c, params.Gx, params.Gy)
	assert.NoError(t, err)
	return c, g
}

func TestScalarMultAgainstSecp256k1(t *testing.T) {
	_, g := secpCurve(t)
	s256 := secp256k1.S256()

	for k := int64(1); k <= 20; k++ {
		wantX, wantY := s256.ScalarBaseMult(big.NewInt(k).Bytes())
		got, err := g.ScalarMult(big.NewInt(k))
		assert.NoError(t, err, "k=%d", k)
		assert.Zero(t, got.X().Cmp(wantX), "x mismatch at k=%d", k)
		assert.Zero(t, got.Y().Cmp(wantY), "y mismatch at k=%d", k)
	}
}

func TestLargeScalarAgainstSecp256k1(t *testing.T) {
	_, g := secpCurve(t)
	s256 := secp256k1.S256()

	k, ok := new(big.Int).SetString("deadbeefcafebabe1234567890abcdef0102030405060708", 16)
	assert.True(t, ok)

	wantX, wantY := s256.ScalarBaseMult(k.Bytes())
	got, err := g.ScalarMult(k)
	assert.NoError(t, err)
	assert.Zero(t, got.X().Cmp(wantX))
	assert.Zero(t, got.Y().Cmp(wantY))
}

func TestAddAgainstSecp256k1(t *testing.T) {
	_, g := secpCurve(t)
	s256 := secp256k1.S256()

	g5, err := g.ScalarMult(big.NewInt(5))
	assert.NoError(t, err)
	g7, err := g.ScalarMult(big.NewInt(7))
	assert.NoError(t, err)

	sum, err := g5.Add(g7)
	assert.NoError(t, err)

	wantX, wantY := s256.ScalarBaseMult(big.NewInt(12).Bytes())
	assert.Zero(t, sum.X().Cmp(wantX))
	assert.Zero(t, sum.Y().Cmp(wantY))
}
