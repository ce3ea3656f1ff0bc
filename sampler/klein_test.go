package sampler

import (
	"math/big"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"

	"github.com/tacotaha/svp/lattice"
	"github.com/tacotaha/svp/utils/bignum"
	"github.com/tacotaha/svp/utils/sampling"
)

func testSampler(t *testing.T, rows [][]int64, key []byte, params Params) *KleinSampler {
	t.Helper()

	basis := make([]*lattice.Vector, len(rows))
	for i, r := range rows {
		basis[i] = lattice.NewVectorFromInt64(r)
	}
	l, err := lattice.NewLattice(basis)
	require.NoError(t, err)

	gso, err := lattice.GramSchmidt(l, 0)
	require.NoError(t, err)

	prng, err := sampling.NewKeyedPRNG(key)
	require.NoError(t, err)

	k, err := NewKleinSampler(l, gso, prng, params)
	require.NoError(t, err)
	return k
}

func TestSample(t *testing.T) {

	k := testSampler(t, [][]int64{{1, 1, 0}, {1, 2, 0}, {0, 1, 2}}, []byte{0x42}, Params{})

	for i := 0; i < 64; i++ {
		v, err := k.Sample()
		require.NoError(t, err)
		require.Equal(t, 3, v.Dim())

		// Sampled points lie in the lattice: third coordinate of every integer
		// combination of this basis is even.
		rem := new(big.Int).Mod(v.Coeffs[2], big.NewInt(2))
		require.Zero(t, rem.Sign())
	}
}

func TestSampleDeterminism(t *testing.T) {

	rows := [][]int64{{1, -1, 1}, {1, 0, 1}, {1, 1, 2}}
	key := []byte{0x49, 0x0a, 0x42, 0x3d}

	k0 := testSampler(t, rows, key, Params{})
	k1 := testSampler(t, rows, key, Params{})

	for i := 0; i < 32; i++ {
		v0, err := k0.Sample()
		require.NoError(t, err)
		v1, err := k1.Sample()
		require.NoError(t, err)
		require.True(t, v0.Equal(v1), "sample %d: %v != %v", i, v0, v1)
	}
}

func TestSampleZMoments(t *testing.T) {

	k := testSampler(t, [][]int64{{1, 0}, {0, 1}}, []byte{0x01}, Params{
		T: bignum.NewFloat(4.0, 128),
	})

	values := make([]float64, 4096)
	for i := range values {
		z, err := k.sampleZ(bignum.NewFloat(nil, k.prec), bignum.NewFloat(4.0, k.prec))
		require.NoError(t, err)
		values[i], _ = z.Float64()
	}

	// For the discrete Gaussian rho(x) = exp(-pi*x^2/s2): mean 0 and standard
	// deviation s2/(2*pi), loosely checked on the empirical moments.
	mean, err := stats.Mean(values)
	require.NoError(t, err)
	stddev, err := stats.StandardDeviation(values)
	require.NoError(t, err)

	require.InDelta(t, 0.0, mean, 0.1)
	require.InDelta(t, 0.7978, stddev, 0.15)
}

func TestSampleCenter(t *testing.T) {

	// With a far-away center and a modest spread, samples land near the
	// center rather than the origin.
	center := []*big.Float{bignum.NewFloat(100, 128), bignum.NewFloat(100, 128)}
	k := testSampler(t, [][]int64{{1, 0}, {0, 1}}, []byte{0x07}, Params{
		Center: center,
	})

	for i := 0; i < 16; i++ {
		v, err := k.Sample()
		require.NoError(t, err)
		for x := 0; x < 2; x++ {
			c, _ := v.Coeffs[x].Float64()
			require.InDelta(t, 100, c, 50)
		}
	}
}

func TestSamplingStalled(t *testing.T) {

	// A vanishing rejection parameter with a half-integer center makes the
	// acceptance ratio effectively zero.
	center := []*big.Float{bignum.NewFloat(0.5, 128), bignum.NewFloat(0.5, 128)}
	k := testSampler(t, [][]int64{{1, 0}, {0, 1}}, []byte{0x03}, Params{
		T:             bignum.NewFloat(1e-12, 128),
		Center:        center,
		MaxRejections: 16,
	})

	_, err := k.Sample()
	require.ErrorIs(t, err, lattice.ErrSamplingStalled)
}

func TestInvalidParams(t *testing.T) {

	basis := []*lattice.Vector{
		lattice.NewVectorFromInt64([]int64{1, 0}),
		lattice.NewVectorFromInt64([]int64{0, 1}),
	}
	l, err := lattice.NewLattice(basis)
	require.NoError(t, err)
	gso, err := lattice.GramSchmidt(l, 0)
	require.NoError(t, err)
	prng, err := sampling.NewKeyedPRNG(nil)
	require.NoError(t, err)

	// Non-positive rejection parameter.
	_, err = NewKleinSampler(l, gso, prng, Params{T: bignum.NewFloat(nil, 128)})
	require.Error(t, err)

	// Center of the wrong dimension.
	_, err = NewKleinSampler(l, gso, prng, Params{Center: []*big.Float{bignum.NewFloat(1, 128)}})
	require.ErrorIs(t, err, lattice.ErrDimensionMismatch)
}
