// Package sampler implements the discrete Gaussian lattice point sampler of
// Gentry, Peikert and Vaikuntanathan (GPV08), also known as Klein's
// algorithm. Given a basis and its Gram-Schmidt orthogonalization it draws
// lattice points whose distribution approximates a discrete Gaussian centered
// at a target point.
package sampler

import (
	"fmt"
	"math/big"

	"github.com/tacotaha/svp/lattice"
	"github.com/tacotaha/svp/utils/bignum"
	"github.com/tacotaha/svp/utils/sampling"
)

// DefaultMaxRejections bounds the number of consecutive rejections of the
// one-dimensional sampler before it gives up with ErrSamplingStalled. In the
// designed parameter regime the expected number of retries per coordinate is
// a small constant, so hitting the bound indicates a pathological rejection
// parameter.
const DefaultMaxRejections = 1024

// Params configures a KleinSampler. The zero value selects the defaults
// documented on each field.
type Params struct {
	// T is the rejection parameter bounding the sampling window and the
	// per-coordinate Gaussian spread. Defaults to ln(n) where n is the
	// lattice dimension.
	T *big.Float

	// Center is the target point of the distribution in ambient coordinates.
	// Defaults to the origin.
	Center []*big.Float

	// Prec is the working precision in bits. Defaults to the precision of the
	// supplied orthogonalization.
	Prec uint

	// MaxRejections bounds consecutive rejections per coordinate.
	// Defaults to DefaultMaxRejections.
	MaxRejections int
}

// KleinSampler draws lattice points from an approximate discrete Gaussian.
// Calls to Sample are independent of each other; the PRNG stream is the only
// mutable state, so a sampler must not be shared between goroutines unless
// its PRNG is.
type KleinSampler struct {
	lat    *lattice.Lattice
	gso    *lattice.GSO
	prng   sampling.PRNG
	t      *big.Float   // rejection parameter
	s2     []*big.Float // per-coordinate squared Gaussian parameter s^2/<b*_i, b*_i>
	center []*big.Float // initial running center in the mu coordinate system
	maxRej int
	prec   uint
}

// NewKleinSampler initializes a sampler over the given lattice and its
// orthogonalization, drawing randomness from prng.
func NewKleinSampler(l *lattice.Lattice, gso *lattice.GSO, prng sampling.PRNG, params Params) (*KleinSampler, error) {

	n := l.Dim()

	prec := params.Prec
	if prec == 0 {
		prec = gso.Prec
	}

	t := params.T
	if t == nil {
		t = bignum.Log(bignum.NewFloat(n, prec))
	}
	if t.Sign() <= 0 {
		return nil, fmt.Errorf("rejection parameter t must be positive, got %v", t)
	}

	maxRej := params.MaxRejections
	if maxRej == 0 {
		maxRej = DefaultMaxRejections
	}

	// s = t * max_i <b*_i, b*_i>, s2_i = s / <b*_i, b*_i>.
	maxNorm := new(big.Float).SetPrec(prec).Set(gso.Norms[0])
	for _, ni := range gso.Norms[1:] {
		if ni.Cmp(maxNorm) > 0 {
			maxNorm.Set(ni)
		}
	}
	s := new(big.Float).SetPrec(prec).Mul(maxNorm, t)

	s2 := make([]*big.Float, n)
	for i := range s2 {
		s2[i] = new(big.Float).SetPrec(prec).Quo(s, gso.Norms[i])
	}

	center, err := muCoordinates(params.Center, gso, prec)
	if err != nil {
		return nil, err
	}

	return &KleinSampler{
		lat:    l,
		gso:    gso,
		prng:   prng,
		t:      bignum.NewFloat(t, prec),
		s2:     s2,
		center: center,
		maxRej: maxRej,
		prec:   prec,
	}, nil
}

// muCoordinates projects the target center onto the orthogonal basis,
// yielding the initial per-coordinate centers c_i = <center, b*_i>/<b*_i, b*_i>.
// A nil center is the origin.
func muCoordinates(center []*big.Float, gso *lattice.GSO, prec uint) ([]*big.Float, error) {
	n := len(gso.Norms)
	c := make([]*big.Float, n)
	if center == nil {
		for i := range c {
			c[i] = bignum.NewFloat(nil, prec)
		}
		return c, nil
	}
	if len(center) != n {
		return nil, fmt.Errorf("%w: center has dimension %d, want %d", lattice.ErrDimensionMismatch, len(center), n)
	}
	tmp := new(big.Float).SetPrec(prec)
	for i := 0; i < n; i++ {
		ci := bignum.NewFloat(nil, prec)
		for k := 0; k < n; k++ {
			ci.Add(ci, tmp.Mul(center[k], gso.Vectors[i][k]))
		}
		ci.Quo(ci, gso.Norms[i])
		c[i] = ci
	}
	return c, nil
}

// Sample draws one lattice point. It walks the basis from the last vector to
// the first, sampling an integer coefficient z_i from the one-dimensional
// discrete Gaussian centered at the running center and folding z_i back into
// the centers of the lower indices through the mu coefficients. The output is
// the exact integer combination sum_i z_i * b_i.
func (k *KleinSampler) Sample() (*lattice.Vector, error) {

	n := k.lat.Dim()
	basis := k.lat.Basis()

	c := make([]*big.Float, n)
	for i := range c {
		c[i] = new(big.Float).SetPrec(k.prec).Set(k.center[i])
	}

	v := lattice.NewZeroVector(n)
	tmp := new(big.Float).SetPrec(k.prec)
	tmpInt := new(big.Int)

	for i := n - 1; i >= 0; i-- {

		zf, err := k.sampleZ(c[i], k.s2[i])
		if err != nil {
			return nil, err
		}
		z := bignum.NewInt(zf)

		// c_j -= z_i * mu_{i,j} for j < i.
		for j := 0; j < i; j++ {
			c[j].Sub(c[j], tmp.Mul(zf, k.gso.Mu[i][j]))
		}

		// v += z_i * b_i, exactly.
		if z.Sign() != 0 {
			for x := 0; x < n; x++ {
				v.Coeffs[x].Add(v.Coeffs[x], tmpInt.Mul(z, basis[i].Coeffs[x]))
			}
		}
	}

	v.InvalidateNorm()
	return v, nil
}

// sampleZ rejection samples an integer from the one-dimensional discrete
// Gaussian with squared parameter s2 centered at c: a uniform integer is
// drawn in the window [floor(c - s*t), ceil(c + s*t)] and accepted with
// probability exp(-pi*(x - c)^2/s2). The returned value is integral.
func (k *KleinSampler) sampleZ(c, s2 *big.Float) (*big.Float, error) {

	s := new(big.Float).SetPrec(k.prec).Sqrt(s2)
	st := new(big.Float).SetPrec(k.prec).Mul(s, k.t)

	min := bignum.Floor(new(big.Float).SetPrec(k.prec).Sub(c, st))
	max := bignum.Ceil(new(big.Float).SetPrec(k.prec).Add(c, st))
	delta := new(big.Float).SetPrec(k.prec).Sub(max, min)

	negPi := bignum.Pi(k.prec)
	negPi.Neg(negPi)

	x := new(big.Float).SetPrec(k.prec)
	u := new(big.Float).SetPrec(k.prec)

	for i := 0; i < k.maxRej; i++ {

		x.Mul(delta, bignum.NewFloat(sampling.RandFloat64(k.prng, 0, 1), k.prec))
		x.Set(bignum.Round(x))
		x.Add(x, min)

		// acceptance ratio exp(-pi*(x - c)^2/s2)
		u.Sub(x, c)
		u.Mul(u, u)
		u.Mul(u, negPi)
		u.Quo(u, s2)
		r := bignum.Exp(u)

		if bignum.NewFloat(sampling.RandFloat64(k.prng, 0, 1), k.prec).Cmp(r) <= 0 {
			return new(big.Float).SetPrec(k.prec).Set(x), nil
		}
	}

	return nil, fmt.Errorf("%w: no acceptance after %d draws (t=%v)", lattice.ErrSamplingStalled, k.maxRej, k.t)
}
