package lattice

import (
	"fmt"
	"math/big"

	"github.com/tacotaha/svp/utils"
	"github.com/tacotaha/svp/utils/bignum"
)

// MinPrecision is the floor on the working precision of the
// orthogonalization.
const MinPrecision = 128

// GSO holds the Gram-Schmidt orthogonalization of a basis: the real-valued
// orthogonal vectors b*_1..b*_n, their squared norms and the lower-triangular
// matrix of projection coefficients mu_{i,j} = <b_i, b*_j>/<b*_j, b*_j> for
// j < i. It is computed once per lattice and read-only afterwards.
type GSO struct {
	Vectors [][]*big.Float // orthogonal vectors b*_i
	Norms   []*big.Float   // <b*_i, b*_i>
	Mu      [][]*big.Float // projection coefficients, Mu[i][j] defined for j < i
	Prec    uint           // working precision in bits
}

// DefaultPrecision returns the working precision used when the caller does
// not supply one: at least MinPrecision bits, scaling with the bit length of
// the basis entries so that the mu coefficients stay numerically stable for
// large bases.
func DefaultPrecision(l *Lattice) uint {
	return utils.Max(uint(l.MaxEntryBitLen()+64), MinPrecision)
}

// GramSchmidt computes the Gram-Schmidt orthogonalization of the basis at the
// given working precision (0 selects DefaultPrecision). It returns
// ErrDegenerateBasis when an orthogonal component has zero norm, which means
// the basis vectors are linearly dependent.
func GramSchmidt(l *Lattice, prec uint) (*GSO, error) {

	if prec == 0 {
		prec = DefaultPrecision(l)
	}

	n := l.Dim()
	basis := l.Basis()

	gso := &GSO{
		Vectors: make([][]*big.Float, n),
		Norms:   make([]*big.Float, n),
		Mu:      make([][]*big.Float, n),
		Prec:    prec,
	}

	tmp := new(big.Float).SetPrec(prec)

	for i := 0; i < n; i++ {

		bi := make([]*big.Float, n)
		for k := 0; k < n; k++ {
			bi[k] = bignum.NewFloat(basis[i].Coeffs[k], prec)
		}

		gso.Mu[i] = make([]*big.Float, i)
		for j := 0; j < i; j++ {
			// mu_{i,j} = <b_i, b*_j> / <b*_j, b*_j>
			mu := intFloatDot(basis[i], gso.Vectors[j], prec)
			mu.Quo(mu, gso.Norms[j])
			gso.Mu[i][j] = mu

			for k := 0; k < n; k++ {
				bi[k].Sub(bi[k], tmp.Mul(mu, gso.Vectors[j][k]))
			}
		}

		norm := bignum.NewFloat(nil, prec)
		for k := 0; k < n; k++ {
			norm.Add(norm, tmp.Mul(bi[k], bi[k]))
		}
		if norm.Sign() == 0 {
			return nil, fmt.Errorf("%w: zero orthogonal component at index %d", ErrDegenerateBasis, i)
		}

		gso.Vectors[i] = bi
		gso.Norms[i] = norm
	}

	return gso, nil
}

// intFloatDot returns the inner product of an integer vector with a real
// vector at the given precision.
func intFloatDot(v *Vector, u []*big.Float, prec uint) *big.Float {
	res := bignum.NewFloat(nil, prec)
	tmp := new(big.Float).SetPrec(prec)
	for k := range u {
		res.Add(res, tmp.Mul(bignum.NewFloat(v.Coeffs[k], prec), u[k]))
	}
	return res
}
