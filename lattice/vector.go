// Package lattice implements exact arithmetic over integer lattices: vectors
// of arbitrary precision integer coordinates, lattice bases and their
// Gram-Schmidt orthogonalization.
package lattice

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/tacotaha/svp/utils/bignum"
)

// Vector is an n-vector of arbitrary precision integer coordinates with a
// cached exact squared norm. The cache is invalidated by the mutating
// operations and recomputed on the next call to Norm, so it is never stale.
type Vector struct {
	Coeffs []*big.Int
	norm   *big.Int // cached squared norm, nil when stale
}

// NewVector returns a vector holding a deep copy of the given coordinates.
func NewVector(coeffs []*big.Int) *Vector {
	c := make([]*big.Int, len(coeffs))
	for i := range coeffs {
		c[i] = new(big.Int).Set(coeffs[i])
	}
	return &Vector{Coeffs: c}
}

// NewVectorFromInt64 returns a vector with the given small coordinates.
func NewVectorFromInt64(coeffs []int64) *Vector {
	c := make([]*big.Int, len(coeffs))
	for i := range coeffs {
		c[i] = big.NewInt(coeffs[i])
	}
	return &Vector{Coeffs: c}
}

// NewZeroVector returns the zero vector of dimension n.
func NewZeroVector(n int) *Vector {
	c := make([]*big.Int, n)
	for i := range c {
		c[i] = new(big.Int)
	}
	return &Vector{Coeffs: c}
}

// Dim returns the dimension of the vector.
func (v *Vector) Dim() int {
	return len(v.Coeffs)
}

// Copy returns a deep copy of the vector, including the norm cache.
func (v *Vector) Copy() *Vector {
	c := NewVector(v.Coeffs)
	if v.norm != nil {
		c.norm = new(big.Int).Set(v.norm)
	}
	return c
}

// Dot returns the exact inner product <v, u>.
func (v *Vector) Dot(u *Vector) (*big.Int, error) {
	if v.Dim() != u.Dim() {
		return nil, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, v.Dim(), u.Dim())
	}
	res := new(big.Int)
	tmp := new(big.Int)
	for i := range v.Coeffs {
		res.Add(res, tmp.Mul(v.Coeffs[i], u.Coeffs[i]))
	}
	return res, nil
}

// Norm returns the exact squared norm <v, v>, recomputing it if the cache was
// invalidated by a mutation. The returned value is the cache itself and must
// not be modified.
func (v *Vector) Norm() *big.Int {
	if v.norm == nil {
		norm := new(big.Int)
		tmp := new(big.Int)
		for i := range v.Coeffs {
			norm.Add(norm, tmp.Mul(v.Coeffs[i], v.Coeffs[i]))
		}
		v.norm = norm
	}
	return v.norm
}

// InvalidateNorm discards the cached squared norm. It must be called after any
// direct mutation of Coeffs.
func (v *Vector) InvalidateNorm() {
	v.norm = nil
}

// IsZero reports whether all coordinates are zero.
func (v *Vector) IsZero() bool {
	return v.Norm().Sign() == 0
}

// Add returns v + u.
func (v *Vector) Add(u *Vector) (*Vector, error) {
	if v.Dim() != u.Dim() {
		return nil, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, v.Dim(), u.Dim())
	}
	r := NewZeroVector(v.Dim())
	for i := range v.Coeffs {
		r.Coeffs[i].Add(v.Coeffs[i], u.Coeffs[i])
	}
	return r, nil
}

// Sub returns v - u.
func (v *Vector) Sub(u *Vector) (*Vector, error) {
	if v.Dim() != u.Dim() {
		return nil, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, v.Dim(), u.Dim())
	}
	r := NewZeroVector(v.Dim())
	for i := range v.Coeffs {
		r.Coeffs[i].Sub(v.Coeffs[i], u.Coeffs[i])
	}
	return r, nil
}

// ScalarMul returns c * v.
func (v *Vector) ScalarMul(c *big.Int) *Vector {
	r := NewZeroVector(v.Dim())
	for i := range v.Coeffs {
		r.Coeffs[i].Mul(v.Coeffs[i], c)
	}
	return r
}

// Neg returns -v.
func (v *Vector) Neg() *Vector {
	r := NewZeroVector(v.Dim())
	for i := range v.Coeffs {
		r.Coeffs[i].Neg(v.Coeffs[i])
	}
	if v.norm != nil {
		r.norm = new(big.Int).Set(v.norm)
	}
	return r
}

// SubScaled sets v to v - q*w in place and invalidates the norm cache.
// This is the pairwise reduction primitive.
func (v *Vector) SubScaled(q *big.Int, w *Vector) error {
	if v.Dim() != w.Dim() {
		return fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, v.Dim(), w.Dim())
	}
	tmp := new(big.Int)
	for i := range v.Coeffs {
		v.Coeffs[i].Sub(v.Coeffs[i], tmp.Mul(q, w.Coeffs[i]))
	}
	v.norm = nil
	return nil
}

// Reduce attempts a single Gauss reduction of v against w: with
// q = round(<v,w>/<w,w>), it sets v to v - q*w when this strictly decreases
// the squared norm of v, and reports whether a reduction took place.
// The condition is equivalent to 2*|<v,w>| > <w,w>.
func (v *Vector) Reduce(w *Vector) (bool, error) {
	ip, err := v.Dot(w)
	if err != nil {
		return false, err
	}
	ip2 := new(big.Int).Lsh(ip, 1)
	if ip2.CmpAbs(w.Norm()) <= 0 {
		return false, nil
	}
	q := new(big.Int)
	bignum.DivRound(ip, w.Norm(), q)
	if err := v.SubScaled(q, w); err != nil {
		return false, err
	}
	return true, nil
}

// Equal reports exact coordinate-wise equality.
func (v *Vector) Equal(u *Vector) bool {
	if v.Dim() != u.Dim() {
		return false
	}
	for i := range v.Coeffs {
		if v.Coeffs[i].Cmp(u.Coeffs[i]) != 0 {
			return false
		}
	}
	return true
}

// EqualUpToSign reports whether u equals v or -v. Sign is not meaningful for
// SVP, so two such vectors are the same sieve entry.
func (v *Vector) EqualUpToSign(u *Vector) bool {
	if v.Equal(u) {
		return true
	}
	return v.Neg().Equal(u)
}

// Canonical returns the sign-canonical representative of {v, -v}: the one
// whose first nonzero coordinate is positive.
func (v *Vector) Canonical() *Vector {
	for i := range v.Coeffs {
		if s := v.Coeffs[i].Sign(); s != 0 {
			if s < 0 {
				return v.Neg()
			}
			break
		}
	}
	return v.Copy()
}

// Cmp compares v and u by lexicographic coordinate order. It is used as a
// deterministic tie-break when sorting vectors of equal norm.
func (v *Vector) Cmp(u *Vector) int {
	for i := range v.Coeffs {
		if c := v.Coeffs[i].Cmp(u.Coeffs[i]); c != 0 {
			return c
		}
	}
	return 0
}

func (v *Vector) String() string {
	s := make([]string, len(v.Coeffs))
	for i, c := range v.Coeffs {
		s[i] = c.String()
	}
	return "(" + strings.Join(s, ", ") + ")"
}
