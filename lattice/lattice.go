package lattice

import (
	"fmt"

	"github.com/tacotaha/svp/utils"
)

// Lattice is an integer lattice generated by a full rank square basis.
// It is immutable after construction except for norm caching.
type Lattice struct {
	basis []*Vector
}

// NewLattice validates the basis and returns the lattice it generates.
// The basis must be square (as many vectors as coordinates per vector) with
// all vectors of equal dimension, and must not contain the zero vector.
// Linear independence is not verified here; it surfaces as
// ErrDegenerateBasis during orthogonalization.
func NewLattice(basis []*Vector) (*Lattice, error) {
	n := len(basis)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty basis", ErrDegenerateBasis)
	}
	for i, b := range basis {
		if b.Dim() != n {
			return nil, fmt.Errorf("%w: basis vector %d has dimension %d, want %d", ErrDimensionMismatch, i, b.Dim(), n)
		}
		if b.IsZero() {
			return nil, fmt.Errorf("%w: basis vector %d is zero", ErrDegenerateBasis, i)
		}
	}
	l := &Lattice{basis: make([]*Vector, n)}
	for i, b := range basis {
		l.basis[i] = b.Copy()
	}
	return l, nil
}

// Dim returns the lattice dimension.
func (l *Lattice) Dim() int {
	return len(l.basis)
}

// Basis returns the basis vectors. Callers must treat them as read-only.
func (l *Lattice) Basis() []*Vector {
	return l.basis
}

// MaxEntryBitLen returns the bit length of the largest basis coordinate in
// absolute value. It drives the default working precision of the
// orthogonalization.
func (l *Lattice) MaxEntryBitLen() int {
	max := 0
	for _, b := range l.basis {
		for _, c := range b.Coeffs {
			max = utils.Max(max, c.BitLen())
		}
	}
	return max
}
