package lattice

import (
	"errors"
)

var (
	// ErrDimensionMismatch is returned when vectors of inconsistent length are
	// presented to an arithmetic or reduction operation.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrDegenerateBasis is returned when the orthogonalization encounters a
	// zero-norm orthogonal component, i.e. the supplied basis is linearly
	// dependent (or contains a zero vector) and is not a valid basis.
	ErrDegenerateBasis = errors.New("degenerate basis")

	// ErrSamplingStalled is returned when rejection sampling exceeds its retry
	// bound, which indicates a rejection parameter incompatible with the basis
	// geometry.
	ErrSamplingStalled = errors.New("rejection sampling stalled")
)
