// Package utils implements small generic helpers shared across the module.
package utils

import (
	"golang.org/x/exp/constraints"
)

// Min returns the minimum of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a <= b {
		return a
	}
	return b
}

// Max returns the maximum of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a >= b {
		return a
	}
	return b
}
