package bignum

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFloat(t *testing.T) {
	testFunc1("Log", 1.4142135623730951, math.Log, Log, 1e-15, t)
	testFunc1("Exp", 1.4142135623730951, math.Exp, Exp, 1e-15, t)
	testFunc2("Pow", 2, 1.4142135623730951, math.Pow, Pow, 1e-15, t)
}

func testFunc1(name string, x float64, f func(x float64) (y float64), g func(x *big.Float) (y *big.Float), delta float64, t *testing.T) {
	t.Run(name, func(t *testing.T) {
		y, _ := g(NewFloat(x, 53)).Float64()
		require.InDelta(t, f(x), y, delta)
	})
}

func testFunc2(name string, x, e float64, f func(x, e float64) (y float64), g func(x, e *big.Float) (y *big.Float), delta float64, t *testing.T) {
	t.Run(name, func(t *testing.T) {
		y, _ := g(NewFloat(x, 53), NewFloat(e, 53)).Float64()
		require.InDelta(t, f(x, e), y, delta)
	})
}

func TestRound(t *testing.T) {
	for _, tc := range []struct {
		x    float64
		want int64
	}{
		{0.4, 0}, {0.5, 1}, {0.6, 1},
		{-0.4, 0}, {-0.5, -1}, {-0.6, -1},
		{2.5, 3}, {-2.5, -3},
	} {
		require.Equal(t, tc.want, RoundToInt(NewFloat(tc.x, 53)).Int64(), "round(%v)", tc.x)
	}
}

func TestFloorCeil(t *testing.T) {
	for _, tc := range []struct {
		x           float64
		floor, ceil int64
	}{
		{1.5, 1, 2}, {-1.5, -2, -1}, {3.0, 3, 3}, {-3.0, -3, -3}, {0.0, 0, 0},
	} {
		f, _ := Floor(NewFloat(tc.x, 53)).Int64()
		c, _ := Ceil(NewFloat(tc.x, 53)).Int64()
		require.Equal(t, tc.floor, f, "floor(%v)", tc.x)
		require.Equal(t, tc.ceil, c, "ceil(%v)", tc.x)
	}
}

func TestDivRound(t *testing.T) {
	for _, tc := range []struct {
		a, b, want int64
	}{
		{7, 2, 4}, {-7, 2, -4}, {7, -2, -4},
		{6, 10, 1}, {5, 10, 1}, {4, 10, 0},
		{-6, 10, -1}, {-5, 10, -1}, {-4, 10, 0},
		{100, 3, 33}, {200, 3, 67},
	} {
		q := new(big.Int)
		DivRound(big.NewInt(tc.a), big.NewInt(tc.b), q)
		require.Equal(t, tc.want, q.Int64(), "round(%d/%d)", tc.a, tc.b)
	}
}
