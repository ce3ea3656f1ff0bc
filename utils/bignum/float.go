// Package bignum provides arbitrary precision arithmetic helpers on top of
// math/big. Working precision is always an explicit parameter of the caller,
// never package-level state.
package bignum

import (
	"fmt"
	"math/big"

	"github.com/ALTree/bigfloat"
)

const pi = "3.1415926535897932384626433832795028841971693993751058209749445923078164062862089986280348253421170679821480865132823066470938446095505822317253594081284811174502841027019385211055596446229489549303819644288109756659334461284756482337867831652712019091456485669234603486104543266482133936072602491412737245870066063155881748815209209628292540917153643678925903600113305305488204665213841469519415116094330572703657595919530921861173819326117931051185480744623799627495673518857527248912279381830119491298336733624406566430860213949463952247371907021798609437027705392171762931767523846748184676694051320005681271452635608277857713427577896091736371787214684409012249534301465495853710507922796892589235420199561121290219608640344181598136297747713099605187072113499999983729780499510597317328160963185950244594553469083026425223082533446850352619311881710100031378387528865875332083814206171776691473035982534904287554687311595628638823537875937519577818577805321712268066130019278766111959092164201989"

// Pi returns Pi with prec bits of precision.
func Pi(prec uint) *big.Float {
	pi, _ := new(big.Float).SetPrec(prec).SetString(pi)
	return pi
}

// NewFloat creates a new big.Float element with "prec" bits of precision.
// Valid types for x are: int, int64, uint, uint64, float64, *big.Int or *big.Float.
func NewFloat(x interface{}, prec uint) (y *big.Float) {

	y = new(big.Float)
	y.SetPrec(prec)

	if x == nil {
		return
	}

	switch x := x.(type) {
	case int:
		y.SetInt64(int64(x))
	case int64:
		y.SetInt64(x)
	case uint:
		y.SetUint64(uint64(x))
	case uint64:
		y.SetUint64(x)
	case float64:
		y.SetFloat64(x)
	case *big.Int:
		y.SetInt(x)
	case *big.Float:
		y.Set(x)
	default:
		panic(fmt.Errorf("invalid x.(type): valid types are int, int64, uint, uint64, float64, *big.Int or *big.Float but is %T", x))
	}

	return
}

// Round returns round(x), with halves rounded away from zero.
func Round(x *big.Float) (r *big.Float) {
	r = new(big.Float).Set(x)
	if r.Cmp(new(big.Float)) >= 0 {
		r.Add(r, new(big.Float).SetFloat64(0.5))
	} else {
		r.Sub(r, new(big.Float).SetFloat64(0.5))
	}

	tmp := new(big.Int)
	r.Int(tmp)
	r.SetInt(tmp)
	return
}

// RoundToInt returns round(x) as a *big.Int, with halves rounded away from zero.
func RoundToInt(x *big.Float) (r *big.Int) {
	r = new(big.Int)
	Round(x).Int(r)
	return
}

// Floor returns the largest integer value <= x.
func Floor(x *big.Float) (r *big.Float) {
	r = new(big.Float).Set(x)
	tmp := new(big.Int)
	r.Int(tmp)
	r.SetInt(tmp)
	if x.Sign() < 0 && x.Cmp(r) != 0 {
		r.Sub(r, new(big.Float).SetInt64(1))
	}
	return
}

// Ceil returns the smallest integer value >= x.
func Ceil(x *big.Float) (r *big.Float) {
	r = new(big.Float).Set(x)
	tmp := new(big.Int)
	r.Int(tmp)
	r.SetInt(tmp)
	if x.Sign() > 0 && x.Cmp(r) != 0 {
		r.Add(r, new(big.Float).SetInt64(1))
	}
	return
}

// Log returns ln(x) at the precision of x.
func Log(x *big.Float) (ln *big.Float) {
	return bigfloat.Log(x)
}

// Exp returns exp(x) at the precision of x.
func Exp(x *big.Float) (exp *big.Float) {
	return bigfloat.Exp(x)
}

// Pow returns x^y.
func Pow(x, y *big.Float) (pow *big.Float) {
	return bigfloat.Pow(x, y)
}
