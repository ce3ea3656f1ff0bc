package sampling

import (
	"encoding/binary"
)

// RandUint64 reads a uniform uint64 from the given PRNG stream.
func RandUint64(prng PRNG) uint64 {
	b := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	if _, err := prng.Read(b); err != nil {
		panic(err)
	}
	return binary.LittleEndian.Uint64(b)
}

// RandFloat64 reads a uniform float between min and max from the given PRNG
// stream.
func RandFloat64(prng PRNG, min, max float64) float64 {
	f := float64(RandUint64(prng)) / 1.8446744073709552e+19
	return min + f*(max-min)
}
