// Package sampling implements the randomness sources used by the samplers:
// a crypto/rand backed PRNG and a deterministic keyed PRNG for reproducible
// runs.
package sampling

import (
	"crypto/rand"
	"io"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// PRNG is an interface for the generation of random bytes.
type PRNG interface {
	io.Reader
}

// ThreadSafePRNG is a PRNG backed by crypto/rand. It is safe for concurrent
// use but its stream is not reproducible.
type ThreadSafePRNG struct {
}

// NewPRNG returns a new PRNG that is thread-safe.
func NewPRNG() (*ThreadSafePRNG, error) {
	return &ThreadSafePRNG{}, nil
}

// Read reads random bytes into sum.
func (prng *ThreadSafePRNG) Read(sum []byte) (n int, err error) {
	return rand.Read(sum)
}

// KeyedPRNG deterministically generates a sequence of random bytes from a key
// using the blake2b hash function in XOF mode. Two KeyedPRNG instantiated with
// the same key produce the same stream, which is what makes seeded sieve runs
// reproducible.
//
// WARNING: a KeyedPRNG must not be shared between goroutines; the resulting
// interleaving would not be deterministic for a given key. Use one instance
// per sampler, each with its own key.
type KeyedPRNG struct {
	mutex sync.Mutex
	key   []byte
	xof   blake2b.XOF
}

// NewKeyedPRNG creates a new instance of KeyedPRNG.
// Accepts an optional key, else set key=nil which is treated as key=[]byte{}.
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	var err error
	prng := new(KeyedPRNG)
	prng.key = make([]byte, len(key))
	copy(prng.key, key)
	prng.xof, err = blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
	return prng, err
}

// Key returns a copy of the key used to seed the PRNG.
// This value can be used with NewKeyedPRNG to instantiate
// a new PRNG that will produce the same stream of bytes.
func (prng *KeyedPRNG) Key() (key []byte) {
	key = make([]byte, len(prng.key))
	copy(key, prng.key)
	return
}

// Read reads bytes from the KeyedPRNG into sum.
func (prng *KeyedPRNG) Read(sum []byte) (n int, err error) {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	return prng.xof.Read(sum)
}

// Reset resets the PRNG to its initial state.
func (prng *KeyedPRNG) Reset() {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	prng.xof.Reset()
}
