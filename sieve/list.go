package sieve

import (
	"encoding/binary"
	"slices"

	"github.com/zeebo/blake3"

	"github.com/tacotaha/svp/lattice"
)

// handle is a stable index into the arena. The list and the stack hold
// handles rather than vectors, so unlinking a member from the list
// invalidates no other handle.
type handle int

type entry struct {
	vec    *lattice.Vector
	digest [32]byte // blake3 digest of the sign-canonical coordinates
	live   bool
}

// pool is an arena of vectors plus the two working collections of the Gauss
// Sieve: the pairwise-reduced list, kept sorted by ascending squared norm,
// and the stack of vectors awaiting (re-)insertion. A digest index over the
// list gives O(1) detection of duplicates up to sign.
type pool struct {
	arena []entry
	free  []handle
	list  []handle
	stack []handle
	index map[[32]byte]handle
}

func newPool() *pool {
	return &pool{index: make(map[[32]byte]handle)}
}

// digest hashes the sign-canonical coordinates, so that v and -v collide.
func digest(v *lattice.Vector) [32]byte {
	c := v.Canonical()
	var buf []byte
	var lenb [8]byte
	for _, x := range c.Coeffs {
		sign := byte(x.Sign() + 1)
		b := x.Bytes()
		binary.LittleEndian.PutUint64(lenb[:], uint64(len(b)))
		buf = append(buf, sign)
		buf = append(buf, lenb[:]...)
		buf = append(buf, b...)
	}
	return blake3.Sum256(buf)
}

// alloc places v in the arena and returns its handle.
func (p *pool) alloc(v *lattice.Vector) handle {
	if n := len(p.free); n > 0 {
		h := p.free[n-1]
		p.free = p.free[:n-1]
		p.arena[h] = entry{vec: v, live: true}
		return h
	}
	p.arena = append(p.arena, entry{vec: v, live: true})
	return handle(len(p.arena) - 1)
}

// release returns a handle to the free list once the vector is dropped for
// good (reduced to zero or superseded by a duplicate).
func (p *pool) release(h handle) {
	p.arena[h].live = false
	p.free = append(p.free, h)
}

func (p *pool) vec(h handle) *lattice.Vector {
	return p.arena[h].vec
}

// push places a vector on the work stack.
func (p *pool) push(h handle) {
	p.stack = append(p.stack, h)
}

// pop removes and returns the top of the work stack.
func (p *pool) pop() (handle, bool) {
	n := len(p.stack)
	if n == 0 {
		return 0, false
	}
	h := p.stack[n-1]
	p.stack = p.stack[:n-1]
	return h, true
}

// contains reports whether the list already holds v up to sign.
func (p *pool) contains(v *lattice.Vector) bool {
	h, ok := p.index[digest(v)]
	if !ok {
		return false
	}
	return p.vec(h).EqualUpToSign(v)
}

// insert links h into the list, keeping it sorted by ascending squared norm,
// and records its digest.
func (p *pool) insert(h handle) {
	v := p.vec(h)
	pos, _ := slices.BinarySearchFunc(p.list, h, func(a, _ handle) int {
		return p.vec(a).Norm().Cmp(v.Norm())
	})
	p.list = slices.Insert(p.list, pos, h)
	d := digest(v)
	p.arena[h].digest = d
	p.index[d] = h
}

// unlink removes the i-th list member and its digest index entry. The handle
// stays allocated; the caller decides whether to restack or release it.
func (p *pool) unlink(i int) handle {
	h := p.list[i]
	delete(p.index, p.arena[h].digest)
	p.list = slices.Delete(p.list, i, i+1)
	return h
}
