// Package sieve implements the Gauss Sieve of Micciancio and Voulgaris
// (MV10): a list-reduction algorithm that maintains a pairwise-reduced list
// of lattice vectors fed by a discrete Gaussian sampler and converges toward
// a shortest nonzero lattice vector.
package sieve

import (
	"context"
	"fmt"
	"math/big"
	"slices"

	"github.com/tacotaha/svp/lattice"
	"github.com/tacotaha/svp/sampler"
	"github.com/tacotaha/svp/utils"
	"github.com/tacotaha/svp/utils/sampling"
)

const (
	// DefaultTerminationRatio and DefaultTerminationFloor define the default
	// termination threshold: the sieve stops once the collision count exceeds
	// Ratio * maxListLen + Floor. Larger values trade runtime for confidence
	// that the shortest vector found is near-optimal.
	DefaultTerminationRatio = 0.1
	DefaultTerminationFloor = 200
)

// Params configures a sieve run. The zero value selects the defaults
// documented on each field.
type Params struct {
	// T is the rejection parameter forwarded to the sampler.
	// Defaults to ln(n).
	T *big.Float

	// Center is the sampling target, forwarded to the sampler.
	// Defaults to the origin.
	Center []*big.Float

	// Prec is the working precision in bits of the orthogonalization and the
	// sampler. Defaults to lattice.DefaultPrecision.
	Prec uint

	// Seed keys the PRNG streams. With a single sampler worker a seeded run
	// is fully deterministic. Nil selects a non-reproducible crypto/rand
	// source.
	Seed []byte

	// TerminationRatio and TerminationFloor override the termination
	// threshold. Zero values select the defaults.
	TerminationRatio float64
	TerminationFloor int

	// MaxRejections is forwarded to the sampler.
	MaxRejections int

	// SamplerWorkers is the number of concurrent sampler goroutines feeding
	// the sieve. Defaults to 1, the fully deterministic configuration; with
	// more workers the reduction loop stays serialized but the drain order
	// of the sample queue races.
	SamplerWorkers int
}

// Result is the outcome of a completed sieve run.
type Result struct {
	// Vectors is the final pairwise-reduced list, sorted by ascending squared
	// norm with lexicographic tie-break. The first element is the best
	// estimate of a shortest nonzero lattice vector.
	Vectors []*lattice.Vector

	// Collisions counts reduction outcomes that produced the zero vector or a
	// duplicate of a list member.
	Collisions int

	// Iterations counts sieve iterations (one vector processed per iteration).
	Iterations int

	// MaxListLen is the peak size of the reduced list.
	MaxListLen int
}

// GaussSieve runs the MV10 algorithm over a lattice.
type GaussSieve struct {
	lat    *lattice.Lattice
	gso    *lattice.GSO
	params Params
	pool   *pool

	collisions int
	iterations int
	maxListLen int
}

// New validates the parameters, orthogonalizes the basis and returns a sieve
// ready to run.
func New(l *lattice.Lattice, params Params) (*GaussSieve, error) {

	if params.SamplerWorkers < 0 {
		return nil, fmt.Errorf("SamplerWorkers must be >= 0, got %d", params.SamplerWorkers)
	}
	if params.SamplerWorkers == 0 {
		params.SamplerWorkers = 1
	}
	if params.TerminationRatio == 0 {
		params.TerminationRatio = DefaultTerminationRatio
	}
	if params.TerminationFloor == 0 {
		params.TerminationFloor = DefaultTerminationFloor
	}
	if params.Prec == 0 {
		params.Prec = lattice.DefaultPrecision(l)
	}

	gso, err := lattice.GramSchmidt(l, params.Prec)
	if err != nil {
		return nil, err
	}

	return &GaussSieve{
		lat:    l,
		gso:    gso,
		params: params,
		pool:   newPool(),
	}, nil
}

// Collisions returns the current collision count. It is monotonically
// non-decreasing over a run.
func (g *GaussSieve) Collisions() int {
	return g.collisions
}

func (g *GaussSieve) newSampler(workerID int) (*sampler.KleinSampler, error) {
	var prng sampling.PRNG
	var err error
	if g.params.Seed == nil {
		prng, err = sampling.NewPRNG()
	} else {
		// Each worker derives its own stream from the seed.
		key := append(slices.Clone(g.params.Seed), byte(workerID))
		prng, err = sampling.NewKeyedPRNG(key)
	}
	if err != nil {
		return nil, err
	}
	return sampler.NewKleinSampler(g.lat, g.gso, prng, sampler.Params{
		T:             g.params.T,
		Center:        g.params.Center,
		Prec:          g.params.Prec,
		MaxRejections: g.params.MaxRejections,
	})
}

// Run executes the sieve until the termination threshold is met or ctx is
// cancelled. Cancellation is only observed between iterations. On success the
// result holds the reduced list sorted by ascending squared norm.
// A GaussSieve is good for a single run; allocate a new one per run.
func (g *GaussSieve) Run(ctx context.Context) (*Result, error) {

	next, shutdown, err := g.startSamplers(ctx)
	if err != nil {
		return nil, err
	}
	defer shutdown()

	// Seed the stack with the basis itself: the sieve then inspects the
	// input vectors before any sampling and can never end up worse than the
	// shortest basis vector.
	for _, b := range g.lat.Basis() {
		g.pool.push(g.pool.alloc(b.Copy()))
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		h, ok := g.pool.pop()
		if !ok {
			v, err := next()
			if err != nil {
				return nil, err
			}
			if v.Dim() != g.lat.Dim() {
				return nil, fmt.Errorf("%w: sampled vector has dimension %d, want %d", lattice.ErrDimensionMismatch, v.Dim(), g.lat.Dim())
			}
			h = g.pool.alloc(v)
		}

		g.iterations++

		if err := g.process(h); err != nil {
			return nil, err
		}

		g.maxListLen = utils.Max(g.maxListLen, len(g.pool.list))

		if float64(g.collisions) > g.params.TerminationRatio*float64(g.maxListLen)+float64(g.params.TerminationFloor) {
			return g.result(), nil
		}
	}
}

// process runs one vector through steps 2-5 of the sieve iteration: reduce v
// against the list, handle collisions, reduce the list against v, insert.
func (g *GaussSieve) process(h handle) error {

	v := g.pool.vec(h)

	if err := g.reduceVector(v); err != nil {
		return err
	}

	// Reduced to zero: v was a lattice combination of list members.
	if v.IsZero() {
		g.collisions++
		g.pool.release(h)
		return nil
	}

	if err := g.reduceList(v); err != nil {
		return err
	}

	// Duplicate up to sign of a surviving member counts as a collision too.
	if g.pool.contains(v) {
		g.collisions++
		g.pool.release(h)
		return nil
	}

	g.pool.insert(h)
	return nil
}

// reduceVector reduces v against the list to a fixed point. The list is
// sorted by ascending norm, so the scan stops at the first member whose norm
// exceeds that of v: a longer member w could only shorten v if v also
// shortens w, which reduceList handles after insertion. Each successful
// reduction shrinks v and restarts the scan.
func (g *GaussSieve) reduceVector(v *lattice.Vector) error {
	reduced := true
	for reduced && !v.IsZero() {
		reduced = false
		for _, h := range g.pool.list {
			w := g.pool.vec(h)
			if w.Norm().Cmp(v.Norm()) > 0 {
				break
			}
			r, err := v.Reduce(w)
			if err != nil {
				return err
			}
			if r {
				reduced = true
				break
			}
		}
	}
	return nil
}

// reduceList reduces the list members against v. Any member that shortens is
// unlinked and pushed back on the stack for reprocessing against the updated
// list.
func (g *GaussSieve) reduceList(v *lattice.Vector) error {
	for i := 0; i < len(g.pool.list); {
		w := g.pool.vec(g.pool.list[i])
		r, err := w.Reduce(v)
		if err != nil {
			return err
		}
		if r {
			g.pool.push(g.pool.unlink(i))
			continue
		}
		i++
	}
	return nil
}

// result snapshots the list, sorted by ascending squared norm with
// lexicographic tie-break so the output is stable for a given run.
func (g *GaussSieve) result() *Result {
	vecs := make([]*lattice.Vector, 0, len(g.pool.list))
	for _, h := range g.pool.list {
		vecs = append(vecs, g.pool.vec(h).Copy())
	}
	slices.SortFunc(vecs, func(a, b *lattice.Vector) int {
		if c := a.Norm().Cmp(b.Norm()); c != 0 {
			return c
		}
		return a.Cmp(b)
	})
	return &Result{
		Vectors:    vecs,
		Collisions: g.collisions,
		Iterations: g.iterations,
		MaxListLen: g.maxListLen,
	}
}
