package sieve

import (
	"context"
	"sync"

	"github.com/tacotaha/svp/lattice"
)

type sampleMsg struct {
	v   *lattice.Vector
	err error
}

// startSamplers wires the sampling side of the sieve and returns a next
// function producing one fresh sample per call, plus a shutdown function.
//
// With a single worker the sampler is called inline, which keeps a seeded
// run fully deterministic. With more workers, independent samplers (each on
// its own PRNG stream) feed a bounded queue and next drains it; the
// reduction loop remains serialized in the caller.
func (g *GaussSieve) startSamplers(ctx context.Context) (next func() (*lattice.Vector, error), shutdown func(), err error) {

	workers := g.params.SamplerWorkers

	if workers == 1 {
		smp, err := g.newSampler(0)
		if err != nil {
			return nil, nil, err
		}
		return smp.Sample, func() {}, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan sampleMsg, workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		smp, err := g.newSampler(w)
		if err != nil {
			cancel()
			return nil, nil, err
		}
		go func() {
			defer wg.Done()
			for {
				v, err := smp.Sample()
				select {
				case ch <- sampleMsg{v: v, err: err}:
					if err != nil {
						// Fatal for the whole run; stop producing.
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	next = func() (*lattice.Vector, error) {
		select {
		case m := <-ch:
			return m.v, m.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	shutdown = func() {
		cancel()
		wg.Wait()
	}

	return next, shutdown, nil
}
