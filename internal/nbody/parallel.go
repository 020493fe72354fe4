package nbody

import (
	"context"
	"sync"
)

const minChunk = 16

// parallelReduce splits [0, n) into contiguous chunks, runs fn on each in
// its own goroutine, and sums the returned partials in chunk order. The
// deterministic combine order means a fixed worker count reproduces
// bit-identical sums.
func parallelReduce(n, workers int, fn func(start, end int) float64) float64 {
	if workers <= 1 || n <= minChunk {
		return fn(0, n)
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers
	partials := make([]float64, workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		go func(idx, s, e int) {
			defer wg.Done()
			partials[idx] = fn(s, e)
		}(w, start, end)
	}

	wg.Wait()

	sum := 0.0
	for _, p := range partials {
		sum += p
	}
	return sum
}

// Ensemble runs several independent realizations of the same configuration
// in parallel, one seed per run. The provider supplies the initial state
// for a given seed.
type Ensemble struct {
	cfg       Config
	runs      int
	seedStart int64
	provider  func(seed int64) (pos, vel []Vec3)
}

func NewEnsemble(cfg Config, runs int, seedStart int64, provider func(seed int64) (pos, vel []Vec3)) *Ensemble {
	return &Ensemble{cfg: cfg, runs: runs, seedStart: seedStart, provider: provider}
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.runs)
	errs := make([]error, e.runs)

	var wg sync.WaitGroup
	for i := 0; i < e.runs; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sim, err := New(e.cfg)
			if err != nil {
				errs[idx] = err
				return
			}

			pos, vel := e.provider(e.seedStart + int64(idx))
			results[idx], errs[idx] = sim.Run(ctx, pos, vel)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
