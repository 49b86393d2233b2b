package tolerance

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

// MonteCarloResult summarises a simulated stack.
type MonteCarloResult struct {
	Iterations   int
	Seed         uint64 // Seed actually used; replay with Config.WithSeed
	Mean         float64
	StdDev       float64 // Population standard deviation
	Min          float64
	Max          float64
	YieldPercent float64 // Share of samples inside the inclusive limits
	P2_5         float64 // Lower bound of the 95% empirical interval
	P97_5        float64 // Upper bound of the 95% empirical interval
	Median       float64
	EmpiricalPpk float64
}

// MonteCarlo samples every contributor from its distribution for
// cfg.Iterations iterations and summarises the resulting stack values.
//
// Iterations are split into fixed chunks of cfg.ChunkSize. Chunk i draws from
// its own PCG stream keyed by (seed, i) and fills its own slice of the sample
// buffer, so with a fixed seed the result does not depend on cfg.Workers or on
// the order chunks finish. ctx is checked between chunks.
func MonteCarlo(ctx context.Context, s Stackup, cfg Config) (MonteCarloResult, error) {
	if err := cfg.validate(); err != nil {
		return MonteCarloResult{}, err
	}
	if err := s.Validate(); err != nil {
		return MonteCarloResult{}, err
	}
	if cfg.StrictSigma && s.totalVariance() == 0 {
		return MonteCarloResult{}, degenerateSigma(s)
	}
	return monteCarlo(ctx, s, cfg)
}

func monteCarlo(ctx context.Context, s Stackup, cfg Config) (MonteCarloResult, error) {
	n := cfg.iterations()
	chunk := cfg.chunkSize()

	var seed uint64
	if cfg.Seed != nil {
		seed = *cfg.Seed
	} else {
		seed = rand.Uint64()
	}

	samplers := newSamplers(s)
	values := make([]float64, n)

	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers())

	for idx, lo := 0, 0; lo < n; idx, lo = idx+1, lo+chunk {
		if gctx.Err() != nil {
			break
		}
		hi := min(lo+chunk, n)
		stream := uint64(idx)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fillChunk(values[lo:hi], samplers, rand.New(rand.NewPCG(seed, stream)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return MonteCarloResult{}, errors.Wrap(err, "monte carlo cancelled")
	}
	if err := ctx.Err(); err != nil {
		return MonteCarloResult{}, errors.Wrap(err, "monte carlo cancelled")
	}

	cfg.debug(ctx, "monte carlo sampled",
		"iterations", n,
		"chunks", (n+chunk-1)/chunk,
		"workers", cfg.workers(),
		"seed", seed,
		"elapsed", time.Since(start))

	set := NewSampleSet(values)
	mean, stdDev := set.MeanStdDev()

	return MonteCarloResult{
		Iterations:   n,
		Seed:         seed,
		Mean:         mean,
		StdDev:       stdDev,
		Min:          set.Min(),
		Max:          set.Max(),
		YieldPercent: 100 * float64(set.CountWithin(s.Target)) / float64(n),
		P2_5:         set.Percentile(0.025),
		P97_5:        set.Percentile(0.975),
		Median:       set.Median(),
		EmpiricalPpk: set.EmpiricalPpk(s.Target),
	}, nil
}

// fillChunk writes one stack sample per slot, drawing contributors in order.
func fillChunk(dst []float64, samplers []sampler, r *rand.Rand) {
	for i := range dst {
		var v float64
		for _, sm := range samplers {
			v += sm.draw(r)
		}
		dst[i] = v
	}
}
