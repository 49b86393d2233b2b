package tolerance

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"time"

	"github.com/cockroachdb/errors"
)

// Config controls stackup analysis.
type Config struct {
	Iterations       int     // Monte Carlo iterations (0 = 10 000)
	Seed             *uint64 // Monte Carlo seed (nil = draw a fresh one)
	MarginalFraction float64 // Worst-case margin threshold as a fraction of the target band (0 = 0.10)
	Workers          int     // Monte Carlo goroutines (0 = GOMAXPROCS)
	ChunkSize        int     // Iterations per sampling chunk (0 = 2048)
	StrictSigma      bool    // Reject zero total variance instead of saturating Cpk
	Logger           *slog.Logger
}

const (
	DefaultIterations       = 10_000
	DefaultMarginalFraction = 0.10
	DefaultChunkSize        = 2048
)

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Iterations:       DefaultIterations,
		MarginalFraction: DefaultMarginalFraction,
		Workers:          0,
		ChunkSize:        DefaultChunkSize,
	}
}

// WithSeed returns a copy of cfg with a fixed Monte Carlo seed.
func (c Config) WithSeed(seed uint64) Config {
	c.Seed = &seed
	return c
}

// validate rejects out-of-range parameters.
func (c Config) validate() error {
	if math.IsNaN(c.MarginalFraction) || c.MarginalFraction < 0 || c.MarginalFraction >= 1 {
		return fieldError(ErrInvalidConfig, "marginal_fraction",
			"marginal fraction %v outside [0, 1)", c.MarginalFraction)
	}
	if c.Iterations < 0 {
		return fieldError(ErrInvalidConfig, "iterations", "iterations %d is negative", c.Iterations)
	}
	if c.Workers < 0 {
		return fieldError(ErrInvalidConfig, "workers", "workers %d is negative", c.Workers)
	}
	if c.ChunkSize < 0 {
		return fieldError(ErrInvalidConfig, "chunk_size", "chunk size %d is negative", c.ChunkSize)
	}
	return nil
}

func (c Config) iterations() int {
	if c.Iterations == 0 {
		return DefaultIterations
	}
	return c.Iterations
}

func (c Config) marginalFraction() float64 {
	if c.MarginalFraction == 0 {
		return DefaultMarginalFraction
	}
	return c.MarginalFraction
}

func (c Config) chunkSize() int {
	if c.ChunkSize == 0 {
		return DefaultChunkSize
	}
	return c.ChunkSize
}

func (c Config) workers() int {
	if c.Workers == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Workers
}

func (c Config) debug(ctx context.Context, msg string, args ...any) {
	if c.Logger != nil {
		c.Logger.DebugContext(ctx, msg, args...)
	}
}

// AnalysisResults bundles the independent results of one stackup analysis.
type AnalysisResults struct {
	WorstCase     WorstCaseResult
	RSS           RSSResult
	MonteCarlo    MonteCarloResult
	Contributions []Contribution
}

// Analyze validates the stackup and configuration once, then runs every
// method. A validation failure rejects the whole request; there are no
// partial results.
func Analyze(ctx context.Context, s Stackup, cfg Config) (AnalysisResults, error) {
	if err := cfg.validate(); err != nil {
		return AnalysisResults{}, err
	}
	if err := s.Validate(); err != nil {
		return AnalysisResults{}, err
	}
	if cfg.StrictSigma && s.totalVariance() == 0 {
		return AnalysisResults{}, degenerateSigma(s)
	}

	start := time.Now()
	cfg.debug(ctx, "analyzing stackup",
		"target", s.Target.Name,
		"contributors", len(s.Contributors),
		"iterations", cfg.iterations())

	mc, err := monteCarlo(ctx, s, cfg)
	if err != nil {
		return AnalysisResults{}, errors.Wrapf(err, "stackup %q", s.Target.Name)
	}

	results := AnalysisResults{
		WorstCase:     worstCase(s, cfg.marginalFraction()),
		RSS:           rss(s),
		MonteCarlo:    mc,
		Contributions: contributions(s),
	}

	cfg.debug(ctx, "stackup analyzed",
		"target", s.Target.Name,
		"verdict", results.WorstCase.Verdict,
		"cpk", results.RSS.Cpk,
		"mc_yield", mc.YieldPercent,
		"elapsed", time.Since(start))

	return results, nil
}

func degenerateSigma(s Stackup) error {
	return errors.WithHint(
		fieldError(ErrDegenerateSigma, "contributors",
			"stackup %q: every contributor has zero tolerance", s.Target.Name),
		"add tolerances or disable strict sigma handling")
}
