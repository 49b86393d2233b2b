package tolerance

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// quantiler is the inverse CDF of a sampling distribution.
type quantiler interface {
	Quantile(p float64) float64
}

// sampler draws one contributor value in stack coordinates.
//
// Sampling is by inverse transform: a uniform variate from the chunk's own
// generator is mapped through the distribution's quantile function, so the
// only randomness is the explicit *rand.Rand passed to draw.
type sampler struct {
	sign    float64
	nominal float64
	dist    quantiler // nil for a zero-width band
}

func newSampler(c Contributor) sampler {
	s := sampler{
		sign:    c.Direction.Sign(),
		nominal: c.Nominal,
	}
	if c.Band() == 0 {
		return s
	}

	switch c.Distribution {
	case Normal:
		s.dist = distuv.Normal{Mu: c.Nominal, Sigma: c.Sigma()}
	case Uniform:
		s.dist = distuv.Uniform{Min: c.Lower(), Max: c.Upper()}
	case Triangular:
		s.dist = distuv.NewTriangle(c.Lower(), c.Upper(), c.Nominal, nil)
	}
	return s
}

func newSamplers(s Stackup) []sampler {
	out := make([]sampler, len(s.Contributors))
	for i, c := range s.Contributors {
		out[i] = newSampler(c)
	}
	return out
}

// draw returns a signed sample.
func (s sampler) draw(r *rand.Rand) float64 {
	if s.dist == nil {
		return s.sign * s.nominal
	}
	return s.sign * s.dist.Quantile(openUnit(r))
}

// openUnit returns a uniform variate in (0, 1); the normal quantile is
// infinite at both ends.
func openUnit(r *rand.Rand) float64 {
	return (float64(r.Uint64()>>11) + 0.5) / (1 << 53)
}
