package tolerance

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// SaturatedCpk is reported instead of ±Inf when the stack has zero variance.
const SaturatedCpk = 1e6

// RSSResult is the root-sum-square statistical estimate of the stack.
type RSSResult struct {
	Mean         float64
	Sigma3       float64 // 3 × combined standard deviation
	Margin       float64 // Margin to the nearer limit at ±3σ
	Cpk          float64
	YieldPercent float64
	Saturated    bool // Cpk saturated because Sigma3 is zero
}

// RSS propagates contributor variance assuming independent 3σ processes.
//
//	μ     = Σ sign_i · nominal_i
//	σ_i   = (plus_i + minus_i) / 6
//	3σ    = 3 · √(Σ σ_i²)
//	Cpk   = min(USL − μ, μ − LSL) / 3σ
//	yield = 2·Φ(3·Cpk) − 1
//
// Zero variance saturates Cpk at ±SaturatedCpk, or returns
// ErrDegenerateSigma when cfg.StrictSigma is set.
func RSS(s Stackup, cfg Config) (RSSResult, error) {
	if err := cfg.validate(); err != nil {
		return RSSResult{}, err
	}
	if err := s.Validate(); err != nil {
		return RSSResult{}, err
	}
	if cfg.StrictSigma && s.totalVariance() == 0 {
		return RSSResult{}, degenerateSigma(s)
	}
	return rss(s), nil
}

func rss(s Stackup) RSSResult {
	var mean float64
	for _, c := range s.Contributors {
		mean += c.SignedNominal()
	}

	sigma3 := 3 * math.Sqrt(s.totalVariance())
	nearest := math.Min(s.Target.UpperLimit-mean, mean-s.Target.LowerLimit)

	cpk, saturated := capability(nearest, sigma3)

	return RSSResult{
		Mean:         mean,
		Sigma3:       sigma3,
		Margin:       math.Min(s.Target.UpperLimit-(mean+sigma3), (mean-sigma3)-s.Target.LowerLimit),
		Cpk:          cpk,
		YieldPercent: yieldFromCpk(cpk),
		Saturated:    saturated,
	}
}

// capability divides margin by spread, saturating when spread is zero.
func capability(margin, spread float64) (float64, bool) {
	if spread > 0 {
		return margin / spread, false
	}
	switch {
	case margin > 0:
		return SaturatedCpk, true
	case margin < 0:
		return -SaturatedCpk, true
	default:
		return 0, true
	}
}

// yieldFromCpk returns the two-sided in-spec percentage for a centred normal
// process with the given Cpk, clamped to [0, 100].
func yieldFromCpk(cpk float64) float64 {
	y := 100 * (2*distuv.UnitNormal.CDF(3*cpk) - 1)
	return math.Max(0, math.Min(100, y))
}
