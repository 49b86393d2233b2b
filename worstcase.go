package tolerance

import (
	"math"
)

// Verdict is the worst-case classification of a stackup.
type Verdict string

const (
	Pass     Verdict = "pass"     // Margin above the marginal threshold
	Marginal Verdict = "marginal" // 0 ≤ margin ≤ threshold
	Fail     Verdict = "fail"     // Worst case leaves the limits
)

// WorstCaseResult bounds the stack assuming every contributor sits at its
// extreme simultaneously.
type WorstCaseResult struct {
	Min     float64
	Max     float64
	Margin  float64 // min(USL − Max, Min − LSL)
	Verdict Verdict
}

// WorstCase sums contributor bounds and classifies the margin.
//
//	min    = Σ lower_i
//	max    = Σ upper_i
//	margin = min(USL − max, min − LSL)
//
// Verdict threshold is cfg.MarginalFraction × (USL − LSL); a zero fraction
// means DefaultMarginalFraction.
func WorstCase(s Stackup, cfg Config) (WorstCaseResult, error) {
	if err := cfg.validate(); err != nil {
		return WorstCaseResult{}, err
	}
	if err := s.Validate(); err != nil {
		return WorstCaseResult{}, err
	}
	return worstCase(s, cfg.marginalFraction()), nil
}

func worstCase(s Stackup, marginalFraction float64) WorstCaseResult {
	var lo, hi float64
	for _, c := range s.Contributors {
		cLo, cHi := c.Bounds()
		lo += cLo
		hi += cHi
	}

	margin := math.Min(s.Target.UpperLimit-hi, lo-s.Target.LowerLimit)
	threshold := marginalFraction * s.Target.Band()

	var verdict Verdict
	switch {
	case margin < 0:
		verdict = Fail
	case margin > threshold:
		verdict = Pass
	default:
		verdict = Marginal
	}

	return WorstCaseResult{
		Min:     lo,
		Max:     hi,
		Margin:  margin,
		Verdict: verdict,
	}
}
