package tolerance

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// SampleSet is a sorted set of simulated stack values.
//
// In a Gaussian stack the percentile spread P99.865 − P0.135 is ≈ 6σ and the
// median sits on the mean. Skewed contributors (uniform chains, triangular
// parts with one-sided tolerances) pull the tails apart, which is why the
// percentile method is reported alongside the moment-based figures.
type SampleSet struct {
	sorted []float64
}

// NewSampleSet takes ownership of values and sorts them in place.
func NewSampleSet(values []float64) *SampleSet {
	slices.Sort(values)
	return &SampleSet{sorted: values}
}

// Len returns the number of samples.
func (s *SampleSet) Len() int { return len(s.sorted) }

// Min returns the smallest sample (0 when empty).
func (s *SampleSet) Min() float64 {
	if len(s.sorted) == 0 {
		return 0
	}
	return s.sorted[0]
}

// Max returns the largest sample (0 when empty).
func (s *SampleSet) Max() float64 {
	if len(s.sorted) == 0 {
		return 0
	}
	return s.sorted[len(s.sorted)-1]
}

// MeanStdDev returns the mean and the population (biased, 1/n) standard
// deviation.
func (s *SampleSet) MeanStdDev() (mean, stdDev float64) {
	if len(s.sorted) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(s.sorted, nil)
}

// Percentile returns the order statistic at index ⌊n·p⌋ (0 ≤ p ≤ 1),
// clamped to the last sample. With n = 10 000, P2.5 is sorted[250].
func (s *SampleSet) Percentile(p float64) float64 {
	n := len(s.sorted)
	if n == 0 {
		return 0
	}
	p = math.Max(0, math.Min(1, p))
	return s.sorted[min(int(p*float64(n)), n-1)]
}

// Median returns the 50th percentile.
func (s *SampleSet) Median() float64 {
	return s.Percentile(0.5)
}

// CountWithin returns how many samples fall inside the target's inclusive
// limits.
func (s *SampleSet) CountWithin(t Target) int {
	lo, _ := slices.BinarySearch(s.sorted, t.LowerLimit)
	hi, found := slices.BinarySearch(s.sorted, t.UpperLimit)
	for found && hi < len(s.sorted) && s.sorted[hi] == t.UpperLimit {
		hi++
	}
	return hi - lo
}

// Tail percentiles equivalent to ±3σ of a normal distribution.
const (
	lowerTailP = 0.00135
	upperTailP = 0.99865
)

// EmpiricalPpk is the percentile-method capability index:
//
//	Ppk = min((USL − median) / (P99.865 − median), (median − LSL) / (median − P0.135))
//
// It needs no normality assumption. A side with zero spread saturates like
// Cpk does.
func (s *SampleSet) EmpiricalPpk(t Target) float64 {
	median := s.Median()
	upper, _ := capability(t.UpperLimit-median, s.Percentile(upperTailP)-median)
	lower, _ := capability(median-t.LowerLimit, median-s.Percentile(lowerTailP))
	return math.Min(upper, lower)
}
