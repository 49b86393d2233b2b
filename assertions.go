package tolerance

import (
	"fmt"
	"strings"
)

// TestingT is the subset of *testing.T the assertions need.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
	Logf(format string, args ...any)
}

// AssertionConfig contains the capability floors a design must meet.
type AssertionConfig struct {
	// Minimum RSS Cpk (1.33 ≈ 63 ppm out of spec)
	MinCpk float64

	// Minimum Monte Carlo yield in percent
	MinYieldPercent float64

	// Accept a marginal worst-case verdict as passing
	AllowMarginal bool
}

// DefaultAssertionConfig returns the usual production floors.
func DefaultAssertionConfig() AssertionConfig {
	return AssertionConfig{
		MinCpk:          1.33,  // Four-sigma capable
		MinYieldPercent: 99.73, // Equivalent of a centred 3σ process
		AllowMarginal:   false,
	}
}

// AssertWorstCasePass verifies the worst-case stack stays inside the limits
// with margin to spare.
//
// Property:
//
//	min(USL − max, min − LSL) > threshold
func AssertWorstCasePass(t TestingT, r WorstCaseResult, cfg AssertionConfig) {
	t.Helper()

	switch r.Verdict {
	case Pass:
	case Marginal:
		if !cfg.AllowMarginal {
			t.Errorf("Worst case marginal: margin = %.4f (range %.4f .. %.4f)\n"+
				"Tighten the dominant contributor or widen the target.", r.Margin, r.Min, r.Max)
			return
		}
	default:
		t.Errorf("Worst case fails: margin = %.4f (range %.4f .. %.4f)\n"+
			"At least one tolerance combination leaves the limits.", r.Margin, r.Min, r.Max)
		return
	}

	t.Logf("✓ Worst case %s: margin = %.4f", r.Verdict, r.Margin)
}

// AssertCpk verifies the RSS capability index meets the floor.
func AssertCpk(t TestingT, r RSSResult, cfg AssertionConfig) {
	t.Helper()

	if r.Cpk < cfg.MinCpk {
		t.Errorf("Cpk too low: %.3f (min: %.3f)\n"+
			"Predicted yield %.4f%%. Mean %.4f, ±3σ %.4f.",
			r.Cpk, cfg.MinCpk, r.YieldPercent, r.Mean, r.Sigma3)
		return
	}

	t.Logf("✓ Capable: Cpk = %.3f (threshold: %.3f)", r.Cpk, cfg.MinCpk)
}

// AssertYield verifies the simulated in-spec share meets the floor.
func AssertYield(t TestingT, r MonteCarloResult, cfg AssertionConfig) {
	t.Helper()

	if r.YieldPercent < cfg.MinYieldPercent {
		t.Errorf("Simulated yield too low: %.3f%% (min: %.3f%%)\n"+
			"95%% interval %.4f .. %.4f over %d iterations (seed %d).",
			r.YieldPercent, cfg.MinYieldPercent, r.P2_5, r.P97_5, r.Iterations, r.Seed)
		return
	}

	t.Logf("✓ Yield: %.3f%% over %d iterations", r.YieldPercent, r.Iterations)
}

// AssertFit verifies a mate's computed fit meets its designed intent.
func AssertFit(t TestingT, r FitResult, want MateType) {
	t.Helper()

	if !r.Satisfies(want) {
		t.Errorf("Fit is %s, designed as %s: clearance %.4f .. %.4f",
			r.Class, want, r.MinClearance, r.MaxClearance)
		return
	}

	t.Logf("✓ Fit %s satisfies %s", r.Class, want)
}

// AssertDesign runs every stackup assertion against one analysis.
func AssertDesign(t TestingT, r AnalysisResults, cfg AssertionConfig) {
	t.Helper()

	AssertWorstCasePass(t, r.WorstCase, cfg)
	AssertCpk(t, r.RSS, cfg)
	AssertYield(t, r.MonteCarlo, cfg)
}

// PrintAnalysis writes a readable breakdown of one analysis to the test log.
func PrintAnalysis(t TestingT, r AnalysisResults) {
	t.Helper()

	var b strings.Builder
	fmt.Fprintf(&b, "\n=== Stackup Analysis ===\n")
	fmt.Fprintf(&b, "Worst case:  %.4f .. %.4f  margin %.4f  [%s]\n",
		r.WorstCase.Min, r.WorstCase.Max, r.WorstCase.Margin, r.WorstCase.Verdict)
	fmt.Fprintf(&b, "RSS:         μ %.4f  ±3σ %.4f  Cpk %.3f  yield %.4f%%\n",
		r.RSS.Mean, r.RSS.Sigma3, r.RSS.Cpk, r.RSS.YieldPercent)
	fmt.Fprintf(&b, "Monte Carlo: μ %.4f  σ %.4f  95%% %.4f .. %.4f  yield %.3f%%  (n=%d, seed=%d)\n",
		r.MonteCarlo.Mean, r.MonteCarlo.StdDev, r.MonteCarlo.P2_5, r.MonteCarlo.P97_5,
		r.MonteCarlo.YieldPercent, r.MonteCarlo.Iterations, r.MonteCarlo.Seed)

	if len(r.Contributions) > 0 {
		fmt.Fprintf(&b, "\n  #   Contributor           Band      Band%%   Var%%\n")
		fmt.Fprintf(&b, "  --  --------------------  --------  ------  ------\n")
		for _, c := range r.Contributions {
			fmt.Fprintf(&b, "  %-2d  %-20s  %8.4f  %5.1f%%  %5.1f%%\n",
				c.Index, c.Name, c.Band, c.BandPercent, c.VariancePercent)
		}
	}

	t.Logf("%s", b.String())
}
