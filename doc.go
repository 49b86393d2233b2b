// Package tolerance analyses dimensional fits and tolerance stackups.
//
// # Overview
//
// tolerance answers one question for a mechanical design: do the parts, made
// anywhere inside their drawing tolerances, still assemble and function? It
// works on plain values supplied by the caller and never touches files,
// networks or global state.
//
// # Architecture
//
// The package components:
//
//   - dimension    - Nominal value, asymmetric tolerances, distribution tag
//   - fit          - Hole/shaft clearance bounds and fit classification
//   - worstcase    - Sum of contributor extremes against the target limits
//   - rss          - Root-sum-square variance propagation, Cpk and yield
//   - montecarlo   - Seeded, chunk-parallel sampling of the stack
//   - samples      - Sorted sample set: moments, percentiles, empirical Ppk
//   - contributions - Per-contributor share of band and variance
//   - analysis     - Validation and the combined AnalysisResults
//   - assertions   - Test helpers for design-verification suites
//
// # Quick Start
//
// Classify a pin in a hole:
//
//	hole := tolerance.Dimension{Nominal: 10.0, PlusTol: 0.1, MinusTol: 0.05, Internal: true}
//	pin := tolerance.Dimension{Nominal: 9.95, PlusTol: 0.02, MinusTol: 0.02}
//
//	fit, err := tolerance.ComputeFit(hole, pin)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s: %.3f .. %.3f\n", fit.Class, fit.MinClearance, fit.MaxClearance)
//
// Analyse a gap:
//
//	s := tolerance.Stackup{
//	    Target: tolerance.Target{Name: "gap", Nominal: 1.0, UpperLimit: 1.5, LowerLimit: 0.5},
//	    Contributors: []tolerance.Contributor{
//	        {Name: "housing", Dimension: tolerance.Dimension{Nominal: 10, PlusTol: 0.1, MinusTol: 0.1}},
//	        {Name: "shaft", Direction: tolerance.Negative, Dimension: tolerance.Dimension{Nominal: 9, PlusTol: 0.1, MinusTol: 0.1}},
//	    },
//	}
//
//	results, err := tolerance.Analyze(ctx, s, tolerance.DefaultConfig().WithSeed(42))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(results.WorstCase.Verdict) // pass
//
// # The Three Methods
//
// Worst-case assumes every contributor sits at its extreme at once:
//
//	min = Σ lower_i    max = Σ upper_i
//
// RSS assumes independent, centred, 3σ processes:
//
//	σ_i = (plus_i + minus_i) / 6
//	σ   = √(Σ σ_i²)
//	Cpk = min(USL − μ, μ − LSL) / 3σ
//	yield = 2·Φ(3·Cpk) − 1
//
// Monte Carlo samples every contributor from its own distribution and reports
// the empirical spread, yield and 95% interval. With a seed the result is
// bit-identical no matter how many workers ran the chunks.
//
// # Interpretation
//
// Verdicts from the worst-case method:
//   - pass:     margin > 10% of the target band (configurable)
//   - marginal: 0 ≤ margin ≤ threshold
//   - fail:     margin < 0
//
// Cpk rules of thumb:
//   - Cpk < 1.00: more than 0.27% out of spec
//   - Cpk ≥ 1.33: ~63 ppm, the usual production floor
//   - Cpk ≥ 1.67: safety-critical characteristics
//
// # Testing
//
// Use assertions to gate a design in a regular test suite:
//
//	func TestGapStack(t *testing.T) {
//	    results, _ := tolerance.Analyze(ctx, gapStack, tolerance.DefaultConfig().WithSeed(1))
//	    tolerance.AssertDesign(t, results, tolerance.DefaultAssertionConfig())
//	}
package tolerance
