package tolerance

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSS_GapStack(t *testing.T) {
	r, err := RSS(gapStack(), DefaultConfig())
	require.NoError(t, err)

	// σ_i = 0.2/6 for both; 3σ = 3·√2·0.2/6
	wantSigma3 := 3 * math.Sqrt(2) * 0.2 / 6

	assert.InDelta(t, 1.0, r.Mean, 1e-12)
	assert.InDelta(t, wantSigma3, r.Sigma3, 1e-12)
	assert.InDelta(t, 0.5/wantSigma3, r.Cpk, 1e-9)
	assert.InDelta(t, 0.5-wantSigma3, r.Margin, 1e-12)
	assert.InDelta(t, 100, r.YieldPercent, 1e-9)
	assert.False(t, r.Saturated)

	t.Logf("✓ RSS: μ=%.4f ±3σ=%.4f Cpk=%.3f yield=%.6f%%", r.Mean, r.Sigma3, r.Cpk, r.YieldPercent)
}

// TestRSS_UnitCpk places the limits exactly at ±3σ: Cpk = 1, yield 99.73%.
func TestRSS_UnitCpk(t *testing.T) {
	s := Stackup{
		Target: Target{Nominal: 10, UpperLimit: 10.3, LowerLimit: 9.7},
		Contributors: []Contributor{
			{Dimension: Dimension{Nominal: 10, PlusTol: 0.3, MinusTol: 0.3}},
		},
	}

	r, err := RSS(s, DefaultConfig())
	require.NoError(t, err)

	assert.InDelta(t, 1.0, r.Cpk, 1e-9)
	assert.InDelta(t, 99.73, r.YieldPercent, 0.01)
	assert.InDelta(t, 0.0, r.Margin, 1e-9)
}

func TestRSS_OffCentreMean(t *testing.T) {
	s := gapStack()
	s.Target.UpperLimit = 1.1

	r, err := RSS(s, DefaultConfig())
	require.NoError(t, err)

	// Nearer limit is the upper one
	assert.InDelta(t, 0.1/r.Sigma3, r.Cpk, 1e-9)
	assert.Less(t, r.YieldPercent, 99.73)
	assert.Greater(t, r.YieldPercent, 0.0)
}

func TestRSS_YieldClamped(t *testing.T) {
	assert.Equal(t, 0.0, yieldFromCpk(-2))
	assert.Equal(t, 0.0, yieldFromCpk(0))
	assert.Equal(t, 100.0, yieldFromCpk(SaturatedCpk))
}

// degenerateStack has zero tolerance everywhere and sums exactly to nominal.
func degenerateStack() Stackup {
	return Stackup{
		Target: Target{Name: "gap", Nominal: 1.0, UpperLimit: 1.5, LowerLimit: 0.5},
		Contributors: []Contributor{
			{Name: "A", Dimension: Dimension{Nominal: 10.0}},
			{Name: "B", Direction: Negative, Dimension: Dimension{Nominal: 9.0, Distribution: Uniform}},
			{Name: "C", Dimension: Dimension{Nominal: 0.0, Distribution: Triangular}},
		},
	}
}

func TestRSS_DegenerateSaturates(t *testing.T) {
	r, err := RSS(degenerateStack(), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 1.0, r.Mean)
	assert.Equal(t, 0.0, r.Sigma3)
	assert.Equal(t, SaturatedCpk, r.Cpk)
	assert.True(t, r.Saturated)
	assert.Equal(t, 100.0, r.YieldPercent)
	assert.Equal(t, 0.5, r.Margin)

	t.Logf("✓ Zero variance: Cpk saturated at %g", r.Cpk)
}

func TestRSS_DegenerateOutOfSpecSaturatesNegative(t *testing.T) {
	s := degenerateStack()
	s.Contributors[2].Nominal = 0.75 // stack sits at 1.75, above USL

	r, err := RSS(s, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, -SaturatedCpk, r.Cpk)
	assert.Equal(t, 0.0, r.YieldPercent)
}

func TestRSS_StrictSigma(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StrictSigma = true

	_, err := RSS(degenerateStack(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerateSigma))
	assert.Equal(t, "contributors", Field(err))

	_, err = RSS(gapStack(), cfg)
	assert.NoError(t, err)
}

func TestRSS_Idempotent(t *testing.T) {
	first, err := RSS(gapStack(), DefaultConfig())
	require.NoError(t, err)
	second, err := RSS(gapStack(), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
