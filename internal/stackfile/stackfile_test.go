package stackfile

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexshd/tolerance"
)

func TestLoad_Bracket(t *testing.T) {
	doc, err := Load("testdata/bracket.yaml")
	require.NoError(t, err)

	assert.Equal(t, []string{"gap"}, doc.StackupIDs())
	assert.Equal(t, []string{"pin-in-bore", "shaft-press"}, doc.MateIDs())

	s, err := doc.Stackup("gap")
	require.NoError(t, err)

	assert.Equal(t, "cover gap", s.Target.Name)
	assert.True(t, s.Target.Critical)
	require.Len(t, s.Contributors, 3)

	housing := s.Contributors[0]
	assert.Equal(t, "DWG-100 rev B", housing.Ref)
	assert.Equal(t, 25.0, housing.Nominal)
	assert.Equal(t, tolerance.Uniform, housing.Distribution)
	assert.Equal(t, tolerance.Positive, housing.Direction)

	assert.Equal(t, tolerance.Negative, s.Contributors[1].Direction)
	assert.Equal(t, tolerance.Triangular, s.Contributors[1].Distribution)
	assert.Equal(t, tolerance.Negative, s.Contributors[2].Direction)
	assert.Equal(t, tolerance.Normal, s.Contributors[2].Distribution)

	r, err := tolerance.Analyze(context.Background(), s, tolerance.DefaultConfig().WithSeed(1))
	require.NoError(t, err)
	t.Logf("✓ gap: worst case %s, Cpk %.2f", r.WorstCase.Verdict, r.RSS.Cpk)
}

func TestMate_Fits(t *testing.T) {
	doc, err := Load("testdata/bracket.yaml")
	require.NoError(t, err)

	pin, err := doc.Mate("pin-in-bore")
	require.NoError(t, err)
	assert.Equal(t, tolerance.MateClearanceFit, pin.Type)
	assert.True(t, pin.A.Internal)

	fit, err := pin.Fit()
	require.NoError(t, err)
	assert.Equal(t, tolerance.Clearance, fit.Class)
	assert.True(t, fit.Satisfies(pin.Type))

	press, err := doc.Mate("shaft-press")
	require.NoError(t, err)
	fit, err = press.Fit()
	require.NoError(t, err)
	assert.Equal(t, tolerance.Interference, fit.Class)
	assert.True(t, fit.Satisfies(press.Type))
}

func TestNotFound(t *testing.T) {
	doc, err := Load("testdata/bracket.yaml")
	require.NoError(t, err)

	_, err = doc.Stackup("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = doc.Mate("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "unknown mate feature",
			doc: `
features: [{id: a, nominal: 1}]
mates: [{id: m, feature_a: a, feature_b: b}]`,
			want: ErrUnknownFeature,
		},
		{
			name: "unknown contributor feature",
			doc: `
stackups:
  - id: s
    target: {nominal: 1, upper_limit: 2, lower_limit: 0}
    contributors: [{name: x, feature: ghost}]`,
			want: ErrUnknownFeature,
		},
		{
			name: "inline dimension with feature",
			doc: `
features: [{id: a, nominal: 1}]
stackups:
  - id: s
    target: {nominal: 1, upper_limit: 2, lower_limit: 0}
    contributors: [{name: x, feature: a, plus_tol: 0.1}]`,
			want: ErrConflictingDimension,
		},
		{
			name: "duplicate feature",
			doc: `
features: [{id: a, nominal: 1}, {id: a, nominal: 2}]`,
			want: ErrDuplicateID,
		},
		{
			name: "duplicate stackup",
			doc: `
stackups:
  - {id: s, target: {nominal: 1, upper_limit: 2}}
  - {id: s, target: {nominal: 1, upper_limit: 2}}`,
			want: ErrDuplicateID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse(strings.NewReader("features: [{id: a, nominal: 1, tolerance: 0.1}]"))
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.ErrorContains(t, err, "empty document")
}

func TestStackup_BadDirection(t *testing.T) {
	doc, err := Parse(strings.NewReader(`
stackups:
  - id: s
    target: {nominal: 1, upper_limit: 2, lower_limit: 0}
    contributors: [{name: x, direction: sideways, nominal: 1}]`))
	require.NoError(t, err)

	_, err = doc.Stackup("s")
	assert.ErrorContains(t, err, "unknown direction")
}

// Engine validation still applies after resolution.
func TestStackup_InvalidToleranceSurfacesOnAnalyze(t *testing.T) {
	doc, err := Parse(strings.NewReader(`
stackups:
  - id: s
    target: {nominal: 1, upper_limit: 2, lower_limit: 0}
    contributors: [{name: x, nominal: 1, plus_tol: -0.1}]`))
	require.NoError(t, err)

	s, err := doc.Stackup("s")
	require.NoError(t, err)
	assert.Equal(t, "s", s.Target.Name, "target name falls back to the id")

	_, err = tolerance.Analyze(context.Background(), s, tolerance.DefaultConfig().WithSeed(1))
	assert.ErrorIs(t, err, tolerance.ErrInvalidTolerance)
	assert.Equal(t, "contributors[0].plus_tol", tolerance.Field(err))
}
