package tolerance

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gapStack is a housing 10 ±0.1 less a shaft 9 ±0.1, gap spec 1.0 [0.5, 1.5].
func gapStack() Stackup {
	return Stackup{
		Target: Target{Name: "gap", Nominal: 1.0, UpperLimit: 1.5, LowerLimit: 0.5, Units: "mm"},
		Contributors: []Contributor{
			{Name: "housing", Dimension: Dimension{Nominal: 10.0, PlusTol: 0.1, MinusTol: 0.1}},
			{Name: "shaft", Direction: Negative, Dimension: Dimension{Nominal: 9.0, PlusTol: 0.1, MinusTol: 0.1}},
		},
	}
}

func TestContributor_Bounds(t *testing.T) {
	nom, plus, minus := 10.0, 0.1, 0.05
	pos := Contributor{Dimension: Dimension{Nominal: nom, PlusTol: plus, MinusTol: minus}}
	lo, hi := pos.Bounds()
	assert.Equal(t, nom-minus, lo)
	assert.Equal(t, nom+plus, hi)
	assert.Equal(t, nom, pos.SignedNominal())

	nom, plus, minus = 9.0, 0.08, 0.02
	neg := Contributor{Direction: Negative, Dimension: Dimension{Nominal: nom, PlusTol: plus, MinusTol: minus}}
	lo, hi = neg.Bounds()
	assert.Equal(t, -(nom + plus), lo)
	assert.Equal(t, -(nom - minus), hi)
	assert.Equal(t, -nom, neg.SignedNominal())
}

func TestDirection_Text(t *testing.T) {
	for _, in := range []string{"negative", "-", " Negative "} {
		var d Direction
		require.NoError(t, d.UnmarshalText([]byte(in)))
		assert.Equal(t, Negative, d)
	}

	d, err := ParseDirection("")
	require.NoError(t, err)
	assert.Equal(t, Positive, d)
	assert.Equal(t, 1.0, d.Sign())
	assert.Equal(t, -1.0, Negative.Sign())

	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}

func TestStackup_Validate(t *testing.T) {
	require.NoError(t, gapStack().Validate())

	tests := []struct {
		name   string
		mutate func(*Stackup)
		want   error
		field  string
	}{
		{
			name:   "limits inverted",
			mutate: func(s *Stackup) { s.Target.LowerLimit, s.Target.UpperLimit = 1.5, 0.5 },
			want:   ErrInvalidTargetSpec,
			field:  "target.lower_limit",
		},
		{
			name:   "nominal above upper limit",
			mutate: func(s *Stackup) { s.Target.Nominal = 1.6 },
			want:   ErrInvalidTargetSpec,
			field:  "target.nominal",
		},
		{
			name:   "nan limit",
			mutate: func(s *Stackup) { s.Target.UpperLimit = math.NaN() },
			want:   ErrInvalidTargetSpec,
			field:  "target.upper_limit",
		},
		{
			name:   "no contributors",
			mutate: func(s *Stackup) { s.Contributors = nil },
			want:   ErrEmptyContributorSet,
			field:  "contributors",
		},
		{
			name:   "negative plus tolerance",
			mutate: func(s *Stackup) { s.Contributors[1].PlusTol = -0.01 },
			want:   ErrInvalidTolerance,
			field:  "contributors[1].plus_tol",
		},
		{
			name:   "unknown direction",
			mutate: func(s *Stackup) { s.Contributors[0].Direction = Direction(3) },
			want:   ErrInvalidTolerance,
			field:  "contributors[0].direction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := gapStack()
			tt.mutate(&s)

			err := s.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, tt.field, Field(err))
		})
	}
}

func TestStackup_ValidateNamesContributor(t *testing.T) {
	s := gapStack()
	s.Contributors[1].MinusTol = -0.1

	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `contributor 1 (shaft)`)
}

func TestTarget_Contains(t *testing.T) {
	tg := Target{Nominal: 1, UpperLimit: 1.5, LowerLimit: 0.5}
	assert.True(t, tg.Contains(0.5))
	assert.True(t, tg.Contains(1.5))
	assert.False(t, tg.Contains(1.5000001))
	assert.Equal(t, 1.0, tg.Band())
}
