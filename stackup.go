package tolerance

import (
	"fmt"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
)

// Direction is the sense in which a contributor adds to the stack.
type Direction int

const (
	Positive Direction = iota // Adds to the target dimension
	Negative                  // Subtracts from the target dimension
)

func (d Direction) String() string {
	if d == Negative {
		return "negative"
	}
	return "positive"
}

// Sign returns +1 or −1.
func (d Direction) Sign() float64 {
	if d == Negative {
		return -1
	}
	return 1
}

// ParseDirection accepts "positive"/"+" and "negative"/"-". Empty means Positive.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "positive", "+":
		return Positive, nil
	case "negative", "-":
		return Negative, nil
	default:
		return Positive, errors.Newf("unknown direction %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	v, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Contributor is one directional term of a stackup chain.
type Contributor struct {
	Name string
	Ref  string // Traceability reference, carried but never interpreted
	Dimension
	Direction Direction
}

// SignedNominal returns the nominal with the direction sign applied.
func (c Contributor) SignedNominal() float64 {
	return c.Direction.Sign() * c.Nominal
}

// Bounds returns the contributor's interval in stack coordinates.
//
//	Positive: [nominal − minus, nominal + plus]
//	Negative: [−(nominal + plus), −(nominal − minus)]
func (c Contributor) Bounds() (lo, hi float64) {
	if c.Direction == Negative {
		return -c.Upper(), -c.Lower()
	}
	return c.Lower(), c.Upper()
}

// Target is the specification the stack result must meet.
type Target struct {
	Name       string
	Nominal    float64
	UpperLimit float64
	LowerLimit float64
	Units      string
	Critical   bool
}

// Band returns USL − LSL.
func (t Target) Band() float64 { return t.UpperLimit - t.LowerLimit }

// Contains reports whether v lies inside the inclusive limits.
func (t Target) Contains(v float64) bool {
	return v >= t.LowerLimit && v <= t.UpperLimit
}

// Validate checks lower ≤ nominal ≤ upper with finite values.
func (t Target) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"target.nominal", t.Nominal},
		{"target.upper_limit", t.UpperLimit},
		{"target.lower_limit", t.LowerLimit},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fieldError(ErrInvalidTargetSpec, f.name, "%s is %v", f.name, f.v)
		}
	}
	if t.LowerLimit > t.UpperLimit {
		return fieldError(ErrInvalidTargetSpec, "target.lower_limit",
			"lower limit %v above upper limit %v", t.LowerLimit, t.UpperLimit)
	}
	if t.Nominal < t.LowerLimit || t.Nominal > t.UpperLimit {
		return fieldError(ErrInvalidTargetSpec, "target.nominal",
			"nominal %v outside [%v, %v]", t.Nominal, t.LowerLimit, t.UpperLimit)
	}
	return nil
}

// Stackup is a target with its ordered chain of contributors. Order only
// affects the Monte Carlo sampling sequence.
type Stackup struct {
	Target       Target
	Contributors []Contributor
}

// Validate checks the target, rejects an empty chain and validates every
// contributor. The first failure is returned.
func (s Stackup) Validate() error {
	if err := s.Target.Validate(); err != nil {
		return err
	}
	if len(s.Contributors) == 0 {
		return errors.WithHint(
			fieldError(ErrEmptyContributorSet, "contributors", "stackup %q has no contributors", s.Target.Name),
			"add contributors before running analysis")
	}
	for i, c := range s.Contributors {
		if c.Direction != Positive && c.Direction != Negative {
			return fieldError(ErrInvalidTolerance, fmt.Sprintf("contributors[%d].direction", i),
				"contributor %q has unknown direction %d", c.Name, int(c.Direction))
		}
		if err := c.validate(fmt.Sprintf("contributors[%d].", i)); err != nil {
			return errors.Wrapf(err, "contributor %d (%s)", i, c.Name)
		}
	}
	return nil
}

// totalVariance returns Σ σ_i².
func (s Stackup) totalVariance() float64 {
	var variance float64
	for _, c := range s.Contributors {
		sigma := c.Sigma()
		variance += sigma * sigma
	}
	return variance
}
