package tolerance

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// FitClass classifies how a hole and a shaft relate across their tolerances.
type FitClass int

const (
	Clearance    FitClass = iota // Always a gap: min clearance > 0
	Interference                 // Always a press: max clearance < 0
	Transition                   // Either, depending on the parts drawn
)

func (c FitClass) String() string {
	switch c {
	case Clearance:
		return "clearance"
	case Interference:
		return "interference"
	case Transition:
		return "transition"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c FitClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// FitResult holds the worst-case clearance bounds of a hole/shaft pair.
// Negative clearance is interference.
type FitResult struct {
	MinClearance float64 // hole MMC − shaft MMC
	MaxClearance float64 // hole LMC − shaft LMC
	Class        FitClass
}

// IsClearance reports a guaranteed clearance fit.
func (r FitResult) IsClearance() bool { return r.Class == Clearance }

// IsInterference reports a guaranteed interference fit.
func (r FitResult) IsInterference() bool { return r.Class == Interference }

// ComputeFit calculates the fit between two dimensions. Exactly one must be
// internal (the hole); argument order does not matter.
//
// Limits:
//
//	hole_min  = nominal − minus   (MMC)
//	hole_max  = nominal + plus    (LMC)
//	shaft_max = nominal + plus    (MMC)
//	shaft_min = nominal − minus   (LMC)
//
//	min_clearance = hole_min − shaft_max
//	max_clearance = hole_max − shaft_min
func ComputeFit(a, b Dimension) (FitResult, error) {
	if err := a.validate("a."); err != nil {
		return FitResult{}, err
	}
	if err := b.validate("b."); err != nil {
		return FitResult{}, err
	}

	var hole, shaft Dimension
	switch {
	case a.Internal && !b.Internal:
		hole, shaft = a, b
	case !a.Internal && b.Internal:
		hole, shaft = b, a
	case a.Internal:
		return FitResult{}, errors.WithHint(
			fieldError(ErrAmbiguousPairing, "internal", "both dimensions are internal"),
			"a mate needs one internal feature (hole) and one external feature (shaft)")
	default:
		return FitResult{}, errors.WithHint(
			fieldError(ErrAmbiguousPairing, "internal", "both dimensions are external"),
			"a mate needs one internal feature (hole) and one external feature (shaft)")
	}

	minClearance := hole.Lower() - shaft.Upper()
	maxClearance := hole.Upper() - shaft.Lower()

	return FitResult{
		MinClearance: minClearance,
		MaxClearance: maxClearance,
		Class:        classifyFit(minClearance, maxClearance),
	}, nil
}

func classifyFit(minClearance, maxClearance float64) FitClass {
	switch {
	case minClearance > 0:
		return Clearance
	case maxClearance < 0:
		return Interference
	default:
		return Transition
	}
}

// MateType is the designed intent of a mate.
type MateType string

const (
	MateClearanceFit     MateType = "clearance_fit"
	MateInterferenceFit  MateType = "interference_fit"
	MateTransitionFit    MateType = "transition_fit"
	MatePlanarContact    MateType = "planar_contact"
	MateThreadEngagement MateType = "thread_engagement"
)

// ParseMateType maps a name to a MateType. Empty means clearance fit.
func ParseMateType(s string) (MateType, error) {
	switch m := MateType(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return MateClearanceFit, nil
	case MateClearanceFit, MateInterferenceFit, MateTransitionFit, MatePlanarContact, MateThreadEngagement:
		return m, nil
	default:
		return "", errors.Newf("unknown mate type %q", s)
	}
}

// Satisfies reports whether the computed fit meets the designed intent.
//
// Planar contacts and thread engagements are not size fits; they are always
// satisfied. A transition fit is satisfied by any classification, since
// guaranteed clearance or interference lies inside its range.
func (r FitResult) Satisfies(m MateType) bool {
	switch m {
	case MateClearanceFit:
		return r.Class == Clearance
	case MateInterferenceFit:
		return r.Class == Interference
	default:
		return true
	}
}
