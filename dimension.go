package tolerance

import (
	"math"
	"strings"

	"github.com/cockroachdb/errors"
)

// Distribution is the statistical model used to sample a dimension.
type Distribution int

const (
	Normal     Distribution = iota // Gaussian, σ = band/6, centred on nominal
	Uniform                        // Flat over [nominal−minus, nominal+plus]
	Triangular                     // Peak at nominal, bounded by the limits
)

// String returns the lowercase name used in documents and reports.
func (d Distribution) String() string {
	switch d {
	case Normal:
		return "normal"
	case Uniform:
		return "uniform"
	case Triangular:
		return "triangular"
	default:
		return "unknown"
	}
}

// ParseDistribution maps a name to a Distribution. Empty means Normal.
func ParseDistribution(s string) (Distribution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal", "gaussian":
		return Normal, nil
	case "uniform":
		return Uniform, nil
	case "triangular", "triangle":
		return Triangular, nil
	default:
		return Normal, errors.Newf("unknown distribution %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Distribution) MarshalText() ([]byte, error) {
	if d < Normal || d > Triangular {
		return nil, errors.Newf("unknown distribution %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Distribution) UnmarshalText(text []byte) error {
	v, err := ParseDistribution(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Dimension is a toleranced size: nominal with asymmetric plus/minus
// tolerances, both stored as non-negative magnitudes.
//
// Internal marks a hole/slot/pocket (MMC is the smallest size); otherwise the
// feature is a shaft/boss (MMC is the largest size).
type Dimension struct {
	Nominal      float64
	PlusTol      float64
	MinusTol     float64
	Distribution Distribution
	Internal     bool
}

// Upper returns nominal + plus tolerance.
func (d Dimension) Upper() float64 { return d.Nominal + d.PlusTol }

// Lower returns nominal − minus tolerance.
func (d Dimension) Lower() float64 { return d.Nominal - d.MinusTol }

// Band returns the total tolerance band (plus + minus).
func (d Dimension) Band() float64 { return d.PlusTol + d.MinusTol }

// Sigma returns the standard deviation of a 3σ process spanning the band.
//
// The band is treated as ±3σ around nominal even when plus ≠ minus, so an
// asymmetric tolerance still yields a distribution centred on nominal.
func (d Dimension) Sigma() float64 { return d.Band() / 6 }

// MMC returns the maximum material condition size.
func (d Dimension) MMC() float64 {
	if d.Internal {
		return d.Lower()
	}
	return d.Upper()
}

// LMC returns the least material condition size.
func (d Dimension) LMC() float64 {
	if d.Internal {
		return d.Upper()
	}
	return d.Lower()
}

// Validate checks the tolerance invariant and that all values are finite.
func (d Dimension) Validate() error {
	return d.validate("")
}

// validate reports the offending field prefixed with path.
func (d Dimension) validate(path string) error {
	if math.IsNaN(d.Nominal) || math.IsInf(d.Nominal, 0) {
		return fieldError(ErrNonFinite, path+"nominal", "nominal is %v", d.Nominal)
	}
	if math.IsNaN(d.PlusTol) || math.IsInf(d.PlusTol, 0) || d.PlusTol < 0 {
		return errors.WithHint(
			fieldError(ErrInvalidTolerance, path+"plus_tol", "plus tolerance is %v", d.PlusTol),
			"tolerances are magnitudes: write +0.05 as plus_tol 0.05")
	}
	if math.IsNaN(d.MinusTol) || math.IsInf(d.MinusTol, 0) || d.MinusTol < 0 {
		return errors.WithHint(
			fieldError(ErrInvalidTolerance, path+"minus_tol", "minus tolerance is %v", d.MinusTol),
			"tolerances are magnitudes: write -0.05 as minus_tol 0.05")
	}
	if d.Distribution < Normal || d.Distribution > Triangular {
		return fieldError(ErrInvalidTolerance, path+"distribution", "unknown distribution %d", int(d.Distribution))
	}
	return nil
}
