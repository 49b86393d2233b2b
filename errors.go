package tolerance

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Input validation failures. Every validation error returned by the package
// wraps one of these; test with errors.Is.
var (
	// ErrAmbiguousPairing: both fit dimensions are internal, or both external.
	ErrAmbiguousPairing = errors.New("ambiguous fit pairing")

	// ErrInvalidTolerance: a plus or minus tolerance is negative or not finite.
	ErrInvalidTolerance = errors.New("invalid tolerance")

	// ErrNonFinite: a nominal value is NaN or infinite.
	ErrNonFinite = errors.New("non-finite value")

	// ErrInvalidTargetSpec: lower > upper, or nominal outside [lower, upper].
	ErrInvalidTargetSpec = errors.New("invalid target specification")

	// ErrEmptyContributorSet: a stackup with no contributors.
	ErrEmptyContributorSet = errors.New("empty contributor set")

	// ErrDegenerateSigma: every contributor has zero tolerance and the
	// configuration asked for strict sigma handling.
	ErrDegenerateSigma = errors.New("degenerate sigma")

	// ErrInvalidConfig: an analysis parameter is out of range.
	ErrInvalidConfig = errors.New("invalid analysis configuration")
)

// fieldError wraps a sentinel and records the offending field as a detail.
func fieldError(sentinel error, field string, format string, args ...interface{}) error {
	err := errors.Wrapf(sentinel, format, args...)
	return errors.WithDetailf(err, "field: %s", field)
}

// Field returns the offending field recorded on a validation error, or "" when
// none was recorded.
func Field(err error) string {
	const prefix = "field: "
	for _, d := range errors.GetAllDetails(err) {
		if field, ok := strings.CutPrefix(d, prefix); ok {
			return field
		}
	}
	return ""
}
