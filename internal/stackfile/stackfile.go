// Package stackfile reads YAML design documents that describe features,
// mates and tolerance stackups, and resolves them into engine values.
//
// A document looks like:
//
//	features:
//	  - id: bore
//	    nominal: 10.0
//	    plus_tol: 0.02
//	    internal: true
//	mates:
//	  - id: pin-fit
//	    feature_a: bore
//	    feature_b: pin
//	    mate_type: clearance_fit
//	stackups:
//	  - id: gap
//	    target: {name: gap, nominal: 1.0, upper_limit: 1.5, lower_limit: 0.5}
//	    contributors:
//	      - {name: housing, nominal: 10, plus_tol: 0.1, minus_tol: 0.1}
//	      - {name: bore, feature: bore, direction: negative}
//
// A contributor that names a feature inherits its dimension and may not
// repeat any dimension field inline.
package stackfile

import (
	"io"
	"os"
	"slices"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/alexshd/tolerance"
)

var (
	// ErrNotFound: no stackup or mate with the requested id.
	ErrNotFound = errors.New("not found")

	// ErrUnknownFeature: a mate or contributor names a feature the document
	// does not define.
	ErrUnknownFeature = errors.New("unknown feature")

	// ErrDuplicateID: two entries of the same kind share an id.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrConflictingDimension: a contributor names a feature and also gives
	// dimension fields inline.
	ErrConflictingDimension = errors.New("feature reference with inline dimension")
)

// Document is a parsed design document.
type Document struct {
	Features []Feature `yaml:"features"`
	Mates    []Mate    `yaml:"mates"`
	Stackups []Stackup `yaml:"stackups"`
}

type Feature struct {
	ID           string  `yaml:"id"`
	Title        string  `yaml:"title,omitempty"`
	Nominal      float64 `yaml:"nominal"`
	PlusTol      float64 `yaml:"plus_tol"`
	MinusTol     float64 `yaml:"minus_tol"`
	Distribution string  `yaml:"distribution,omitempty"`
	Internal     bool    `yaml:"internal,omitempty"`
}

type Mate struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title,omitempty"`
	FeatureA string `yaml:"feature_a"`
	FeatureB string `yaml:"feature_b"`
	MateType string `yaml:"mate_type,omitempty"`
}

type Stackup struct {
	ID           string        `yaml:"id"`
	Title        string        `yaml:"title,omitempty"`
	Target       Target        `yaml:"target"`
	Contributors []Contributor `yaml:"contributors"`
}

type Target struct {
	Name       string  `yaml:"name"`
	Nominal    float64 `yaml:"nominal"`
	UpperLimit float64 `yaml:"upper_limit"`
	LowerLimit float64 `yaml:"lower_limit"`
	Units      string  `yaml:"units,omitempty"`
	Critical   bool    `yaml:"critical,omitempty"`
}

// Contributor fields are pointers so an absent value can be told apart from
// an explicit zero when a feature reference is present.
type Contributor struct {
	Name         string   `yaml:"name"`
	Feature      string   `yaml:"feature,omitempty"`
	Direction    string   `yaml:"direction,omitempty"`
	Nominal      *float64 `yaml:"nominal,omitempty"`
	PlusTol      *float64 `yaml:"plus_tol,omitempty"`
	MinusTol     *float64 `yaml:"minus_tol,omitempty"`
	Distribution *string  `yaml:"distribution,omitempty"`
	Source       string   `yaml:"source,omitempty"`
}

// ResolvedMate is a mate with both feature dimensions looked up.
type ResolvedMate struct {
	ID    string
	Title string
	A     tolerance.Dimension
	B     tolerance.Dimension
	Type  tolerance.MateType
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open stack file")
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return doc, nil
}

// Parse decodes a document and checks its cross references. Unknown keys are
// rejected.
func Parse(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, errors.Wrap(err, "decode")
	}
	if err := doc.check(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) check() error {
	features := make(map[string]bool, len(d.Features))
	for _, f := range d.Features {
		if features[f.ID] {
			return errors.Wrapf(ErrDuplicateID, "feature %q", f.ID)
		}
		features[f.ID] = true
	}

	seen := make(map[string]bool, len(d.Mates))
	for _, m := range d.Mates {
		if seen[m.ID] {
			return errors.Wrapf(ErrDuplicateID, "mate %q", m.ID)
		}
		seen[m.ID] = true
		for _, ref := range []string{m.FeatureA, m.FeatureB} {
			if !features[ref] {
				return errors.Wrapf(ErrUnknownFeature, "mate %q: feature %q", m.ID, ref)
			}
		}
	}

	clear(seen)
	for _, s := range d.Stackups {
		if seen[s.ID] {
			return errors.Wrapf(ErrDuplicateID, "stackup %q", s.ID)
		}
		seen[s.ID] = true
		for i, c := range s.Contributors {
			if c.Feature == "" {
				continue
			}
			if !features[c.Feature] {
				return errors.Wrapf(ErrUnknownFeature, "stackup %q contributor %d: feature %q", s.ID, i, c.Feature)
			}
			if c.Nominal != nil || c.PlusTol != nil || c.MinusTol != nil || c.Distribution != nil {
				return errors.WithHint(
					errors.Wrapf(ErrConflictingDimension, "stackup %q contributor %d (%s)", s.ID, i, c.Name),
					"drop the inline nominal/tolerances or the feature reference")
			}
		}
	}
	return nil
}

// StackupIDs returns stackup ids in document order.
func (d *Document) StackupIDs() []string {
	ids := make([]string, len(d.Stackups))
	for i, s := range d.Stackups {
		ids[i] = s.ID
	}
	return ids
}

// MateIDs returns mate ids in document order.
func (d *Document) MateIDs() []string {
	ids := make([]string, len(d.Mates))
	for i, m := range d.Mates {
		ids[i] = m.ID
	}
	return ids
}

// Stackup resolves the stackup with the given id. The result is not
// validated; the engine does that on analysis.
func (d *Document) Stackup(id string) (tolerance.Stackup, error) {
	i := slices.IndexFunc(d.Stackups, func(s Stackup) bool { return s.ID == id })
	if i < 0 {
		return tolerance.Stackup{}, errors.Wrapf(ErrNotFound, "stackup %q", id)
	}
	src := d.Stackups[i]

	name := src.Target.Name
	if name == "" {
		name = src.ID
	}
	out := tolerance.Stackup{
		Target: tolerance.Target{
			Name:       name,
			Nominal:    src.Target.Nominal,
			UpperLimit: src.Target.UpperLimit,
			LowerLimit: src.Target.LowerLimit,
			Units:      src.Target.Units,
			Critical:   src.Target.Critical,
		},
		Contributors: make([]tolerance.Contributor, 0, len(src.Contributors)),
	}

	for i, c := range src.Contributors {
		contrib, err := d.contributor(c)
		if err != nil {
			return tolerance.Stackup{}, errors.Wrapf(err, "stackup %q contributor %d (%s)", id, i, c.Name)
		}
		out.Contributors = append(out.Contributors, contrib)
	}
	return out, nil
}

func (d *Document) contributor(c Contributor) (tolerance.Contributor, error) {
	dir, err := tolerance.ParseDirection(c.Direction)
	if err != nil {
		return tolerance.Contributor{}, err
	}
	out := tolerance.Contributor{Name: c.Name, Ref: c.Source, Direction: dir}

	if c.Feature != "" {
		dim, err := d.dimension(c.Feature)
		if err != nil {
			return tolerance.Contributor{}, err
		}
		out.Dimension = dim
		if out.Ref == "" {
			out.Ref = c.Feature
		}
		if out.Name == "" {
			out.Name = c.Feature
		}
		return out, nil
	}

	if c.Nominal != nil {
		out.Nominal = *c.Nominal
	}
	if c.PlusTol != nil {
		out.PlusTol = *c.PlusTol
	}
	if c.MinusTol != nil {
		out.MinusTol = *c.MinusTol
	}
	if c.Distribution != nil {
		if out.Distribution, err = tolerance.ParseDistribution(*c.Distribution); err != nil {
			return tolerance.Contributor{}, err
		}
	}
	return out, nil
}

func (d *Document) dimension(featureID string) (tolerance.Dimension, error) {
	i := slices.IndexFunc(d.Features, func(f Feature) bool { return f.ID == featureID })
	if i < 0 {
		return tolerance.Dimension{}, errors.Wrapf(ErrUnknownFeature, "feature %q", featureID)
	}
	f := d.Features[i]

	dist, err := tolerance.ParseDistribution(f.Distribution)
	if err != nil {
		return tolerance.Dimension{}, errors.Wrapf(err, "feature %q", featureID)
	}
	return tolerance.Dimension{
		Nominal:      f.Nominal,
		PlusTol:      f.PlusTol,
		MinusTol:     f.MinusTol,
		Distribution: dist,
		Internal:     f.Internal,
	}, nil
}

// Mate resolves the mate with the given id.
func (d *Document) Mate(id string) (ResolvedMate, error) {
	i := slices.IndexFunc(d.Mates, func(m Mate) bool { return m.ID == id })
	if i < 0 {
		return ResolvedMate{}, errors.Wrapf(ErrNotFound, "mate %q", id)
	}
	m := d.Mates[i]

	mt, err := tolerance.ParseMateType(m.MateType)
	if err != nil {
		return ResolvedMate{}, errors.Wrapf(err, "mate %q", id)
	}
	a, err := d.dimension(m.FeatureA)
	if err != nil {
		return ResolvedMate{}, errors.Wrapf(err, "mate %q", id)
	}
	b, err := d.dimension(m.FeatureB)
	if err != nil {
		return ResolvedMate{}, errors.Wrapf(err, "mate %q", id)
	}
	return ResolvedMate{ID: m.ID, Title: m.Title, A: a, B: b, Type: mt}, nil
}

// Fit computes the mate's fit.
func (m ResolvedMate) Fit() (tolerance.FitResult, error) {
	r, err := tolerance.ComputeFit(m.A, m.B)
	if err != nil {
		return tolerance.FitResult{}, errors.Wrapf(err, "mate %q", m.ID)
	}
	return r, nil
}
