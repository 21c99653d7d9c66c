// Package series holds immutable snapshots of plotted data.
//
// A Series pairs coordinate arrays with a rendering Kind and a Style. The
// constructors copy their inputs, so callers may reuse or mutate their
// slices afterwards without affecting a series already added to a subplot.
// Non-finite values are kept; the limit resolver ignores them and the
// renderer breaks lines at them.
package series

import (
	"slices"

	"github.com/plt-rs/plt/pkg/errors"
	"github.com/plt-rs/plt/pkg/scale"
)

// Kind selects how a series is drawn.
type Kind int

// Series kinds.
const (
	Line Kind = iota
	Step
	Scatter
	Fill
)

func (k Kind) String() string {
	switch k {
	case Line:
		return "line"
	case Step:
		return "step"
	case Scatter:
		return "scatter"
	case Fill:
		return "fill"
	}
	return "unknown"
}

// Series is an immutable data snapshot with its rendering kind and style.
type Series struct {
	kind  Kind
	x, y  []float64
	lower []float64

	baseline    float64
	hasBaseline bool
	edges       bool

	style Style
}

// NewLine builds a line series through (x[i], y[i]) in data order.
func NewLine(x, y []float64, opts ...Option) (*Series, error) {
	if err := sameLength("line", x, y); err != nil {
		return nil, err
	}
	return newSeries(Line, x, y, opts), nil
}

// NewStep builds a step-after series: y[i] is held from x[i] to x[i+1].
func NewStep(x, y []float64, opts ...Option) (*Series, error) {
	if err := sameLength("step", x, y); err != nil {
		return nil, err
	}
	return newSeries(Step, x, y, opts), nil
}

// NewStepEdges builds a histogram-style step series where y[i] spans
// [edges[i], edges[i+1]]. There must be one more edge than values.
func NewStepEdges(edges, y []float64, opts ...Option) (*Series, error) {
	if len(edges) != len(y)+1 {
		return nil, errors.New(errors.ErrCodeMismatchedLength,
			"step series needs one more edge than values, got %d edges and %d values", len(edges), len(y)).In(errors.StageBuild)
	}
	s := newSeries(Step, edges, y, opts)
	s.edges = true
	return s, nil
}

// NewScatter builds a scatter series with one marker per point.
func NewScatter(x, y []float64, opts ...Option) (*Series, error) {
	if err := sameLength("scatter", x, y); err != nil {
		return nil, err
	}
	return newSeries(Scatter, x, y, opts), nil
}

// NewFillBetween builds a filled region between upper and lower over x.
func NewFillBetween(x, upper, lower []float64, opts ...Option) (*Series, error) {
	if err := sameLength("fill upper", x, upper); err != nil {
		return nil, err
	}
	if err := sameLength("fill lower", x, lower); err != nil {
		return nil, err
	}
	s := newSeries(Fill, x, upper, opts)
	s.lower = slices.Clone(lower)
	return s, nil
}

// NewFillTo builds a filled region between y and a constant baseline.
func NewFillTo(x, y []float64, baseline float64, opts ...Option) (*Series, error) {
	if err := sameLength("fill", x, y); err != nil {
		return nil, err
	}
	s := newSeries(Fill, x, y, opts)
	s.baseline, s.hasBaseline = baseline, true
	return s, nil
}

func newSeries(kind Kind, x, y []float64, opts []Option) *Series {
	return &Series{
		kind:  kind,
		x:     slices.Clone(x),
		y:     slices.Clone(y),
		style: newStyle(kind, opts),
	}
}

func sameLength(what string, x, y []float64) error {
	if len(x) != len(y) {
		return errors.New(errors.ErrCodeMismatchedLength,
			"%s series has %d x values and %d y values", what, len(x), len(y)).In(errors.StageBuild)
	}
	return nil
}

// Kind returns the rendering kind.
func (s *Series) Kind() Kind { return s.kind }

// X returns the x values, or the step edges for NewStepEdges series.
// The slice must not be modified.
func (s *Series) X() []float64 { return s.x }

// Y returns the y values. For fills this is the upper boundary.
// The slice must not be modified.
func (s *Series) Y() []float64 { return s.y }

// Lower returns the lower boundary of a fill, or nil when the fill runs to
// a baseline or the series is not a fill.
func (s *Series) Lower() []float64 { return s.lower }

// Baseline returns the constant lower boundary of a NewFillTo series.
func (s *Series) Baseline() (float64, bool) { return s.baseline, s.hasBaseline }

// Edges reports whether X holds histogram edges rather than point positions.
func (s *Series) Edges() bool { return s.edges }

// Len returns the number of y values.
func (s *Series) Len() int { return len(s.y) }

// Style returns the series style.
func (s *Series) Style() Style { return s.style }

// Label returns the legend label, if any.
func (s *Series) Label() string { return s.style.Label }

// Values implements scale.Source.
func (s *Series) Values(axis scale.Axis) [][]float64 {
	if len(s.x) == 0 {
		return nil
	}
	if axis == scale.X {
		return [][]float64{s.x}
	}
	switch {
	case s.lower != nil:
		return [][]float64{s.y, s.lower}
	case s.hasBaseline:
		return [][]float64{s.y, {s.baseline}}
	}
	if len(s.y) == 0 {
		return nil
	}
	return [][]float64{s.y}
}
