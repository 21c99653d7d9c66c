package ticks

import (
	"math"
	"slices"

	"github.com/plt-rs/plt/pkg/errors"
	"github.com/plt-rs/plt/pkg/scale"
)

type spacingKind int

const (
	spacingAuto spacingKind = iota
	spacingManual
	spacingCount
	spacingNone
)

// Spacing decides where ticks go. The zero value is Auto.
type Spacing struct {
	kind   spacingKind
	values []float64
	count  int
}

// AutoSpacing places ticks with the nice-number search (majors) or by
// subdividing the major step (minors).
func AutoSpacing() Spacing { return Spacing{kind: spacingAuto} }

// ManualSpacing places ticks at exactly the given positions, clipped to the range.
func ManualSpacing(values ...float64) Spacing {
	return Spacing{kind: spacingManual, values: slices.Clone(values)}
}

// CountSpacing places n evenly spaced major ticks spanning the range. For
// minor ticks, n is the number of sub-intervals per major interval.
func CountSpacing(n int) Spacing { return Spacing{kind: spacingCount, count: n} }

// NoSpacing disables the ticks.
func NoSpacing() Spacing { return Spacing{kind: spacingNone} }

// IsManual reports whether s uses explicit positions.
func (s Spacing) IsManual() bool { return s.kind == spacingManual }

// IsNone reports whether s disables ticks.
func (s Spacing) IsNone() bool { return s.kind == spacingNone }

// Values returns the manual positions, if any.
func (s Spacing) Values() []float64 { return s.values }

type labelKind int

const (
	labelsAuto labelKind = iota
	labelsOn
	labelsManual
	labelsNone
)

// LabelPolicy decides what ticks are labelled with. The zero value is Auto:
// formatted values for major ticks, and no labels for minor ticks or for
// a secondary axis that no series uses.
type LabelPolicy struct {
	kind   labelKind
	labels []string
}

// AutoLabels formats tick values.
func AutoLabels() LabelPolicy { return LabelPolicy{kind: labelsAuto} }

// OnLabels formats tick values wherever the ticks are drawn.
func OnLabels() LabelPolicy { return LabelPolicy{kind: labelsOn} }

// ManualLabels pairs the given labels with major ticks by index.
func ManualLabels(labels ...string) LabelPolicy {
	return LabelPolicy{kind: labelsManual, labels: slices.Clone(labels)}
}

// NoLabels leaves ticks unlabelled.
func NoLabels() LabelPolicy { return LabelPolicy{kind: labelsNone} }

// IsAuto reports whether p is left to the default.
func (p LabelPolicy) IsAuto() bool { return p.kind == labelsAuto }

// IsManual reports whether p uses explicit labels.
func (p LabelPolicy) IsManual() bool { return p.kind == labelsManual }

// IsNone reports whether ticks stay unlabelled.
func (p LabelPolicy) IsNone() bool { return p.kind == labelsNone }

// Labels returns the manual labels, if any.
func (p LabelPolicy) Labels() []string { return p.labels }

// Policy groups the settings that drive one axis' ticks.
type Policy struct {
	Major  Spacing
	Labels LabelPolicy
	Minor  Spacing
	// MinorLabels labels minor ticks. Auto leaves them unlabelled; On
	// formats them against the major labels' modifier.
	MinorLabels LabelPolicy
}

// IsAuto reports whether every setting of p is left to the default.
func (p Policy) IsAuto() bool {
	return p.Major.kind == spacingAuto && p.Minor.kind == spacingAuto &&
		p.Labels.kind == labelsAuto && p.MinorLabels.kind == labelsAuto
}

// Validate checks the policy independently of any range.
func (p Policy) Validate() error {
	if p.Major.kind == spacingCount && p.Major.count < 1 {
		return errors.New(errors.ErrCodeInvalidTicks, "major tick count must be positive, got %d", p.Major.count).In(errors.StageTicks)
	}
	if p.Minor.kind == spacingCount && p.Minor.count < 1 {
		return errors.New(errors.ErrCodeInvalidTicks, "minor divisions must be positive, got %d", p.Minor.count).In(errors.StageTicks)
	}
	for _, v := range append(slices.Clone(p.Major.values), p.Minor.values...) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidTicks, "manual tick %g is not finite", v).In(errors.StageTicks)
		}
	}
	if p.Major.kind == spacingManual && p.Labels.kind == labelsManual && len(p.Major.values) != len(p.Labels.labels) {
		return errors.New(errors.ErrCodeInvalidTicks,
			"%d manual labels for %d manual ticks", len(p.Labels.labels), len(p.Major.values)).In(errors.StageTicks)
	}
	if p.Minor.kind == spacingManual && p.MinorLabels.kind == labelsManual && len(p.Minor.values) != len(p.MinorLabels.labels) {
		return errors.New(errors.ErrCodeInvalidTicks,
			"%d manual minor labels for %d manual minor ticks", len(p.MinorLabels.labels), len(p.Minor.values)).In(errors.StageTicks)
	}
	if p.MinorLabels.kind != labelsAuto && p.MinorLabels.kind != labelsNone && p.Minor.kind == spacingNone {
		return errors.New(errors.ErrCodeInvalidTicks, "minor tick labels need minor ticks").In(errors.StageTicks)
	}
	return nil
}

// Set is the resolved tick layout of one axis for one draw.
type Set struct {
	Major []Tick
	Minor []Tick
	// Step is the major spacing, or 0 when it is not uniform.
	Step float64
	// Modifier annotates scaled or offset labels, e.g. "×1e6".
	Modifier string
}

// Unlabelled returns a copy of s with every label and the modifier removed.
func (s Set) Unlabelled() Set {
	out := Set{Step: s.Step}
	strip := func(ts []Tick) []Tick {
		if ts == nil {
			return nil
		}
		cp := make([]Tick, len(ts))
		for i, t := range ts {
			cp[i] = Tick{Value: t.Value, Kind: t.Kind}
		}
		return cp
	}
	out.Major, out.Minor = strip(s.Major), strip(s.Minor)
	return out
}

// Resolve computes the ticks of an axis spanning r over pixelLength pixels.
func Resolve(r scale.Range, pixelLength float64, p Policy) (Set, error) {
	if err := p.Validate(); err != nil {
		return Set{}, err
	}
	if !r.Valid() {
		return Set{}, errors.New(errors.ErrCodeInvalidTicks, "cannot place ticks on range [%g, %g]", r.Min, r.Max).In(errors.StageTicks)
	}

	var (
		set    Set
		pos    []float64
		manual []string
	)
	switch p.Major.kind {
	case spacingAuto:
		set.Step = AutoStep(r, pixelLength)
		pos = Positions(r, set.Step)
	case spacingCount:
		pos = evenly(r, p.Major.count)
		if len(pos) > 1 {
			set.Step = pos[1] - pos[0]
		}
	case spacingManual:
		pos, manual = clip(r, p.Major.values, p.Labels.labels)
		set.Step = uniformStep(pos)
	}

	labels := make([]string, len(pos))
	step := set.Step
	if step == 0 {
		step = minGap(pos)
	}
	f := Format(pos, step)
	switch p.Labels.kind {
	case labelsAuto, labelsOn:
		labels = f.Labels
		set.Modifier = f.Modifier()
	case labelsManual:
		if p.Major.kind == spacingManual {
			labels = manual
		} else {
			if len(p.Labels.labels) != len(pos) {
				return Set{}, errors.New(errors.ErrCodeInvalidTicks,
					"%d manual labels for %d generated ticks", len(p.Labels.labels), len(pos)).In(errors.StageTicks)
			}
			copy(labels, p.Labels.labels)
		}
	}

	set.Major = make([]Tick, len(pos))
	for i, v := range pos {
		set.Major[i] = Tick{Value: v, Label: labels[i], Kind: Major}
	}

	switch p.Minor.kind {
	case spacingAuto:
		set.Minor = MinorTicks(r, set.Major)
	case spacingCount:
		set.Minor = Subdivide(r, set.Major, p.Minor.count)
	case spacingManual:
		vals, ls := clip(r, p.Minor.values, p.MinorLabels.labels)
		for i, v := range vals {
			if coincides(v, set.Major, math.Max(r.Span(), 1e-300)*1e-3) {
				continue
			}
			t := Tick{Value: v, Kind: Minor}
			if p.MinorLabels.kind == labelsManual && i < len(ls) {
				t.Label = ls[i]
			}
			set.Minor = append(set.Minor, t)
		}
	}
	if err := labelMinor(&set, f, p); err != nil {
		return Set{}, err
	}
	return set, nil
}

// labelMinor fills minor tick labels. On uses the major formatting so a
// single modifier reads for both.
func labelMinor(set *Set, f Formatted, p Policy) error {
	switch p.MinorLabels.kind {
	case labelsOn:
		values := make([]float64, len(set.Minor))
		for i, t := range set.Minor {
			values[i] = t.Value
		}
		step := minGap(values)
		if step == 0 {
			step = set.Step
		}
		for i, l := range f.Apply(values, step) {
			set.Minor[i].Label = l
		}
		if set.Modifier == "" && len(set.Minor) > 0 {
			set.Modifier = f.Modifier()
		}
	case labelsManual:
		if p.Minor.kind == spacingManual {
			return nil
		}
		if len(p.MinorLabels.labels) != len(set.Minor) {
			return errors.New(errors.ErrCodeInvalidTicks,
				"%d manual minor labels for %d generated minor ticks", len(p.MinorLabels.labels), len(set.Minor)).In(errors.StageTicks)
		}
		for i, l := range p.MinorLabels.labels {
			set.Minor[i].Label = l
		}
	}
	return nil
}

func evenly(r scale.Range, n int) []float64 {
	if n == 1 {
		return []float64{r.Min}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = r.Min + float64(i)*r.Span()/float64(n-1)
	}
	out[n-1] = r.Max
	return out
}

// clip keeps the values inside r and their paired labels, in input order.
func clip(r scale.Range, values []float64, labels []string) ([]float64, []string) {
	var (
		vs []float64
		ls []string
	)
	for i, v := range values {
		if !r.Contains(v, eps) {
			continue
		}
		vs = append(vs, v)
		if i < len(labels) {
			ls = append(ls, labels[i])
		}
	}
	return vs, ls
}

func uniformStep(pos []float64) float64 {
	if len(pos) < 2 {
		return 0
	}
	step := pos[1] - pos[0]
	for i := 2; i < len(pos); i++ {
		if math.Abs((pos[i]-pos[i-1])-step) > math.Abs(step)*1e-6 {
			return 0
		}
	}
	return step
}

func minGap(pos []float64) float64 {
	sorted := slices.Clone(pos)
	slices.Sort(sorted)
	gap := 0.0
	for i := 1; i < len(sorted); i++ {
		if d := sorted[i] - sorted[i-1]; d > 0 && (gap == 0 || d < gap) {
			gap = d
		}
	}
	return gap
}
