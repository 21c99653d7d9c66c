package plot

import (
	"image"
	"slices"
	"strconv"

	"github.com/plt-rs/plt/pkg/draw"
	"github.com/plt-rs/plt/pkg/errors"
	"github.com/plt-rs/plt/pkg/render"
	"github.com/plt-rs/plt/pkg/scale"
	"github.com/plt-rs/plt/pkg/series"
	"github.com/plt-rs/plt/pkg/ticks"
)

// Axes selects which axis of a subplot an operation targets.
type Axes int

// The axes of a subplot. The secondary axes run along the top and right
// spines.
const (
	X Axes = iota
	Y
	SecondaryX
	SecondaryY
)

func (a Axes) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case SecondaryX:
		return "secondary x"
	case SecondaryY:
		return "secondary y"
	}
	return "axis(" + strconv.Itoa(int(a)) + ")"
}

// Dimension returns the series coordinate ax is scaled by.
func (a Axes) Dimension() scale.Axis {
	if a == X || a == SecondaryX {
		return scale.X
	}
	return scale.Y
}

// primary returns the axis a secondary axis mirrors.
func (a Axes) primary() Axes {
	switch a {
	case SecondaryX:
		return X
	case SecondaryY:
		return Y
	}
	return a
}

func (a Axes) secondary() bool { return a == SecondaryX || a == SecondaryY }

var allAxes = [...]Axes{X, Y, SecondaryX, SecondaryY}

// Format is the visual style of a subplot.
type Format = render.Format

// AxisConfig is the user-facing configuration of one axis. The zero value
// auto-scales, places ticks and labels automatically and draws the spine.
type AxisConfig struct {
	Label string
	// Limits, when set, replaces auto-scaling.
	Limits *scale.Range
	Ticks  ticks.Policy
	Grid   render.Grid
	// Hidden suppresses the spine. Hiding a primary axis also hides the
	// mirror drawn for an unused secondary axis.
	Hidden bool
}

// SubplotConfig collects everything a subplot needs before series are
// added. It is validated once by Build.
type SubplotConfig struct {
	Title string
	X, Y  AxisConfig
	// SecondaryX and SecondaryY configure the top and right axes. Without
	// limits or bound series they share the primary range and mirror its
	// ticks unlabelled.
	SecondaryX, SecondaryY AxisConfig
	// Format defaults to render.DefaultFormat when nil.
	Format *Format
	// Legend draws labelled series in the top-right corner.
	Legend bool
}

// Build validates c and returns a subplot ready for series.
func (c SubplotConfig) Build() (*Subplot, error) {
	sp := &Subplot{title: c.Title, legend: c.Legend}
	for _, ax := range allAxes {
		cfg := *c.axis(ax)
		if l := cfg.Limits; l != nil && !l.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidLimits,
				"%s limits [%g, %g] must be finite with min < max", ax, l.Min, l.Max).In(errors.StageBuild)
		}
		if err := cfg.Ticks.Validate(); err != nil {
			return nil, errors.Context(err, "%s axis", ax).In(errors.StageBuild)
		}
		cfg.Limits = cloneRange(cfg.Limits)
		sp.axes[ax] = cfg
	}

	format := render.DefaultFormat()
	if c.Format != nil {
		format = *c.Format
		format.ColorCycle = slices.Clone(format.ColorCycle)
	}
	if format.FontSize <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "font size must be positive, got %g", format.FontSize).In(errors.StageBuild)
	}

	sp.format = format
	return sp, nil
}

func (c *SubplotConfig) axis(ax Axes) *AxisConfig {
	switch ax {
	case X:
		return &c.X
	case SecondaryX:
		return &c.SecondaryX
	case SecondaryY:
		return &c.SecondaryY
	}
	return &c.Y
}

func cloneRange(r *scale.Range) *scale.Range {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// Subplot is one set of axes and the series drawn on them. Ranges, ticks
// and transforms are recomputed on every draw.
type Subplot struct {
	title  string
	axes   [len(allAxes)]AxisConfig
	format Format
	legend bool
	series []*series.Series
}

// NewDefaultSubplot returns a subplot with the default configuration.
func NewDefaultSubplot() *Subplot {
	sp, _ := SubplotConfig{}.Build()
	return sp
}

// Title returns the subplot title.
func (s *Subplot) Title() string { return s.title }

// Format returns the subplot style.
func (s *Subplot) Format() Format { return s.format }

// Axis returns the configuration of ax.
func (s *Subplot) Axis(ax Axes) AxisConfig {
	if ax < 0 || int(ax) >= len(s.axes) {
		return AxisConfig{}
	}
	return s.axes[ax]
}

// Series returns the series in insertion order.
func (s *Subplot) Series() []*series.Series { return slices.Clone(s.series) }

// Add appends an already constructed series.
func (s *Subplot) Add(sr *series.Series) error {
	if sr == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil series").In(errors.StageBuild)
	}
	s.series = append(s.series, sr)
	return nil
}

func (s *Subplot) add(sr *series.Series, err error) error {
	if err != nil {
		return err
	}
	return s.Add(sr)
}

// Plot adds a line through (x[i], y[i]).
func (s *Subplot) Plot(x, y []float64, opts ...series.Option) error {
	return s.add(series.NewLine(x, y, opts...))
}

// Step adds a step-after series.
func (s *Subplot) Step(x, y []float64, opts ...series.Option) error {
	return s.add(series.NewStep(x, y, opts...))
}

// StepEdges adds a histogram-style step series with len(edges) == len(y)+1.
func (s *Subplot) StepEdges(edges, y []float64, opts ...series.Option) error {
	return s.add(series.NewStepEdges(edges, y, opts...))
}

// Scatter adds one marker per point.
func (s *Subplot) Scatter(x, y []float64, opts ...series.Option) error {
	return s.add(series.NewScatter(x, y, opts...))
}

// FillBetween fills the region between upper and lower.
func (s *Subplot) FillBetween(x, upper, lower []float64, opts ...series.Option) error {
	return s.add(series.NewFillBetween(x, upper, lower, opts...))
}

// FillTo fills the region between y and a constant baseline.
func (s *Subplot) FillTo(x, y []float64, baseline float64, opts ...series.Option) error {
	return s.add(series.NewFillTo(x, y, baseline, opts...))
}

// maxMarginPasses bounds the measure/tick iteration in Draw.
const maxMarginPasses = 3

// Ranges resolves the current primary axis ranges from the limits and series.
func (s *Subplot) Ranges() (x, y scale.Range, err error) {
	rs, _, err := s.ranges()
	return rs[X], rs[Y], err
}

// Range resolves the current range of ax.
func (s *Subplot) Range(ax Axes) (scale.Range, error) {
	if ax < 0 || int(ax) >= len(s.axes) {
		return scale.Range{}, errors.New(errors.ErrCodeInvalidInput, "unknown axis %d", int(ax)).In(errors.StageLimits)
	}
	rs, _, err := s.ranges()
	return rs[ax], err
}

// bound reports whether sr is placed against ax.
func bound(sr *series.Series, ax Axes) bool {
	st := sr.Style()
	switch ax {
	case X:
		return !st.SecondaryX
	case Y:
		return !st.SecondaryY
	case SecondaryX:
		return st.SecondaryX
	}
	return st.SecondaryY
}

// ranges resolves all four axes. An axis with neither limits nor bound
// series takes the range of the other axis of its dimension; used reports
// which axes have either.
func (s *Subplot) ranges() (rs [len(allAxes)]scale.Range, used [len(allAxes)]bool, err error) {
	sources := make([][]scale.Source, len(allAxes))
	for _, sr := range s.series {
		for _, ax := range allAxes {
			if bound(sr, ax) {
				sources[ax] = append(sources[ax], sr)
			}
		}
	}
	for _, ax := range allAxes {
		used[ax] = s.axes[ax].Limits != nil || len(sources[ax]) > 0
	}

	resolve := func(ax Axes) (scale.Range, error) {
		r, err := scale.Resolve(s.axes[ax].Limits, sources[ax], ax.Dimension())
		if err != nil && ax.secondary() {
			return r, errors.Context(err, "%s axis", ax)
		}
		return r, err
	}
	for _, pair := range [][2]Axes{{X, SecondaryX}, {Y, SecondaryY}} {
		p, sec := pair[0], pair[1]
		switch {
		case used[p]:
			if rs[p], err = resolve(p); err != nil {
				return rs, used, err
			}
		case used[sec]:
			if rs[p], err = resolve(sec); err != nil {
				return rs, used, err
			}
		default:
			rs[p] = scale.DefaultRange
		}
		rs[sec] = rs[p]
		if used[sec] {
			if rs[sec], err = resolve(sec); err != nil {
				return rs, used, err
			}
		}
	}
	return rs, used, nil
}

// mirrored reports whether ax is drawn as an unlabelled copy of its primary.
func (s *Subplot) mirrored(ax Axes, used [len(allAxes)]bool) bool {
	return ax.secondary() && !used[ax] && s.axes[ax].Ticks.IsAuto()
}

// policy returns the tick policy of ax for this draw. An unused secondary
// axis keeps its ticks but only labels them when asked to.
func (s *Subplot) policy(ax Axes, used [len(allAxes)]bool) ticks.Policy {
	p := s.axes[ax].Ticks
	if ax.secondary() && !used[ax] && p.Labels.IsAuto() {
		p.Labels = ticks.NoLabels()
	}
	return p
}

// Draw renders the subplot into rect on c.
func (s *Subplot) Draw(c draw.Canvas, rect image.Rectangle) error {
	rs, used, err := s.ranges()
	if err != nil {
		return err
	}

	var d render.Decorations
	d.Title = s.title
	for _, ax := range allAxes {
		*axisOf(&d, ax) = s.decoration(ax, used)
	}
	area, err := s.fit(c, rect, &d, rs, used)
	if err != nil {
		return err
	}

	frame := render.NewFrame(area, rs[X], rs[Y]).WithSecondary(rs[SecondaryX], rs[SecondaryY])
	if err := render.DrawBackground(c, frame, s.format); err != nil {
		return err
	}
	if err := render.DrawGrid(c, frame, d, s.format); err != nil {
		return err
	}

	var lines, fills int
	for _, sr := range s.series {
		var fallback draw.Color
		if sr.Kind() == series.Fill {
			fallback = s.format.CycleColor(fills)
			fills++
		} else {
			fallback = s.format.CycleColor(lines)
			lines++
		}
		st := sr.Style()
		if err := render.Series(c, sr, frame.For(st.SecondaryX, st.SecondaryY), fallback); err != nil {
			return err
		}
		if s.legend && sr.Label() != "" {
			d.Legend = append(d.Legend, render.LegendEntry{
				Label: sr.Label(),
				Kind:  sr.Kind(),
				Style: st.Resolve(sr.Kind(), fallback),
			})
		}
	}

	if err := render.DrawAxes(c, frame, d, s.format); err != nil {
		return err
	}
	return render.DrawLegend(c, frame, d.Legend, s.format)
}

func axisOf(d *render.Decorations, ax Axes) *render.Axis {
	switch ax {
	case X:
		return &d.X
	case SecondaryX:
		return &d.X2
	case SecondaryY:
		return &d.Y2
	}
	return &d.Y
}

func (s *Subplot) decoration(ax Axes, used [len(allAxes)]bool) render.Axis {
	cfg := s.axes[ax]
	if s.mirrored(ax, used) {
		// Ticks are copied from the primary once they are resolved.
		return render.Axis{Label: cfg.Label, Grid: cfg.Grid}
	}
	p := s.policy(ax, used)
	return render.Axis{
		Label: cfg.Label,
		TickLabels: (!p.Major.IsNone() && !p.Labels.IsNone()) ||
			(!p.Minor.IsNone() && !p.MinorLabels.IsAuto() && !p.MinorLabels.IsNone()),
		Grid:  cfg.Grid,
		Spine: !cfg.Hidden,
	}
}

// fit sizes the plot area inside rect. Tick labels depend on the plot size
// and the margins depend on the tick labels, so insets are widened until
// they stop changing. The ticks in d match the returned area.
func (s *Subplot) fit(c draw.Canvas, rect image.Rectangle, d *render.Decorations, rs [len(allAxes)]scale.Range, used [len(allAxes)]bool) (image.Rectangle, error) {
	ins := render.Measure(c, *d, s.format)
	for pass := 0; ; pass++ {
		area := ins.Shrink(rect)
		if area.Dx() < 1 || area.Dy() < 1 {
			return image.Rectangle{}, errors.New(errors.ErrCodeInsufficientSpace,
				"no room for a plot area in %dx%d after margins", rect.Dx(), rect.Dy()).In(errors.StageLayout)
		}
		for _, ax := range [...]Axes{Y, X, SecondaryY, SecondaryX} {
			dec := axisOf(d, ax)
			if s.mirrored(ax, used) {
				m := render.Mirror(*axisOf(d, ax.primary()))
				if s.axes[ax].Hidden {
					m = render.Axis{}
				}
				m.Label, m.Grid = dec.Label, dec.Grid
				*dec = m
				continue
			}
			length := float64(area.Dx())
			if ax.Dimension() == scale.Y {
				length = float64(area.Dy())
			}
			set, err := ticks.Resolve(rs[ax], length, s.policy(ax, used))
			if err != nil {
				if ax.secondary() {
					err = errors.Context(err, "%s axis", ax)
				}
				return image.Rectangle{}, err
			}
			dec.Ticks = set
		}

		next := ins.Max(render.Measure(c, *d, s.format))
		if next == ins || pass == maxMarginPasses-1 {
			return area, nil
		}
		ins = next
	}
}
