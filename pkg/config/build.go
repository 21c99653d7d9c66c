package config

import (
	"math"

	"github.com/aclements/go-moremath/vec"

	"github.com/plt-rs/plt/pkg/draw"
	"github.com/plt-rs/plt/pkg/errors"
	"github.com/plt-rs/plt/pkg/layout"
	"github.com/plt-rs/plt/pkg/plot"
	"github.com/plt-rs/plt/pkg/render"
	"github.com/plt-rs/plt/pkg/render/sink"
	"github.com/plt-rs/plt/pkg/series"
	"github.com/plt-rs/plt/pkg/ticks"
)

// Build validates the description and constructs the figure it describes.
//
// Description problems (unknown kinds, malformed colors, conflicting tick
// settings) fail with INVALID_CONFIG. Data problems keep the code the
// plot package reports, e.g. MISMATCHED_SERIES_LENGTH.
func (f *Figure) Build() (*plot.Figure, error) {
	opts, err := f.figureOptions()
	if err != nil {
		return nil, err
	}
	if len(f.Subplots) == 0 {
		return nil, configError("figure has no subplots")
	}

	subplots := make([]*plot.Subplot, len(f.Subplots))
	for i := range f.Subplots {
		sp, err := f.Subplots[i].build()
		if err != nil {
			return nil, errors.Context(err, "subplot %d", i)
		}
		subplots[i] = sp
	}

	l, err := f.buildLayout(subplots)
	if err != nil {
		return nil, err
	}
	return plot.NewFigure(append(opts, plot.WithLayout(l))...), nil
}

// MaxLinspace bounds the point count of a generated series.
const MaxLinspace = 1 << 20

func configError(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfig, format, args...).In(errors.StageConfig)
}

func (f *Figure) figureOptions() ([]plot.FigureOption, error) {
	var opts []plot.FigureOption
	switch {
	case f.Width != 0 || f.Height != 0:
		if f.Width < 1 || f.Height < 1 {
			return nil, configError("figure size %dx%d must be positive", f.Width, f.Height)
		}
		if err := checkSize(float64(f.Width), float64(f.Height)); err != nil {
			return nil, err
		}
		opts = append(opts, plot.WithSize(f.Width, f.Height))
	case f.WidthInches != 0 || f.HeightInches != 0 || f.DPI != 0:
		w, h, dpi := f.WidthInches, f.HeightInches, f.DPI
		if w == 0 {
			w = plot.DefaultWidthInches
		}
		if h == 0 {
			h = plot.DefaultHeightInches
		}
		if dpi == 0 {
			dpi = plot.DefaultDPI
		}
		if !(w > 0 && h > 0 && dpi > 0) {
			return nil, configError("figure size %gx%g in at %g dpi must be positive", w, h, dpi)
		}
		if err := checkSize(math.Round(w*dpi), math.Round(h*dpi)); err != nil {
			return nil, err
		}
		opts = append(opts, plot.WithInches(w, h, dpi))
	}
	if f.Face != "" {
		c, err := parseColor("face", f.Face)
		if err != nil {
			return nil, err
		}
		opts = append(opts, plot.WithFace(c))
	}
	return opts, nil
}

// checkSize applies the renderer's surface bounds to a pixel size.
func checkSize(w, h float64) error {
	if err := sink.CheckSize(draw.Size{Width: w, Height: h}, 1); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "figure size").In(errors.StageConfig)
	}
	return nil
}

func parseColor(field, s string) (draw.Color, error) {
	c, err := draw.ParseColor(s)
	if err != nil {
		return draw.Color{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", field).In(errors.StageConfig)
	}
	return c, nil
}

func (f *Figure) layoutOptions() ([]layout.Option, error) {
	l := f.Layout
	var opts []layout.Option
	if l.Margin != nil {
		if *l.Margin < 0 {
			return nil, configError("layout margin %d is negative", *l.Margin)
		}
		opts = append(opts, layout.WithMargin(*l.Margin))
	}
	if l.Spacing != nil {
		if *l.Spacing < 0 {
			return nil, configError("layout spacing %d is negative", *l.Spacing)
		}
		opts = append(opts, layout.WithSpacing(*l.Spacing))
	}
	if l.Aspect != 0 {
		if !(l.Aspect > 0) {
			return nil, configError("layout aspect %g must be positive", l.Aspect)
		}
		opts = append(opts, layout.WithAspect(l.Aspect))
	}
	if l.MinSize != nil {
		if len(l.MinSize) != 2 || l.MinSize[0] < 1 || l.MinSize[1] < 1 {
			return nil, configError("layout min_size must be [width, height] in positive pixels, got %v", l.MinSize)
		}
		opts = append(opts, layout.WithMinSize(l.MinSize[0], l.MinSize[1]))
	}
	return opts, nil
}

func (f *Figure) buildLayout(subplots []*plot.Subplot) (plot.Layout, error) {
	opts, err := f.layoutOptions()
	if err != nil {
		return nil, err
	}

	kind := f.Layout.Kind
	if kind == "" {
		kind = LayoutGrid
		if len(subplots) == 1 {
			kind = LayoutSingle
		}
	}

	switch kind {
	case LayoutSingle:
		if len(subplots) != 1 {
			return nil, configError("single layout holds one subplot, got %d", len(subplots))
		}
		return plot.NewSingleLayout(subplots[0], opts...), nil

	case LayoutGrid:
		if f.Layout.Rows == 0 && f.Layout.Cols == 0 {
			g := plot.NewAutoGridLayout(opts...)
			for i, sp := range subplots {
				if f.Subplots[i].Row != nil || f.Subplots[i].Col != nil {
					return nil, configError("subplot %d sets a grid cell, but the grid has no rows and cols", i)
				}
				if err := g.Add(sp); err != nil {
					return nil, err
				}
			}
			return g, nil
		}
		g, err := plot.NewGridLayout(f.Layout.Rows, f.Layout.Cols, opts...)
		if err != nil {
			return nil, err
		}
		for i, sp := range subplots {
			row, col := i/f.Layout.Cols, i%f.Layout.Cols
			if d := f.Subplots[i]; d.Row != nil || d.Col != nil {
				if d.Row == nil || d.Col == nil {
					return nil, configError("subplot %d must set both row and col", i)
				}
				row, col = *d.Row, *d.Col
			}
			if err := g.Insert(row, col, sp); err != nil {
				return nil, errors.Context(err, "subplot %d", i)
			}
		}
		return g, nil

	case LayoutCustom:
		c := plot.NewCustomLayout(opts...)
		for i, sp := range subplots {
			a := f.Subplots[i].Area
			if a == nil {
				return nil, configError("subplot %d needs an area in a custom layout", i)
			}
			area := layout.Area{XMin: a.XMin, XMax: a.XMax, YMin: a.YMin, YMax: a.YMax}
			if err := c.Insert(area, sp); err != nil {
				return nil, errors.Context(err, "subplot %d", i)
			}
		}
		return c, nil
	}
	return nil, configError("unknown layout kind %q", kind)
}

func (s *Subplot) format() (render.Format, error) {
	var f render.Format
	switch s.Theme {
	case "", ThemeLight:
		f = render.DefaultFormat()
	case ThemeDark:
		f = render.DarkFormat()
	default:
		return f, configError("unknown theme %q", s.Theme)
	}
	if s.FontSize != 0 {
		f.FontSize = s.FontSize
	}
	if s.Colors != nil {
		f.ColorCycle = make([]draw.Color, len(s.Colors))
		for i, hex := range s.Colors {
			c, err := parseColor("colors", hex)
			if err != nil {
				return f, err
			}
			f.ColorCycle[i] = c
		}
	}
	return f, nil
}

func (s *Subplot) build() (*plot.Subplot, error) {
	f, err := s.format()
	if err != nil {
		return nil, err
	}
	b := plot.NewSubplot().Title(s.Title).Format(f).Legend(s.Legend)
	for _, ax := range []struct {
		axis plot.Axes
		cfg  Axis
	}{{plot.X, s.X}, {plot.Y, s.Y}, {plot.SecondaryX, s.SecondaryX}, {plot.SecondaryY, s.SecondaryY}} {
		if err := ax.cfg.apply(b, ax.axis); err != nil {
			return nil, errors.Context(err, "%s axis", ax.axis)
		}
	}

	sp, err := b.Build()
	if err != nil {
		return nil, err
	}
	for i := range s.Series {
		if err := s.Series[i].addTo(sp); err != nil {
			return nil, errors.Context(err, "series %d", i)
		}
	}
	return sp, nil
}

func (a Axis) apply(b *plot.SubplotBuilder, ax plot.Axes) error {
	b.Label(ax, a.Label).Visible(ax, !a.Hidden)
	if a.Limits != nil {
		if len(a.Limits) != 2 {
			return configError("limits must be [min, max], got %d values", len(a.Limits))
		}
		b.Limits(ax, a.Limits[0], a.Limits[1])
	}

	major, err := spacing("ticks", a.Ticks, a.TickCount, a.NoTicks)
	if err != nil {
		return err
	}
	minor, err := spacing("minor ticks", a.MinorTicks, a.MinorDivisions, a.NoMinor)
	if err != nil {
		return err
	}
	b.TickSpacing(ax, major).MinorTicks(ax, minor)

	switch n := count(a.TickLabels != nil, a.HideTickLabels, a.ShowTickLabels); {
	case n > 1:
		return configError("tick_labels, hide_tick_labels and show_tick_labels are exclusive")
	case a.TickLabels != nil:
		b.TickLabels(ax, ticks.ManualLabels(a.TickLabels...))
	case a.HideTickLabels:
		b.TickLabels(ax, ticks.NoLabels())
	case a.ShowTickLabels:
		b.TickLabels(ax, ticks.OnLabels())
	}

	switch {
	case a.MinorTickLabels != nil && a.LabelMinorTicks:
		return configError("minor_tick_labels and label_minor_ticks are exclusive")
	case a.MinorTickLabels != nil:
		b.MinorTickLabels(ax, ticks.ManualLabels(a.MinorTickLabels...))
	case a.LabelMinorTicks:
		b.MinorTickLabels(ax, ticks.OnLabels())
	}

	switch a.Grid {
	case "", GridNone:
		b.Grid(ax, render.GridNone)
	case GridMajor:
		b.Grid(ax, render.GridMajor)
	case GridFull:
		b.Grid(ax, render.GridFull)
	default:
		return configError("unknown grid mode %q", a.Grid)
	}
	return nil
}

func count(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

// spacing picks the tick spacing from the three mutually exclusive
// settings of one tick kind.
func spacing(what string, values []float64, n int, none bool) (ticks.Spacing, error) {
	switch {
	case count(values != nil, n != 0, none) > 1:
		return ticks.Spacing{}, configError("%s: positions, count and none are exclusive", what)
	case values != nil:
		return ticks.ManualSpacing(values...), nil
	case n < 0:
		return ticks.Spacing{}, configError("%s: count %d is negative", what, n)
	case n > 0:
		return ticks.CountSpacing(n), nil
	case none:
		return ticks.NoSpacing(), nil
	}
	return ticks.AutoSpacing(), nil
}

func (s *Series) x() ([]float64, error) {
	switch {
	case s.X != nil && s.Linspace != nil:
		return nil, configError("x and linspace are exclusive")
	case s.Linspace != nil:
		if len(s.Linspace) != 3 {
			return nil, configError("linspace must be [start, stop, n], got %d values", len(s.Linspace))
		}
		n := s.Linspace[2]
		if !(n >= 2 && n <= MaxLinspace) || n != math.Trunc(n) {
			return nil, configError("linspace count %g must be an integer in [2, %d]", n, MaxLinspace)
		}
		return vec.Linspace(s.Linspace[0], s.Linspace[1], int(n)), nil
	case s.X != nil:
		return s.X, nil
	}
	n := len(s.Y)
	if s.Edges {
		n++
	}
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}
	return x, nil
}

func (s *Series) options() ([]series.Option, error) {
	var opts []series.Option
	if s.Label != "" {
		opts = append(opts, series.WithLabel(s.Label))
	}
	if s.Color != "" {
		c, err := parseColor("color", s.Color)
		if err != nil {
			return nil, err
		}
		opts = append(opts, series.WithColor(c))
	}
	if s.Width != 0 {
		if !(s.Width > 0) {
			return nil, configError("width %g must be positive", s.Width)
		}
		opts = append(opts, series.WithWidth(s.Width))
	}
	if s.Dash != nil {
		opts = append(opts, series.WithDash(s.Dash))
	}
	if s.NoLine {
		opts = append(opts, series.WithoutLine())
	}
	if s.Marker != "" {
		m, err := draw.ParseMarker(s.Marker)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "marker").In(errors.StageConfig)
		}
		opts = append(opts, series.WithMarker(m))
	}
	if s.MarkerSize != 0 {
		if !(s.MarkerSize > 0) {
			return nil, configError("marker_size %g must be positive", s.MarkerSize)
		}
		opts = append(opts, series.WithMarkerSize(s.MarkerSize))
	}
	if s.MarkerColor != "" {
		c, err := parseColor("marker_color", s.MarkerColor)
		if err != nil {
			return nil, err
		}
		opts = append(opts, series.WithMarkerColor(c))
	}
	if s.Outline != "" || s.OutlineWidth != 0 {
		var c draw.Color
		if s.Outline != "" {
			var err error
			if c, err = parseColor("outline", s.Outline); err != nil {
				return nil, err
			}
		}
		opts = append(opts, series.WithOutline(c, s.OutlineWidth))
	}
	if s.SecondaryX {
		opts = append(opts, series.OnSecondaryX())
	}
	if s.SecondaryY {
		opts = append(opts, series.OnSecondaryY())
	}
	return opts, nil
}

func (s *Series) addTo(sp *plot.Subplot) error {
	x, err := s.x()
	if err != nil {
		return err
	}
	opts, err := s.options()
	if err != nil {
		return err
	}
	if s.Edges && s.Kind != KindStep {
		return configError("edges only apply to step series")
	}
	if (s.Lower != nil || s.Baseline != nil) && s.Kind != KindFill {
		return configError("lower and baseline only apply to fill series")
	}

	switch s.Kind {
	case "", KindLine:
		return sp.Plot(x, s.Y, opts...)
	case KindStep:
		if s.Edges {
			return sp.StepEdges(x, s.Y, opts...)
		}
		return sp.Step(x, s.Y, opts...)
	case KindScatter:
		return sp.Scatter(x, s.Y, opts...)
	case KindFill:
		if s.Lower != nil {
			if s.Baseline != nil {
				return configError("lower and baseline are exclusive")
			}
			return sp.FillBetween(x, s.Y, s.Lower, opts...)
		}
		var base float64
		if s.Baseline != nil {
			base = *s.Baseline
		}
		return sp.FillTo(x, s.Y, base, opts...)
	}
	return configError("unknown series kind %q", s.Kind)
}
