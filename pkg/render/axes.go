package render

import (
	"image"
	"math"

	"github.com/plt-rs/plt/pkg/draw"
	"github.com/plt-rs/plt/pkg/scale"
	"github.com/plt-rs/plt/pkg/ticks"
)

// Axis is the resolved decoration state of one axis for one draw.
type Axis struct {
	Label string
	Ticks ticks.Set
	// TickLabels reserves room for tick labels even before Ticks is known.
	TickLabels bool
	Grid       Grid
	// Spine draws the axis line on its side of the plot area.
	Spine bool
}

// Mirror returns the decoration of the opposite spine repeating the tick
// marks of a without labels. A hidden spine has no mirror.
func Mirror(a Axis) Axis {
	if !a.Spine {
		return Axis{}
	}
	return Axis{Ticks: a.Ticks.Unlabelled(), Spine: true}
}

func (a Axis) hasTicks() bool { return len(a.Ticks.Major)+len(a.Ticks.Minor) > 0 }

// labelled returns the major and minor ticks that carry a label.
func (a Axis) labelled() []ticks.Tick {
	var out []ticks.Tick
	for _, t := range a.Ticks.Major {
		if t.Label != "" {
			out = append(out, t)
		}
	}
	for _, t := range a.Ticks.Minor {
		if t.Label != "" {
			out = append(out, t)
		}
	}
	return out
}

func widestLabel(c draw.Canvas, a Axis, style draw.TextStyle) float64 {
	widest := 0.0
	for _, t := range a.labelled() {
		widest = math.Max(widest, draw.MeasureText(c, t.Label, style).Width)
	}
	return widest
}

// Decorations is everything drawn around the data of a subplot.
type Decorations struct {
	Title string
	X, Y  Axis
	// X2 and Y2 decorate the top and right spines. Their ticks are placed
	// with Frame.X2 and Frame.Y2.
	X2, Y2 Axis
	Legend []LegendEntry
}

// Insets are the margins, in whole pixels, that decorations need around the
// plot area.
type Insets struct {
	Left, Right, Top, Bottom int
}

// Max returns the per-side maximum of a and b.
func (a Insets) Max(b Insets) Insets {
	return Insets{
		Left:   max(a.Left, b.Left),
		Right:  max(a.Right, b.Right),
		Top:    max(a.Top, b.Top),
		Bottom: max(a.Bottom, b.Bottom),
	}
}

// Shrink returns r with the insets removed. The result may be empty.
func (a Insets) Shrink(r image.Rectangle) image.Rectangle {
	minPt := image.Pt(r.Min.X+a.Left, r.Min.Y+a.Top)
	maxPt := image.Pt(r.Max.X-a.Right, r.Max.Y-a.Bottom)
	if maxPt.X <= minPt.X || maxPt.Y <= minPt.Y {
		return image.Rectangle{Min: minPt, Max: minPt}
	}
	return image.Rectangle{Min: minPt, Max: maxPt}
}

// metrics are the text-derived spacings shared by Measure and DrawAxes.
type metrics struct {
	em  float64
	pad float64
}

func measureMetrics(c draw.Canvas, f Format) metrics {
	em := draw.MeasureText(c, "0", f.Text(draw.AlignLeft, draw.AlignTop)).Height
	return metrics{em: em, pad: math.Floor(em * 0.6)}
}

// Measure computes the insets d needs. Tick label extents come from the
// ticks already in d; rows for titles, axis labels and modifiers are
// reserved whenever they have text.
func Measure(c draw.Canvas, d Decorations, f Format) Insets {
	m := measureMetrics(c, f)
	_, outer := f.tickExtent(f.TickLength)
	style := f.Text(draw.AlignLeft, draw.AlignTop)

	bottom := m.pad + outer
	if d.X.TickLabels {
		bottom += m.em + m.pad
	}
	if d.X.Label != "" || d.X.Ticks.Modifier != "" {
		bottom += m.em + m.pad
	}

	top := m.pad
	if d.X2.hasTicks() {
		top += outer
	}
	if d.X2.TickLabels {
		top += m.em + m.pad
	}
	if d.X2.Label != "" || d.X2.Ticks.Modifier != "" {
		top += m.em + m.pad
	}
	if d.Title != "" || d.Y.Ticks.Modifier != "" || d.Y2.Ticks.Modifier != "" {
		top += m.em + m.pad
	}

	left := m.pad + outer
	if d.Y.TickLabels {
		left += widestLabel(c, d.Y, style) + m.pad
	}
	if d.Y.Label != "" {
		left += m.em + m.pad
	}

	right := m.pad
	if d.Y2.hasTicks() {
		right += outer
	}
	if d.Y2.TickLabels {
		right += widestLabel(c, d.Y2, style) + m.pad
	}
	if d.Y2.Label != "" {
		right += m.em + m.pad
	}
	// Labels of the rightmost x ticks overhang the plot area by half their width.
	for _, a := range []Axis{d.X, d.X2} {
		if !a.TickLabels {
			continue
		}
		ls := a.labelled()
		if len(ls) == 0 {
			continue
		}
		last := ls[0]
		for _, t := range ls[1:] {
			if t.Value > last.Value {
				last = t
			}
		}
		right = math.Max(right, draw.MeasureText(c, last.Label, style).Width/2)
	}

	return Insets{
		Left:   int(math.Ceil(left)),
		Right:  int(math.Ceil(right)),
		Top:    int(math.Ceil(top)),
		Bottom: int(math.Ceil(bottom)),
	}
}

// DrawBackground fills the plot area unless f.PlotColor is transparent.
func DrawBackground(c draw.Canvas, fr Frame, f Format) error {
	if f.PlotColor.A == 0 {
		return nil
	}
	a := fr.Area
	return c.FillRegion([]draw.Point{
		{X: float64(a.Min.X), Y: float64(a.Min.Y)},
		{X: float64(a.Max.X), Y: float64(a.Min.Y)},
		{X: float64(a.Max.X), Y: float64(a.Max.Y)},
		{X: float64(a.Min.X), Y: float64(a.Max.Y)},
	}, draw.FillStyle{Color: f.PlotColor})
}

// DrawGrid draws grid lines behind the data. Lines sit on whole pixels.
func DrawGrid(c draw.Canvas, fr Frame, d Decorations, f Format) error {
	a := fr.Area
	style := draw.LineStyle{Color: f.GridColor, Width: f.LineWidth, Clip: a}
	for _, ax := range []struct {
		axis Axis
		tr   scale.Linear
		vert bool
	}{{d.X, fr.X, true}, {d.Y, fr.Y, false}, {d.X2, fr.X2, true}, {d.Y2, fr.Y2, false}} {
		if ax.axis.Grid == GridNone {
			continue
		}
		set := ax.axis.Ticks.Major
		if ax.axis.Grid == GridFull {
			set = append(append([]ticks.Tick(nil), set...), ax.axis.Ticks.Minor...)
		}
		for _, t := range set {
			var p, q draw.Point
			v := math.Round(ax.tr.ToPixel(t.Value))
			if ax.vert {
				p, q = draw.Pt(v, float64(a.Min.Y)), draw.Pt(v, float64(a.Max.Y))
			} else {
				p, q = draw.Pt(float64(a.Min.X), v), draw.Pt(float64(a.Max.X), v)
			}
			if err := c.DrawLine(p, q, style); err != nil {
				return err
			}
		}
	}
	return nil
}

// DrawAxes draws spines, tick marks, tick labels, label modifiers, axis
// labels and the title around the plot area.
func DrawAxes(c draw.Canvas, fr Frame, d Decorations, f Format) error {
	a := fr.Area
	m := measureMetrics(c, f)
	left, right := float64(a.Min.X), float64(a.Max.X)
	top, bottom := float64(a.Min.Y), float64(a.Max.Y)
	half := f.LineWidth / 2
	line := draw.LineStyle{Color: f.LineColor, Width: f.LineWidth}

	var prims []draw.Primitive
	if d.X.Spine {
		prims = append(prims, draw.Line{Start: draw.Pt(left-half, bottom), End: draw.Pt(right+half, bottom), Style: line})
	}
	if d.X2.Spine {
		prims = append(prims, draw.Line{Start: draw.Pt(left-half, top), End: draw.Pt(right+half, top), Style: line})
	}
	if d.Y.Spine {
		prims = append(prims, draw.Line{Start: draw.Pt(left, bottom+half), End: draw.Pt(left, top-half), Style: line})
	}
	if d.Y2.Spine {
		prims = append(prims, draw.Line{Start: draw.Pt(right, bottom+half), End: draw.Pt(right, top-half), Style: line})
	}

	majorIn, majorOut := f.tickExtent(f.TickLength)
	minorIn, minorOut := f.tickExtent(f.MinorLength())
	marks := func(ax Axis, tr scale.Linear, mark func(at, in, out float64) draw.Line) {
		for _, t := range ax.Ticks.Minor {
			if minorIn+minorOut > 0 {
				prims = append(prims, mark(math.Round(tr.ToPixel(t.Value)), minorIn, minorOut))
			}
		}
		for _, t := range ax.Ticks.Major {
			if majorIn+majorOut > 0 {
				prims = append(prims, mark(math.Round(tr.ToPixel(t.Value)), majorIn, majorOut))
			}
		}
	}
	marks(d.X, fr.X, func(x, in, out float64) draw.Line {
		return draw.Line{Start: draw.Pt(x, bottom+out), End: draw.Pt(x, bottom-in), Style: line}
	})
	marks(d.X2, fr.X2, func(x, in, out float64) draw.Line {
		return draw.Line{Start: draw.Pt(x, top-out), End: draw.Pt(x, top+in), Style: line}
	})
	marks(d.Y, fr.Y, func(y, in, out float64) draw.Line {
		return draw.Line{Start: draw.Pt(left-out, y), End: draw.Pt(left+in, y), Style: line}
	})
	marks(d.Y2, fr.Y2, func(y, in, out float64) draw.Line {
		return draw.Line{Start: draw.Pt(right+out, y), End: draw.Pt(right-in, y), Style: line}
	})

	outTop, outRight := 0.0, 0.0
	if d.X2.hasTicks() {
		outTop = majorOut
	}
	if d.Y2.hasTicks() {
		outRight = majorOut
	}

	// Tick labels.
	xLabelY := bottom + majorOut + m.pad
	for _, t := range d.X.labelled() {
		x := math.Round(fr.X.ToPixel(t.Value))
		prims = append(prims, draw.Text{Anchor: draw.Pt(x, xLabelY), Text: t.Label, Style: f.Text(draw.AlignCenter, draw.AlignTop)})
	}
	x2LabelY := top - outTop - m.pad
	for _, t := range d.X2.labelled() {
		x := math.Round(fr.X2.ToPixel(t.Value))
		prims = append(prims, draw.Text{Anchor: draw.Pt(x, x2LabelY), Text: t.Label, Style: f.Text(draw.AlignCenter, draw.AlignBottom)})
	}
	yLabelX := left - majorOut - m.pad
	yStyle := f.Text(draw.AlignRight, draw.AlignMiddle)
	for _, t := range d.Y.labelled() {
		y := math.Round(fr.Y.ToPixel(t.Value))
		prims = append(prims, draw.Text{Anchor: draw.Pt(yLabelX, y), Text: t.Label, Style: yStyle})
	}
	y2LabelX := right + outRight + m.pad
	y2Style := f.Text(draw.AlignLeft, draw.AlignMiddle)
	for _, t := range d.Y2.labelled() {
		y := math.Round(fr.Y2.ToPixel(t.Value))
		prims = append(prims, draw.Text{Anchor: draw.Pt(y2LabelX, y), Text: t.Label, Style: y2Style})
	}

	// Second row below the plot: axis label centered, modifier at the right.
	row := bottom + majorOut + m.pad
	if d.X.TickLabels {
		row += m.em + m.pad
	}
	if d.X.Label != "" {
		prims = append(prims, draw.Text{Anchor: draw.Pt((left+right)/2, row), Text: d.X.Label, Style: f.Text(draw.AlignCenter, draw.AlignTop)})
	}
	if mod := d.X.Ticks.Modifier; mod != "" {
		prims = append(prims, draw.Text{Anchor: draw.Pt(right, row), Text: mod, Style: f.Text(draw.AlignRight, draw.AlignTop)})
	}

	if d.Y.Label != "" {
		x := yLabelX - m.pad
		if d.Y.TickLabels {
			x -= widestLabel(c, d.Y, yStyle)
		}
		style := f.Text(draw.AlignCenter, draw.AlignBottom)
		style.Rotation = math.Pi / 2
		prims = append(prims, draw.Text{Anchor: draw.Pt(x, (top+bottom)/2), Text: d.Y.Label, Style: style})
	}
	if d.Y2.Label != "" {
		x := y2LabelX + m.pad
		if d.Y2.TickLabels {
			x += widestLabel(c, d.Y2, y2Style)
		}
		style := f.Text(draw.AlignCenter, draw.AlignTop)
		style.Rotation = math.Pi / 2
		prims = append(prims, draw.Text{Anchor: draw.Pt(x, (top+bottom)/2), Text: d.Y2.Label, Style: style})
	}

	// Rows above the plot, bottom up: secondary x label and modifier, then
	// the title between the y modifiers.
	above := x2LabelY
	if d.X2.TickLabels {
		above -= m.em + m.pad
	}
	if d.X2.Label != "" || d.X2.Ticks.Modifier != "" {
		if d.X2.Label != "" {
			prims = append(prims, draw.Text{Anchor: draw.Pt((left+right)/2, above), Text: d.X2.Label, Style: f.Text(draw.AlignCenter, draw.AlignBottom)})
		}
		if mod := d.X2.Ticks.Modifier; mod != "" {
			prims = append(prims, draw.Text{Anchor: draw.Pt(right, above), Text: mod, Style: f.Text(draw.AlignRight, draw.AlignBottom)})
		}
		above -= m.em + m.pad
	}
	if d.Title != "" {
		prims = append(prims, draw.Text{Anchor: draw.Pt((left+right)/2, above), Text: d.Title, Style: f.Text(draw.AlignCenter, draw.AlignBottom)})
	}
	if mod := d.Y.Ticks.Modifier; mod != "" {
		prims = append(prims, draw.Text{Anchor: draw.Pt(left, above), Text: mod, Style: f.Text(draw.AlignLeft, draw.AlignBottom)})
	}
	if mod := d.Y2.Ticks.Modifier; mod != "" {
		prims = append(prims, draw.Text{Anchor: draw.Pt(right, above), Text: mod, Style: f.Text(draw.AlignRight, draw.AlignBottom)})
	}

	for _, p := range prims {
		if err := p.Apply(c); err != nil {
			return err
		}
	}
	return nil
}
