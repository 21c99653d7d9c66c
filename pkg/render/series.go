package render

import (
	"image"
	"math"

	"github.com/plt-rs/plt/pkg/draw"
	"github.com/plt-rs/plt/pkg/scale"
	"github.com/plt-rs/plt/pkg/series"
)

// Frame is the pixel geometry of one subplot for one draw.
type Frame struct {
	// Area is the plot area. Data primitives are clipped to it.
	Area image.Rectangle
	X, Y scale.Linear
	// X2 and Y2 place data bound to the secondary axes.
	X2, Y2 scale.Linear
}

// NewFrame builds the transforms for ranges xr and yr over area. The
// secondary transforms start equal to the primary ones.
func NewFrame(area image.Rectangle, xr, yr scale.Range) Frame {
	x, y := scale.NewX(xr, area), scale.NewY(yr, area)
	return Frame{Area: area, X: x, Y: y, X2: x, Y2: y}
}

// WithSecondary returns f with the secondary transforms spanning x2 and y2.
func (f Frame) WithSecondary(x2, y2 scale.Range) Frame {
	f.X2, f.Y2 = scale.NewX(x2, f.Area), scale.NewY(y2, f.Area)
	return f
}

// For returns the frame a series bound to the given axes is drawn in.
func (f Frame) For(secondaryX, secondaryY bool) Frame {
	if secondaryX {
		f.X = f.X2
	}
	if secondaryY {
		f.Y = f.Y2
	}
	return f
}

// Point maps a data point to pixels.
func (f Frame) Point(x, y float64) draw.Point {
	return draw.Point{X: f.X.ToPixel(x), Y: f.Y.ToPixel(y)}
}

// Series draws s onto c. Unset style colors come from fallback.
func Series(c draw.Canvas, s *series.Series, f Frame, fallback draw.Color) error {
	st := s.Style().Resolve(s.Kind(), fallback)
	switch s.Kind() {
	case series.Line:
		return drawLine(c, s, st, f)
	case series.Step:
		return drawStep(c, s, st, f)
	case series.Scatter:
		return drawMarkers(c, points(s.X(), s.Y(), f), st, f.Area)
	case series.Fill:
		return drawFill(c, s, st, f)
	}
	return nil
}

func lineStyle(st series.Style, clip image.Rectangle) draw.LineStyle {
	return draw.LineStyle{Color: st.Color, Width: st.Width, Dash: st.Dash, Clip: clip}
}

// points maps paired coordinates to pixels, leaving non-finite results in
// place so callers can split on them.
func points(xs, ys []float64, f Frame) []draw.Point {
	pts := make([]draw.Point, len(ys))
	for i := range ys {
		pts[i] = f.Point(xs[i], ys[i])
	}
	return pts
}

// runs splits pts at non-finite points into maximal finite runs.
func runs(pts []draw.Point) [][]draw.Point {
	var out [][]draw.Point
	start := -1
	for i, p := range pts {
		switch {
		case p.Finite() && start < 0:
			start = i
		case !p.Finite() && start >= 0:
			out = append(out, pts[start:i])
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, pts[start:])
	}
	return out
}

func drawPolylines(c draw.Canvas, pts []draw.Point, style draw.LineStyle) error {
	for _, run := range runs(pts) {
		if len(run) < 2 {
			continue
		}
		if err := c.DrawPolyline(run, style); err != nil {
			return err
		}
	}
	return nil
}

func drawLine(c draw.Canvas, s *series.Series, st series.Style, f Frame) error {
	pts := points(s.X(), s.Y(), f)
	if st.ShowLine {
		if err := drawPolylines(c, pts, lineStyle(st, f.Area)); err != nil {
			return err
		}
	}
	return drawMarkers(c, pts, st, f.Area)
}

func drawMarkers(c draw.Canvas, pts []draw.Point, st series.Style, clip image.Rectangle) error {
	if st.Marker == draw.MarkerNone {
		return nil
	}
	ms := draw.MarkerStyle{
		Size:         st.MarkerSize,
		Color:        st.MarkerColor,
		Outline:      st.OutlineColor,
		OutlineWidth: st.OutlineWidth,
		Clip:         clip,
	}
	for _, p := range pts {
		if !p.Finite() {
			continue
		}
		if err := c.DrawMarker(p, st.Marker, ms); err != nil {
			return err
		}
	}
	return nil
}

// StepVertices returns the pixel-snapped staircase of a step series.
// Point series hold y[i] from x[i] to x[i+1]; edge series hold y[i] from
// edge i to edge i+1. Every vertex is rounded to the nearest pixel.
func StepVertices(s *series.Series, f Frame) []draw.Point {
	xs, ys := s.X(), s.Y()
	if len(ys) == 0 {
		return nil
	}
	var out []draw.Point
	add := func(x, y float64) {
		p := f.Point(x, y)
		out = append(out, draw.Point{X: math.Round(p.X), Y: math.Round(p.Y)})
	}
	if s.Edges() {
		for i, y := range ys {
			add(xs[i], y)
			add(xs[i+1], y)
		}
		return out
	}
	add(xs[0], ys[0])
	for i := 1; i < len(ys); i++ {
		add(xs[i], ys[i-1])
		add(xs[i], ys[i])
	}
	return out
}

func drawStep(c draw.Canvas, s *series.Series, st series.Style, f Frame) error {
	if st.ShowLine {
		if err := drawPolylines(c, StepVertices(s, f), lineStyle(st, f.Area)); err != nil {
			return err
		}
	}
	if st.Marker == draw.MarkerNone {
		return nil
	}
	xs, ys := s.X(), s.Y()
	if s.Edges() {
		centers := make([]float64, len(ys))
		for i := range ys {
			centers[i] = (xs[i] + xs[i+1]) / 2
		}
		xs = centers
	}
	pts := points(xs, ys, f)
	for i, p := range pts {
		pts[i] = draw.Point{X: math.Round(p.X), Y: math.Round(p.Y)}
	}
	return drawMarkers(c, pts, st, f.Area)
}

// FillBoundary returns the closed polygon of a fill: the upper boundary
// forward, then the lower boundary or baseline backward. Points with any
// non-finite coordinate are dropped.
func FillBoundary(s *series.Series, f Frame) []draw.Point {
	xs, upper, lower := s.X(), s.Y(), s.Lower()
	base, hasBase := s.Baseline()

	type pair struct{ top, bottom draw.Point }
	var kept []pair
	for i := range upper {
		b := base
		if !hasBase {
			if lower == nil {
				continue
			}
			b = lower[i]
		}
		p := pair{top: f.Point(xs[i], upper[i]), bottom: f.Point(xs[i], b)}
		if p.top.Finite() && p.bottom.Finite() {
			kept = append(kept, p)
		}
	}

	out := make([]draw.Point, 0, 2*len(kept))
	for _, p := range kept {
		out = append(out, p.top)
	}
	for i := len(kept) - 1; i >= 0; i-- {
		out = append(out, kept[i].bottom)
	}
	return out
}

func drawFill(c draw.Canvas, s *series.Series, st series.Style, f Frame) error {
	boundary := FillBoundary(s, f)
	if len(boundary) < 3 {
		return nil
	}
	return c.FillRegion(boundary, draw.FillStyle{Color: st.Color, Clip: f.Area})
}
