package draw

import (
	"slices"

	"github.com/plt-rs/plt/pkg/errors"
)

// Primitive is a single drawing command in pixel space.
type Primitive interface {
	// Apply issues the primitive against c.
	Apply(c Canvas) error
}

// Line is a single stroked segment.
type Line struct {
	Start, End Point
	Style      LineStyle
}

// Polyline is a connected run of stroked segments.
type Polyline struct {
	Points []Point
	Style  LineStyle
}

// Fill is a filled closed polygon.
type Fill struct {
	Boundary []Point
	Style    FillStyle
}

// Glyph is a marker drawn at a point.
type Glyph struct {
	Center Point
	Marker Marker
	Style  MarkerStyle
}

// Text is a text run.
type Text struct {
	Anchor Point
	Text   string
	Style  TextStyle
}

func (p Line) Apply(c Canvas) error     { return c.DrawLine(p.Start, p.End, p.Style) }
func (p Polyline) Apply(c Canvas) error { return c.DrawPolyline(p.Points, p.Style) }
func (p Fill) Apply(c Canvas) error     { return c.FillRegion(p.Boundary, p.Style) }
func (p Glyph) Apply(c Canvas) error    { return c.DrawMarker(p.Center, p.Marker, p.Style) }
func (p Text) Apply(c Canvas) error     { return c.DrawText(p.Anchor, p.Text, p.Style) }

// Recorder is a Canvas that buffers primitives instead of drawing them.
//
// It validates geometry the same way a real backend would, so a drawing that
// records cleanly can be replayed onto any canvas. Point slices are copied on
// record. A Recorder is not safe for concurrent use.
type Recorder struct {
	size     Size
	measurer TextMeasurer
	prims    []Primitive
}

// NewRecorder creates a recorder reporting the given size.
func NewRecorder(size Size) *Recorder {
	return &Recorder{size: size}
}

// NewRecorderFor creates a recorder sized like target that also borrows
// target's text measurement, if it has any.
func NewRecorderFor(target Canvas) *Recorder {
	r := &Recorder{size: target.Size()}
	if m, ok := target.(TextMeasurer); ok {
		r.measurer = m
	}
	return r
}

// Size reports the recorder's configured size.
func (r *Recorder) Size() Size { return r.size }

// MeasureText delegates to the borrowed measurer or estimates.
func (r *Recorder) MeasureText(text string, style TextStyle) Size {
	if r.measurer != nil {
		return r.measurer.MeasureText(text, style)
	}
	return EstimateText(text, style)
}

// DrawLine records a Line.
func (r *Recorder) DrawLine(start, end Point, style LineStyle) error {
	if err := CheckPoints("draw line", []Point{start, end}, 2); err != nil {
		return err
	}
	r.prims = append(r.prims, Line{Start: start, End: end, Style: style})
	return nil
}

// DrawPolyline records a Polyline.
func (r *Recorder) DrawPolyline(points []Point, style LineStyle) error {
	if err := CheckPoints("draw polyline", points, 2); err != nil {
		return err
	}
	r.prims = append(r.prims, Polyline{Points: slices.Clone(points), Style: style})
	return nil
}

// FillRegion records a Fill.
func (r *Recorder) FillRegion(boundary []Point, style FillStyle) error {
	if err := CheckPoints("fill region", boundary, 3); err != nil {
		return err
	}
	r.prims = append(r.prims, Fill{Boundary: slices.Clone(boundary), Style: style})
	return nil
}

// DrawMarker records a Glyph.
func (r *Recorder) DrawMarker(center Point, marker Marker, style MarkerStyle) error {
	if err := CheckPoints("draw marker", []Point{center}, 1); err != nil {
		return err
	}
	r.prims = append(r.prims, Glyph{Center: center, Marker: marker, Style: style})
	return nil
}

// DrawText records a Text.
func (r *Recorder) DrawText(anchor Point, text string, style TextStyle) error {
	if err := CheckPoints("draw text", []Point{anchor}, 1); err != nil {
		return err
	}
	r.prims = append(r.prims, Text{Anchor: anchor, Text: text, Style: style})
	return nil
}

// Primitives returns the recorded primitives in order.
func (r *Recorder) Primitives() []Primitive { return r.prims }

// Len returns the number of recorded primitives.
func (r *Recorder) Len() int { return len(r.prims) }

// Reset discards all recorded primitives.
func (r *Recorder) Reset() { r.prims = r.prims[:0] }

// Replay applies every recorded primitive to c in order and stops at the
// first failure.
func (r *Recorder) Replay(c Canvas) error {
	for i, p := range r.prims {
		if err := p.Apply(c); err != nil {
			if errors.GetCode(err) != "" {
				return err
			}
			return errors.Wrap(errors.ErrCodeDraw, err, "replay primitive %d", i).In(errors.StageDraw)
		}
	}
	return nil
}

var _ Canvas = (*Recorder)(nil)
var _ TextMeasurer = (*Recorder)(nil)
