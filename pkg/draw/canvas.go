// Package draw defines the drawing vocabulary shared by the plotting core
// and its backends.
//
// The core never rasterizes anything itself. It emits Primitives (lines,
// polylines, filled polygons, marker glyphs and text runs, all in pixel
// coordinates with a top-left origin) onto a Canvas. Concrete canvases live
// in pkg/render/sink; the Recorder in this package buffers primitives so a
// caller can validate a whole drawing before it reaches a real backend.
package draw

import (
	"image"
	"math"

	"github.com/plt-rs/plt/pkg/errors"
)

// Canvas is the capability interface every rendering backend implements.
// All methods fail with a DRAW_ERROR on backend-level failure.
type Canvas interface {
	// Size reports the canvas dimensions in pixels.
	Size() Size
	// DrawLine strokes a single segment.
	DrawLine(start, end Point, style LineStyle) error
	// DrawPolyline strokes connected segments through points in order.
	DrawPolyline(points []Point, style LineStyle) error
	// FillRegion fills the closed polygon described by boundary.
	FillRegion(boundary []Point, style FillStyle) error
	// DrawMarker draws one marker glyph centered on center.
	DrawMarker(center Point, marker Marker, style MarkerStyle) error
	// DrawText draws text positioned relative to anchor.
	DrawText(anchor Point, text string, style TextStyle) error
}

// TextMeasurer is implemented by canvases that can report exact text extents.
// Canvases that do not implement it are measured with EstimateText.
type TextMeasurer interface {
	MeasureText(text string, style TextStyle) Size
}

// Point is a position in pixel space. The origin is the top-left corner.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Finite reports whether both coordinates are finite.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Size is a width and height in pixels.
type Size struct {
	Width, Height float64
}

// Rect returns the integer rectangle covering a canvas of size s.
func (s Size) Rect() image.Rectangle {
	return image.Rect(0, 0, int(math.Round(s.Width)), int(math.Round(s.Height)))
}

// Em ratios used when a canvas cannot measure text.
const (
	estimatedAdvance = 0.6
	estimatedHeight  = 1.0
)

// EstimateText approximates the extent of text from the font size alone.
// Rotation is applied, so a vertical label reports a tall, narrow box.
func EstimateText(text string, style TextStyle) Size {
	n := 0
	for range text {
		n++
	}
	w := float64(n) * style.Size * estimatedAdvance
	h := style.Size * estimatedHeight
	if style.Rotation != 0 {
		sin, cos := math.Abs(math.Sin(style.Rotation)), math.Abs(math.Cos(style.Rotation))
		w, h = w*cos+h*sin, w*sin+h*cos
	}
	return Size{Width: w, Height: h}
}

// MeasureText measures text on c when it supports measurement and estimates
// it otherwise.
func MeasureText(c Canvas, text string, style TextStyle) Size {
	if m, ok := c.(TextMeasurer); ok {
		return m.MeasureText(text, style)
	}
	return EstimateText(text, style)
}

// CheckPoints returns a DRAW_ERROR if any point is non-finite or if fewer
// than min points are given. Backends use it to reject invalid geometry.
func CheckPoints(op string, points []Point, min int) error {
	if len(points) < min {
		return errors.New(errors.ErrCodeDraw, "%s: need at least %d points, got %d", op, min, len(points)).In(errors.StageDraw)
	}
	for i, p := range points {
		if !p.Finite() {
			return errors.New(errors.ErrCodeDraw, "%s: point %d is not finite (%g, %g)", op, i, p.X, p.Y).In(errors.StageDraw)
		}
	}
	return nil
}
