// Package scale maps data values to pixel coordinates.
//
// It holds the axis Range type, the Linear transform built once per axis per
// draw, and the limit resolver that derives a Range from series data. Nothing
// here is cached: callers rebuild ranges and transforms on every draw.
package scale

import (
	"image"
	"math"
)

// Axis selects which coordinate of a series an operation targets.
type Axis int

// Axes.
const (
	X Axis = iota
	Y
)

func (a Axis) String() string {
	if a == X {
		return "x"
	}
	return "y"
}

// Range is the [Min, Max] data interval an axis displays.
type Range struct {
	Min, Max float64
}

// Span returns Max - Min.
func (r Range) Span() float64 { return r.Max - r.Min }

// Valid reports whether both bounds are finite and Min < Max.
func (r Range) Valid() bool {
	return finite(r.Min) && finite(r.Max) && r.Min < r.Max
}

// Contains reports whether v lies in the closed interval, allowing a
// tolerance of eps times the span at either end.
func (r Range) Contains(v, eps float64) bool {
	tol := math.Abs(r.Span()) * eps
	return v >= r.Min-tol && v <= r.Max+tol
}

// Expand returns the smallest range covering r and v. Non-finite v is ignored.
func (r Range) Expand(v float64) Range {
	if !finite(v) {
		return r
	}
	return Range{Min: math.Min(r.Min, v), Max: math.Max(r.Max, v)}
}

// Linear is an affine data-to-pixel mapping:
//
//	pixel = Origin + (v - Min) / (Max - Min) * Span * Sign
//
// No clipping happens here; out-of-range values map outside the span.
type Linear struct {
	Min, Max float64
	Origin   float64
	Span     float64
	Sign     float64
}

// NewX builds the transform for a horizontal axis over area.
// Min maps to the left edge and Max to the right edge.
func NewX(r Range, area image.Rectangle) Linear {
	return Linear{Min: r.Min, Max: r.Max, Origin: float64(area.Min.X), Span: float64(area.Dx()), Sign: 1}
}

// NewY builds the transform for a vertical axis over area. Pixel rows grow
// downwards, so Min maps to the bottom edge and Max to the top edge.
func NewY(r Range, area image.Rectangle) Linear {
	return Linear{Min: r.Min, Max: r.Max, Origin: float64(area.Max.Y), Span: float64(area.Dy()), Sign: -1}
}

// New builds the transform for the given axis over area.
func New(axis Axis, r Range, area image.Rectangle) Linear {
	if axis == X {
		return NewX(r, area)
	}
	return NewY(r, area)
}

// ToPixel maps a data value to a pixel coordinate.
func (l Linear) ToPixel(v float64) float64 {
	return l.Origin + (v-l.Min)/(l.Max-l.Min)*l.Span*l.Sign
}

// ToData maps a pixel coordinate back to a data value.
func (l Linear) ToData(p float64) float64 {
	return l.Min + (p-l.Origin)/(l.Span*l.Sign)*(l.Max-l.Min)
}

// Range returns the data range of the transform.
func (l Linear) Range() Range { return Range{Min: l.Min, Max: l.Max} }

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
