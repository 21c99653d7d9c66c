package layout

import (
	"image"
	"math"

	"github.com/plt-rs/plt/pkg/errors"
)

// Area is a region of the figure in fractions of its width and height.
// YMin and YMax are measured from the bottom edge.
type Area struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Full covers the whole figure.
var Full = Area{XMin: 0, XMax: 1, YMin: 0, YMax: 1}

// Valid reports whether a lies in the unit square with min < max on both axes.
func (a Area) Valid() bool {
	in := func(v float64) bool { return v >= 0 && v <= 1 }
	return in(a.XMin) && in(a.XMax) && in(a.YMin) && in(a.YMax) &&
		a.XMin < a.XMax && a.YMin < a.YMax
}

// Rect converts a to pixels inside total. Minimum edges round up and maximum
// edges round down, so the result never exceeds the fractional region.
func (a Area) Rect(total image.Rectangle) image.Rectangle {
	w, h := float64(total.Dx()), float64(total.Dy())
	x0 := total.Min.X + int(math.Ceil(a.XMin*w))
	x1 := total.Min.X + int(math.Floor(a.XMax*w))
	y0 := total.Min.Y + int(math.Ceil((1-a.YMax)*h))
	y1 := total.Min.Y + int(math.Floor((1-a.YMin)*h))
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return image.Rectangle{Min: image.Pt(x0, y0), Max: image.Pt(x1, y1)}
}

// Custom places subplot i in Areas[i].
type Custom struct {
	Areas []Area
	Min   image.Point
}

// NewCustom returns a Custom strategy over areas with defaults applied.
func NewCustom(areas []Area, opts ...Option) Custom {
	s := newSettings(opts)
	return Custom{Areas: append([]Area(nil), areas...), Min: s.minSize}
}

// MinSize implements Strategy.
func (c Custom) MinSize() image.Point { return c.Min }

// Rects implements Strategy. Overlapping areas are rejected by Partition.
func (c Custom) Rects(total image.Rectangle, n int) ([]image.Rectangle, error) {
	if len(c.Areas) != n {
		return nil, errors.New(errors.ErrCodeInvalidLayout, "%d areas for %d subplots", len(c.Areas), n).In(errors.StageLayout)
	}
	rects := make([]image.Rectangle, n)
	for i, a := range c.Areas {
		if !a.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidLayout,
				"area %d %+v must lie in [0, 1] with min < max", i, a).In(errors.StageLayout)
		}
		rects[i] = a.Rect(total)
	}
	return rects, nil
}
