package draw

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/plt-rs/plt/pkg/errors"
)

// =============================================================================
// Color
// =============================================================================

// Color is a non-premultiplied RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	Black       = Color{0, 0, 0, 1}
	White       = Color{1, 1, 1, 1}
	Transparent = Color{0, 0, 0, 0}
)

// RGB returns an opaque color.
func RGB(r, g, b float64) Color { return Color{R: r, G: g, B: b, A: 1} }

// Gray returns an opaque gray of the given level.
func Gray(level float64) Color { return RGB(level, level, level) }

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	if len(s) == 9 && s[0] == '#' {
		c, err := colorful.Hex(s[:7])
		if err != nil {
			return Color{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse color %q", s)
		}
		a, err := colorful.Hex("#" + s[7:9] + "0000")
		if err != nil {
			return Color{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse alpha of %q", s)
		}
		return Color{R: c.R, G: c.G, B: c.B, A: a.R}, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse color %q", s)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

// Hex formats c as "#rrggbb", ignoring alpha.
func (c Color) Hex() string {
	return colorful.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}.Hex()
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// IsZero reports whether c is the zero value (unset).
func (c Color) IsZero() bool { return c == Color{} }

// NRGBA converts c to an 8-bit image/color value.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(math.Round(clamp01(c.R) * 255)),
		G: uint8(math.Round(clamp01(c.G) * 255)),
		B: uint8(math.Round(clamp01(c.B) * 255)),
		A: uint8(math.Round(clamp01(c.A) * 255)),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// =============================================================================
// Strokes and fills
// =============================================================================

// Dash patterns, as alternating on/off lengths in pixels.
var (
	Solid       []float64
	Dashed      = []float64{10, 10}
	ShortDashed = []float64{4, 4}
)

// LineStyle describes how a line or polyline is stroked.
type LineStyle struct {
	Color Color
	Width float64
	Dash  []float64
	// Clip restricts drawing to a rectangle. The zero rectangle disables clipping.
	Clip image.Rectangle
}

// FillStyle describes how a polygon is filled.
type FillStyle struct {
	Color Color
	Clip  image.Rectangle
}

// =============================================================================
// Markers
// =============================================================================

// Marker is the glyph drawn at a data point.
type Marker int

// Marker glyphs.
const (
	MarkerNone Marker = iota
	MarkerCircle
	MarkerSquare
	MarkerTriangle
	MarkerDiamond
)

var markerNames = map[Marker]string{
	MarkerNone:     "none",
	MarkerCircle:   "circle",
	MarkerSquare:   "square",
	MarkerTriangle: "triangle",
	MarkerDiamond:  "diamond",
}

func (m Marker) String() string {
	if s, ok := markerNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseMarker looks up a marker by name.
func ParseMarker(s string) (Marker, error) {
	for m, name := range markerNames {
		if name == s {
			return m, nil
		}
	}
	return MarkerNone, errors.New(errors.ErrCodeInvalidInput, "unknown marker %q", s)
}

// MarkerStyle describes how a marker glyph is drawn.
type MarkerStyle struct {
	// Size is the glyph's bounding-box edge in pixels.
	Size  float64
	Color Color
	// Outline is stroked around the glyph when OutlineWidth > 0.
	Outline      Color
	OutlineWidth float64
	Clip         image.Rectangle
}

// Outline returns the closed polygon for polygonal markers centered on c,
// or nil for circles and MarkerNone.
func (m Marker) Outline(c Point, size float64) []Point {
	h := size / 2
	switch m {
	case MarkerSquare:
		return []Point{{c.X - h, c.Y - h}, {c.X + h, c.Y - h}, {c.X + h, c.Y + h}, {c.X - h, c.Y + h}}
	case MarkerTriangle:
		return []Point{{c.X, c.Y - h}, {c.X + h, c.Y + h}, {c.X - h, c.Y + h}}
	case MarkerDiamond:
		return []Point{{c.X, c.Y - h}, {c.X + h, c.Y}, {c.X, c.Y + h}, {c.X - h, c.Y}}
	}
	return nil
}

// =============================================================================
// Text
// =============================================================================

// HAlign positions text horizontally relative to its anchor.
type HAlign int

// Horizontal alignments.
const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

// VAlign positions text vertically relative to its anchor.
type VAlign int

// Vertical alignments.
const (
	AlignTop VAlign = iota
	AlignMiddle
	AlignBottom
)

// TextStyle describes a text run.
type TextStyle struct {
	Family string
	Size   float64
	Color  Color
	HAlign HAlign
	VAlign VAlign
	// Rotation is counter-clockwise, in radians, about the anchor.
	Rotation float64
}
