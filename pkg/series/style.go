package series

import (
	"slices"

	"github.com/plt-rs/plt/pkg/draw"
)

// Style defaults.
const (
	DefaultWidth        = 3.0
	DefaultMarkerSize   = 6.0
	DefaultOutlineWidth = 2.0

	// FillAlpha is applied to fill colors taken from the color cycle.
	FillAlpha = 0.5
)

// Style describes how a series is stroked, marked and labelled.
// Zero colors are resolved from the subplot's color cycle at draw time.
type Style struct {
	Label string

	// Color strokes lines and steps and fills regions.
	Color draw.Color
	Width float64
	Dash  []float64
	// ShowLine draws the connecting line of line and step series.
	ShowLine bool

	Marker       draw.Marker
	MarkerSize   float64
	MarkerColor  draw.Color
	OutlineColor draw.Color
	OutlineWidth float64

	// SecondaryX and SecondaryY bind the series to the top and right axes.
	SecondaryX bool
	SecondaryY bool
}

// Option customizes a series style.
type Option func(*Style)

func newStyle(kind Kind, opts []Option) Style {
	st := Style{
		Width:      DefaultWidth,
		ShowLine:   kind == Line || kind == Step,
		MarkerSize: DefaultMarkerSize,
	}
	if kind == Scatter {
		st.Marker = draw.MarkerCircle
	}
	for _, opt := range opts {
		opt(&st)
	}
	st.Dash = slices.Clone(st.Dash)
	return st
}

// WithLabel sets the legend label.
func WithLabel(label string) Option {
	return func(s *Style) { s.Label = label }
}

// WithColor overrides the color taken from the color cycle.
func WithColor(c draw.Color) Option {
	return func(s *Style) { s.Color = c }
}

// WithWidth sets the stroke width in pixels.
func WithWidth(w float64) Option {
	return func(s *Style) { s.Width = w }
}

// WithDash sets the dash pattern, e.g. draw.Dashed.
func WithDash(pattern []float64) Option {
	return func(s *Style) { s.Dash = pattern }
}

// WithMarker draws m at every point.
func WithMarker(m draw.Marker) Option {
	return func(s *Style) { s.Marker = m }
}

// WithMarkerSize sets the marker bounding-box edge in pixels.
func WithMarkerSize(px float64) Option {
	return func(s *Style) { s.MarkerSize = px }
}

// WithMarkerColor overrides the marker fill color.
func WithMarkerColor(c draw.Color) Option {
	return func(s *Style) { s.MarkerColor = c }
}

// WithOutline strokes markers with an outline. A zero color reuses the
// marker color.
func WithOutline(c draw.Color, width float64) Option {
	return func(s *Style) { s.OutlineColor, s.OutlineWidth = c, width }
}

// OnSecondaryX places the series against the subplot's secondary (top) x axis.
func OnSecondaryX() Option {
	return func(s *Style) { s.SecondaryX = true }
}

// OnSecondaryY places the series against the subplot's secondary (right) y axis.
func OnSecondaryY() Option {
	return func(s *Style) { s.SecondaryY = true }
}

// WithoutLine draws markers only.
func WithoutLine() Option {
	return func(s *Style) { s.ShowLine = false }
}

// Resolve fills unset colors from fallback, the next color of the cycle.
// Fills take the fallback at FillAlpha.
func (s Style) Resolve(kind Kind, fallback draw.Color) Style {
	if s.Color.IsZero() {
		s.Color = fallback
		if kind == Fill {
			s.Color = fallback.WithAlpha(FillAlpha)
		}
	}
	if s.MarkerColor.IsZero() {
		s.MarkerColor = s.Color
	}
	if s.OutlineWidth > 0 && s.OutlineColor.IsZero() {
		s.OutlineColor = s.MarkerColor
	}
	return s
}
