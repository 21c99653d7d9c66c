package render

import "github.com/plt-rs/plt/pkg/draw"

// TickDirection selects which side of a spine tick marks extend to.
type TickDirection int

// Tick directions.
const (
	TickInner TickDirection = iota
	TickOuter
	TickBoth
)

// Grid selects which ticks of an axis get grid lines.
type Grid int

// Grid modes.
const (
	GridNone Grid = iota
	GridMajor
	GridFull
)

// Format holds the visual settings of a subplot.
type Format struct {
	// PlotColor fills the plot area behind the data.
	PlotColor draw.Color
	// LineColor strokes spines and tick marks.
	LineColor draw.Color
	LineWidth float64
	GridColor draw.Color
	TextColor draw.Color

	FontFamily string
	FontSize   float64

	// TickLength is the major tick length. Minor ticks are half as long
	// unless MinorTickLength is set.
	TickLength      float64
	MinorTickLength float64
	TickDirection   TickDirection

	// DefaultColor is used for series when ColorCycle is empty.
	DefaultColor draw.Color
	ColorCycle   []draw.Color
}

// Default color cycle.
var (
	Blue   = draw.RGB(0.271, 0.522, 0.533)
	Orange = draw.RGB(0.839, 0.365, 0.055)
	Green  = draw.RGB(0.596, 0.592, 0.102)
	Purple = draw.RGB(0.694, 0.384, 0.525)
	Red    = draw.RGB(0.800, 0.141, 0.114)
)

// DefaultFontSize is the font size of DefaultFormat, in pixels.
const DefaultFontSize = 14

// DefaultFormat returns the light theme.
func DefaultFormat() Format {
	return Format{
		PlotColor:     draw.Transparent,
		LineColor:     draw.Black,
		LineWidth:     2,
		GridColor:     draw.Gray(0.75),
		TextColor:     draw.Black,
		FontFamily:    "sans-serif",
		FontSize:      DefaultFontSize,
		TickLength:    8,
		TickDirection: TickInner,
		DefaultColor:  draw.Black,
		ColorCycle:    []draw.Color{Blue, Orange, Green, Purple, Red},
	}
}

// DarkFormat returns a dark theme with muted lines on a charcoal plot area.
func DarkFormat() Format {
	f := DefaultFormat()
	line := draw.RGB(0.659, 0.600, 0.518)
	f.PlotColor = draw.Gray(0.157)
	f.GridColor = draw.Gray(0.250)
	f.LineColor = line
	f.TextColor = line
	f.DefaultColor = line
	return f
}

// CycleColor returns the i-th color of the cycle, wrapping around.
func (f Format) CycleColor(i int) draw.Color {
	if len(f.ColorCycle) == 0 {
		return f.DefaultColor
	}
	return f.ColorCycle[i%len(f.ColorCycle)]
}

// MinorLength returns the minor tick length.
func (f Format) MinorLength() float64 {
	if f.MinorTickLength > 0 {
		return f.MinorTickLength
	}
	return f.TickLength / 2
}

// tickExtent splits a tick length into its inner and outer parts.
func (f Format) tickExtent(length float64) (inner, outer float64) {
	switch f.TickDirection {
	case TickOuter:
		return 0, length
	case TickBoth:
		return length, length
	}
	return length, 0
}

// Text returns the text style for f with the given alignment.
func (f Format) Text(h draw.HAlign, v draw.VAlign) draw.TextStyle {
	return draw.TextStyle{Family: f.FontFamily, Size: f.FontSize, Color: f.TextColor, HAlign: h, VAlign: v}
}
