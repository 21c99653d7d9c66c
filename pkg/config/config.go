package config

// Figure is the declarative description of a plot.Figure.
//
// Sizes are in pixels. When Width and Height are zero, WidthInches,
// HeightInches and DPI are used instead; when those are zero too, the
// plot package defaults apply.
type Figure struct {
	Width        int     `json:"width,omitempty" toml:"width,omitempty" yaml:"width,omitempty"`
	Height       int     `json:"height,omitempty" toml:"height,omitempty" yaml:"height,omitempty"`
	WidthInches  float64 `json:"width_inches,omitempty" toml:"width_inches,omitempty" yaml:"width_inches,omitempty"`
	HeightInches float64 `json:"height_inches,omitempty" toml:"height_inches,omitempty" yaml:"height_inches,omitempty"`
	DPI          float64 `json:"dpi,omitempty" toml:"dpi,omitempty" yaml:"dpi,omitempty"`
	// Face is the figure background as "#rrggbb" or "#rrggbbaa".
	Face     string    `json:"face,omitempty" toml:"face,omitempty" yaml:"face,omitempty"`
	Layout   Layout    `json:"layout,omitempty" toml:"layout,omitempty" yaml:"layout,omitempty"`
	Subplots []Subplot `json:"subplots" toml:"subplots" yaml:"subplots"`
}

// Layout kinds.
const (
	LayoutSingle = "single"
	LayoutGrid   = "grid"
	LayoutCustom = "custom"
)

// Layout selects how subplots are arranged. An empty Kind means single
// for one subplot and an auto-sized grid otherwise.
type Layout struct {
	Kind string `json:"kind,omitempty" toml:"kind,omitempty" yaml:"kind,omitempty"`
	// Rows and Cols fix the grid dimensions. Zero sizes the grid from the
	// subplot count.
	Rows    int     `json:"rows,omitempty" toml:"rows,omitempty" yaml:"rows,omitempty"`
	Cols    int     `json:"cols,omitempty" toml:"cols,omitempty" yaml:"cols,omitempty"`
	Margin  *int    `json:"margin,omitempty" toml:"margin,omitempty" yaml:"margin,omitempty"`
	Spacing *int    `json:"spacing,omitempty" toml:"spacing,omitempty" yaml:"spacing,omitempty"`
	Aspect  float64 `json:"aspect,omitempty" toml:"aspect,omitempty" yaml:"aspect,omitempty"`
	MinSize []int   `json:"min_size,omitempty" toml:"min_size,omitempty" yaml:"min_size,omitempty"`
}

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Subplot describes one plot area.
type Subplot struct {
	Title    string  `json:"title,omitempty" toml:"title,omitempty" yaml:"title,omitempty"`
	Theme    string  `json:"theme,omitempty" toml:"theme,omitempty" yaml:"theme,omitempty"`
	FontSize float64 `json:"font_size,omitempty" toml:"font_size,omitempty" yaml:"font_size,omitempty"`
	// Colors replaces the series color cycle.
	Colors []string `json:"colors,omitempty" toml:"colors,omitempty" yaml:"colors,omitempty"`
	Legend bool     `json:"legend,omitempty" toml:"legend,omitempty" yaml:"legend,omitempty"`

	// Row and Col place the subplot in a fixed grid. When unset, subplots
	// fill the grid row by row in order.
	Row *int `json:"row,omitempty" toml:"row,omitempty" yaml:"row,omitempty"`
	Col *int `json:"col,omitempty" toml:"col,omitempty" yaml:"col,omitempty"`
	// Area places the subplot in a custom layout.
	Area *Area `json:"area,omitempty" toml:"area,omitempty" yaml:"area,omitempty"`

	X Axis `json:"x,omitempty" toml:"x,omitempty" yaml:"x,omitempty"`
	Y Axis `json:"y,omitempty" toml:"y,omitempty" yaml:"y,omitempty"`

	// SecondaryX and SecondaryY are the top and right axes.
	SecondaryX Axis     `json:"secondary_x,omitempty" toml:"secondary_x,omitempty" yaml:"secondary_x,omitempty"`
	SecondaryY Axis     `json:"secondary_y,omitempty" toml:"secondary_y,omitempty" yaml:"secondary_y,omitempty"`
	Series     []Series `json:"series,omitempty" toml:"series,omitempty" yaml:"series,omitempty"`
}

// Area is a fractional figure region; y is measured from the bottom.
type Area struct {
	XMin float64 `json:"x_min" toml:"x_min" yaml:"x_min"`
	XMax float64 `json:"x_max" toml:"x_max" yaml:"x_max"`
	YMin float64 `json:"y_min" toml:"y_min" yaml:"y_min"`
	YMax float64 `json:"y_max" toml:"y_max" yaml:"y_max"`
}

// Grid modes.
const (
	GridNone  = "none"
	GridMajor = "major"
	GridFull  = "full"
)

// Axis describes one axis of a subplot.
type Axis struct {
	Label string `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty"`
	// Limits is [min, max].
	Limits []float64 `json:"limits,omitempty" toml:"limits,omitempty" yaml:"limits,omitempty"`

	// At most one of Ticks, TickCount and NoTicks may be set.
	Ticks     []float64 `json:"ticks,omitempty" toml:"ticks,omitempty" yaml:"ticks,omitempty"`
	TickCount int       `json:"tick_count,omitempty" toml:"tick_count,omitempty" yaml:"tick_count,omitempty"`
	NoTicks   bool      `json:"no_ticks,omitempty" toml:"no_ticks,omitempty" yaml:"no_ticks,omitempty"`

	// At most one of TickLabels, HideTickLabels and ShowTickLabels may be
	// set. ShowTickLabels labels a secondary axis no series uses.
	TickLabels     []string `json:"tick_labels,omitempty" toml:"tick_labels,omitempty" yaml:"tick_labels,omitempty"`
	HideTickLabels bool     `json:"hide_tick_labels,omitempty" toml:"hide_tick_labels,omitempty" yaml:"hide_tick_labels,omitempty"`
	ShowTickLabels bool     `json:"show_tick_labels,omitempty" toml:"show_tick_labels,omitempty" yaml:"show_tick_labels,omitempty"`

	// At most one of MinorTicks, MinorDivisions and NoMinor may be set.
	MinorTicks     []float64 `json:"minor_ticks,omitempty" toml:"minor_ticks,omitempty" yaml:"minor_ticks,omitempty"`
	MinorDivisions int       `json:"minor_divisions,omitempty" toml:"minor_divisions,omitempty" yaml:"minor_divisions,omitempty"`
	NoMinor        bool      `json:"no_minor,omitempty" toml:"no_minor,omitempty" yaml:"no_minor,omitempty"`

	// MinorTickLabels and LabelMinorTicks are exclusive.
	MinorTickLabels []string `json:"minor_tick_labels,omitempty" toml:"minor_tick_labels,omitempty" yaml:"minor_tick_labels,omitempty"`
	LabelMinorTicks bool     `json:"label_minor_ticks,omitempty" toml:"label_minor_ticks,omitempty" yaml:"label_minor_ticks,omitempty"`

	Grid   string `json:"grid,omitempty" toml:"grid,omitempty" yaml:"grid,omitempty"`
	Hidden bool   `json:"hidden,omitempty" toml:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// Series kinds.
const (
	KindLine    = "line"
	KindStep    = "step"
	KindScatter = "scatter"
	KindFill    = "fill"
)

// Series describes one data series. Kind defaults to line.
//
// X may be given inline, generated with Linspace = [start, stop, n], or
// omitted, in which case the indices 0..len(Y)-1 are used.
type Series struct {
	Kind  string `json:"kind,omitempty" toml:"kind,omitempty" yaml:"kind,omitempty"`
	Label string `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty"`

	X        []float64 `json:"x,omitempty" toml:"x,omitempty" yaml:"x,omitempty"`
	Linspace []float64 `json:"linspace,omitempty" toml:"linspace,omitempty" yaml:"linspace,omitempty"`
	Y        []float64 `json:"y,omitempty" toml:"y,omitempty" yaml:"y,omitempty"`
	// Edges marks step X values as bin edges, one more than Y.
	Edges bool `json:"edges,omitempty" toml:"edges,omitempty" yaml:"edges,omitempty"`
	// Lower is the lower bound of a fill; without it the fill runs to
	// Baseline, which defaults to zero.
	Lower    []float64 `json:"lower,omitempty" toml:"lower,omitempty" yaml:"lower,omitempty"`
	Baseline *float64  `json:"baseline,omitempty" toml:"baseline,omitempty" yaml:"baseline,omitempty"`

	Color        string    `json:"color,omitempty" toml:"color,omitempty" yaml:"color,omitempty"`
	Width        float64   `json:"width,omitempty" toml:"width,omitempty" yaml:"width,omitempty"`
	Dash         []float64 `json:"dash,omitempty" toml:"dash,omitempty" yaml:"dash,omitempty"`
	NoLine       bool      `json:"no_line,omitempty" toml:"no_line,omitempty" yaml:"no_line,omitempty"`
	Marker       string    `json:"marker,omitempty" toml:"marker,omitempty" yaml:"marker,omitempty"`
	MarkerSize   float64   `json:"marker_size,omitempty" toml:"marker_size,omitempty" yaml:"marker_size,omitempty"`
	MarkerColor  string    `json:"marker_color,omitempty" toml:"marker_color,omitempty" yaml:"marker_color,omitempty"`
	Outline      string    `json:"outline,omitempty" toml:"outline,omitempty" yaml:"outline,omitempty"`
	OutlineWidth float64   `json:"outline_width,omitempty" toml:"outline_width,omitempty" yaml:"outline_width,omitempty"`

	// SecondaryX and SecondaryY place the series against the top and right axes.
	SecondaryX bool `json:"secondary_x,omitempty" toml:"secondary_x,omitempty" yaml:"secondary_x,omitempty"`
	SecondaryY bool `json:"secondary_y,omitempty" toml:"secondary_y,omitempty" yaml:"secondary_y,omitempty"`
}

// Stats summarizes a description.
type Stats struct {
	Subplots int
	Series   int
	Points   int
}

// Stats counts subplots, series and data points.
func (f *Figure) Stats() Stats {
	s := Stats{Subplots: len(f.Subplots)}
	for _, sp := range f.Subplots {
		s.Series += len(sp.Series)
		for _, sr := range sp.Series {
			s.Points += len(sr.Y)
		}
	}
	return s
}
