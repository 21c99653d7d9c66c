package plot

import (
	"github.com/plt-rs/plt/pkg/render"
	"github.com/plt-rs/plt/pkg/scale"
	"github.com/plt-rs/plt/pkg/ticks"
)

// SubplotBuilder accumulates a SubplotConfig with chained setters.
//
//	sp, err := plot.NewSubplot().
//		Title("response").
//		Label(plot.X, "time [s]").
//		Limits(plot.Y, 0, 1).
//		Grid(plot.Y, render.GridMajor).
//		Label(plot.SecondaryY, "current [A]").
//		Build()
type SubplotBuilder struct {
	cfg SubplotConfig
}

// NewSubplot starts a builder with the default configuration.
func NewSubplot() *SubplotBuilder {
	return &SubplotBuilder{}
}

func (b *SubplotBuilder) axis(ax Axes) *AxisConfig { return b.cfg.axis(ax) }

// Title sets the text above the plot area.
func (b *SubplotBuilder) Title(s string) *SubplotBuilder {
	b.cfg.Title = s
	return b
}

// Format replaces the visual style.
func (b *SubplotBuilder) Format(f Format) *SubplotBuilder {
	b.cfg.Format = &f
	return b
}

// Legend toggles the legend.
func (b *SubplotBuilder) Legend(on bool) *SubplotBuilder {
	b.cfg.Legend = on
	return b
}

// Label sets the axis label.
func (b *SubplotBuilder) Label(ax Axes, s string) *SubplotBuilder {
	b.axis(ax).Label = s
	return b
}

// Limits fixes the axis range. Build rejects min >= max.
func (b *SubplotBuilder) Limits(ax Axes, min, max float64) *SubplotBuilder {
	b.axis(ax).Limits = &scale.Range{Min: min, Max: max}
	return b
}

// TickSpacing sets where major ticks go.
func (b *SubplotBuilder) TickSpacing(ax Axes, s ticks.Spacing) *SubplotBuilder {
	b.axis(ax).Ticks.Major = s
	return b
}

// TickLabels sets how major ticks are labelled.
func (b *SubplotBuilder) TickLabels(ax Axes, p ticks.LabelPolicy) *SubplotBuilder {
	b.axis(ax).Ticks.Labels = p
	return b
}

// MinorTicks sets where minor ticks go.
func (b *SubplotBuilder) MinorTicks(ax Axes, s ticks.Spacing) *SubplotBuilder {
	b.axis(ax).Ticks.Minor = s
	return b
}

// MinorTickLabels sets how minor ticks are labelled.
func (b *SubplotBuilder) MinorTickLabels(ax Axes, p ticks.LabelPolicy) *SubplotBuilder {
	b.axis(ax).Ticks.MinorLabels = p
	return b
}

// Grid sets which ticks of the axis get grid lines.
func (b *SubplotBuilder) Grid(ax Axes, g render.Grid) *SubplotBuilder {
	b.axis(ax).Grid = g
	return b
}

// Visible shows or hides the axis spine.
func (b *SubplotBuilder) Visible(ax Axes, on bool) *SubplotBuilder {
	b.axis(ax).Hidden = !on
	return b
}

// Config returns a copy of the accumulated configuration.
func (b *SubplotBuilder) Config() SubplotConfig { return b.cfg }

// Build validates the configuration and returns the subplot.
func (b *SubplotBuilder) Build() (*Subplot, error) {
	return b.cfg.Build()
}
