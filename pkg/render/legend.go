package render

import (
	"math"

	"github.com/plt-rs/plt/pkg/draw"
	"github.com/plt-rs/plt/pkg/series"
)

// LegendEntry is one labelled series in a legend.
type LegendEntry struct {
	Label string
	Kind  series.Kind
	// Style must already be resolved against the color cycle.
	Style series.Style
}

// legendSwatch is the width of the sample drawn next to each label, in em.
const legendSwatch = 2.0

// DrawLegend draws entries in a framed box at the top-right corner of the
// plot area. Nothing is drawn for an empty legend.
func DrawLegend(c draw.Canvas, fr Frame, entries []LegendEntry, f Format) error {
	if len(entries) == 0 {
		return nil
	}
	m := measureMetrics(c, f)
	text := f.Text(draw.AlignLeft, draw.AlignMiddle)

	widest := 0.0
	for _, e := range entries {
		widest = math.Max(widest, draw.MeasureText(c, e.Label, text).Width)
	}
	swatch := legendSwatch * m.em
	rowH := m.em + m.pad/2
	w := m.pad + swatch + m.pad + widest + m.pad
	h := m.pad + float64(len(entries))*rowH + m.pad/2

	x1 := float64(fr.Area.Max.X) - m.pad
	y0 := float64(fr.Area.Min.Y) + m.pad
	x0 := x1 - w
	box := []draw.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y0 + h}, {X: x0, Y: y0 + h}}

	bg := f.PlotColor
	if bg.A == 0 {
		bg = draw.White
	}
	if err := c.FillRegion(box, draw.FillStyle{Color: bg.WithAlpha(0.8), Clip: fr.Area}); err != nil {
		return err
	}
	frame := append(box, box[0])
	if err := c.DrawPolyline(frame, draw.LineStyle{Color: f.LineColor, Width: 1, Clip: fr.Area}); err != nil {
		return err
	}

	for i, e := range entries {
		cy := y0 + m.pad + (float64(i)+0.5)*rowH
		sx0, sx1 := x0+m.pad, x0+m.pad+swatch
		if err := drawSwatch(c, e, sx0, sx1, cy, m.em, fr); err != nil {
			return err
		}
		if err := c.DrawText(draw.Pt(sx1+m.pad, cy), e.Label, text); err != nil {
			return err
		}
	}
	return nil
}

func drawSwatch(c draw.Canvas, e LegendEntry, x0, x1, cy, em float64, fr Frame) error {
	st := e.Style
	if e.Kind == series.Fill {
		h := em / 3
		return c.FillRegion([]draw.Point{{X: x0, Y: cy - h}, {X: x1, Y: cy - h}, {X: x1, Y: cy + h}, {X: x0, Y: cy + h}},
			draw.FillStyle{Color: st.Color, Clip: fr.Area})
	}
	if st.ShowLine {
		if err := c.DrawLine(draw.Pt(x0, cy), draw.Pt(x1, cy), lineStyle(st, fr.Area)); err != nil {
			return err
		}
	}
	if st.Marker == draw.MarkerNone {
		return nil
	}
	return c.DrawMarker(draw.Pt((x0+x1)/2, cy), st.Marker, draw.MarkerStyle{
		Size:         st.MarkerSize,
		Color:        st.MarkerColor,
		Outline:      st.OutlineColor,
		OutlineWidth: st.OutlineWidth,
		Clip:         fr.Area,
	})
}
