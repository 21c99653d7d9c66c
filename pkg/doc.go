// Package pkg holds the libraries behind plt, a 2D plotting toolkit.
//
// # Overview
//
// A figure is a pixel canvas split into subplots by a layout. Each subplot
// owns data series (lines, steps, scatter markers, filled regions) and the
// configuration of its two axes. Drawing resolves the axis limits from the
// data, picks tick positions for the available pixels, fits the margins
// around tick labels, and emits primitives to a canvas.
//
// The packages, from the bottom up:
//
//  1. [errors] - coded errors shared by every stage
//  2. [scale] - axis ranges, limit resolution and data-to-pixel transforms
//  3. [ticks] - major and minor tick selection and labels
//  4. [draw] - the canvas interface, styles and the recording canvas
//  5. [series] - immutable data series
//  6. [layout] - single, grid and custom subplot placement
//  7. [render] - formats, axes decoration, series rendering and legends
//  8. [render/sink] - PNG, JPEG, SVG and PDF encoders
//  9. [plot] - the Figure and Subplot API
//  10. [config] - TOML, YAML and JSON figure descriptions
//  11. [pipeline], [cache], [observability] - cached rendering for the CLI
//     and the server
//  12. [server] - the HTTP render service
//
// # Data Flow
//
//	description (.toml/.yaml/.json)
//	         ↓
//	    [config] package (decode + build)
//	         ↓
//	    [plot] package (limits → ticks → margins → primitives)
//	         ↓
//	    [render/sink] package (encode)
//	         ↓
//	    PNG/JPEG/SVG/PDF output
//
// # Quick Start
//
//	sp, err := plot.NewSubplot().Title("squares").Build()
//	if err != nil {
//	    return err
//	}
//	if err := sp.Plot([]float64{0, 1, 2, 3}, []float64{0, 1, 4, 9}); err != nil {
//	    return err
//	}
//	fig := plot.NewFigure(plot.WithLayout(plot.NewSingleLayout(sp)))
//	return fig.DrawFile("png", "squares.png")
package pkg
