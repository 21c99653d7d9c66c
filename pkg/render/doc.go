// Package render turns series and axis state into drawing primitives.
//
// # Overview
//
// Everything here runs once per subplot per draw and writes directly to a
// [draw.Canvas]. The caller supplies a [Frame] (the plot area plus the X and
// Y transforms) and the resolved tick sets; render never computes ranges or
// ticks itself.
//
//   - [Series] draws line, step, scatter and fill series
//   - [DrawBackground] and [DrawGrid] paint behind the data
//   - [DrawAxes] draws spines, tick marks, labels and the title
//   - [DrawLegend] draws labelled series in the plot corner
//   - [Measure] reports the margins decorations need
//
// # Pixel Snapping
//
// Step series, tick marks and grid lines are snapped to whole pixels with
// math.Round so that vertical and horizontal edges land on exact pixel
// columns and rows. Line and scatter series keep sub-pixel positions.
//
// # Clipping
//
// Data primitives carry the plot area as their clip rectangle. Decorations
// are drawn unclipped.
//
// Concrete canvases and encoders live in [sink].
//
// [sink]: github.com/plt-rs/plt/pkg/render/sink
package render
