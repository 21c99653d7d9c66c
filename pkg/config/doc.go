// Package config decodes declarative figure descriptions and builds
// figures from them.
//
// A description names the figure size, its layout and, per subplot, the
// axis settings and data series. TOML, YAML and JSON carry the same
// fields:
//
//	width = 400
//	height = 300
//
//	[[subplots]]
//	title = "response"
//
//	[subplots.y]
//	limits = [0.0, 1.0]
//	grid = "major"
//
//	[[subplots.series]]
//	linspace = [0.0, 1.0, 5.0]
//	y = [0.0, 0.6, 0.85, 0.95, 1.0]
//	marker = "circle"
//
// [Load] picks the format from the file extension; [Decode] takes it
// explicitly. [Figure.Build] validates the description and returns a
// plot.Figure ready to draw.
package config
