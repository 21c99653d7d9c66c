// Package sink provides the concrete canvases and output encoders.
//
// # Overview
//
// A "sink" is where drawing primitives end up. This package provides:
//
//   - [Raster]: anti-aliased rasterization with gg, encoded as PNG or JPEG
//   - [SVG]: hand-written SVG elements, one per primitive
//   - PDF: SVG converted with rsvg-convert (see [ToPDF])
//
// Both canvases measure text with the embedded Go Regular font from
// [fonts], so margins computed during layout match the drawn glyphs.
//
// # Render
//
// [Render] ties a canvas to an encoder:
//
//	png, err := sink.Render(ctx, sink.FormatPNG, fig.Size(), fig.Draw, sink.WithScale(2))
//
// # Rotated Text
//
// [draw.TextStyle] rotation is counter-clockwise on screen. Alignment is
// applied in the text's own frame before rotating about the anchor, so a
// Y axis label at π/2 with bottom alignment sits left of its anchor.
//
// # PDF Output
//
// PDF output requires librsvg to be installed:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [fonts]: github.com/plt-rs/plt/pkg/fonts
package sink
