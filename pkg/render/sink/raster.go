package sink

import (
	"image"
	"image/jpeg"
	"io"

	"github.com/fogleman/gg"

	"github.com/plt-rs/plt/pkg/draw"
	"github.com/plt-rs/plt/pkg/errors"
)

// Raster is a Canvas that rasterizes onto an RGBA image with gg.
//
// Coordinates are logical pixels. A scale above 1 renders a proportionally
// larger image for high-density displays.
type Raster struct {
	measurer
	dc            *gg.Context
	width, height int
}

// NewRaster returns a transparent raster canvas of width x height logical
// pixels, rendered at the given scale. A non-positive scale means 1. Sizes
// rejected by CheckSize fail with INVALID_INPUT.
func NewRaster(width, height int, scale float64) (*Raster, error) {
	if !(scale > 0) {
		scale = 1
	}
	if err := CheckSize(draw.Size{Width: float64(width), Height: float64(height)}, scale); err != nil {
		return nil, err
	}
	dc := gg.NewContext(int(float64(width)*scale+0.5), int(float64(height)*scale+0.5))
	dc.Scale(scale, scale)
	dc.SetLineCapButt()
	dc.SetLineJoinRound()
	return &Raster{dc: dc, width: width, height: height}, nil
}

// Size implements draw.Canvas.
func (r *Raster) Size() draw.Size {
	return draw.Size{Width: float64(r.width), Height: float64(r.height)}
}

// Image returns the rendered image.
func (r *Raster) Image() image.Image { return r.dc.Image() }

// EncodePNG writes the image as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if err := r.dc.EncodePNG(w); err != nil {
		return errors.Wrap(errors.ErrCodeEncoding, err, "encode png").In(errors.StageEncode)
	}
	return nil
}

// EncodeJPEG writes the image as JPEG. JPEG has no alpha channel, so
// transparent areas come out black unless the figure paints a face.
func (r *Raster) EncodeJPEG(w io.Writer, quality int) error {
	if err := jpeg.Encode(w, r.dc.Image(), &jpeg.Options{Quality: quality}); err != nil {
		return errors.Wrap(errors.ErrCodeEncoding, err, "encode jpeg").In(errors.StageEncode)
	}
	return nil
}

func (r *Raster) setColor(c draw.Color) {
	r.dc.SetRGBA(c.R, c.G, c.B, c.A)
}

// clipped runs fn with drawing restricted to clip. The zero rectangle
// disables clipping.
func (r *Raster) clipped(clip image.Rectangle, fn func()) {
	if clip.Empty() {
		fn()
		return
	}
	r.dc.Push()
	r.dc.DrawRectangle(float64(clip.Min.X), float64(clip.Min.Y), float64(clip.Dx()), float64(clip.Dy()))
	r.dc.Clip()
	fn()
	// Pop keeps the current mask, so it is reset explicitly.
	r.dc.ResetClip()
	r.dc.Pop()
}

func (r *Raster) path(points []draw.Point) {
	r.dc.NewSubPath()
	r.dc.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		r.dc.LineTo(p.X, p.Y)
	}
}

func (r *Raster) stroke(style draw.LineStyle) {
	r.setColor(style.Color)
	r.dc.SetLineWidth(style.Width)
	r.dc.SetDash(style.Dash...)
	r.dc.Stroke()
}

// DrawLine implements draw.Canvas.
func (r *Raster) DrawLine(start, end draw.Point, style draw.LineStyle) error {
	if err := draw.CheckPoints("draw line", []draw.Point{start, end}, 2); err != nil {
		return err
	}
	r.clipped(style.Clip, func() {
		r.dc.DrawLine(start.X, start.Y, end.X, end.Y)
		r.stroke(style)
	})
	return nil
}

// DrawPolyline implements draw.Canvas.
func (r *Raster) DrawPolyline(points []draw.Point, style draw.LineStyle) error {
	if err := draw.CheckPoints("draw polyline", points, 2); err != nil {
		return err
	}
	r.clipped(style.Clip, func() {
		r.path(points)
		r.stroke(style)
	})
	return nil
}

// FillRegion implements draw.Canvas.
func (r *Raster) FillRegion(boundary []draw.Point, style draw.FillStyle) error {
	if err := draw.CheckPoints("fill region", boundary, 3); err != nil {
		return err
	}
	r.clipped(style.Clip, func() {
		r.path(boundary)
		r.dc.ClosePath()
		r.setColor(style.Color)
		r.dc.Fill()
	})
	return nil
}

// DrawMarker implements draw.Canvas.
func (r *Raster) DrawMarker(center draw.Point, marker draw.Marker, style draw.MarkerStyle) error {
	if err := draw.CheckPoints("draw marker", []draw.Point{center}, 1); err != nil {
		return err
	}
	if marker == draw.MarkerNone {
		return nil
	}
	r.clipped(style.Clip, func() {
		if outline := marker.Outline(center, style.Size); outline != nil {
			r.path(outline)
			r.dc.ClosePath()
		} else {
			r.dc.DrawCircle(center.X, center.Y, style.Size/2)
		}
		r.setColor(style.Color)
		if style.OutlineWidth <= 0 {
			r.dc.Fill()
			return
		}
		r.dc.FillPreserve()
		r.stroke(draw.LineStyle{Color: style.Outline, Width: style.OutlineWidth})
	})
	return nil
}

// DrawText implements draw.Canvas. Rotation turns the run counter-clockwise
// about the anchor; alignment applies in the rotated frame.
func (r *Raster) DrawText(anchor draw.Point, text string, style draw.TextStyle) error {
	if err := draw.CheckPoints("draw text", []draw.Point{anchor}, 1); err != nil {
		return err
	}
	b, face, err := r.box(text, style)
	if err != nil {
		return err
	}
	dx, dy := b.origin(style.HAlign, style.VAlign)

	r.dc.Push()
	r.dc.SetFontFace(face)
	r.setColor(style.Color)
	if style.Rotation != 0 {
		// Pixel rows grow downwards, so a counter-clockwise turn is negative.
		r.dc.RotateAbout(-style.Rotation, anchor.X, anchor.Y)
	}
	r.dc.DrawString(text, anchor.X+dx, anchor.Y+dy)
	r.dc.Pop()
	return nil
}

var (
	_ draw.Canvas       = (*Raster)(nil)
	_ draw.TextMeasurer = (*Raster)(nil)
)
