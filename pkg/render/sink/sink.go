package sink

import (
	"bytes"
	"context"
	"math"

	"github.com/plt-rs/plt/pkg/draw"
	"github.com/plt-rs/plt/pkg/errors"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
)

// Formats is the set of formats Render accepts.
var Formats = map[string]bool{
	FormatPNG:  true,
	FormatJPEG: true,
	FormatSVG:  true,
	FormatPDF:  true,
}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatPNG:  "image/png",
	FormatJPEG: "image/jpeg",
	FormatSVG:  "image/svg+xml",
	FormatPDF:  "application/pdf",
}

// DefaultJPEGQuality is used when no quality is configured.
const DefaultJPEGQuality = 90

// Size bounds. MaxPixels caps the device pixels of a surface, i.e. the
// logical area times the square of the scale; 1<<26 is an 8192x8192 RGBA
// image of 256 MiB. MaxDimension caps each logical side.
const (
	MaxPixels    = 1 << 26
	MaxDimension = 1 << 15
)

// CheckSize reports whether a surface of size logical pixels at scale can
// be rendered. Vector formats are checked at scale 1.
func CheckSize(size draw.Size, scale float64) error {
	w, h := size.Width, size.Height
	if !(w >= 1 && h >= 1) {
		return errors.New(errors.ErrCodeInvalidInput, "surface size %gx%g must be at least 1x1", w, h).In(errors.StageEncode)
	}
	if w > MaxDimension || h > MaxDimension {
		return errors.New(errors.ErrCodeInvalidInput,
			"surface size %gx%g exceeds %d pixels per side", w, h, MaxDimension).In(errors.StageEncode)
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "scale %g must be positive and finite", scale).In(errors.StageEncode)
	}
	if dw, dh := math.Round(w*scale), math.Round(h*scale); dw*dh > MaxPixels {
		return errors.New(errors.ErrCodeInvalidInput,
			"surface %gx%g at scale %g needs %.0f pixels, more than %d", w, h, scale, dw*dh, MaxPixels).In(errors.StageEncode)
	}
	return nil
}

// Option configures Render.
type Option func(*options)

type options struct {
	scale     float64
	quality   int
	embedFont bool
}

// WithScale sets the raster scale factor (default 1). A scale of 2
// produces a 2x resolution image with identical layout.
func WithScale(s float64) Option {
	return func(o *options) { o.scale = s }
}

// WithJPEGQuality sets the JPEG quality, 1 to 100.
func WithJPEGQuality(q int) Option {
	return func(o *options) { o.quality = q }
}

// WithFont embeds the font in SVG output. PDF output always embeds it.
func WithFont() Option {
	return func(o *options) { o.embedFont = true }
}

// Render creates a canvas of the given size for format, lets paint draw
// onto it and returns the encoded bytes. Errors from paint are returned
// unchanged.
func Render(ctx context.Context, format string, size draw.Size, paint func(draw.Canvas) error, opts ...Option) ([]byte, error) {
	o := options{scale: 1, quality: DefaultJPEGQuality}
	for _, opt := range opts {
		opt(&o)
	}
	if !(o.scale > 0) {
		o.scale = 1
	}
	if err := errors.ValidateFormat(format, Formats); err != nil {
		return nil, err
	}

	switch format {
	case FormatPNG, FormatJPEG:
		if err := CheckSize(size, o.scale); err != nil {
			return nil, err
		}
		r, err := NewRaster(int(math.Round(size.Width)), int(math.Round(size.Height)), o.scale)
		if err != nil {
			return nil, err
		}
		if err := paint(r); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if format == FormatPNG {
			if err := r.EncodePNG(&buf); err != nil {
				return nil, err
			}
		} else {
			q := min(max(o.quality, 1), 100)
			if err := r.EncodeJPEG(&buf, q); err != nil {
				return nil, err
			}
		}
		return buf.Bytes(), nil
	}

	if err := CheckSize(size, 1); err != nil {
		return nil, err
	}
	var svgOpts []SVGOption
	if o.embedFont || format == FormatPDF {
		svgOpts = append(svgOpts, WithEmbeddedFont())
	}
	s := NewSVG(size.Width, size.Height, svgOpts...)
	if err := paint(s); err != nil {
		return nil, err
	}
	if format == FormatSVG {
		return s.Bytes(), nil
	}
	return ToPDF(ctx, s.Bytes())
}
