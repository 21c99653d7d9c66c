package plot

import (
	"context"
	"math"
	"os"

	"github.com/plt-rs/plt/pkg/draw"
	"github.com/plt-rs/plt/pkg/errors"
	"github.com/plt-rs/plt/pkg/layout"
	"github.com/plt-rs/plt/pkg/render/sink"
)

// Figure defaults: 6.75 x 5 inches at 100 DPI on a white face.
const (
	DefaultWidthInches  = 6.75
	DefaultHeightInches = 5.0
	DefaultDPI          = 100
)

// Figure is the top-level drawing: a pixel size, a face color and a layout
// of subplots.
type Figure struct {
	width, height int
	face          draw.Color
	layout        Layout
}

// FigureOption configures a Figure.
type FigureOption func(*Figure)

// WithSize sets the figure size in pixels.
func WithSize(width, height int) FigureOption {
	return func(f *Figure) { f.width, f.height = width, height }
}

// WithInches sets the figure size in inches at the given resolution.
func WithInches(width, height, dpi float64) FigureOption {
	return func(f *Figure) {
		f.width = int(math.Round(width * dpi))
		f.height = int(math.Round(height * dpi))
	}
}

// WithFace sets the color painted behind everything. A transparent face
// paints nothing.
func WithFace(c draw.Color) FigureOption {
	return func(f *Figure) { f.face = c }
}

// WithLayout sets the initial layout.
func WithLayout(l Layout) FigureOption {
	return func(f *Figure) { f.layout = l }
}

// NewFigure returns a figure with defaults applied, then opts.
func NewFigure(opts ...FigureOption) *Figure {
	f := &Figure{face: draw.White}
	WithInches(DefaultWidthInches, DefaultHeightInches, DefaultDPI)(f)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Size returns the figure size in pixels.
func (f *Figure) Size() draw.Size {
	return draw.Size{Width: float64(f.width), Height: float64(f.height)}
}

// Layout returns the current layout, or nil.
func (f *Figure) Layout() Layout { return f.layout }

// SetLayout replaces the layout.
func (f *Figure) SetLayout(l Layout) error {
	if l == nil {
		return errors.New(errors.ErrCodeInvalidLayout, "layout cannot be nil").In(errors.StageLayout)
	}
	f.layout = l
	return nil
}

// Draw renders the figure onto c.
//
// Subplot rectangles are computed first, so a layout failure draws nothing.
// Each subplot is then drawn into a Recorder and replayed onto c only when
// it succeeded: if subplot k fails, subplots before k are on c and nothing
// from k onwards is.
func (f *Figure) Draw(c draw.Canvas) error {
	if f.layout == nil {
		return errors.New(errors.ErrCodeInvalidLayout, "figure has no layout").In(errors.StageLayout)
	}
	if sz := c.Size(); sz.Width > sink.MaxDimension || sz.Height > sink.MaxDimension {
		return errors.New(errors.ErrCodeInvalidInput,
			"canvas %gx%g exceeds %d pixels per side", sz.Width, sz.Height, sink.MaxDimension).In(errors.StageLayout)
	}
	total := c.Size().Rect()
	subplots := f.layout.Subplots()
	rects, err := layout.Partition(total, len(subplots), f.layout.Strategy())
	if err != nil {
		return err
	}

	if f.face.A > 0 {
		face := []draw.Point{
			{X: 0, Y: 0},
			{X: float64(total.Max.X), Y: 0},
			{X: float64(total.Max.X), Y: float64(total.Max.Y)},
			{X: 0, Y: float64(total.Max.Y)},
		}
		if err := c.FillRegion(face, draw.FillStyle{Color: f.face}); err != nil {
			return drawError(err, "figure face")
		}
	}

	rec := draw.NewRecorderFor(c)
	for i, sp := range subplots {
		rec.Reset()
		if err := sp.Draw(rec, rects[i]); err != nil {
			return errors.Context(err, "subplot %d", i)
		}
		if err := rec.Replay(c); err != nil {
			return errors.Context(err, "subplot %d", i)
		}
	}
	return nil
}

func drawError(err error, what string) error {
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeDraw, err, "%s", what).In(errors.StageDraw)
}

// Render draws the figure and encodes it as format (png, jpeg, svg or pdf).
func (f *Figure) Render(format string, opts ...sink.Option) ([]byte, error) {
	return f.RenderContext(context.Background(), format, opts...)
}

// RenderContext is Render with a context bounding external conversion.
// Figures larger than sink.MaxDimension per side, or than sink.MaxPixels
// once scaled, fail with INVALID_INPUT before anything is drawn.
func (f *Figure) RenderContext(ctx context.Context, format string, opts ...sink.Option) ([]byte, error) {
	if err := errors.ValidateFormat(format, sink.Formats); err != nil {
		return nil, err
	}
	if f.width < 1 || f.height < 1 {
		return nil, errors.New(errors.ErrCodeInsufficientSpace, "figure size %dx%d is empty", f.width, f.height).In(errors.StageLayout)
	}
	if err := sink.CheckSize(f.Size(), 1); err != nil {
		return nil, err
	}
	return sink.Render(ctx, format, f.Size(), f.Draw, opts...)
}

// DrawFile renders the figure as format and writes it to path.
func (f *Figure) DrawFile(format, path string) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	data, err := f.Render(format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeEncoding, err, "write %s", path).In(errors.StageEncode)
	}
	return nil
}
