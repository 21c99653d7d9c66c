package sink

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/plt-rs/plt/pkg/draw"
	"github.com/plt-rs/plt/pkg/errors"
)

var red = draw.RGB(1, 0, 0)

func square(x0, y0, x1, y1 float64) []draw.Point {
	return []draw.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func alphaAt(img image.Image, x, y int) uint32 {
	_, _, _, a := img.At(x, y).RGBA()
	return a
}

func newRaster(t *testing.T, width, height int, scale float64) *Raster {
	t.Helper()
	r, err := NewRaster(width, height, scale)
	if err != nil {
		t.Fatalf("NewRaster(%d, %d, %g) error = %v", width, height, scale, err)
	}
	return r
}

func TestRasterFill(t *testing.T) {
	r := newRaster(t, 50, 50, 1)
	if err := r.FillRegion(square(10, 10, 30, 30), draw.FillStyle{Color: red}); err != nil {
		t.Fatal(err)
	}
	cr, cg, cb, ca := r.Image().At(20, 20).RGBA()
	if cr != 0xffff || cg != 0 || cb != 0 || ca != 0xffff {
		t.Errorf("center pixel = %d %d %d %d, want opaque red", cr, cg, cb, ca)
	}
	if a := alphaAt(r.Image(), 40, 40); a != 0 {
		t.Errorf("outside pixel alpha = %d, want 0", a)
	}
}

func TestRasterClip(t *testing.T) {
	r := newRaster(t, 50, 50, 1)
	clip := image.Rect(0, 0, 25, 50)
	if err := r.FillRegion(square(0, 0, 50, 50), draw.FillStyle{Color: red, Clip: clip}); err != nil {
		t.Fatal(err)
	}
	if a := alphaAt(r.Image(), 10, 25); a != 0xffff {
		t.Errorf("inside clip alpha = %d, want opaque", a)
	}
	if a := alphaAt(r.Image(), 40, 25); a != 0 {
		t.Errorf("outside clip alpha = %d, want 0", a)
	}

	// The clip does not leak into the next unclipped primitive.
	if err := r.DrawLine(draw.Pt(30, 10), draw.Pt(48, 10), draw.LineStyle{Color: red, Width: 4}); err != nil {
		t.Fatal(err)
	}
	if a := alphaAt(r.Image(), 40, 10); a == 0 {
		t.Error("line after a clipped fill was clipped")
	}
}

func TestRasterScale(t *testing.T) {
	r := newRaster(t, 40, 30, 2)
	if got := r.Size(); got != (draw.Size{Width: 40, Height: 30}) {
		t.Errorf("Size() = %+v, want logical 40x30", got)
	}
	if b := r.Image().Bounds(); b.Dx() != 80 || b.Dy() != 60 {
		t.Errorf("image bounds = %v, want 80x60", b)
	}
	if err := r.FillRegion(square(0, 0, 20, 30), draw.FillStyle{Color: red}); err != nil {
		t.Fatal(err)
	}
	if a := alphaAt(r.Image(), 30, 30); a != 0xffff {
		t.Errorf("scaled fill alpha at (30, 30) = %d, want opaque", a)
	}
}

func TestRasterRejectsInvalidGeometry(t *testing.T) {
	r := newRaster(t, 10, 10, 1)
	tests := []struct {
		name string
		err  error
	}{
		{"nan line", r.DrawLine(draw.Pt(math.NaN(), 0), draw.Pt(1, 1), draw.LineStyle{})},
		{"short polyline", r.DrawPolyline([]draw.Point{{X: 1, Y: 1}}, draw.LineStyle{})},
		{"short fill", r.FillRegion([]draw.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}, draw.FillStyle{})},
		{"inf marker", r.DrawMarker(draw.Pt(math.Inf(1), 0), draw.MarkerCircle, draw.MarkerStyle{})},
		{"zero font", r.DrawText(draw.Pt(1, 1), "x", draw.TextStyle{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, errors.ErrCodeDraw) {
				t.Errorf("error = %v, want DRAW_ERROR", tt.err)
			}
			if stage := errors.StageOf(tt.err); stage != errors.StageDraw {
				t.Errorf("stage = %q, want draw", stage)
			}
		})
	}
}

func TestRasterText(t *testing.T) {
	r := newRaster(t, 120, 120, 1)
	style := draw.TextStyle{Size: 14, Color: draw.Black}
	flat := r.MeasureText("label", style)
	if flat.Width <= 0 || flat.Height < 10 {
		t.Fatalf("MeasureText() = %+v", flat)
	}
	style.Rotation = math.Pi / 2
	rotated := r.MeasureText("label", style)
	if math.Abs(rotated.Width-flat.Height) > 1e-6 || math.Abs(rotated.Height-flat.Width) > 1e-6 {
		t.Errorf("rotated size = %+v, want %+v swapped", rotated, flat)
	}

	// A bottom-aligned quarter turn puts the text left of the anchor.
	style.VAlign = draw.AlignBottom
	style.HAlign = draw.AlignCenter
	if err := r.DrawText(draw.Pt(60, 60), "MMMM", style); err != nil {
		t.Fatal(err)
	}
	var left, right uint32
	for y := 40; y < 80; y++ {
		for x := 45; x < 60; x++ {
			left += alphaAt(r.Image(), x, y)
		}
		for x := 61; x < 76; x++ {
			right += alphaAt(r.Image(), x, y)
		}
	}
	if left == 0 || right != 0 {
		t.Errorf("ink left of anchor = %d, right = %d; want all ink on the left", left, right)
	}
}

func TestEncoders(t *testing.T) {
	r := newRaster(t, 20, 10, 1)
	_ = r.FillRegion(square(0, 0, 20, 10), draw.FillStyle{Color: draw.White})

	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil || img.Bounds().Dx() != 20 {
		t.Fatalf("png decode = %v, %v", img, err)
	}

	buf.Reset()
	if err := r.EncodeJPEG(&buf, 80); err != nil {
		t.Fatal(err)
	}
	img, err = jpeg.Decode(&buf)
	if err != nil || img.Bounds().Dy() != 10 {
		t.Fatalf("jpeg decode = %v, %v", img, err)
	}
}

func TestSVGElements(t *testing.T) {
	s := NewSVG(100, 80)
	clip := image.Rect(10, 10, 90, 70)
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(s.DrawLine(draw.Pt(0, 0), draw.Pt(10, 10), draw.LineStyle{Color: red, Width: 2, Dash: draw.Dashed, Clip: clip}))
	must(s.DrawPolyline([]draw.Point{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 9.006, Y: 1}}, draw.LineStyle{Color: red, Width: 1, Clip: clip}))
	must(s.FillRegion(square(0, 0, 5, 5), draw.FillStyle{Color: red.WithAlpha(0.5)}))
	must(s.DrawMarker(draw.Pt(5, 5), draw.MarkerCircle, draw.MarkerStyle{Size: 6, Color: red}))
	must(s.DrawMarker(draw.Pt(5, 5), draw.MarkerSquare, draw.MarkerStyle{Size: 6, Color: red, Outline: draw.Black, OutlineWidth: 1}))
	must(s.DrawText(draw.Pt(50, 40), "a < b", draw.TextStyle{Size: 14, Rotation: math.Pi / 2}))

	out := string(s.Bytes())
	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 80"`,
		`<line x1="0" y1="0" x2="10" y2="10" stroke="#ff0000" stroke-width="2" stroke-dasharray="10 10" clip-path="url(#clip0)"/>`,
		`points="0,0 5,5 9.01,1"`,
		`fill-opacity="0.5"`,
		`<circle cx="5" cy="5" r="3"`,
		`stroke="#000000" stroke-width="1"`,
		`transform="rotate(-90 50 40)"`,
		`a &lt; b`,
		"</svg>\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("svg output missing %q", want)
		}
	}
	if n := strings.Count(out, "<clipPath"); n != 1 {
		t.Errorf("got %d clip paths, want 1 shared definition", n)
	}
	if strings.Contains(out, "@font-face") {
		t.Error("font embedded without WithEmbeddedFont")
	}
}

func TestSVGEmbeddedFont(t *testing.T) {
	out := string(NewSVG(10, 10, WithEmbeddedFont()).Bytes())
	if !strings.Contains(out, "@font-face") || !strings.Contains(out, "data:font/ttf;base64,") {
		t.Error("embedded font missing")
	}
}

func TestTextOrigin(t *testing.T) {
	b := textBox{width: 20, ascent: 10, descent: 4}
	tests := []struct {
		h      draw.HAlign
		v      draw.VAlign
		dx, dy float64
	}{
		{draw.AlignLeft, draw.AlignTop, 0, 10},
		{draw.AlignCenter, draw.AlignMiddle, -10, 3},
		{draw.AlignRight, draw.AlignBottom, -20, -4},
	}
	for _, tt := range tests {
		dx, dy := b.origin(tt.h, tt.v)
		if dx != tt.dx || dy != tt.dy {
			t.Errorf("origin(%d, %d) = %v, %v, want %v, %v", tt.h, tt.v, dx, dy, tt.dx, tt.dy)
		}
	}
}

func paintSample(c draw.Canvas) error {
	if err := c.FillRegion(square(0, 0, 30, 20), draw.FillStyle{Color: draw.White}); err != nil {
		return err
	}
	if err := c.DrawPolyline([]draw.Point{{X: 1, Y: 1}, {X: 20, Y: 15}}, draw.LineStyle{Color: red, Width: 2}); err != nil {
		return err
	}
	return c.DrawText(draw.Pt(15, 10), "1.5", draw.TextStyle{Size: 10, HAlign: draw.AlignCenter})
}

func TestReplayMatchesDirectDrawing(t *testing.T) {
	direct := NewSVG(30, 20)
	if err := paintSample(direct); err != nil {
		t.Fatal(err)
	}
	replayed := NewSVG(30, 20)
	rec := draw.NewRecorderFor(replayed)
	if err := paintSample(rec); err != nil {
		t.Fatal(err)
	}
	if err := rec.Replay(replayed); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(direct.Bytes(), replayed.Bytes()) {
		t.Error("replayed output differs from direct drawing")
	}
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	size := draw.Size{Width: 30, Height: 20}

	tests := []struct {
		format string
		prefix string
	}{
		{FormatPNG, "\x89PNG"},
		{FormatJPEG, "\xff\xd8"},
		{FormatSVG, "<svg"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			data, err := Render(ctx, tt.format, size, paintSample)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(data, []byte(tt.prefix)) {
				t.Errorf("output starts with %q, want %q", data[:min(len(data), 8)], tt.prefix)
			}
		})
	}

	if _, err := Render(ctx, "gif", size, paintSample); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) error = %v, want INVALID_FORMAT", err)
	}

	failing := func(draw.Canvas) error {
		return errors.New(errors.ErrCodeNoFiniteData, "boom").In(errors.StageLimits)
	}
	if _, err := Render(ctx, FormatPNG, size, failing); !errors.Is(err, errors.ErrCodeNoFiniteData) {
		t.Errorf("paint error = %v, want it returned unchanged", err)
	}
}

func TestSizeLimits(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		format string
		size   draw.Size
		opts   []Option
	}{
		{"huge png", FormatPNG, draw.Size{Width: 1 << 32, Height: 1 << 32}, nil},
		{"huge svg", FormatSVG, draw.Size{Width: 1 << 32, Height: 1 << 32}, nil},
		{"huge scale", FormatPNG, draw.Size{Width: 675, Height: 500}, []Option{WithScale(1e9)}},
		{"infinite scale", FormatJPEG, draw.Size{Width: 10, Height: 10}, []Option{WithScale(math.Inf(1))}},
		{"side over limit", FormatSVG, draw.Size{Width: MaxDimension + 1, Height: 10}, nil},
		{"area over limit", FormatPNG, draw.Size{Width: 10000, Height: 10000}, nil},
		{"empty", FormatPNG, draw.Size{Width: 0, Height: 10}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			painted := false
			paint := func(draw.Canvas) error {
				painted = true
				return nil
			}
			_, err := Render(ctx, tt.format, tt.size, paint, tt.opts...)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("Render() error = %v, want INVALID_INPUT", err)
			}
			if painted {
				t.Error("paint ran for a rejected size")
			}
		})
	}

	if _, err := NewRaster(1<<32, 1<<32, 1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("NewRaster(huge) error = %v, want INVALID_INPUT", err)
	}
	if err := CheckSize(draw.Size{Width: 675, Height: 500}, 8); err != nil {
		t.Errorf("CheckSize(675x500 at 8) = %v, want nil", err)
	}
}

func TestPDFWithoutConverter(t *testing.T) {
	old := rsvgConvertBinary
	rsvgConvertBinary = "plt-test-missing-rsvg-convert"
	defer func() { rsvgConvertBinary = old }()

	_, err := Render(context.Background(), FormatPDF, draw.Size{Width: 10, Height: 10}, paintSample)
	if !errors.Is(err, errors.ErrCodeEncoding) {
		t.Fatalf("error = %v, want ENCODING_ERROR", err)
	}
	if !strings.Contains(errors.UserMessage(err), "librsvg") {
		t.Errorf("message %q does not mention librsvg", errors.UserMessage(err))
	}
}
