package sink

import (
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/plt-rs/plt/pkg/draw"
	"github.com/plt-rs/plt/pkg/errors"
	"github.com/plt-rs/plt/pkg/fonts"
)

// textBox is the extent of a text run in its own, unrotated frame.
type textBox struct {
	width, ascent, descent float64
}

func fixedFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

func measureFace(face font.Face, text string) textBox {
	m := face.Metrics()
	return textBox{
		width:   fixedFloat(font.MeasureString(face, text)),
		ascent:  fixedFloat(m.Ascent),
		descent: fixedFloat(m.Descent),
	}
}

// origin returns the start of the baseline relative to the anchor, before
// rotation is applied.
func (b textBox) origin(h draw.HAlign, v draw.VAlign) (dx, dy float64) {
	switch h {
	case draw.AlignCenter:
		dx = -b.width / 2
	case draw.AlignRight:
		dx = -b.width
	}
	switch v {
	case draw.AlignTop:
		dy = b.ascent
	case draw.AlignMiddle:
		dy = (b.ascent - b.descent) / 2
	case draw.AlignBottom:
		dy = -b.descent
	}
	return dx, dy
}

// size returns the axis-aligned extent of the box after rotation.
func (b textBox) size(rotation float64) draw.Size {
	w, h := b.width, b.ascent+b.descent
	if rotation != 0 {
		sin, cos := math.Abs(math.Sin(rotation)), math.Abs(math.Cos(rotation))
		w, h = w*cos+h*sin, w*sin+h*cos
	}
	return draw.Size{Width: w, Height: h}
}

// measurer measures text with the embedded font. Canvases own one each.
type measurer struct {
	faces fonts.Faces
}

func (m *measurer) face(style draw.TextStyle) (font.Face, error) {
	if !(style.Size > 0) {
		return nil, errors.New(errors.ErrCodeDraw, "font size must be positive, got %g", style.Size).In(errors.StageDraw)
	}
	face, err := m.faces.Face(style.Size)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDraw, err, "load font").In(errors.StageDraw)
	}
	return face, nil
}

func (m *measurer) box(text string, style draw.TextStyle) (textBox, font.Face, error) {
	face, err := m.face(style)
	if err != nil {
		return textBox{}, nil, err
	}
	return measureFace(face, text), face, nil
}

// MeasureText falls back to estimation when the font cannot be loaded.
func (m *measurer) MeasureText(text string, style draw.TextStyle) draw.Size {
	b, _, err := m.box(text, style)
	if err != nil {
		return draw.EstimateText(text, style)
	}
	return b.size(style.Rotation)
}
