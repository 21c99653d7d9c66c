package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	"github.com/plt-rs/plt/pkg/draw"
	"github.com/plt-rs/plt/pkg/fonts"
)

// SVG is a Canvas that writes SVG elements. Text is measured with the
// embedded font, which Bytes can embed so viewers draw the same glyphs.
type SVG struct {
	measurer
	width, height float64
	embedFont     bool

	body  bytes.Buffer
	defs  bytes.Buffer
	clips map[image.Rectangle]string
}

// SVGOption configures an SVG canvas.
type SVGOption func(*SVG)

// WithEmbeddedFont embeds the TrueType font as a data URL. Output grows by
// roughly 180 kB.
func WithEmbeddedFont() SVGOption {
	return func(s *SVG) { s.embedFont = true }
}

// NewSVG returns an empty SVG canvas.
func NewSVG(width, height float64, opts ...SVGOption) *SVG {
	s := &SVG{width: width, height: height, clips: make(map[image.Rectangle]string)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Size implements draw.Canvas.
func (s *SVG) Size() draw.Size { return draw.Size{Width: s.width, Height: s.height} }

// Bytes returns the complete document.
func (s *SVG) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(s.width), num(s.height), num(s.width), num(s.height))
	if s.embedFont || s.defs.Len() > 0 {
		buf.WriteString("  <defs>\n")
		if s.embedFont {
			fmt.Fprintf(&buf, "    <style>@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }</style>\n",
				fonts.FontFamily, fonts.RegularBase64())
		}
		buf.Write(s.defs.Bytes())
		buf.WriteString("  </defs>\n")
	}
	buf.Write(s.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func points(pts []draw.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = num(p.X) + "," + num(p.Y)
	}
	return strings.Join(parts, " ")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// paint returns the attribute pair for a color, with an opacity attribute
// when it is translucent.
func paint(attr string, c draw.Color) string {
	out := fmt.Sprintf(`%s="%s"`, attr, c.Hex())
	if c.A < 1 {
		out += fmt.Sprintf(` %s-opacity="%s"`, attr, num(math.Max(0, c.A)))
	}
	return out
}

func strokeAttrs(style draw.LineStyle) string {
	out := paint("stroke", style.Color) + fmt.Sprintf(` stroke-width="%s"`, num(style.Width))
	if len(style.Dash) > 0 {
		dash := make([]string, len(style.Dash))
		for i, d := range style.Dash {
			dash[i] = num(d)
		}
		out += fmt.Sprintf(` stroke-dasharray="%s"`, strings.Join(dash, " "))
	}
	return out
}

// clipAttr returns the clip-path attribute for clip, defining the clip
// path on first use.
func (s *SVG) clipAttr(clip image.Rectangle) string {
	if clip.Empty() {
		return ""
	}
	id, ok := s.clips[clip]
	if !ok {
		id = fmt.Sprintf("clip%d", len(s.clips))
		s.clips[clip] = id
		fmt.Fprintf(&s.defs, `    <clipPath id="%s"><rect x="%d" y="%d" width="%d" height="%d"/></clipPath>`+"\n",
			id, clip.Min.X, clip.Min.Y, clip.Dx(), clip.Dy())
	}
	return fmt.Sprintf(` clip-path="url(#%s)"`, id)
}

// DrawLine implements draw.Canvas.
func (s *SVG) DrawLine(start, end draw.Point, style draw.LineStyle) error {
	if err := draw.CheckPoints("draw line", []draw.Point{start, end}, 2); err != nil {
		return err
	}
	fmt.Fprintf(&s.body, `  <line x1="%s" y1="%s" x2="%s" y2="%s" %s%s/>`+"\n",
		num(start.X), num(start.Y), num(end.X), num(end.Y), strokeAttrs(style), s.clipAttr(style.Clip))
	return nil
}

// DrawPolyline implements draw.Canvas.
func (s *SVG) DrawPolyline(pts []draw.Point, style draw.LineStyle) error {
	if err := draw.CheckPoints("draw polyline", pts, 2); err != nil {
		return err
	}
	fmt.Fprintf(&s.body, `  <polyline points="%s" fill="none" stroke-linejoin="round" %s%s/>`+"\n",
		points(pts), strokeAttrs(style), s.clipAttr(style.Clip))
	return nil
}

// FillRegion implements draw.Canvas.
func (s *SVG) FillRegion(boundary []draw.Point, style draw.FillStyle) error {
	if err := draw.CheckPoints("fill region", boundary, 3); err != nil {
		return err
	}
	fmt.Fprintf(&s.body, `  <polygon points="%s" %s stroke="none"%s/>`+"\n",
		points(boundary), paint("fill", style.Color), s.clipAttr(style.Clip))
	return nil
}

// DrawMarker implements draw.Canvas.
func (s *SVG) DrawMarker(center draw.Point, marker draw.Marker, style draw.MarkerStyle) error {
	if err := draw.CheckPoints("draw marker", []draw.Point{center}, 1); err != nil {
		return err
	}
	if marker == draw.MarkerNone {
		return nil
	}
	attrs := paint("fill", style.Color)
	if style.OutlineWidth > 0 {
		attrs += " " + strokeAttrs(draw.LineStyle{Color: style.Outline, Width: style.OutlineWidth})
	}
	attrs += s.clipAttr(style.Clip)
	if outline := marker.Outline(center, style.Size); outline != nil {
		fmt.Fprintf(&s.body, `  <polygon points="%s" %s/>`+"\n", points(outline), attrs)
		return nil
	}
	fmt.Fprintf(&s.body, `  <circle cx="%s" cy="%s" r="%s" %s/>`+"\n",
		num(center.X), num(center.Y), num(style.Size/2), attrs)
	return nil
}

// DrawText implements draw.Canvas. The baseline is placed from the
// embedded font metrics, so dominant-baseline is never used.
func (s *SVG) DrawText(anchor draw.Point, text string, style draw.TextStyle) error {
	if err := draw.CheckPoints("draw text", []draw.Point{anchor}, 1); err != nil {
		return err
	}
	b, _, err := s.box(text, style)
	if err != nil {
		return err
	}
	dx, dy := b.origin(style.HAlign, style.VAlign)

	transform := ""
	if style.Rotation != 0 {
		deg := -style.Rotation * 180 / math.Pi
		transform = fmt.Sprintf(` transform="rotate(%s %s %s)"`, num(deg), num(anchor.X), num(anchor.Y))
	}
	fmt.Fprintf(&s.body, `  <text x="%s" y="%s" font-family="%s" font-size="%s" %s%s>%s</text>`+"\n",
		num(anchor.X+dx), num(anchor.Y+dy), escapeXML(fonts.FallbackFontFamily), num(style.Size),
		paint("fill", style.Color), transform, escapeXML(text))
	return nil
}

var (
	_ draw.Canvas       = (*SVG)(nil)
	_ draw.TextMeasurer = (*SVG)(nil)
)
