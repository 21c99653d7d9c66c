// Package fonts provides the embedded font used by every output format.
//
// Raster output draws with the Go Regular TrueType font and SVG output
// embeds the same font, so text measured for layout matches what is drawn.
package fonts

import (
	"encoding/base64"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the CSS font-family name of the embedded font.
const FontFamily = "Go Regular"

// FallbackFontFamily lists fonts to try in SVG viewers that ignore embedded fonts.
const FallbackFontFamily = `'Go Regular', 'Helvetica Neue', Arial, sans-serif`

// RegularTTF returns the TrueType data of the embedded font.
func RegularTTF() []byte {
	return goregular.TTF
}

var (
	regular     *truetype.Font
	regularErr  error
	regularOnce sync.Once

	ttfBase64     string
	ttfBase64Once sync.Once
)

// Regular returns the parsed embedded font. The font is parsed once.
func Regular() (*truetype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = truetype.Parse(goregular.TTF)
	})
	return regular, regularErr
}

// RegularBase64 returns the TrueType data as a base64 string.
// The result is cached after first computation.
func RegularBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}

// Faces caches font faces by pixel size. A Faces must not be shared
// between goroutines while faces are in use, since truetype faces keep
// per-face glyph caches.
type Faces struct {
	mu    sync.Mutex
	faces map[float64]font.Face
}

// Face returns the embedded font at size pixels.
func (f *Faces) Face(size float64) (font.Face, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[size]; ok {
		return face, nil
	}
	ft, err := Regular()
	if err != nil {
		return nil, err
	}
	if f.faces == nil {
		f.faces = make(map[float64]font.Face)
	}
	// At 72 DPI one point is one pixel.
	face := truetype.NewFace(ft, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
	f.faces[size] = face
	return face, nil
}
