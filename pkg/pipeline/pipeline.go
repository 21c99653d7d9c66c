// Package pipeline turns figure descriptions into encoded artifacts.
//
// This package implements the description → figure → artifacts pipeline
// shared by the CLI and the render server, so both cache and log the same
// way.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Build: validate a config.Figure and construct the plot.Figure
//  2. Render: draw the figure and encode it (PNG, JPEG, SVG, PDF)
//
// Artifacts are cached per format under a key derived from the canonical
// description and the encoder settings. The build stage is skipped when
// every requested format is cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Render(ctx, desc, pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	    Scale:   2,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/plt-rs/plt/pkg/cache"
	"github.com/plt-rs/plt/pkg/errors"
	"github.com/plt-rs/plt/pkg/plot"
	"github.com/plt-rs/plt/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultScale is the raster scale factor.
	DefaultScale = 1.0

	// MaxScale bounds the raster scale factor. A 675x500 figure at scale
	// 8 is already a 5400x4000 image.
	MaxScale = 8.0

	// DefaultQuality is the JPEG quality.
	DefaultQuality = sink.DefaultJPEGQuality
)

// Format constants for output formats.
const (
	FormatPNG  = sink.FormatPNG
	FormatJPEG = sink.FormatJPEG
	FormatSVG  = sink.FormatSVG
	FormatPDF  = sink.FormatPDF
)

// DefaultFormat is rendered when Options.Formats is empty.
const DefaultFormat = FormatSVG

// ValidFormats is the set of supported output formats.
var ValidFormats = sink.Formats

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. It supports JSON for server
// requests.
type Options struct {
	Formats []string `json:"formats,omitempty"`
	// Scale multiplies raster resolution without changing the layout.
	Scale float64 `json:"scale,omitempty"`
	// Quality is the JPEG quality, 1 to 100.
	Quality int `json:"quality,omitempty"`
	// EmbedFont embeds the font in SVG output.
	EmbedFont bool `json:"embed_font,omitempty"`
	// Refresh re-renders and overwrites cached artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Figure is the built figure, or nil when every artifact was cached.
	Figure *plot.Figure

	// DescriptionHash is the content hash of the canonical description.
	DescriptionHash string

	// Artifacts contains the encoded outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Subplots   int
	Series     int
	Points     int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo records which formats came from the cache.
type CacheInfo struct {
	Hits   []string
	Misses []string
}

// AllHit reports whether no format had to be rendered.
func (c CacheInfo) AllHit() bool { return len(c.Misses) == 0 && len(c.Hits) > 0 }

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, ValidFormats)
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and applies defaults. Repeated
// formats are collapsed. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.Formats = compact(o.Formats)

	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if !(o.Scale > 0 && o.Scale <= MaxScale) {
		return errors.New(errors.ErrCodeInvalidInput, "scale %g must be in (0, %g]", o.Scale, MaxScale)
	}
	if o.Quality == 0 {
		o.Quality = DefaultQuality
	}
	if o.Quality < 1 || o.Quality > 100 {
		return errors.New(errors.ErrCodeInvalidInput, "jpeg quality %d must be in [1, 100]", o.Quality)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// compact removes repeated formats, keeping first occurrences in order.
func compact(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// ArtifactKeyOpts returns the cache key options for format. Settings that
// do not affect the format's bytes are left out, so e.g. the JPEG quality
// does not split SVG cache entries.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatPNG:
		k.Scale = o.Scale
	case FormatJPEG:
		k.Scale, k.Quality = o.Scale, o.Quality
	case FormatSVG:
		k.EmbedFont = o.EmbedFont
	}
	return k
}

// SinkOptions returns the encoder options for o.
func (o *Options) SinkOptions() []sink.Option {
	opts := []sink.Option{sink.WithScale(o.Scale), sink.WithJPEGQuality(o.Quality)}
	if o.EmbedFont {
		opts = append(opts, sink.WithFont())
	}
	return opts
}
