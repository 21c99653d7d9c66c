package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/plt-rs/plt/pkg/cache"
	"github.com/plt-rs/plt/pkg/config"
	"github.com/plt-rs/plt/pkg/errors"
	"github.com/plt-rs/plt/pkg/observability"
)

func testDesc() *config.Figure {
	return &config.Figure{
		Width:  400,
		Height: 300,
		Subplots: []config.Subplot{{
			Title: "squares",
			Series: []config.Series{{
				X: []float64{0, 1, 2, 3},
				Y: []float64{0, 1, 4, 9},
			}},
		}},
	}
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, nil)
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"jpeg", false},
		{"pdf", false},
		{"json", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(opts.Formats, []string{DefaultFormat}) {
		t.Errorf("Formats = %v, want [%s]", opts.Formats, DefaultFormat)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %g, want %g", opts.Scale, DefaultScale)
	}
	if opts.Quality != DefaultQuality {
		t.Errorf("Quality = %d, want %d", opts.Quality, DefaultQuality)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Formats: []string{"png", "svg", "png"}, Scale: 2}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	first := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if !slices.Equal(opts.Formats, []string{"png", "svg"}) {
		t.Errorf("Formats = %v, want repeated png collapsed", opts.Formats)
	}
	if !slices.Equal(opts.Formats, first.Formats) || opts.Scale != first.Scale {
		t.Error("options changed on second call")
	}
}

func TestOptionsInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"negative scale", Options{Scale: -1}, errors.ErrCodeInvalidInput},
		{"huge scale", Options{Scale: 100}, errors.ErrCodeInvalidInput},
		{"quality", Options{Quality: 101}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Scale: 2, Quality: 80, EmbedFont: true}
	tests := []struct {
		format string
		want   cache.ArtifactKeyOpts
	}{
		{FormatPNG, cache.ArtifactKeyOpts{Format: FormatPNG, Scale: 2}},
		{FormatJPEG, cache.ArtifactKeyOpts{Format: FormatJPEG, Scale: 2, Quality: 80}},
		{FormatSVG, cache.ArtifactKeyOpts{Format: FormatSVG, EmbedFont: true}},
		{FormatPDF, cache.ArtifactKeyOpts{Format: FormatPDF}},
	}
	for _, tt := range tests {
		if got := opts.ArtifactKeyOpts(tt.format); got != tt.want {
			t.Errorf("ArtifactKeyOpts(%s) = %+v, want %+v", tt.format, got, tt.want)
		}
	}
}

func TestRunnerRender(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	defer r.Close()
	opts := Options{Formats: []string{"svg", "png"}}

	first, err := r.Render(ctx, testDesc(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Figure == nil {
		t.Error("first run should build the figure")
	}
	if !slices.Equal(first.CacheInfo.Misses, []string{"svg", "png"}) || len(first.CacheInfo.Hits) != 0 {
		t.Errorf("first run cache info = %+v", first.CacheInfo)
	}
	if !bytes.HasPrefix(first.Artifacts["png"], []byte("\x89PNG")) {
		t.Error("png artifact is not a PNG")
	}
	if !bytes.Contains(first.Artifacts["svg"], []byte("<svg")) {
		t.Error("svg artifact is not an SVG")
	}
	if first.Stats.Subplots != 1 || first.Stats.Series != 1 || first.Stats.Points != 4 {
		t.Errorf("stats = %+v", first.Stats)
	}

	second, err := r.Render(ctx, testDesc(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.AllHit() {
		t.Errorf("second run cache info = %+v, want all hits", second.CacheInfo)
	}
	if second.Figure != nil {
		t.Error("a fully cached run should not build the figure")
	}
	if second.DescriptionHash != first.DescriptionHash {
		t.Error("description hash changed between runs")
	}
	for format, data := range first.Artifacts {
		if !bytes.Equal(second.Artifacts[format], data) {
			t.Errorf("cached %s differs from rendered", format)
		}
	}

	opts.Refresh = true
	third, err := r.Render(ctx, testDesc(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(third.CacheInfo.Hits) != 0 {
		t.Errorf("refresh served %v from cache", third.CacheInfo.Hits)
	}
}

func TestRunnerPartialHit(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	if _, err := r.Render(ctx, testDesc(), Options{Formats: []string{"svg"}}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Render(ctx, testDesc(), Options{Formats: []string{"svg", "png"}})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(res.CacheInfo.Hits, []string{"svg"}) || !slices.Equal(res.CacheInfo.Misses, []string{"png"}) {
		t.Errorf("cache info = %+v, want svg hit and png miss", res.CacheInfo)
	}
	if len(res.Artifacts) != 2 {
		t.Errorf("artifacts = %d, want 2", len(res.Artifacts))
	}
}

func TestRunnerKeysSeparateDescriptions(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	if _, err := r.Render(ctx, testDesc(), Options{}); err != nil {
		t.Fatal(err)
	}
	other := testDesc()
	other.Subplots[0].Title = "cubes"
	res, err := r.Render(ctx, other, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.CacheInfo.Hits) != 0 {
		t.Error("a changed description was served from cache")
	}
}

func TestRunnerErrors(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	bad := testDesc()
	bad.Subplots[0].Series[0].X = []float64{0, 1}
	_, err := r.Render(ctx, bad, Options{})
	if !errors.Is(err, errors.ErrCodeMismatchedLength) {
		t.Errorf("mismatched series: err = %v", err)
	}

	_, err = r.Render(ctx, nil, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("nil description: err = %v", err)
	}

	_, err = r.Render(ctx, testDesc(), Options{Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format: err = %v", err)
	}

	tiny := testDesc()
	tiny.Width, tiny.Height = 30, 30
	if _, err := r.Render(ctx, tiny, Options{}); !errors.Is(err, errors.ErrCodeInsufficientSpace) {
		t.Errorf("tiny figure: err = %v", err)
	}
	// Failed renders leave nothing behind.
	res, err := r.Render(ctx, testDesc(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.CacheInfo.Hits) != 0 {
		t.Error("unexpected cache hit after failed runs")
	}
}

// failingCache errors on every operation.
type failingCache struct{ cache.NullCache }

func (failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, fmt.Errorf("%w: down", cache.ErrNetwork)
}

func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return fmt.Errorf("%w: down", cache.ErrNetwork)
}

func TestRunnerCacheFailureIsNotFatal(t *testing.T) {
	r := NewRunner(&failingCache{}, nil, nil)
	res, err := r.Render(context.Background(), testDesc(), Options{})
	if err != nil {
		t.Fatalf("Render with failing cache: %v", err)
	}
	if len(res.Artifacts[DefaultFormat]) == 0 {
		t.Error("no artifact rendered")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnBuildStart(context.Context, int) { h.add("build") }
func (h *recordingHooks) OnRenderComplete(_ context.Context, formats []string, _ time.Duration, err error) {
	h.add(fmt.Sprintf("render %v %v", formats, err))
}
func (h *recordingHooks) OnCacheHit(_ context.Context, format string)        { h.add("hit " + format) }
func (h *recordingHooks) OnCacheMiss(_ context.Context, format string)       { h.add("miss " + format) }
func (h *recordingHooks) OnCacheSet(_ context.Context, format string, _ int) { h.add("set " + format) }

func TestRunnerHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	defer observability.Reset()

	ctx := context.Background()
	r := newTestRunner(t)
	for range 2 {
		if _, err := r.Render(ctx, testDesc(), Options{}); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{"miss svg", "build", "render [svg] <nil>", "set svg", "hit svg"}
	if !slices.Equal(h.events, want) {
		t.Errorf("events = %q, want %q", h.events, want)
	}
}
