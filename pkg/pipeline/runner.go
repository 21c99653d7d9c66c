package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/plt-rs/plt/pkg/cache"
	"github.com/plt-rs/plt/pkg/config"
	"github.com/plt-rs/plt/pkg/errors"
	"github.com/plt-rs/plt/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different descriptions.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Render runs the build → render pipeline for desc with caching.
//
// Cached formats are served from the cache; the figure is built only when
// at least one format is missing, and only the missing formats are
// rendered. Cache read and write failures are logged and never fail the
// run.
func (r *Runner) Render(ctx context.Context, desc *config.Figure, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no figure description").In(errors.StageConfig)
	}

	canonical, err := config.Canonical(desc)
	if err != nil {
		return nil, err
	}
	stats := desc.Stats()
	result := &Result{
		DescriptionHash: cache.Hash(canonical),
		Artifacts:       make(map[string][]byte, len(opts.Formats)),
		Stats:           Stats{Subplots: stats.Subplots, Series: stats.Series, Points: stats.Points},
	}

	for _, format := range opts.Formats {
		if data, ok := r.lookup(ctx, result.DescriptionHash, format, opts); ok {
			result.Artifacts[format] = data
			result.CacheInfo.Hits = append(result.CacheInfo.Hits, format)
			continue
		}
		result.CacheInfo.Misses = append(result.CacheInfo.Misses, format)
	}
	if len(result.CacheInfo.Misses) == 0 {
		r.Logger.Info("served from cache",
			"hash", result.DescriptionHash[:12],
			"formats", opts.Formats)
		return result, nil
	}

	// Stage 1: Build
	buildStart := time.Now()
	fig, err := Build(ctx, desc)
	if err != nil {
		return nil, err
	}
	result.Figure = fig
	result.Stats.BuildTime = time.Since(buildStart)

	r.Logger.Info("built figure",
		"subplots", stats.Subplots,
		"series", stats.Series,
		"points", stats.Points,
		"duration", result.Stats.BuildTime)

	// Stage 2: Render
	renderStart := time.Now()
	rendered, err := Render(ctx, fig, result.CacheInfo.Misses, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(renderStart)

	for format, data := range rendered {
		result.Artifacts[format] = data
		r.store(ctx, result.DescriptionHash, format, data, opts)
	}

	r.Logger.Info("rendered outputs",
		"formats", result.CacheInfo.Misses,
		"cached", result.CacheInfo.Hits,
		"duration", result.Stats.RenderTime)

	return result, nil
}

func (r *Runner) lookup(ctx context.Context, hash, format string, opts Options) ([]byte, bool) {
	if opts.Refresh {
		return nil, false
	}
	key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "format", format, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, format)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, format)
	r.Logger.Debug("cache hit", "format", format, "bytes", len(data))
	return data, true
}

func (r *Runner) store(ctx context.Context, hash, format string, data []byte, opts Options) {
	key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Warn("cache write failed", "format", format, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, format, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
