package pipeline

import (
	"context"
	"time"

	"github.com/plt-rs/plt/pkg/config"
	"github.com/plt-rs/plt/pkg/errors"
	"github.com/plt-rs/plt/pkg/observability"
	"github.com/plt-rs/plt/pkg/plot"
)

// Build validates desc and constructs its figure.
func Build(ctx context.Context, desc *config.Figure) (*plot.Figure, error) {
	if desc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no figure description").In(errors.StageConfig)
	}
	stats := desc.Stats()
	observability.Pipeline().OnBuildStart(ctx, stats.Subplots)
	start := time.Now()
	fig, err := desc.Build()
	observability.Pipeline().OnBuildComplete(ctx, stats.Subplots, stats.Series, time.Since(start), err)
	return fig, err
}

// Render encodes fig in each of formats. Nothing is returned unless every
// format succeeds.
func Render(ctx context.Context, fig *plot.Figure, formats []string, opts Options) (map[string][]byte, error) {
	observability.Pipeline().OnRenderStart(ctx, formats)
	start := time.Now()
	artifacts, err := render(ctx, fig, formats, opts)
	observability.Pipeline().OnRenderComplete(ctx, formats, time.Since(start), err)
	return artifacts, err
}

func render(ctx context.Context, fig *plot.Figure, formats []string, opts Options) (map[string][]byte, error) {
	sinkOpts := opts.SinkOptions()
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := fig.RenderContext(ctx, format, sinkOpts...)
		if err != nil {
			return nil, errors.Context(err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
