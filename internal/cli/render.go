package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plt-rs/plt/pkg/config"
	"github.com/plt-rs/plt/pkg/errors"
	"github.com/plt-rs/plt/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string  // output file (single format) or base path (multiple)
	formats     string  // comma-separated output formats
	inputFormat string  // description format when reading stdin
	scale       float64 // raster scale factor
	quality     int     // jpeg quality
	embedFont   bool    // embed the font in svg output
	noCache     bool    // disable the artifact cache
	refresh     bool    // re-render and overwrite cached artifacts
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <description>",
		Short: "Render a figure description to image files",
		Long: `Render a figure description (TOML, YAML or JSON) to PNG, JPEG, SVG or PDF.

Pass "-" to read the description from stdin; --input-format then names its
format. Without --output, files are written next to the description.`,
		Example: `  plt render figure.toml
  plt render figure.yaml -f png,svg -o out/figure
  cat figure.json | plt render - --input-format json -o figure.png -f png`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd.InOrStdin(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple formats)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, jpeg, pdf (comma-separated)")
	cmd.Flags().StringVar(&opts.inputFormat, "input-format", config.FormatTOML, "description format for stdin: toml, yaml, json")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "raster scale factor")
	cmd.Flags().IntVar(&opts.quality, "quality", pipeline.DefaultQuality, "jpeg quality (1-100)")
	cmd.Flags().BoolVar(&opts.embedFont, "embed-font", false, "embed the font in svg output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render and overwrite cached artifacts")
	_ = cmd.RegisterFlagCompletionFunc("format", completeOutputFormats)
	_ = cmd.RegisterFlagCompletionFunc("input-format", completeInputFormats)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, stdin io.Reader, input string, opts renderOpts) error {
	desc, err := loadDescription(stdin, input, opts.inputFormat)
	if err != nil {
		return err
	}

	popts := pipeline.Options{
		Formats:   parseFormats(opts.formats),
		Scale:     opts.scale,
		Quality:   opts.quality,
		EmbedFont: opts.embedFont,
		Refresh:   opts.refresh,
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	paths, err := outputPaths(opts.output, input, popts.Formats)
	if err != nil {
		return err
	}

	logger := c.Logger
	var spin *Spinner
	if !c.verbose() {
		spin = newSpinnerWithContext(ctx, "Rendering "+displayName(input))
		spin.Start()
		defer spin.Stop()
		logger = quietLogger(c.Logger)
	}

	runner, err := c.newRunner(opts.noCache, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Render(ctx, desc, popts)
	if err != nil {
		return err
	}

	if spin != nil {
		spin.SetMessage("Writing files")
	}
	for _, format := range popts.Formats {
		if err := writeArtifact(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
		logger.Debug("wrote artifact", "format", format, "path", paths[format], "bytes", len(result.Artifacts[format]))
	}
	prog.done(fmt.Sprintf("Rendered %d file(s)", len(popts.Formats)))

	if spin != nil {
		spin.Stop()
	}
	printSuccess("Rendered %s", displayName(input))
	for _, format := range popts.Formats {
		printFile(paths[format])
	}
	printStats(result.Stats.Subplots, result.Stats.Series, result.Stats.Points, result.CacheInfo.AllHit())
	if opts.noCache && opts.refresh {
		printWarning("--refresh has no effect with --no-cache")
	}
	return nil
}

// loadDescription reads the description at input, or from stdin when input
// is "-".
func loadDescription(stdin io.Reader, input, format string) (*config.Figure, error) {
	if input != "-" {
		return config.Load(input)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin").In(errors.StageConfig)
	}
	return config.Decode(data, format)
}

// outputPaths assigns a file to each format.
//
// A single format with an explicit output writes exactly there. Otherwise
// the output, or the input without its extension, is a base path and each
// format gets base.<format>. A known format extension on the output is
// dropped from the base.
func outputPaths(output, input string, formats []string) (map[string]string, error) {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		if err := errors.ValidateOutputPath(output); err != nil {
			return nil, err
		}
		paths[formats[0]] = output
		return paths, nil
	}

	base := basePath(output, input)
	for _, f := range formats {
		path := base + "." + f
		if err := errors.ValidateOutputPath(path); err != nil {
			return nil, err
		}
		paths[f] = path
	}
	return paths, nil
}

// basePath derives the base output path from the output and input file paths.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "figure"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func displayName(input string) string {
	if input == "-" {
		return "stdin"
	}
	return filepath.Base(input)
}

// writeArtifact writes data to path, creating parent directories.
func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir).In(errors.StageEncode)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeEncoding, err, "write %s", path).In(errors.StageEncode)
	}
	return nil
}
