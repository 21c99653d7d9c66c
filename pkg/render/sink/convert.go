package sink

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/plt-rs/plt/pkg/errors"
)

// rsvgConvertBinary is the converter used for PDF output. Tests override it.
var rsvgConvertBinary = "rsvg-convert"

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath(rsvgConvertBinary); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format).In(errors.StageEncode)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, rsvgConvertBinary, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "rsvg-convert: %s", strings.TrimSpace(errBuf.String())).In(errors.StageEncode)
	}
	return out.Bytes(), nil
}
