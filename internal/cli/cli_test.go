package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/plt-rs/plt/pkg/buildinfo"
	"github.com/plt-rs/plt/pkg/cache"
	"github.com/plt-rs/plt/pkg/errors"
)

const testDescription = `
width = 300
height = 200

[[subplots]]
title = "ramp"

[[subplots.series]]
linspace = [0.0, 1.0, 4.0]
y = [0.0, 1.0, 4.0, 9.0]
`

// execute runs the root command with args and an isolated cache dir.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeDescription(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and empties", " svg, ,png ", []string{"svg", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"canceled", fmt.Errorf("render: %w", context.Canceled), ExitCanceled},
		{"input", errors.New(errors.ErrCodeInvalidLimits, "bad"), ExitInput},
		{"config", errors.New(errors.ErrCodeInvalidConfig, "bad"), ExitInput},
		{"encode", errors.New(errors.ErrCodeEncoding, "bad"), ExitFailure},
		{"plain", fmt.Errorf("boom"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPrintError(t *testing.T) {
	out, errOut := captureOutput(t)
	PrintError(errors.New(errors.ErrCodeInvalidLimits, "min 2 must be less than max 1").In(errors.StageLimits))

	if !strings.Contains(errOut.String(), "min 2 must be less than max 1") {
		t.Errorf("stderr = %q", errOut.String())
	}
	if strings.Contains(errOut.String(), "INVALID_LIMITS:") {
		t.Error("message should not carry the code prefix")
	}
	if !strings.Contains(out.String(), "INVALID_LIMITS in limits") {
		t.Errorf("detail = %q", out.String())
	}
}

func TestRenderCommand(t *testing.T) {
	out, _ := captureOutput(t)
	desc := writeDescription(t, "ramp.toml", testDescription)
	base := filepath.Join(t.TempDir(), "nested", "ramp")

	if _, err := execute(t, "", "render", desc, "-f", "svg,png", "-o", base); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("svg output is not an SVG")
	}
	png, err := os.ReadFile(base + ".png")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("png output is not a PNG")
	}
	if !strings.Contains(out.String(), "1 subplot") || !strings.Contains(out.String(), "4 points") {
		t.Errorf("stats line missing: %q", out.String())
	}
}

func TestRenderCommandDefaultOutput(t *testing.T) {
	captureOutput(t)
	desc := writeDescription(t, "ramp.toml", testDescription)

	if _, err := execute(t, "", "render", desc); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(strings.TrimSuffix(desc, ".toml") + ".svg"); err != nil {
		t.Errorf("default output not written: %v", err)
	}
}

func TestRenderCommandStdin(t *testing.T) {
	captureOutput(t)
	out := filepath.Join(t.TempDir(), "fig.png")

	json := `{"width": 300, "height": 200, "subplots": [{"series": [{"y": [1, 2, 3]}]}]}`
	if _, err := execute(t, json, "render", "-", "--input-format", "json", "-f", "png", "-o", out); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	captureOutput(t)
	good := writeDescription(t, "ramp.toml", testDescription)
	bad := writeDescription(t, "bad.toml", `
[[subplots]]
[subplots.x]
limits = [1.0, 0.0]
[[subplots.series]]
y = [1.0, 2.0]
`)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing file", []string{"render", filepath.Join(t.TempDir(), "none.toml")}, errors.ErrCodeFileNotFound},
		{"unknown extension", []string{"render", writeDescription(t, "fig.ini", "x=1")}, errors.ErrCodeInvalidFormat},
		{"bad format", []string{"render", good, "-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"bad scale", []string{"render", good, "--scale", "-2"}, errors.ErrCodeInvalidInput},
		{"bad limits", []string{"render", bad}, errors.ErrCodeInvalidLimits},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCacheCommands(t *testing.T) {
	out, _ := captureOutput(t)
	cacheHome := t.TempDir()
	desc := writeDescription(t, "ramp.toml", testDescription)

	run := func(args ...string) string {
		t.Helper()
		c := New(io.Discard, LogInfo)
		root := c.RootCommand()
		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetArgs(args)
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return buf.String()
	}
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	if got := strings.TrimSpace(run("cache", "path")); got != filepath.Join(cacheHome, appName) {
		t.Errorf("cache path = %q", got)
	}

	run("render", desc, "-f", "svg,png")
	out.Reset()
	run("render", desc, "-f", "svg,png")
	if !strings.Contains(out.String(), iconCached) {
		t.Errorf("second render should be cached: %q", out.String())
	}

	out.Reset()
	run("cache", "clear")
	if !strings.Contains(out.String(), "Cleared 2 cached entries") {
		t.Errorf("clear output = %q", out.String())
	}

	out.Reset()
	run("render", desc, "-f", "svg,png")
	if !strings.Contains(out.String(), iconFresh) {
		t.Errorf("render after clear should be fresh: %q", out.String())
	}
}

func TestClearMissingCache(t *testing.T) {
	out, _ := captureOutput(t)
	if err := clearCache(filepath.Join(t.TempDir(), "absent")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Cache is empty") {
		t.Errorf("output = %q", out.String())
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, buildinfo.Version) {
		t.Errorf("version output = %q", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := execute(t, "", "completion", shell)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, appName) {
				t.Errorf("%s completion does not mention %s", shell, appName)
			}
		})
	}
	if _, err := execute(t, "", "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}

func TestServeCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, LogInfo)
	ctx := context.Background()

	store, backend, err := c.serveCache(ctx, serveOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*cache.FileCache); !ok || !strings.HasSuffix(backend, appName) {
		t.Errorf("default cache = %T %q, want file cache", store, backend)
	}

	store, backend, err = c.serveCache(ctx, serveOpts{noCache: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*cache.NullCache); !ok || backend != "disabled" {
		t.Errorf("--no-cache = %T %q", store, backend)
	}

	if _, _, err := c.serveCache(ctx, serveOpts{redis: "127.0.0.1:1"}); err == nil {
		t.Error("unreachable redis should fail")
	}
}

func TestCompleteOutputFormats(t *testing.T) {
	tests := []struct {
		toComplete string
		want       []string
	}{
		{"", []string{"jpeg", "pdf", "png", "svg"}},
		{"p", []string{"pdf", "png"}},
		{"svg,", []string{"svg,jpeg", "svg,pdf", "svg,png"}},
		{"svg,png,p", []string{"svg,png,pdf"}},
		{"gif", nil},
	}
	for _, tt := range tests {
		t.Run(tt.toComplete, func(t *testing.T) {
			got, directive := completeOutputFormats(nil, nil, tt.toComplete)
			if !slices.Equal(got, tt.want) {
				t.Errorf("completeOutputFormats(%q) = %v, want %v", tt.toComplete, got, tt.want)
			}
			if directive&cobra.ShellCompDirectiveNoFileComp == 0 {
				t.Error("format completion falls back to files")
			}
		})
	}
}

func TestRenderCompletion(t *testing.T) {
	out, err := execute(t, "", cobra.ShellCompRequestCmd, "render", "--input-format", "")
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{"json", "toml", "yaml"} {
		if !strings.Contains(out, f) {
			t.Errorf("input format completion %q lacks %s", out, f)
		}
	}

	got, directive := completeDescription(nil, nil, "")
	if !slices.Equal(got, descriptionExtensions) || directive != cobra.ShellCompDirectiveFilterFileExt {
		t.Errorf("completeDescription() = %v, %v", got, directive)
	}
}
