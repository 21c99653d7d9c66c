package config

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/plt-rs/plt/pkg/errors"
)

// Description formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Formats is the set of formats Decode and Encode accept.
var Formats = map[string]bool{
	FormatTOML: true,
	FormatYAML: true,
	FormatJSON: true,
}

// FormatFromPath derives the description format from a file extension.
func FormatFromPath(path string) string {
	f := errors.FormatFromPath(path)
	if f == "yml" {
		return FormatYAML
	}
	return f
}

// Load reads and decodes the description at path.
func Load(path string) (*Figure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "description %s not found", path).In(errors.StageConfig)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path).In(errors.StageConfig)
	}
	return Decode(data, FormatFromPath(path))
}

// Decode parses data in the given format. Unknown keys are rejected in
// every format.
func Decode(data []byte, format string) (*Figure, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "empty %s description", format).In(errors.StageConfig)
	}

	var f Figure
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, invalid(format, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown toml keys: %s", strings.Join(keys, ", ")).In(errors.StageConfig)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && err != io.EOF {
			return nil, invalid(format, err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, invalid(format, err)
		}
	}
	return &f, nil
}

// Encode writes f in the given format.
func Encode(f *Figure, format string) ([]byte, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(f); err != nil {
			return nil, invalid(format, err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return nil, invalid(format, err)
		}
		if err := enc.Close(); err != nil {
			return nil, invalid(format, err)
		}
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(f); err != nil {
			return nil, invalid(format, err)
		}
	}
	return buf.Bytes(), nil
}

// Canonical returns a stable byte form of f for hashing. Descriptions with
// equal fields share a canonical form regardless of the format they were
// written in. NaN and infinite values are preserved.
func Canonical(f *Figure) ([]byte, error) {
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, invalid(FormatYAML, err)
	}
	return data, nil
}

func checkFormat(format string) error {
	if err := errors.ValidateFormat(format, Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "description format").In(errors.StageConfig)
	}
	return nil
}

func invalid(format string, err error) error {
	return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid %s description", format).In(errors.StageConfig)
}
