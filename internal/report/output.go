package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/muurk/klipper-analyzer/internal/firmware"
)

// Format is a report output format.
type Format string

const (
	FormatHTML Format = "html"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. An empty name selects HTML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatHTML, nil
	case FormatHTML, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", &UnknownFormatError{Format: s}
	}
}

// OutputPath chooses where the report for input is written. explicit is only
// honoured for single-file runs; otherwise the report sits next to the input
// (or in dir when set) as <name>_analysis.<format>.
func OutputPath(input, explicit, dir string, multi bool, format Format) string {
	if explicit != "" && !multi {
		return explicit
	}

	suffix := "_analysis." + string(format)
	out := input + suffix
	if ext := filepath.Ext(input); strings.EqualFold(ext, ".bin") {
		out = strings.TrimSuffix(input, ext) + suffix
	}
	if dir != "" {
		out = filepath.Join(dir, filepath.Base(out))
	}
	return out
}

// Render encodes the analysis in the requested format.
func Render(format Format, name string, a *firmware.Analysis, generated time.Time) ([]byte, error) {
	var b bytes.Buffer
	var err error
	switch format {
	case FormatHTML:
		err = RenderHTML(&b, name, a, generated)
	case FormatJSON:
		err = NewDocument(name, a).WriteJSON(&b)
	case FormatYAML:
		err = NewDocument(name, a).WriteYAML(&b)
	default:
		return nil, &UnknownFormatError{Format: string(format)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render %s report: %w", format, err)
	}
	return b.Bytes(), nil
}

// WriteFile renders the analysis and writes it to path.
// The file is written to a temporary name first and renamed into place.
func WriteFile(path string, format Format, name string, a *firmware.Analysis, generated time.Time) error {
	data, err := Render(format, name, a, generated)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &OutputError{Path: path, Err: err}
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &OutputError{Path: path, Err: err}
	}
	return nil
}
