package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format is an output format.
type Format int

const (
	// FormatText writes "count,word" lines. It is the fallback for unknown
	// file extensions.
	FormatText Format = iota
	// FormatJSON writes the full report as JSON.
	FormatJSON
	// FormatCSV writes "count,word" records.
	FormatCSV
	// FormatMarkdown writes a Markdown document.
	FormatMarkdown
)

// String returns the format name as accepted by ParseFormat.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	default:
		return "unknown"
	}
}

// ParseFormat returns the Format named by s. Names are case-insensitive and
// may carry a leading dot, so file extensions are accepted as-is.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return FormatText, fmt.Errorf("%w: %q (supported: json, csv, txt, md)", ErrUnknownFormat, s)
	}
}

// FormatFromPath picks the format from the extension of path.
// Unknown or missing extensions select FormatText.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return FormatText
	}
	return f
}

// NewWriter returns the writer for format.
// version is embedded in formats that carry metadata.
func NewWriter(format Format, output io.Writer, version string) Writer {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint(), WithVersion(version))
	case FormatCSV:
		return NewCSVWriter(output)
	case FormatMarkdown:
		return NewMarkdownWriter(output, WithMarkdownVersion(version))
	default:
		return NewTextWriter(output)
	}
}
