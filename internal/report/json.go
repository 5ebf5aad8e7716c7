package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/wordspider/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. model.WordCounts implements json.Marshaler to keep rank order
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is recorded in the document when non-empty.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the generating tool version in the document.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in JSON format.
func (w *JSONWriter) Write(report *model.CrawlReport) (int, error) {
	return w.writeJSON(NewJSONReport(report, w.version))
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport is the document JSONWriter emits.
//
// Design decision: We wrap the report rather than marshaling CrawlReport
// directly because the output shape (page_word_counts as plain word maps,
// a separate failures list) differs from the in-memory model, and tools
// consuming the file depend on these exact keys.
type JSONReport struct {
	// Summary holds the headline numbers.
	Summary model.Summary `json:"summary"`

	// OverallWordCounts maps word to count, in rank order.
	OverallWordCounts *model.WordCounts `json:"overall_word_counts"`

	// PageWordCounts maps page URL to that page's word counts.
	PageWordCounts map[string]*model.WordCounts `json:"page_word_counts"`

	// VisitedURLs lists every dequeued URL, sorted.
	VisitedURLs []string `json:"visited_urls"`

	// Seed is the normalized starting URL.
	Seed string `json:"seed"`

	// Domain is the crawled host.
	Domain string `json:"domain"`

	// DateCrawled is when the crawl started.
	DateCrawled time.Time `json:"date_crawled"`

	// DurationSeconds is the crawl's wall-clock time.
	DurationSeconds float64 `json:"duration_seconds"`

	// Cancelled is true when the crawl was interrupted.
	Cancelled bool `json:"cancelled"`

	// Error is why the crawl stopped early, if it did.
	Error string `json:"error,omitempty"`

	// Failures lists pages that yielded no words.
	Failures []JSONFailure `json:"failures,omitempty"`

	// Version is the wordspider version that generated this report.
	Version string `json:"version,omitempty"`
}

// JSONFailure describes one failed page.
type JSONFailure struct {
	URL        string `json:"url"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error"`
}

// NewJSONReport builds the JSON document for report.
func NewJSONReport(report *model.CrawlReport, version string) *JSONReport {
	overall := report.Words
	if overall == nil {
		overall = model.NewWordCounts()
	}

	pages := make(map[string]*model.WordCounts, len(report.Pages))
	for u, rec := range report.Pages {
		counts := rec.Counts
		if counts == nil {
			counts = model.NewWordCounts()
		}
		pages[u] = counts
	}

	visited := report.Visited
	if visited == nil {
		visited = []string{}
	}

	doc := &JSONReport{
		Summary:           report.Summary(),
		OverallWordCounts: overall,
		PageWordCounts:    pages,
		VisitedURLs:       visited,
		Seed:              report.Seed,
		Domain:            report.Domain,
		DateCrawled:       report.DateCrawled,
		DurationSeconds:   report.Duration.Seconds(),
		Cancelled:         report.Cancelled,
		Error:             report.ErrorMessage,
		Version:           version,
	}

	for _, rec := range report.Failures() {
		doc.Failures = append(doc.Failures, JSONFailure{
			URL:        rec.URL,
			StatusCode: rec.StatusCode,
			Error:      rec.Error,
		})
	}

	return doc
}
