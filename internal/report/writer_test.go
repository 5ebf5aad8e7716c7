package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/wordspider/internal/model"
	"github.com/nao1215/wordspider/internal/stats"
)

// createTestReport creates a report with sample data for testing.
// Site-wide counts are spider=3, web=2, crawler=1, about=1.
func createTestReport() *model.CrawlReport {
	report := model.NewCrawlReport("https://example.com/", "example.com")
	report.DateCrawled = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	report.Duration = 1500 * time.Millisecond

	agg := stats.NewAggregator()

	home := model.NewPageRecord("https://example.com/", []string{"spider", "spider", "crawler", "web"})
	home.Title = "Home"
	home.Links = 2
	agg.Record(home)

	agg.Record(model.NewPageRecord("https://example.com/about", []string{"spider", "web", "about"}))

	failed := model.NewFailedPageRecord("https://example.com/missing", errors.New("unexpected HTTP status: 404 Not Found"))
	failed.StatusCode = 404
	agg.Record(failed)

	agg.Fill(report)
	report.Visited = []string{
		"https://example.com/",
		"https://example.com/about",
		"https://example.com/missing",
	}

	return report
}

// TestFormat tests format selection.
func TestFormat(t *testing.T) {
	t.Parallel()

	t.Run("ParseFormat accepts names and extensions", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			input string
			want  Format
		}{
			{"json", FormatJSON},
			{".JSON", FormatJSON},
			{"csv", FormatCSV},
			{"txt", FormatText},
			{"text", FormatText},
			{"md", FormatMarkdown},
			{"markdown", FormatMarkdown},
		}

		for _, tt := range tests {
			got, err := ParseFormat(tt.input)
			if err != nil {
				t.Errorf("ParseFormat(%q) unexpected error: %v", tt.input, err)
				continue
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		}
	})

	t.Run("ParseFormat rejects unknown names", func(t *testing.T) {
		t.Parallel()

		_, err := ParseFormat("xlsx")
		if !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("expected ErrUnknownFormat, got %v", err)
		}
	})

	t.Run("FormatFromPath falls back to text", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			path string
			want Format
		}{
			{"out.json", FormatJSON},
			{"/tmp/Words.CSV", FormatCSV},
			{"report.md", FormatMarkdown},
			{"words.txt", FormatText},
			{"words.dat", FormatText},
			{"words", FormatText},
		}

		for _, tt := range tests {
			if got := FormatFromPath(tt.path); got != tt.want {
				t.Errorf("FormatFromPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		}
	})

	t.Run("String round trips", func(t *testing.T) {
		t.Parallel()

		for _, f := range []Format{FormatJSON, FormatCSV, FormatText, FormatMarkdown} {
			got, err := ParseFormat(f.String())
			if err != nil || got != f {
				t.Errorf("ParseFormat(%q) = %v, %v; want %v", f.String(), got, err, f)
			}
		}
	})

	t.Run("NewWriter returns the matching writer", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, ok := NewWriter(FormatJSON, &buf, "").(*JSONWriter); !ok {
			t.Error("expected JSONWriter")
		}
		if _, ok := NewWriter(FormatCSV, &buf, "").(*CSVWriter); !ok {
			t.Error("expected CSVWriter")
		}
		if _, ok := NewWriter(FormatMarkdown, &buf, "").(*MarkdownWriter); !ok {
			t.Error("expected MarkdownWriter")
		}
		if _, ok := NewWriter(FormatText, &buf, "").(*TextWriter); !ok {
			t.Error("expected TextWriter")
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("outputs the documented keys", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed map[string]json.RawMessage
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		for _, key := range []string{"summary", "overall_word_counts", "page_word_counts", "visited_urls", "seed", "domain", "failures"} {
			if _, ok := parsed[key]; !ok {
				t.Errorf("expected key %q in output", key)
			}
		}
	})

	t.Run("summary and counts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed JSONReport
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		want := model.Summary{TotalPages: 3, TotalUniqueWords: 4, TotalWordOccurrences: 7, FailedPages: 1}
		if parsed.Summary != want {
			t.Errorf("summary = %+v, want %+v", parsed.Summary, want)
		}
		if parsed.OverallWordCounts.Get("spider") != 3 {
			t.Errorf("expected spider=3, got %d", parsed.OverallWordCounts.Get("spider"))
		}
		if got := parsed.PageWordCounts["https://example.com/about"].Get("about"); got != 1 {
			t.Errorf("expected about=1 on the about page, got %d", got)
		}
		if len(parsed.Failures) != 1 || parsed.Failures[0].StatusCode != 404 {
			t.Errorf("unexpected failures: %+v", parsed.Failures)
		}
		if parsed.DurationSeconds != 1.5 {
			t.Errorf("expected duration 1.5s, got %v", parsed.DurationSeconds)
		}
	})

	t.Run("overall counts are in rank order", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := `"overall_word_counts":{"spider":3,"web":2,"crawler":1,"about":1}`
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %s in output, got %s", want, buf.String())
		}
	})

	t.Run("compact output by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) > 1 {
			t.Errorf("expected compact output (1 line), got %d lines", len(lines))
		}
	})

	t.Run("custom indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithIndent(">", "\t")).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) < 5 {
			t.Fatalf("expected multi-line output, got %d lines", len(lines))
		}
		if !strings.HasPrefix(lines[1], ">\t") {
			t.Errorf("expected prefix and tab indent, got %q", lines[1])
		}
	})

	t.Run("includes version", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithVersion("2.0.0")).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed JSONReport
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if parsed.Version != "2.0.0" {
			t.Errorf("expected version %q, got %q", "2.0.0", parsed.Version)
		}
	})

	t.Run("empty report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		report := model.NewCrawlReport("https://example.com/", "example.com")
		if _, err := NewJSONWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"overall_word_counts":{}`) {
			t.Errorf("expected empty word object, got %s", buf.String())
		}
		if !strings.Contains(buf.String(), `"visited_urls":[]`) {
			t.Errorf("expected empty visited list, got %s", buf.String())
		}
	})
}

// TestWordlistWriters tests the count,word writers.
func TestWordlistWriters(t *testing.T) {
	t.Parallel()

	const want = "3,spider\n2,web\n1,crawler\n1,about\n"

	t.Run("csv", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewCSVWriter(&buf).Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != want {
			t.Errorf("got %q, want %q", buf.String(), want)
		}
		if n != len(want) {
			t.Errorf("expected %d bytes reported, got %d", len(want), n)
		}
	})

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewTextWriter(&buf).Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != want {
			t.Errorf("got %q, want %q", buf.String(), want)
		}
		if n != len(want) {
			t.Errorf("expected %d bytes reported, got %d", len(want), n)
		}
	})

	t.Run("empty report writes nothing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		report := model.NewCrawlReport("https://example.com/", "example.com")
		if _, err := NewTextWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})
}

// TestSummaryWriter tests the terminal summary.
func TestSummaryWriter(t *testing.T) {
	t.Parallel()

	t.Run("verbose summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSummaryWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"Crawl completed!",
			"Pages visited: 3",
			"Unique words found: 4",
			"Total word occurrences: 7",
			"Domain crawled: example.com",
			"Failed pages: 1",
			"Top 10 most common words:",
			"    1. spider: 3",
			"    2. web: 2",
			"All crawled URLs:",
			"    3. https://example.com/missing",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q\n%s", want, output)
			}
		}
	})

	t.Run("top limits the ranking", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSummaryWriter(&buf, WithTop(1)).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "web: 2") {
			t.Error("expected only the top word")
		}
	})

	t.Run("quiet summary is one line", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSummaryWriter(&buf, WithQuiet(true)).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "\nCrawl completed: 3 pages, 4 unique words\n"
		if buf.String() != want {
			t.Errorf("got %q, want %q", buf.String(), want)
		}
	})

	t.Run("cancelled crawl is flagged", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.Cancelled = true
		report.Pending = 4

		var buf bytes.Buffer
		if _, err := NewSummaryWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Crawl interrupted!") {
			t.Error("expected interrupted header")
		}
		if !strings.Contains(buf.String(), "Pages left in queue: 4") {
			t.Error("expected pending count")
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewMarkdownWriter(&buf, WithMarkdownVersion("1.2.3")).Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n == 0 {
			t.Error("expected non-zero byte count")
		}

		output := buf.String()
		for _, want := range []string{
			"# Word Frequency Report: example.com",
			"## Top Words",
			"## Pages",
			"## Failed Pages",
			"https://example.com/missing",
			"spider",
			"```mermaid",
			"Spider",
			"1.2.3",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("empty report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		report := model.NewCrawlReport("https://example.com/", "example.com")
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "No words were counted.") {
			t.Error("expected empty words message")
		}
		if strings.Contains(output, "```mermaid") {
			t.Error("expected no chart for an empty report")
		}
		if strings.Contains(output, "## Failed Pages") {
			t.Error("expected no failures section")
		}
	})

	t.Run("cancelled status", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.Cancelled = true

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Interrupted") {
			t.Error("expected interrupted status")
		}
	})
}

// TestTruncateString tests string truncation.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"shorter than max", "short", 10, "short"},
		{"exact length", "exact", 5, "exact"},
		{"truncated with ellipsis", "this is a long string", 10, "this is..."},
		{"tiny max", "abcdef", 2, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
