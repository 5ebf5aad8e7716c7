package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/wordspider/internal/model"
)

// DefaultTopWords is how many words the summary ranks.
const DefaultTopWords = 10

// SummaryWriter prints the end-of-crawl summary to a terminal.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
type SummaryWriter struct {
	baseWriter

	// quiet reduces the summary to a single line.
	quiet bool

	// top is how many words to rank.
	top int
}

// SummaryWriterOption configures a SummaryWriter.
type SummaryWriterOption func(*SummaryWriter)

// WithQuiet reduces the summary to one line.
func WithQuiet(quiet bool) SummaryWriterOption {
	return func(w *SummaryWriter) {
		w.quiet = quiet
	}
}

// WithTop sets how many top words are listed. Values below 1 keep the
// default.
func WithTop(n int) SummaryWriterOption {
	return func(w *SummaryWriter) {
		if n > 0 {
			w.top = n
		}
	}
}

// NewSummaryWriter creates a SummaryWriter that outputs to the given writer.
func NewSummaryWriter(output io.Writer, opts ...SummaryWriterOption) *SummaryWriter {
	w := &SummaryWriter{
		baseWriter: newBaseWriter(output),
		top:        DefaultTopWords,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary.
func (w *SummaryWriter) Write(report *model.CrawlReport) (int, error) {
	var sb strings.Builder
	summary := report.Summary()

	if w.quiet {
		fmt.Fprintf(&sb, "\nCrawl completed: %d pages, %d unique words\n",
			summary.TotalPages, summary.TotalUniqueWords)
		if report.Cancelled {
			sb.WriteString("Crawl interrupted: partial results\n")
		}
		return w.output.Write([]byte(sb.String()))
	}

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
	if report.Cancelled {
		sb.WriteString("Crawl interrupted! (partial results)\n")
	} else {
		sb.WriteString("Crawl completed!\n")
	}
	fmt.Fprintf(&sb, "Pages visited: %d\n", summary.TotalPages)
	fmt.Fprintf(&sb, "Unique words found: %d\n", summary.TotalUniqueWords)
	fmt.Fprintf(&sb, "Total word occurrences: %d\n", summary.TotalWordOccurrences)
	fmt.Fprintf(&sb, "Domain crawled: %s\n", report.Domain)
	if summary.FailedPages > 0 {
		fmt.Fprintf(&sb, "Failed pages: %d\n", summary.FailedPages)
	}
	if report.Pending > 0 {
		fmt.Fprintf(&sb, "Pages left in queue: %d\n", report.Pending)
	}

	if top := report.TopWords(w.top); len(top) > 0 {
		fmt.Fprintf(&sb, "\nTop %d most common words:\n", w.top)
		for i, wc := range top {
			fmt.Fprintf(&sb, "   %2d. %s: %d\n", i+1, wc.Word, wc.Count)
		}
	}

	sb.WriteString("\nAll crawled URLs:\n")
	for i, u := range report.Visited {
		fmt.Fprintf(&sb, "   %2d. %s\n", i+1, u)
	}

	return w.output.Write([]byte(sb.String()))
}
