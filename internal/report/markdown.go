package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/wordspider/internal/model"
)

const (
	// markdownTopWords is how many words the ranking table lists.
	markdownTopWords = 25

	// chartSlices is how many words get their own pie slice; the rest are
	// folded into "Other".
	chartSlices = 5
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter

	// version is shown in the footer when non-empty.
	version string
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownVersion shows the tool version in the footer.
func WithMarkdownVersion(version string) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.version = version
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeTopWords(md, report)
	w.writePages(md, report)
	w.writeFailures(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with crawl information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CrawlReport) {
	summary := report.Summary()

	md.H1("Word Frequency Report: " + report.Domain)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed URL", "`" + report.Seed + "`"},
			{"Crawl Date", report.DateCrawled.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration.Round(time.Millisecond).String()},
			{"Pages Visited", strconv.Itoa(summary.TotalPages)},
			{"Unique Words", strconv.Itoa(summary.TotalUniqueWords)},
			{"Total Occurrences", strconv.Itoa(summary.TotalWordOccurrences)},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")

	switch {
	case report.Cancelled:
		md.Warningf("The crawl was interrupted. %d page(s) were still queued.", report.Pending)
	case summary.FailedPages > 0:
		md.Note(strconv.Itoa(summary.FailedPages) + " page(s) could not be processed. See Failed Pages below.")
	case summary.TotalPages > 0:
		md.Tip("Every visited page was processed.")
	}
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.CrawlReport) string {
	if report.Cancelled {
		return "⚠️ Interrupted (partial results)"
	}
	if report.ErrorMessage != "" {
		return "❌ Error - " + report.ErrorMessage
	}
	return "✅ Complete"
}

// writeTopWords writes the ranking table and the distribution chart.
func (w *MarkdownWriter) writeTopWords(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Top Words")
	md.PlainText("")

	top := report.TopWords(markdownTopWords)
	if len(top) == 0 {
		md.PlainText("No words were counted.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(top))
	for i, wc := range top {
		rows[i] = []string{strconv.Itoa(i + 1), wc.Word, strconv.Itoa(wc.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Word", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, report)
}

// writePieChart writes a mermaid pie chart of the most frequent words.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.CrawlReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Word Distribution"),
		piechart.WithShowData(true),
	)

	// A Caser keeps state between calls, so one per chart.
	title := cases.Title(language.English)

	shown := 0
	for _, wc := range report.TopWords(chartSlices) {
		chart.LabelAndIntValue(title.String(wc.Word), uint64(wc.Count)) //nolint:gosec // counts are positive
		shown += wc.Count
	}
	if rest := report.Words.Total() - shown; rest > 0 {
		chart.LabelAndIntValue("Other", uint64(rest)) //nolint:gosec // checked above
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writePages writes one row per processed page.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Pages")
	md.PlainText("")

	urls := report.PageURLs()
	if len(urls) == 0 {
		md.PlainText("No pages were crawled.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(urls))
	for _, u := range urls {
		rec := report.Pages[u]
		title := rec.Title
		if title == "" {
			title = "-"
		}
		rows = append(rows, []string{
			truncateString(u, 60),
			truncateString(title, 40),
			strconv.Itoa(rec.WordTotal()),
			strconv.Itoa(rec.UniqueWords()),
			strconv.Itoa(rec.Links),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Title", "Words", "Unique", "New Links"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFailures lists pages that yielded no words.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, report *model.CrawlReport) {
	failures := report.Failures()
	if len(failures) == 0 {
		return
	}

	md.H2("Failed Pages")
	md.PlainText("")

	items := make([]string, 0, len(failures))
	for _, rec := range failures {
		items = append(items, "`"+rec.URL+"`: "+rec.Error)
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	if w.version != "" {
		md.PlainTextf("*Report generated by [wordspider](https://github.com/nao1215/wordspider) %s*", w.version)
		return
	}
	md.PlainText("*Report generated by [wordspider](https://github.com/nao1215/wordspider)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
