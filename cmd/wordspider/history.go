package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/wordspider/internal/config"
	"github.com/nao1215/wordspider/internal/database"
	"github.com/nao1215/wordspider/internal/model"
	"github.com/nao1215/wordspider/internal/stats"
	"github.com/nao1215/wordspider/internal/urlnorm"
)

// defaultHistoryTop is how many entries each comparison list shows.
const defaultHistoryTop = 20

// NewHistoryCmd creates the history command.
// This command lists and compares crawls stored with 'crawl --save'.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [domain]",
		Short: "List and compare saved crawls",
		Long: `History reads crawls saved with 'wordspider crawl --save' and shows how a
site's vocabulary changed between them:
- Words that appeared or disappeared
- Words whose count changed the most
- Pages that were added, removed or modified

By default the latest two crawls of the domain are compared.

Examples:
  # Compare the latest two crawls of a site
  wordspider history example.com

  # List all saved crawls of a site
  wordspider history --list example.com

  # Show the top words of one crawl
  wordspider history --show 3

  # Compare the latest crawl with a specific crawl by ID
  wordspider history --with-crawl-id 5 example.com

  # Compare with the first crawl on or after a date
  wordspider history --since 2025-01-01 example.com

  # Output the comparison as JSON
  wordspider history --json example.com

  # List all domains in the database
  wordspider history --list-domains`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	// Listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List saved crawls of the specified domain")
	cmd.Flags().BoolP("list-domains", "L", false,
		"List all domains in the database")
	cmd.Flags().Int64("show", 0,
		"Show the top words of the crawl with this ID")

	// Comparison target flags
	cmd.Flags().Int64P("with-crawl-id", "i", 0,
		"Compare with a specific crawl by ID (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first crawl on or after this date (format: YYYY-MM-DD)")
	cmd.Flags().IntP("top", "n", defaultHistoryTop,
		"Maximum number of entries shown per list")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output the result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the result in Markdown format")

	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"History database directory")

	return cmd
}

// historyOptions holds the parsed history flags.
type historyOptions struct {
	domain      string
	list        bool
	listDomains bool
	show        int64
	withCrawlID int64
	since       string
	top         int
	json        bool
	markdown    bool
	dbDir       string
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	opts, err := parseHistoryFlags(cmd, args)
	if err != nil {
		return err
	}

	// Validate before opening the database so a usage error leaves no file
	// behind.
	if !opts.listDomains && opts.show == 0 && opts.domain == "" {
		return errors.New("domain is required (use --list-domains to see available domains)")
	}
	if opts.json && opts.markdown {
		return errors.New("--json and --markdown are mutually exclusive")
	}

	db, err := database.Open(opts.dbDir, database.Options{EnableWAL: true})
	if errors.Is(err, database.ErrDatabaseNotFound) {
		return fmt.Errorf("no crawl history in %s (run 'wordspider crawl --save' first)", opts.dbDir)
	}
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case opts.listDomains:
		return listDomains(ctx, out, db)
	case opts.show > 0:
		return showCrawl(ctx, out, db, opts)
	case opts.list:
		return listCrawlHistory(ctx, out, db, opts.domain)
	default:
		return runComparison(ctx, out, db, opts)
	}
}

// parseHistoryFlags reads the history flags.
func parseHistoryFlags(cmd *cobra.Command, args []string) (*historyOptions, error) {
	opts := &historyOptions{}
	var err error

	if opts.list, err = cmd.Flags().GetBool("list"); err != nil {
		return nil, err
	}
	if opts.listDomains, err = cmd.Flags().GetBool("list-domains"); err != nil {
		return nil, err
	}
	if opts.show, err = cmd.Flags().GetInt64("show"); err != nil {
		return nil, err
	}
	if opts.withCrawlID, err = cmd.Flags().GetInt64("with-crawl-id"); err != nil {
		return nil, err
	}
	if opts.since, err = cmd.Flags().GetString("since"); err != nil {
		return nil, err
	}
	if opts.top, err = cmd.Flags().GetInt("top"); err != nil {
		return nil, err
	}
	if opts.json, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if opts.markdown, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if opts.dbDir, err = cmd.Flags().GetString("db-dir"); err != nil {
		return nil, err
	}

	if len(args) > 0 {
		opts.domain = domainArg(args[0])
	}
	return opts, nil
}

// domainArg accepts either a bare domain or a URL and returns the domain
// key crawls are stored under.
func domainArg(arg string) string {
	arg = strings.TrimSpace(arg)
	if strings.Contains(arg, "://") {
		return urlnorm.Domain(urlnorm.Normalize(arg))
	}
	return strings.ToLower(strings.TrimSuffix(arg, "/"))
}

// listDomains lists every domain that has saved crawls.
func listDomains(ctx context.Context, out io.Writer, db *database.CrawlDB) error {
	domains, err := db.ListDomains(ctx)
	if err != nil {
		return err
	}

	if len(domains) == 0 {
		fmt.Fprintln(out, "No crawled domains found in the database.")
		fmt.Fprintln(out, "\nUse 'wordspider crawl --save <url>' to save a crawl.")
		return nil
	}

	fmt.Fprintf(out, "Crawled domains (%d):\n\n", len(domains))
	for _, domain := range domains {
		fmt.Fprintf(out, "  • %s\n", domain)
	}
	fmt.Fprintln(out, "\nUse 'wordspider history --list <domain>' to see the crawls of a domain.")

	return nil
}

// listCrawlHistory lists the saved crawls of domain.
func listCrawlHistory(ctx context.Context, out io.Writer, db *database.CrawlDB, domain string) error {
	crawls, err := db.ListCrawls(ctx, domain)
	if err != nil {
		return err
	}

	if len(crawls) == 0 {
		fmt.Fprintf(out, "No crawl history found for %s\n", domain)
		fmt.Fprintln(out, "\nUse 'wordspider crawl --save' to save a crawl of this domain.")
		return nil
	}

	fmt.Fprintf(out, "Crawl history for %s (%d crawls):\n\n", domain, len(crawls))
	fmt.Fprintf(out, "  %-6s  %-20s  %-8s  %-8s  %-10s  %s\n", "ID", "Date", "Pages", "Unique", "Total", "Status")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 70))

	for _, meta := range crawls {
		fmt.Fprintf(out, "  %-6d  %-20s  %-8d  %-8d  %-10d  %s\n",
			meta.ID,
			meta.StartedAt.Local().Format("2006-01-02 15:04:05"),
			meta.Summary.TotalPages,
			meta.Summary.TotalUniqueWords,
			meta.Summary.TotalWordOccurrences,
			crawlStatus(meta.Cancelled),
		)
	}

	fmt.Fprintln(out, "\nUse 'wordspider history <domain>' to compare the latest two crawls.")
	fmt.Fprintln(out, "Use 'wordspider history --with-crawl-id <id> <domain>' to compare with a specific crawl.")

	return nil
}

// crawlStatus describes whether a crawl ran to completion.
func crawlStatus(cancelled bool) string {
	if cancelled {
		return "interrupted"
	}
	return "complete"
}

// CrawlView is a single stored crawl with its top words.
type CrawlView struct {
	ID       int64             `json:"id"`
	Seed     string            `json:"seed"`
	Domain   string            `json:"domain"`
	Date     time.Time         `json:"date"`
	Summary  model.Summary     `json:"summary"`
	Status   string            `json:"status"`
	TopWords []model.WordCount `json:"top_words"`
}

// showCrawl prints one crawl and its top words.
func showCrawl(ctx context.Context, out io.Writer, db *database.CrawlDB, opts *historyOptions) error {
	stored, err := db.GetCrawl(ctx, opts.show)
	if err != nil {
		return err
	}
	if stored == nil {
		return fmt.Errorf("crawl with ID %d not found", opts.show)
	}

	words, err := db.TopWords(ctx, opts.show, opts.top)
	if err != nil {
		return err
	}

	view := &CrawlView{
		ID:       opts.show,
		Seed:     stored.Seed,
		Domain:   stored.Domain,
		Date:     stored.DateCrawled,
		Summary:  stored.Summary(),
		Status:   crawlStatus(stored.Cancelled),
		TopWords: words,
	}

	switch {
	case opts.json:
		return writeJSON(out, view)
	case opts.markdown:
		return writeCrawlMarkdown(out, view)
	default:
		writeCrawlText(out, view)
		return nil
	}
}

// writeCrawlText prints a crawl view as plain text.
func writeCrawlText(out io.Writer, view *CrawlView) {
	fmt.Fprintf(out, "Crawl %d: %s\n", view.ID, view.Domain)
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintf(out, "Seed:     %s\n", view.Seed)
	fmt.Fprintf(out, "Date:     %s\n", view.Date.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Status:   %s\n", view.Status)
	fmt.Fprintf(out, "Pages:    %d (%d failed)\n", view.Summary.TotalPages, view.Summary.FailedPages)
	fmt.Fprintf(out, "Words:    %d unique, %d total\n", view.Summary.TotalUniqueWords, view.Summary.TotalWordOccurrences)

	if len(view.TopWords) == 0 {
		return
	}
	fmt.Fprintf(out, "\nTop %d words:\n", len(view.TopWords))
	for i, wc := range view.TopWords {
		fmt.Fprintf(out, "   %2d. %s: %d\n", i+1, wc.Word, wc.Count)
	}
}

// writeCrawlMarkdown prints a crawl view as Markdown.
func writeCrawlMarkdown(out io.Writer, view *CrawlView) error {
	md := markdown.NewMarkdown(out)
	md.H1(fmt.Sprintf("Crawl %d: %s", view.ID, view.Domain))
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed URL", "`" + view.Seed + "`"},
			{"Date", view.Date.Local().Format("2006-01-02 15:04:05")},
			{"Status", view.Status},
			{"Pages", strconv.Itoa(view.Summary.TotalPages)},
			{"Failed Pages", strconv.Itoa(view.Summary.FailedPages)},
			{"Unique Words", strconv.Itoa(view.Summary.TotalUniqueWords)},
			{"Total Occurrences", strconv.Itoa(view.Summary.TotalWordOccurrences)},
		},
	})
	md.PlainText("")

	if len(view.TopWords) > 0 {
		md.H2("Top Words")
		md.PlainText("")
		rows := make([][]string, len(view.TopWords))
		for i, wc := range view.TopWords {
			rows[i] = []string{strconv.Itoa(i + 1), wc.Word, strconv.Itoa(wc.Count)}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Rank", "Word", "Count"},
			Rows:   rows,
		})
	}

	return md.Build()
}

// ComparisonResult holds the result of comparing two stored crawls.
type ComparisonResult struct {
	// Domain is the compared site.
	Domain string `json:"domain"`

	// PreviousCrawl describes the older crawl.
	PreviousCrawl database.CrawlMetadata `json:"previous_crawl"`

	// CurrentCrawl describes the newer crawl.
	CurrentCrawl database.CrawlMetadata `json:"current_crawl"`

	// Words compares the site-wide word counts.
	Words *stats.WordDiff `json:"words"`

	// Pages compares the page sets by content digest.
	Pages *stats.PageDiff `json:"pages"`
}

// runComparison compares the latest crawl of a domain with an earlier one.
func runComparison(ctx context.Context, out io.Writer, db *database.CrawlDB, opts *historyOptions) error {
	crawls, err := db.ListCrawls(ctx, opts.domain)
	if err != nil {
		return err
	}

	if len(crawls) == 0 {
		return fmt.Errorf("no crawl history found for %s", opts.domain)
	}

	if len(crawls) < 2 && opts.withCrawlID == 0 && opts.since == "" {
		return fmt.Errorf("at least 2 crawls are required for comparison (found %d)", len(crawls))
	}

	current := crawls[0]
	previous, err := selectPrevious(crawls, opts)
	if err != nil {
		return err
	}

	result, err := compareCrawls(ctx, db, previous, current)
	if err != nil {
		return err
	}

	switch {
	case opts.json:
		return writeJSON(out, result)
	case opts.markdown:
		return writeComparisonMarkdown(out, result, opts.top)
	default:
		writeComparisonText(out, result, opts.top)
		return nil
	}
}

// selectPrevious picks the crawl the latest one is compared with.
// crawls are sorted newest first.
func selectPrevious(crawls []database.CrawlMetadata, opts *historyOptions) (database.CrawlMetadata, error) {
	current := crawls[0]

	switch {
	case opts.withCrawlID > 0:
		for _, meta := range crawls {
			if meta.ID == opts.withCrawlID {
				if meta.ID == current.ID {
					return database.CrawlMetadata{}, fmt.Errorf("crawl %d is the latest crawl; choose an older one", meta.ID)
				}
				return meta, nil
			}
		}
		return database.CrawlMetadata{}, fmt.Errorf("crawl with ID %d not found for %s", opts.withCrawlID, opts.domain)

	case opts.since != "":
		sinceDate, err := time.ParseInLocation("2006-01-02", opts.since, time.Local)
		if err != nil {
			return database.CrawlMetadata{}, fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}
		// Iterate oldest first to find the first crawl on or after the date.
		for i := len(crawls) - 1; i >= 0; i-- {
			if !crawls[i].StartedAt.Before(sinceDate) {
				if i == 0 {
					return database.CrawlMetadata{}, fmt.Errorf("only one crawl found since %s; at least 2 crawls are required for comparison", opts.since)
				}
				return crawls[i], nil
			}
		}
		return database.CrawlMetadata{}, fmt.Errorf("no crawls found since %s", opts.since)

	default:
		return crawls[1], nil
	}
}

// compareCrawls loads both crawls and diffs their words and pages.
func compareCrawls(ctx context.Context, db *database.CrawlDB, previous, current database.CrawlMetadata) (*ComparisonResult, error) {
	prevReport, err := loadCrawl(ctx, db, previous.ID)
	if err != nil {
		return nil, err
	}
	curReport, err := loadCrawl(ctx, db, current.ID)
	if err != nil {
		return nil, err
	}

	prevPages, err := db.PageDigests(ctx, previous.ID)
	if err != nil {
		return nil, err
	}
	curPages, err := db.PageDigests(ctx, current.ID)
	if err != nil {
		return nil, err
	}

	return &ComparisonResult{
		Domain:        current.Domain,
		PreviousCrawl: previous,
		CurrentCrawl:  current,
		Words:         stats.DiffWords(prevReport.Words, curReport.Words),
		Pages:         stats.DiffPages(prevPages, curPages),
	}, nil
}

// loadCrawl fetches a stored report, treating a missing row as an error.
func loadCrawl(ctx context.Context, db *database.CrawlDB, id int64) (*model.CrawlReport, error) {
	stored, err := db.GetCrawl(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("crawl with ID %d not found", id)
	}
	return stored, nil
}

// writeJSON outputs v as indented JSON.
func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeComparisonText outputs the comparison result in human-readable text format.
func writeComparisonText(out io.Writer, result *ComparisonResult, top int) {
	prev, cur := result.PreviousCrawl, result.CurrentCrawl

	fmt.Fprintf(out, "Crawl Comparison: %s\n", result.Domain)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nPrevious crawl: #%d  %s\n", prev.ID, prev.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Current crawl:  #%d  %s\n", cur.ID, cur.StartedAt.Local().Format("2006-01-02 15:04:05"))

	fmt.Fprintln(out, "\nSummary:")
	fmt.Fprintf(out, "  %-14s  %-10s  %-10s  %-10s\n", "Metric", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 50))
	for _, row := range summaryRows(prev.Summary, cur.Summary) {
		fmt.Fprintf(out, "  %-14s  %-10d  %-10d  %-10s\n", row.name, row.previous, row.current, formatDelta(row.current-row.previous))
	}

	words := result.Words
	if len(words.Added) > 0 {
		fmt.Fprintf(out, "\nNew Words (%d):\n", len(words.Added))
		for _, wc := range limit(words.Added, top) {
			fmt.Fprintf(out, "  [+] %s: %d\n", wc.Word, wc.Count)
		}
		printMore(out, len(words.Added), top)
	}
	if len(words.Removed) > 0 {
		fmt.Fprintf(out, "\nRemoved Words (%d):\n", len(words.Removed))
		for _, wc := range limit(words.Removed, top) {
			fmt.Fprintf(out, "  [-] %s: %d\n", wc.Word, wc.Count)
		}
		printMore(out, len(words.Removed), top)
	}
	if len(words.Changed) > 0 {
		fmt.Fprintf(out, "\nChanged Counts (%d):\n", len(words.Changed))
		for _, ch := range limit(words.Changed, top) {
			fmt.Fprintf(out, "  [~] %s: %d -> %d (%s)\n", ch.Word, ch.Previous, ch.Current, formatDelta(ch.Delta))
		}
		printMore(out, len(words.Changed), top)
	}
	fmt.Fprintf(out, "\nUnchanged: %d words\n", words.Unchanged)

	pages := result.Pages
	fmt.Fprintf(out, "\nPages: %d added, %d removed, %d modified, %d unchanged\n",
		len(pages.Added), len(pages.Removed), len(pages.Modified), pages.Unchanged)
	for _, u := range limit(pages.Added, top) {
		fmt.Fprintf(out, "  [+] %s\n", u)
	}
	for _, u := range limit(pages.Removed, top) {
		fmt.Fprintf(out, "  [-] %s\n", u)
	}
	for _, u := range limit(pages.Modified, top) {
		fmt.Fprintf(out, "  [~] %s\n", u)
	}
}

// writeComparisonMarkdown outputs the comparison result in Markdown format.
func writeComparisonMarkdown(out io.Writer, result *ComparisonResult, top int) error {
	prev, cur := result.PreviousCrawl, result.CurrentCrawl
	md := markdown.NewMarkdown(out)

	md.H1("Crawl Comparison: " + result.Domain)
	md.PlainText("")
	md.H2("Summary")
	md.PlainText("")

	rows := [][]string{{
		"Crawl",
		"#" + strconv.FormatInt(prev.ID, 10) + " " + prev.StartedAt.Local().Format("2006-01-02 15:04"),
		"#" + strconv.FormatInt(cur.ID, 10) + " " + cur.StartedAt.Local().Format("2006-01-02 15:04"),
		"-",
	}}
	for _, row := range summaryRows(prev.Summary, cur.Summary) {
		rows = append(rows, []string{
			row.name,
			strconv.Itoa(row.previous),
			strconv.Itoa(row.current),
			formatDelta(row.current - row.previous),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Previous", "Current", "Change"},
		Rows:   rows,
	})
	md.PlainText("")

	words := result.Words
	if len(words.Added) > 0 {
		md.H2(fmt.Sprintf("New Words (%d)", len(words.Added)))
		md.PlainText("")
		items := make([]string, 0)
		for _, wc := range limit(words.Added, top) {
			items = append(items, fmt.Sprintf("**%s**: %d", wc.Word, wc.Count))
		}
		md.BulletList(items...)
		md.PlainText("")
	}
	if len(words.Removed) > 0 {
		md.H2(fmt.Sprintf("Removed Words (%d)", len(words.Removed)))
		md.PlainText("")
		items := make([]string, 0)
		for _, wc := range limit(words.Removed, top) {
			items = append(items, fmt.Sprintf("~~%s~~: %d", wc.Word, wc.Count))
		}
		md.BulletList(items...)
		md.PlainText("")
	}
	if len(words.Changed) > 0 {
		md.H2(fmt.Sprintf("Changed Counts (%d)", len(words.Changed)))
		md.PlainText("")
		changed := limit(words.Changed, top)
		changeRows := make([][]string, len(changed))
		for i, ch := range changed {
			changeRows[i] = []string{ch.Word, strconv.Itoa(ch.Previous), strconv.Itoa(ch.Current), formatDelta(ch.Delta)}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Word", "Previous", "Current", "Change"},
			Rows:   changeRows,
		})
		md.PlainText("")
	}

	pages := result.Pages
	if len(pages.Added)+len(pages.Removed)+len(pages.Modified) > 0 {
		md.H2("Pages")
		md.PlainText("")
		items := make([]string, 0)
		for _, u := range limit(pages.Added, top) {
			items = append(items, "added `"+u+"`")
		}
		for _, u := range limit(pages.Removed, top) {
			items = append(items, "removed `"+u+"`")
		}
		for _, u := range limit(pages.Modified, top) {
			items = append(items, "modified `"+u+"`")
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*%d words and %d pages unchanged*", words.Unchanged, pages.Unchanged)

	return md.Build()
}

// summaryRow is one metric of the comparison summary.
type summaryRow struct {
	name     string
	previous int
	current  int
}

// summaryRows lists the headline metrics of two crawls.
func summaryRows(prev, cur model.Summary) []summaryRow {
	return []summaryRow{
		{"Pages", prev.TotalPages, cur.TotalPages},
		{"Failed pages", prev.FailedPages, cur.FailedPages},
		{"Unique words", prev.TotalUniqueWords, cur.TotalUniqueWords},
		{"Total words", prev.TotalWordOccurrences, cur.TotalWordOccurrences},
	}
}

// limit returns at most n items of s. n <= 0 means no limit.
func limit[T any](s []T, n int) []T {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

// printMore notes how many entries a limited list left out.
func printMore(out io.Writer, total, n int) {
	if n > 0 && total > n {
		fmt.Fprintf(out, "  ... and %d more\n", total-n)
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
