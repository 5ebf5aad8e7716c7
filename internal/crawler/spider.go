package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/nao1215/wordspider/internal/frontier"
	"github.com/nao1215/wordspider/internal/model"
	"github.com/nao1215/wordspider/internal/stats"
	"github.com/nao1215/wordspider/internal/text"
	"github.com/nao1215/wordspider/internal/transport"
	"github.com/nao1215/wordspider/internal/urlnorm"
)

// DefaultDelay is the politeness delay between requests.
const DefaultDelay = time.Second

// Spider crawls every reachable page of one site and counts its words.
//
// Design decision: We call it "Spider" rather than "Crawler" because:
//  1. "Spider" is the traditional term for web crawlers
//  2. Distinguishes the component from the package name
//  3. Clearer in code: crawler.NewSpider() vs crawler.NewCrawler()
//
// A Spider holds only configuration. Each Crawl call builds its own frontier
// and aggregator, so one Spider can run several crawls, even concurrently.
type Spider struct {
	// fetcher retrieves pages.
	fetcher transport.Fetcher

	// extractor turns page bodies into words and links.
	extractor *text.Extractor

	// workers is the number of concurrent fetches.
	workers int

	// delay is the minimum spacing between request starts, shared by all
	// workers. This is a politeness setting to avoid overwhelming servers.
	delay time.Duration

	// maxPages limits the number of pages fetched. 0 means no limit.
	maxPages int

	// order selects which pending URL is fetched next.
	order frontier.Order

	// ignorePatterns are URL path patterns to skip during crawling.
	ignorePatterns []string

	// followPatterns are URL path patterns to follow during crawling.
	// If set, only URLs matching these patterns are crawled.
	followPatterns []string

	// observer receives one event per processed page.
	observer Observer

	// logger receives structured crawl diagnostics.
	logger *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithWorkers sets the number of concurrent fetches. Values below 1 are
// treated as 1.
func WithWorkers(n int) SpiderOption {
	return func(s *Spider) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

// WithDelay sets the delay between requests. Zero or negative disables it.
func WithDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		s.delay = d
	}
}

// WithMaxPages sets the maximum number of pages to fetch. 0 means no limit.
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = maxPages
	}
}

// WithOrder sets the frontier order.
func WithOrder(order frontier.Order) SpiderOption {
	return func(s *Spider) {
		s.order = order
	}
}

// WithIgnorePatterns sets URL path patterns to skip during crawling.
// Patterns use glob syntax (e.g., "/admin/*", "*.pdf", "/logout*").
func WithIgnorePatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		s.ignorePatterns = patterns
	}
}

// WithFollowPatterns sets URL path patterns to follow during crawling.
// If set, only URLs matching at least one pattern are crawled.
// The seed itself is always fetched.
func WithFollowPatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		s.followPatterns = patterns
	}
}

// WithObserver sets the progress observer.
func WithObserver(o Observer) SpiderOption {
	return func(s *Spider) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) SpiderOption {
	return func(s *Spider) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSpider creates a Spider that fetches with fetcher and extracts with
// extractor.
//
// Design decision: We require an external fetcher because:
//  1. Proxy, header and timeout configuration is handled by the transport package
//  2. Tests can substitute an in-memory fetcher
func NewSpider(fetcher transport.Fetcher, extractor *text.Extractor, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:   fetcher,
		extractor: extractor,
		workers:   1,
		delay:     DefaultDelay,
		order:     frontier.OrderUnordered,
		observer:  nopObserver{},
		logger:    slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.extractor == nil {
		s.extractor = text.NewExtractor(nil)
	}

	return s
}

// Crawl crawls the site of seed and returns the report.
//
// The seed is normalized first; if it is not a valid absolute URL, Crawl
// returns ErrInvalidSeedURL without fetching anything. Individual page
// failures never abort the crawl.
//
// If ctx is cancelled, Crawl stops dispatching, collects the in-flight
// pages and returns the partial report (Cancelled set) together with
// ctx.Err(). Pages that were dequeued but not finished are recorded as
// failed with the context error, so every visited URL keeps a record.
func (s *Spider) Crawl(ctx context.Context, seed string) (*model.CrawlReport, error) {
	start := urlnorm.Normalize(seed)
	if !urlnorm.IsValid(start) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeedURL, seed)
	}

	report := model.NewCrawlReport(start, urlnorm.Domain(start))
	err := s.CrawlInto(ctx, report)
	return report, err
}

// CrawlInto runs a crawl from report.Seed and writes the results into
// report. report.Seed must already be normalized.
func (s *Spider) CrawlInto(ctx context.Context, report *model.CrawlReport) error {
	if !urlnorm.IsValid(report.Seed) {
		return fmt.Errorf("%w: %q", ErrInvalidSeedURL, report.Seed)
	}

	run := &crawlRun{
		spider:   s,
		scope:    NewScope(report.Seed, s.ignorePatterns, s.followPatterns),
		frontier: frontier.New(s.order),
		agg:      stats.NewAggregator(),
		queued:   make(map[string]int),
	}
	run.frontier.Seed(report.Seed)

	started := time.Now()
	report.DateCrawled = started

	s.logger.Info("crawl started",
		slog.String("seed", report.Seed),
		slog.Int("workers", s.workers),
		slog.Duration("delay", s.delay),
		slog.Int("max_pages", s.maxPages),
		slog.String("order", s.order.String()),
	)

	interrupted := run.execute(ctx)

	run.agg.Fill(report)
	report.Visited = run.frontier.Visited()
	report.Pending = run.frontier.Len()
	report.Duration = time.Since(started)

	summary := report.Summary()
	s.logger.Info("crawl finished",
		slog.Int("pages", summary.TotalPages),
		slog.Int("failed", summary.FailedPages),
		slog.Int("unique_words", summary.TotalUniqueWords),
		slog.Int("total_words", summary.TotalWordOccurrences),
		slog.Int("pending", report.Pending),
		slog.Duration("elapsed", report.Duration),
	)

	if interrupted {
		report.Cancelled = true
		report.SetError(ctx.Err())
		return ctx.Err()
	}
	return nil
}

// newLimiter returns the shared politeness limiter. The first request is
// never delayed.
func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// crawlRun is the mutable state of one crawl.
// Only the coordinator goroutine touches it; workers receive URLs and send
// back pageResults.
type crawlRun struct {
	spider   *Spider
	scope    *Scope
	frontier *frontier.Frontier
	agg      *stats.Aggregator

	// queued is the frontier size seen when each in-progress URL was
	// dequeued.
	queued map[string]int

	processed int
}

// pageResult is what a worker reports for one URL.
type pageResult struct {
	url        string
	resp       *transport.Response
	extraction *text.Extraction
	err        error
}

// execute runs workers and the coordinator until the frontier is drained,
// the page limit is hit or ctx is cancelled. It reports whether ctx ended
// the crawl.
func (r *crawlRun) execute(ctx context.Context) bool {
	s := r.spider
	limiter := newLimiter(s.delay)
	jobs := make(chan string)
	results := make(chan pageResult)

	var g errgroup.Group
	for id := range s.workers {
		g.Go(func() error {
			r.worker(ctx, id, limiter, jobs, results)
			return nil
		})
	}

	interrupted := r.coordinate(ctx, jobs, results)
	close(jobs)
	_ = g.Wait() //nolint:errcheck // workers never return errors

	return interrupted
}

// coordinate hands URLs to workers and folds their results back into the
// frontier and aggregator.
func (r *crawlRun) coordinate(ctx context.Context, jobs chan<- string, results <-chan pageResult) bool {
	s := r.spider
	inflight := 0
	dispatched := 0
	held := ""

	for {
		if ctx.Err() != nil {
			r.drain(ctx, held, inflight, results)
			return true
		}

		// Dequeue only for an idle worker, so a page's links are offered
		// before the next URL is chosen whenever the pool is saturated.
		limitReached := s.maxPages > 0 && dispatched >= s.maxPages
		if held == "" && !limitReached && inflight < s.workers {
			if next, ok := r.frontier.Next(); ok {
				held = next
				dispatched++
				r.queued[next] = r.frontier.Len()
			}
		}

		if held == "" && inflight == 0 {
			if limitReached && r.frontier.Len() > 0 {
				s.logger.Info("page limit reached",
					slog.Int("limit", s.maxPages),
					slog.Int("pending", r.frontier.Len()),
				)
			}
			return false
		}

		// A nil channel disables the send case while nothing is held.
		var jobsCh chan<- string
		if held != "" {
			jobsCh = jobs
		}

		select {
		case jobsCh <- held:
			inflight++
			s.logger.Debug("job dispatched",
				slog.String("url", held),
				slog.Int("inflight", inflight),
			)
			held = ""
		case res := <-results:
			inflight--
			r.handle(res)
		case <-ctx.Done():
			r.drain(ctx, held, inflight, results)
			return true
		}
	}
}

// drain finishes a cancelled crawl. The held URL was already moved to the
// visited set, so it is recorded as failed; every in-flight page is waited
// for, keeping results that completed before the cancellation.
func (r *crawlRun) drain(ctx context.Context, held string, inflight int, results <-chan pageResult) {
	if held != "" {
		r.handle(pageResult{url: held, err: ctx.Err()})
	}
	for ; inflight > 0; inflight-- {
		r.handle(<-results)
	}
}

// worker fetches and extracts URLs from jobs until jobs is closed.
// Every received URL produces exactly one result; after cancellation the
// fetch fails fast and the coordinator still collects it.
func (r *crawlRun) worker(ctx context.Context, id int, limiter *rate.Limiter, jobs <-chan string, results chan<- pageResult) {
	r.spider.logger.Debug("worker started", slog.Int("id", id))
	for u := range jobs {
		results <- r.process(ctx, limiter, u)
	}
}

// process fetches one URL and extracts its words and links.
func (r *crawlRun) process(ctx context.Context, limiter *rate.Limiter, u string) pageResult {
	res := pageResult{url: u}

	if err := limiter.Wait(ctx); err != nil {
		res.err = err
		return res
	}

	resp, err := r.spider.fetcher.Fetch(ctx, u)
	res.resp = resp
	if err != nil {
		res.err = err
		return res
	}

	extraction, err := r.spider.extractor.Extract(resp.Body, u)
	if err != nil {
		res.err = err
		return res
	}
	res.extraction = extraction
	return res
}

// handle records one result and notifies the observer.
func (r *crawlRun) handle(res pageResult) {
	s := r.spider
	r.processed++

	var (
		rec      *model.PageRecord
		newLinks []string
	)

	if res.err != nil {
		rec = model.NewFailedPageRecord(res.url, res.err)
		s.logger.Warn("page failed",
			slog.String("url", res.url),
			slog.Any("error", res.err),
		)
	} else {
		rec = model.NewPageRecord(res.url, res.extraction.Words)
		rec.Title = res.extraction.Title

		newLinks = r.frontier.Offer(r.scope.Filter(res.extraction.Links)...)
		sort.Strings(newLinks)
		rec.Links = len(newLinks)
	}

	if res.resp != nil {
		rec.StatusCode = res.resp.StatusCode
		rec.ContentType = res.resp.ContentType
		rec.Digest = model.Digest(res.resp.Body)
	}

	r.agg.Record(rec)
	totals := r.agg.Totals()
	queued := r.queued[res.url]
	delete(r.queued, res.url)

	s.logger.Debug("page processed",
		slog.String("url", res.url),
		slog.Int("words", rec.WordTotal()),
		slog.Int("unique", rec.UniqueWords()),
		slog.Int("new_links", len(newLinks)),
		slog.Int("pending", r.frontier.Len()),
	)

	s.observer.PageProcessed(PageEvent{
		Number:   r.processed,
		URL:      res.url,
		Domain:   urlnorm.Domain(res.url),
		Record:   rec,
		NewLinks: newLinks,
		Queued:   queued,
		Pending:  r.frontier.Len(),
		Totals:   totals,
		Err:      res.err,
	})
}
