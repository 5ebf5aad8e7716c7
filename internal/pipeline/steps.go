package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/wordspider/internal/model"
	"github.com/nao1215/wordspider/internal/report"
)

// Crawler fills a report by crawling from report.Seed.
// *crawler.Spider implements it.
type Crawler interface {
	CrawlInto(ctx context.Context, report *model.CrawlReport) error
}

// Store persists finished reports. *database.CrawlDB implements it.
type Store interface {
	SaveCrawl(ctx context.Context, report *model.CrawlReport) (int64, error)
}

// CrawlStep crawls the site and fills the report.
//
// Design decision: An interrupted crawl is not a step failure. The spider
// has already marked the report Cancelled and aggregated every finished
// page, and the steps after it write those partial results.
type CrawlStep struct {
	crawler Crawler
	logger  *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// NewCrawlStep creates a crawl step around c.
func NewCrawlStep(c Crawler, opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		crawler: c,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl step.
func (s *CrawlStep) Do(ctx context.Context, r *model.CrawlReport) error {
	err := s.crawler.CrawlInto(ctx, r)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.logger.Warn("crawl interrupted, keeping partial results",
			"pages", len(r.Visited),
			"pending", r.Pending,
		)
		return nil
	}
	return fmt.Errorf("crawl failed: %w", err)
}

// SaveStep stores the report in the history database.
type SaveStep struct {
	store  Store
	logger *slog.Logger

	// savedID is the row ID of the last saved crawl.
	savedID int64
}

// SaveStepOption configures a SaveStep.
type SaveStepOption func(*SaveStep)

// WithSaveLogger sets a custom logger for the save step.
func WithSaveLogger(logger *slog.Logger) SaveStepOption {
	return func(s *SaveStep) {
		s.logger = logger
	}
}

// NewSaveStep creates a save step writing to store.
func NewSaveStep(store Store, opts ...SaveStepOption) *SaveStep {
	s := &SaveStep{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *SaveStep) Name() string {
	return "save"
}

// Finalize reports that interrupted crawls are saved too.
func (s *SaveStep) Finalize() bool {
	return true
}

// SavedID returns the ID of the stored crawl, or 0 before Do succeeded.
func (s *SaveStep) SavedID() int64 {
	return s.savedID
}

// Do executes the save step.
func (s *SaveStep) Do(ctx context.Context, r *model.CrawlReport) error {
	id, err := s.store.SaveCrawl(ctx, r)
	if err != nil {
		return fmt.Errorf("failed to save crawl: %w", err)
	}
	s.savedID = id
	s.logger.Info("crawl saved", "id", id, "domain", r.Domain)
	return nil
}

// OutputStep writes the report to a file in one format.
type OutputStep struct {
	path    string
	format  report.Format
	version string
	logger  *slog.Logger
}

// OutputStepOption configures an OutputStep.
type OutputStepOption func(*OutputStep)

// WithOutputVersion embeds the tool version in formats that carry metadata.
func WithOutputVersion(version string) OutputStepOption {
	return func(s *OutputStep) {
		s.version = version
	}
}

// WithOutputLogger sets a custom logger for the output step.
func WithOutputLogger(logger *slog.Logger) OutputStepOption {
	return func(s *OutputStep) {
		s.logger = logger
	}
}

// NewOutputStep creates a step that writes the report to path.
func NewOutputStep(path string, format report.Format, opts ...OutputStepOption) *OutputStep {
	s := &OutputStep{
		path:   path,
		format: format,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *OutputStep) Name() string {
	return "output:" + s.format.String()
}

// Finalize reports that partial results are written too.
func (s *OutputStep) Finalize() bool {
	return true
}

// Do executes the output step. Parent directories are created as needed
// and an existing file is overwritten.
func (s *OutputStep) Do(_ context.Context, r *model.CrawlReport) (err error) {
	dir := filepath.Dir(s.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // user-chosen output path
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	n, err := report.NewWriter(s.format, f, s.version).Write(r)
	if err != nil {
		return fmt.Errorf("failed to write %s output: %w", s.format, err)
	}

	s.logger.Info("output written", "path", s.path, "format", s.format.String(), "bytes", n)
	return nil
}

// SummaryStep prints the end-of-crawl summary.
type SummaryStep struct {
	writer *report.SummaryWriter
}

// NewSummaryStep creates a step that prints the summary to w.
func NewSummaryStep(w io.Writer, opts ...report.SummaryWriterOption) *SummaryStep {
	return &SummaryStep{writer: report.NewSummaryWriter(w, opts...)}
}

// Name returns the step name.
func (s *SummaryStep) Name() string {
	return "summary"
}

// Finalize reports that the summary is printed for partial results too.
func (s *SummaryStep) Finalize() bool {
	return true
}

// Do executes the summary step.
func (s *SummaryStep) Do(_ context.Context, r *model.CrawlReport) error {
	_, err := s.writer.Write(r)
	return err
}

// Output is one file the default pipeline writes.
type Output struct {
	Path   string
	Format report.Format
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// Outputs are the files to write, in order.
	Outputs []Output

	// Store, when non-nil, receives the finished crawl.
	Store Store

	// Summary, when non-nil, receives the end-of-crawl summary.
	Summary io.Writer

	// SummaryOptions configure the summary writer.
	SummaryOptions []report.SummaryWriterOption

	// Version is embedded in outputs that carry metadata.
	Version string
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineOutput adds an output file.
func WithPipelineOutput(path string, format report.Format) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Outputs = append(c.Outputs, Output{Path: path, Format: format})
	}
}

// WithPipelineStore saves the crawl to store.
func WithPipelineStore(store Store) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Store = store
	}
}

// WithPipelineSummary prints the summary to w.
func WithPipelineSummary(w io.Writer, opts ...report.SummaryWriterOption) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Summary = w
		c.SummaryOptions = opts
	}
}

// WithPipelineVersion sets the version embedded in outputs.
func WithPipelineVersion(version string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Version = version
	}
}

// DefaultPipeline creates the standard crawl pipeline:
// crawl, then save (optional), then each output, then the summary (optional).
//
// The first variadic parameter accepts pipeline options (WithLogger, etc).
// The second accepts pipeline config options (WithPipelineOutput, etc).
func DefaultPipeline(c Crawler, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{}
	for _, opt := range configOpts {
		opt(cfg)
	}

	p.AddStep(NewCrawlStep(c, WithCrawlLogger(p.logger)))
	if cfg.Store != nil {
		p.AddStep(NewSaveStep(cfg.Store, WithSaveLogger(p.logger)))
	}
	for _, out := range cfg.Outputs {
		p.AddStep(NewOutputStep(out.Path, out.Format,
			WithOutputVersion(cfg.Version),
			WithOutputLogger(p.logger),
		))
	}
	if cfg.Summary != nil {
		p.AddStep(NewSummaryStep(cfg.Summary, cfg.SummaryOptions...))
	}

	return p
}
