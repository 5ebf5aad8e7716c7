package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/wordspider/internal/frontier"
	"github.com/nao1215/wordspider/internal/report"
	"github.com/nao1215/wordspider/internal/stopwords"
	"github.com/nao1215/wordspider/internal/text"
	"github.com/nao1215/wordspider/internal/transport"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "wordspider"

	// DefaultDelay is the minimum interval between two requests.
	// One second keeps a single-site crawl polite without extra flags.
	DefaultDelay = 1 * time.Second

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = transport.DefaultTimeout

	// DefaultWorkers is the number of concurrent fetchers.
	// The delay is shared, so more workers only help on slow servers.
	DefaultWorkers = 1

	// DefaultOrder is the frontier selection order name.
	DefaultOrder = "unordered"

	// DefaultMaxPages of 0 means no page limit.
	DefaultMaxPages = 0

	// DefaultMaxBodySize limits how much of a response body is read.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultTorStartupTimeout bounds the embedded Tor bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute

	// DefaultTop is how many words the end-of-crawl summary lists.
	DefaultTop = report.DefaultTopWords

	// DefaultLogFormat is the log handler used on stderr.
	DefaultLogFormat = "text"
)

// Config holds all options for one wordspider run.
// It is populated from CLI flags and passed down explicitly; there is no
// global configuration state.
//
// Design decision: We use a single flat struct instead of nested structs.
// The number of options is manageable and every option is set from a flag.
type Config struct {
	// Seed is the starting URL.
	Seed string

	// OutputFile is where the word list is written.
	OutputFile string

	// Format is the output format name. Empty means "derive it from the
	// OutputFile extension".
	Format string

	// IgnoreFile is the stop-word file. It is created with the default
	// list when missing.
	IgnoreFile string

	// Delay is the minimum interval between requests across all workers.
	Delay time.Duration

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// Workers is the number of concurrent fetchers.
	Workers int

	// Order is the frontier selection order ("unordered" or "discovery").
	Order string

	// MaxPages stops the crawl after this many pages. 0 means unlimited.
	MaxPages int

	// MaxBodySize is the maximum response body size in bytes.
	MaxBodySize int64

	// MinWordLength is the shortest token counted as a word.
	MinWordLength int

	// UserAgent is sent with every request.
	UserAgent string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form.
	ProxyAddress string

	// UseTor starts an embedded Tor daemon and crawls through it.
	UseTor bool

	// TorStartupTimeout bounds the embedded Tor bootstrap.
	TorStartupTimeout time.Duration

	// Insecure disables TLS certificate verification.
	Insecure bool

	// Quiet prints one line per page instead of the detailed progress.
	Quiet bool

	// Spinner shows a terminal spinner instead of per-page lines.
	Spinner bool

	// Verbose enables debug logging.
	Verbose bool

	// LogFormat selects the stderr log handler: text, json or pretty.
	LogFormat string

	// Top is how many words the summary lists.
	Top int

	// SaveToDB stores the finished crawl in the history database.
	SaveToDB bool

	// DBDir is the directory of the history database.
	// Defaults to the XDG data directory (~/.local/share/wordspider on Linux).
	DBDir string

	// ConfigFilePath is the site file path. If empty, .wordspider is
	// searched for (see FindConfigFile).
	ConfigFilePath string

	// SiteConfigs holds the loaded site file, or nil when none was found.
	SiteConfigs *File
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (delay, timeout, workers).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		IgnoreFile:        stopwords.DefaultFileName,
		Delay:             DefaultDelay,
		Timeout:           DefaultTimeout,
		Workers:           DefaultWorkers,
		Order:             DefaultOrder,
		MaxPages:          DefaultMaxPages,
		MaxBodySize:       DefaultMaxBodySize,
		MinWordLength:     text.DefaultMinWordLength,
		UserAgent:         transport.DefaultUserAgent,
		TorStartupTimeout: DefaultTorStartupTimeout,
		LogFormat:         DefaultLogFormat,
		Top:               DefaultTop,
		DBDir:             XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for wordspider.
// On Linux: ~/.local/share/wordspider
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for wordspider.
// On Linux: ~/.config/wordspider
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// OutputFormat resolves the output format: the explicit Format when set,
// otherwise the OutputFile extension.
func (c *Config) OutputFormat() (report.Format, error) {
	if c.Format != "" {
		return report.ParseFormat(c.Format)
	}
	return report.FormatFromPath(c.OutputFile), nil
}

// CrawlOrder parses Order.
func (c *Config) CrawlOrder() (frontier.Order, error) {
	return frontier.ParseOrder(c.Order)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error, wrapped with
// detail where a parser produced one.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any request is made.
func (c *Config) Validate() error {
	if c.Seed == "" {
		return ErrNoSeed
	}
	if c.OutputFile == "" {
		return ErrNoOutput
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Workers < 1 {
		return ErrInvalidWorkers
	}
	if c.Delay < 0 {
		return ErrInvalidDelay
	}
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.MinWordLength < 1 {
		return ErrInvalidMinWordLength
	}
	if c.Top < 0 {
		return ErrInvalidTop
	}
	if c.UseTor && c.ProxyAddress != "" {
		return ErrConflictingProxy
	}
	if _, err := c.CrawlOrder(); err != nil {
		return err
	}
	if _, err := c.OutputFormat(); err != nil {
		return err
	}
	if c.SiteConfigs != nil {
		for name, site := range c.SiteConfigs.Sites {
			if _, _, err := site.ParseDelay(); err != nil {
				return fmt.Errorf("site %q: %w", name, err)
			}
		}
		if _, _, err := c.SiteConfigs.Defaults.ParseDelay(); err != nil {
			return fmt.Errorf("defaults: %w", err)
		}
	}
	return nil
}
