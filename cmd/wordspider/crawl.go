package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/wordspider/internal/config"
	"github.com/nao1215/wordspider/internal/crawler"
	"github.com/nao1215/wordspider/internal/database"
	"github.com/nao1215/wordspider/internal/log"
	"github.com/nao1215/wordspider/internal/model"
	"github.com/nao1215/wordspider/internal/pipeline"
	"github.com/nao1215/wordspider/internal/report"
	"github.com/nao1215/wordspider/internal/stopwords"
	"github.com/nao1215/wordspider/internal/text"
	"github.com/nao1215/wordspider/internal/transport"
	"github.com/nao1215/wordspider/internal/urlnorm"
)

// errOnionNeedsProxy is returned when an onion seed is crawled without Tor.
var errOnionNeedsProxy = errors.New("onion sites can only be reached through Tor (use --tor or --proxy)")

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url]",
		Short: "Crawl a website and write its word list",
		Long: `Crawl starts at the given URL and follows every link that stays on the same
domain. The visible text of each HTML page is split into words, stop words
and words shorter than --min-length are dropped, and the remaining words
are counted across the whole site.

The word list is written to --output. The format follows the file
extension (.json, .csv, .md, anything else is plain text) unless --format
is given. Press Ctrl+C to stop early; the pages crawled so far are still
written.

Examples:
  # Crawl a site and write a plain text word list
  wordspider crawl --url https://example.com --output words.txt

  # The seed may also be given as an argument
  wordspider crawl https://example.com -o words.json

  # Faster crawl with four workers and half a second between requests
  wordspider crawl https://example.com -o words.csv -w 4 -d 0.5

  # Crawl an onion site through an embedded Tor daemon
  wordspider crawl --tor http://exampleonion.onion -o onion.txt

  # Keep the crawl in the history database for later comparison
  wordspider crawl https://example.com -o words.txt --save

Configuration file (.wordspider) example:
  defaults:
    stopWords: [lorem, ipsum]
  sites:
    example.com:
      cookie: "session_id=abc123"
      delay: "2s"
      ignorePatterns: ["/logout*"]`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCrawlCmd,
	}

	// Input and output flags
	cmd.Flags().StringP("url", "u", "",
		"Starting URL to crawl (may also be given as an argument)")
	cmd.Flags().StringP("output", "o", "",
		"Output file (.json, .csv, .md or .txt)")
	cmd.Flags().String("format", "",
		"Output format: json, csv, txt or md (default: from the output file extension)")
	cmd.Flags().StringP("ignore-file", "i", stopwords.DefaultFileName,
		"Stop-word file, created with a default list when missing")
	cmd.Flags().Int("min-length", text.DefaultMinWordLength,
		"Shortest word that is counted")
	cmd.Flags().Int("top", config.DefaultTop,
		"Number of top words shown in the summary")

	// Crawl behavior flags
	cmd.Flags().VarP(newDelayValue(config.DefaultDelay), "delay", "d",
		"Delay between requests in seconds (or a duration such as 500ms)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of concurrent fetchers (the delay is shared between them)")
	cmd.Flags().String("order", config.DefaultOrder,
		"Order in which queued pages are fetched: unordered or discovery")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to crawl (0 means no limit)")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes")
	cmd.Flags().String("user-agent", transport.DefaultUserAgent,
		"User-Agent header sent with every request")

	// Connection flags
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address (e.g., 127.0.0.1:9050)")
	cmd.Flags().Bool("tor", false,
		"Start an embedded Tor daemon and crawl through it")
	cmd.Flags().Duration("tor-timeout", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")
	cmd.Flags().Bool("insecure", false,
		"Skip TLS certificate verification")

	// Display flags
	cmd.Flags().BoolP("quiet", "q", false,
		"Print one line per page instead of detailed progress")
	cmd.Flags().Bool("spinner", false,
		"Show a progress spinner instead of per-page output")
	cmd.Flags().String("log-format", config.DefaultLogFormat,
		"Log format on stderr: text, json or pretty")

	// History flags
	cmd.Flags().Bool("save", false,
		"Save the crawl to the history database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"History database directory")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .wordspider in current or home directory)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	site, err := applySiteConfig(cmd, cfg)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, err := log.NewLogger(cmd.ErrOrStderr(), log.Options{
		Verbose: cfg.Verbose,
		Format:  cfg.LogFormat,
	})
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCrawl(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, site, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Seed, err = cmd.Flags().GetString("url")
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		if cfg.Seed != "" && cfg.Seed != args[0] {
			return nil, fmt.Errorf("starting URL given twice: --url %q and argument %q", cfg.Seed, args[0])
		}
		cfg.Seed = args[0]
	}

	if cfg.OutputFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if cfg.Format, err = cmd.Flags().GetString("format"); err != nil {
		return nil, err
	}
	if cfg.IgnoreFile, err = cmd.Flags().GetString("ignore-file"); err != nil {
		return nil, err
	}
	if cfg.MinWordLength, err = cmd.Flags().GetInt("min-length"); err != nil {
		return nil, err
	}
	if cfg.Top, err = cmd.Flags().GetInt("top"); err != nil {
		return nil, err
	}

	delay, ok := cmd.Flags().Lookup("delay").Value.(*delayValue)
	if !ok {
		return nil, errors.New("delay flag has unexpected type")
	}
	cfg.Delay = delay.Duration()

	if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.Workers, err = cmd.Flags().GetInt("workers"); err != nil {
		return nil, err
	}
	if cfg.Order, err = cmd.Flags().GetString("order"); err != nil {
		return nil, err
	}
	if cfg.MaxPages, err = cmd.Flags().GetInt("max-pages"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
		return nil, err
	}

	if cfg.ProxyAddress, err = cmd.Flags().GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.UseTor, err = cmd.Flags().GetBool("tor"); err != nil {
		return nil, err
	}
	if cfg.TorStartupTimeout, err = cmd.Flags().GetDuration("tor-timeout"); err != nil {
		return nil, err
	}
	if cfg.Insecure, err = cmd.Flags().GetBool("insecure"); err != nil {
		return nil, err
	}

	if cfg.Quiet, err = cmd.Flags().GetBool("quiet"); err != nil {
		return nil, err
	}
	if cfg.Spinner, err = cmd.Flags().GetBool("spinner"); err != nil {
		return nil, err
	}
	if cfg.LogFormat, err = cmd.Flags().GetString("log-format"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if cfg.SaveToDB, err = cmd.Flags().GetBool("save"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = cmd.Flags().GetString("db-dir"); err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file path, error if not found.
	// If no path was specified, silently continue without site settings.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case explicitConfigPath:
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	return cfg, nil
}

// applySiteConfig resolves the site file entry for the seed's domain.
// The entry's delay and page limit replace the defaults only when the
// corresponding flag was not given.
func applySiteConfig(cmd *cobra.Command, cfg *config.Config) (config.SiteConfig, error) {
	if cfg.SiteConfigs == nil {
		return config.SiteConfig{}, nil
	}

	site := cfg.SiteConfigs.GetSiteConfig(urlnorm.Domain(urlnorm.Normalize(cfg.Seed)))

	delay, ok, err := site.ParseDelay()
	if err != nil {
		return site, err
	}
	if ok && !cmd.Flags().Changed("delay") {
		cfg.Delay = delay
	}
	if site.MaxPages > 0 && !cmd.Flags().Changed("max-pages") {
		cfg.MaxPages = site.MaxPages
	}

	return site, nil
}

// runCrawl executes one crawl. Progress and the summary go to out; the
// spinner, when enabled, draws on errOut.
func runCrawl(ctx context.Context, out, errOut io.Writer, cfg *config.Config, site config.SiteConfig, logger *slog.Logger) error {
	seed := urlnorm.Normalize(cfg.Seed)
	if !urlnorm.IsValid(seed) {
		return fmt.Errorf("%w: %q", crawler.ErrInvalidSeedURL, cfg.Seed)
	}
	domain := urlnorm.Domain(seed)

	if err := checkOnionSeed(seed, cfg); err != nil {
		return err
	}

	format, err := cfg.OutputFormat()
	if err != nil {
		return err
	}
	order, err := cfg.CrawlOrder()
	if err != nil {
		return err
	}

	stop, created, err := stopwords.LoadOrCreate(cfg.IgnoreFile)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(out, "Warning: Ignore file '%s' not found. Creating default.\n", cfg.IgnoreFile)
	}
	stop.Add(site.StopWords...)

	logger.Info("starting crawl",
		"seed", seed,
		"output", cfg.OutputFile,
		"format", format.String(),
		"stopWords", stop.Len(),
		"saveToDB", cfg.SaveToDB,
	)

	clientOpts := transport.ClientOptions{
		Timeout:            cfg.Timeout,
		ProxyAddress:       cfg.ProxyAddress,
		SiteURL:            seed,
		Cookie:             site.Cookie,
		Headers:            site.Headers,
		InsecureSkipVerify: cfg.Insecure,
	}

	switch {
	case cfg.UseTor:
		embeddedTor, err := startEmbeddedTor(ctx, out, cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			logger.Info("stopping embedded Tor daemon...")
			if err := embeddedTor.Stop(); err != nil {
				logger.Error("failed to stop embedded Tor", "error", err)
			}
		}()
		clientOpts, err = embeddedTor.ClientOptions(clientOpts)
		if err != nil {
			return err
		}
	case cfg.ProxyAddress != "":
		if err := transport.CheckProxy(ctx, cfg.ProxyAddress).Error(); err != nil {
			return fmt.Errorf("proxy check failed: %w (make sure a SOCKS5 proxy is running at %s)",
				err, cfg.ProxyAddress)
		}
		logger.Info("proxy connection verified", "address", cfg.ProxyAddress)
	}

	client, err := transport.NewHTTPClient(clientOpts)
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}

	fetcher := transport.NewHTTPFetcher(client,
		transport.WithUserAgent(cfg.UserAgent),
		transport.WithMaxBodySize(cfg.MaxBodySize),
	)
	extractor := text.NewExtractor(text.NewFilter(stop, text.WithMinLength(cfg.MinWordLength)))

	var (
		observer crawler.Observer
		spin     *spinnerProgress
	)
	switch {
	case cfg.Spinner:
		spin = newSpinnerProgress(errOut)
		observer = spin
	case cfg.Quiet:
		observer = &quietProgress{w: out}
	default:
		observer = &verboseProgress{w: out}
	}

	spider := crawler.NewSpider(fetcher, extractor,
		crawler.WithWorkers(cfg.Workers),
		crawler.WithDelay(cfg.Delay),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithOrder(order),
		crawler.WithIgnorePatterns(site.IgnorePatterns),
		crawler.WithFollowPatterns(site.FollowPatterns),
		crawler.WithObserver(observer),
		crawler.WithLogger(logger),
	)

	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineOutput(cfg.OutputFile, format),
		pipeline.WithPipelineVersion(getVersion()),
		pipeline.WithPipelineSummary(out,
			report.WithQuiet(cfg.Quiet || cfg.Spinner),
			report.WithTop(cfg.Top),
		),
	}

	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "path", db.Path())
		configOpts = append(configOpts, pipeline.WithPipelineStore(db))
	}

	p := pipeline.DefaultPipeline(spider, []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	}, configOpts...)

	printStartBanner(out, domain, seed, cfg.Delay, cfg.Quiet || cfg.Spinner)

	crawlReport := model.NewCrawlReport(seed, domain)
	if spin != nil {
		spin.Start()
	}
	err = p.Execute(ctx, crawlReport)
	if spin != nil {
		spin.Stop()
	}

	// An interrupt still ran the output steps, so partial results exist.
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Fprintf(out, "\nResults saved to: %s\n", cfg.OutputFile)
	return nil
}

// checkOnionSeed validates onion seeds and makes sure they are crawled
// through Tor.
func checkOnionSeed(seed string, cfg *config.Config) error {
	u, err := url.Parse(seed)
	if err != nil {
		return fmt.Errorf("%w: %q", crawler.ErrInvalidSeedURL, seed)
	}
	host := u.Hostname()
	if !transport.IsOnionHost(host) {
		return nil
	}
	if err := transport.CheckOnionHost(host); err != nil {
		return fmt.Errorf("invalid onion address %q: %w", host, err)
	}
	if !cfg.UseTor && cfg.ProxyAddress == "" {
		return errOnionNeedsProxy
	}
	return nil
}

// startEmbeddedTor starts an embedded Tor daemon using tornago and checks
// that its SOCKS port answers.
func startEmbeddedTor(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger) (*transport.EmbeddedTor, error) {
	fmt.Fprintln(out, "Starting embedded Tor daemon...")
	fmt.Fprintf(out, "This may take 1-3 minutes while Tor bootstraps and connects to the network.\n\n")

	embeddedTor := transport.NewEmbeddedTor(
		transport.WithStartupTimeout(cfg.TorStartupTimeout),
	)

	if err := embeddedTor.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start embedded Tor: %w", err)
	}

	logger.Info("embedded Tor daemon started", "socksAddr", embeddedTor.SocksAddr())

	if err := transport.CheckProxy(ctx, embeddedTor.SocksAddr()).Error(); err != nil {
		_ = embeddedTor.Stop() //nolint:errcheck // best effort cleanup
		return nil, fmt.Errorf("embedded Tor proxy check failed: %w", err)
	}

	fmt.Fprintf(out, "Embedded Tor daemon started successfully!\n")
	fmt.Fprintf(out, "SOCKS proxy: %s\n\n", embeddedTor.SocksAddr())

	return embeddedTor, nil
}
