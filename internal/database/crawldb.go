package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/wordspider/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "wordspider.db"

// CrawlDB provides SQLite-based storage for finished crawls.
//
// Design decision: We use a single database file for every crawled domain
// rather than one file per domain. This keeps "list every domain" a single
// query and makes backup a single copy.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error
// wrapping ErrDatabaseNotFound is returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Path returns the database file path.
func (cdb *CrawlDB) Path() string {
	return cdb.dbPath
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- One row per finished crawl
	CREATE TABLE IF NOT EXISTS crawls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed TEXT NOT NULL,
		domain TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		pages INTEGER NOT NULL DEFAULT 0,
		unique_words INTEGER NOT NULL DEFAULT 0,
		total_words INTEGER NOT NULL DEFAULT 0,
		failed_pages INTEGER NOT NULL DEFAULT 0,
		cancelled INTEGER NOT NULL DEFAULT 0,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_crawls_domain ON crawls(domain);
	CREATE INDEX IF NOT EXISTS idx_crawls_started ON crawls(started_at);

	-- Pages visited by a crawl
	CREATE TABLE IF NOT EXISTS crawl_pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		crawl_id INTEGER NOT NULL REFERENCES crawls(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		title TEXT,
		status_code INTEGER,
		content_type TEXT,
		digest TEXT,
		words INTEGER NOT NULL DEFAULT 0,
		unique_words INTEGER NOT NULL DEFAULT 0,
		links INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		counts_json TEXT NOT NULL,
		UNIQUE(crawl_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_crawl ON crawl_pages(crawl_id);
	CREATE INDEX IF NOT EXISTS idx_pages_digest ON crawl_pages(digest);

	-- Ranked site-wide words of a crawl
	CREATE TABLE IF NOT EXISTS crawl_words (
		crawl_id INTEGER NOT NULL REFERENCES crawls(id) ON DELETE CASCADE,
		word TEXT NOT NULL,
		count INTEGER NOT NULL,
		rank INTEGER NOT NULL,
		PRIMARY KEY (crawl_id, word)
	);

	CREATE INDEX IF NOT EXISTS idx_words_rank ON crawl_words(crawl_id, rank);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveCrawl stores report and returns its crawl ID.
// The crawl row, its pages and its ranked words are written in one
// transaction.
func (cdb *CrawlDB) SaveCrawl(ctx context.Context, report *model.CrawlReport) (id int64, err error) {
	if report == nil {
		return 0, ErrNilReport
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	summary := report.Summary()
	result, err := tx.ExecContext(ctx, `
	INSERT INTO crawls (seed, domain, started_at, duration_ms, pages, unique_words, total_words, failed_pages, cancelled, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.Seed,
		report.Domain,
		report.DateCrawled.UTC().Format(timestampLayout),
		report.Duration.Milliseconds(),
		summary.TotalPages,
		summary.TotalUniqueWords,
		summary.TotalWordOccurrences,
		summary.FailedPages,
		report.Cancelled,
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert crawl: %w", err)
	}

	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get crawl id: %w", err)
	}

	if err = insertPages(ctx, tx, id, report); err != nil {
		return 0, err
	}
	if err = insertWords(ctx, tx, id, report.TopWords(0)); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit crawl: %w", err)
	}
	return id, nil
}

// insertPages writes one crawl_pages row per page record.
func insertPages(ctx context.Context, tx *sql.Tx, crawlID int64, report *model.CrawlReport) error {
	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO crawl_pages (crawl_id, url, title, status_code, content_type, digest, words, unique_words, links, error, counts_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare page insert: %w", err)
	}
	defer stmt.Close()

	for _, u := range report.PageURLs() {
		rec := report.Pages[u]
		counts := rec.Counts
		if counts == nil {
			counts = model.NewWordCounts()
		}
		countsJSON, err := json.Marshal(counts)
		if err != nil {
			return fmt.Errorf("failed to serialize counts for %s: %w", u, err)
		}

		if _, err := stmt.ExecContext(ctx,
			crawlID,
			rec.URL,
			rec.Title,
			rec.StatusCode,
			rec.ContentType,
			rec.Digest,
			rec.WordTotal(),
			rec.UniqueWords(),
			rec.Links,
			rec.Error,
			string(countsJSON),
		); err != nil {
			return fmt.Errorf("failed to insert page %s: %w", u, err)
		}
	}
	return nil
}

// insertWords writes the ranked word list. Rank starts at 1.
func insertWords(ctx context.Context, tx *sql.Tx, crawlID int64, words []model.WordCount) error {
	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO crawl_words (crawl_id, word, count, rank) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare word insert: %w", err)
	}
	defer stmt.Close()

	for i, wc := range words {
		if _, err := stmt.ExecContext(ctx, crawlID, wc.Word, wc.Count, i+1); err != nil {
			return fmt.Errorf("failed to insert word %q: %w", wc.Word, err)
		}
	}
	return nil
}

// CrawlMetadata contains summary information about a stored crawl.
// This is used for displaying crawl history without loading the full report.
type CrawlMetadata struct {
	// ID is the unique identifier of the crawl in the database.
	ID int64 `json:"id"`

	// Seed is the starting URL.
	Seed string `json:"seed"`

	// Domain is the crawled host.
	Domain string `json:"domain"`

	// StartedAt is when the crawl started.
	StartedAt time.Time `json:"started_at"`

	// Duration is how long the crawl ran.
	Duration time.Duration `json:"duration"`

	// Summary holds the headline numbers.
	Summary model.Summary `json:"summary"`

	// Cancelled is true when the crawl was interrupted.
	Cancelled bool `json:"cancelled"`
}

// ListDomains returns every domain with at least one stored crawl, sorted.
func (cdb *CrawlDB) ListDomains(ctx context.Context) ([]string, error) {
	rows, err := cdb.db.QueryContext(ctx, `SELECT DISTINCT domain FROM crawls ORDER BY domain`)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		domains = append(domains, domain)
	}

	return domains, rows.Err()
}

// ListCrawls returns the crawls of domain, newest first.
func (cdb *CrawlDB) ListCrawls(ctx context.Context, domain string) ([]CrawlMetadata, error) {
	rows, err := cdb.db.QueryContext(ctx, `
	SELECT id, seed, domain, started_at, duration_ms, pages, unique_words, total_words, failed_pages, cancelled
	FROM crawls
	WHERE domain = ?
	ORDER BY started_at DESC, id DESC
	`, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to list crawls: %w", err)
	}
	defer rows.Close()

	var results []CrawlMetadata
	for rows.Next() {
		var (
			meta       CrawlMetadata
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(
			&meta.ID,
			&meta.Seed,
			&meta.Domain,
			&startedAt,
			&durationMS,
			&meta.Summary.TotalPages,
			&meta.Summary.TotalUniqueWords,
			&meta.Summary.TotalWordOccurrences,
			&meta.Summary.FailedPages,
			&meta.Cancelled,
		); err != nil {
			return nil, fmt.Errorf("failed to scan crawl metadata: %w", err)
		}

		meta.StartedAt = parseTimestamp(startedAt)
		meta.Duration = time.Duration(durationMS) * time.Millisecond
		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetCrawl retrieves a stored report by crawl ID.
// It returns nil, nil when no crawl has that ID.
func (cdb *CrawlDB) GetCrawl(ctx context.Context, id int64) (*model.CrawlReport, error) {
	var reportJSON string
	err := cdb.db.QueryRowContext(ctx, `SELECT report_json FROM crawls WHERE id = ?`, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl: %w", err)
	}

	return decodeReport(reportJSON)
}

// LatestCrawl retrieves the most recent crawl of domain.
// It returns nil, nil when the domain has never been crawled.
func (cdb *CrawlDB) LatestCrawl(ctx context.Context, domain string) (*model.CrawlReport, error) {
	var reportJSON string
	err := cdb.db.QueryRowContext(ctx, `
	SELECT report_json FROM crawls
	WHERE domain = ?
	ORDER BY started_at DESC, id DESC
	LIMIT 1
	`, domain).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest crawl: %w", err)
	}

	return decodeReport(reportJSON)
}

// TopWords returns the n highest-ranked words of a crawl.
// n <= 0 returns every word.
func (cdb *CrawlDB) TopWords(ctx context.Context, crawlID int64, n int) ([]model.WordCount, error) {
	query := `SELECT word, count FROM crawl_words WHERE crawl_id = ? ORDER BY rank`
	args := []any{crawlID}
	if n > 0 {
		query += " LIMIT ?"
		args = append(args, n)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query top words: %w", err)
	}
	defer rows.Close()

	var words []model.WordCount
	for rows.Next() {
		var wc model.WordCount
		if err := rows.Scan(&wc.Word, &wc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		words = append(words, wc)
	}

	return words, rows.Err()
}

// PageDigests returns URL to content digest for the successful pages of a
// crawl. Comparing two crawls' digests shows which pages changed.
func (cdb *CrawlDB) PageDigests(ctx context.Context, crawlID int64) (map[string]string, error) {
	rows, err := cdb.db.QueryContext(ctx, `
	SELECT url, digest FROM crawl_pages
	WHERE crawl_id = ? AND (error IS NULL OR error = '')
	`, crawlID)
	if err != nil {
		return nil, fmt.Errorf("failed to query page digests: %w", err)
	}
	defer rows.Close()

	digests := make(map[string]string)
	for rows.Next() {
		var u string
		var digest sql.NullString
		if err := rows.Scan(&u, &digest); err != nil {
			return nil, fmt.Errorf("failed to scan page digest: %w", err)
		}
		digests[u] = digest.String
	}

	return digests, rows.Err()
}

// decodeReport parses a stored report.
func decodeReport(reportJSON string) (*model.CrawlReport, error) {
	var report model.CrawlReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	if report.Words == nil {
		report.Words = model.NewWordCounts()
	}
	if report.Pages == nil {
		report.Pages = make(map[string]*model.PageRecord)
	}
	return &report, nil
}

// timestampLayout is how SaveCrawl writes started_at. The fixed-width
// fraction keeps lexical order equal to time order, which ORDER BY relies on.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,           // Format written by SaveCrawl
	time.RFC3339Nano,          // Older rows
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
