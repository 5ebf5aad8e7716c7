// Package database provides SQLite-based crawl history for wordspider.
//
// This package implements the CrawlDB, which stores:
//   - One row per finished crawl with its headline numbers and full report
//   - Per-page records with their word counts
//   - The ranked site-wide word list of every crawl, for cheap queries
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
