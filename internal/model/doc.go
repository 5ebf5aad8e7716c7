// Package model defines the core data structures used throughout wordspider.
//
// This package contains the following main types:
//   - WordCounts: An ordered word multiset with deterministic ranking
//   - PageRecord: The words and metadata collected from one page
//   - CrawlReport: The complete result of crawling one site
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, report, database) need to use these
// types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
