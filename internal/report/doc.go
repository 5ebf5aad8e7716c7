// Package report writes finished crawl reports.
//
// This package contains writers for different output formats:
//   - JSONWriter: the full report (summary, ranked counts, per-page counts)
//   - CSVWriter and TextWriter: "count,word" lines, highest count first
//   - MarkdownWriter: a shareable document with tables and a chart
//   - SummaryWriter: the end-of-crawl summary printed to the terminal
//
// Design decision: We separate report writing from report data structures
// (which are in the model package) to follow the single responsibility
// principle. This allows adding new output formats without modifying
// the core data structures.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output. NewWriter maps a
// Format to its writer; FormatFromPath picks the Format from an output
// file name.
package report
