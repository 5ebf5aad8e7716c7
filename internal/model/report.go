package model

import (
	"sort"
	"time"
)

// CrawlReport is the result of crawling one site.
//
// Design decision: The report carries the full per-page breakdown alongside
// the site-wide counts because:
//  1. Every output format and the history database are built from it
//  2. Per-page counts can be re-aggregated without refetching
//  3. A cancelled crawl still produces a complete, consistent report
type CrawlReport struct {
	// Seed is the normalized starting URL.
	Seed string `json:"seed"`

	// Domain is the host of the seed (lowercased, port included).
	Domain string `json:"domain"`

	// DateCrawled is when the crawl started.
	DateCrawled time.Time `json:"date_crawled"`

	// Duration is how long the crawl ran.
	Duration time.Duration `json:"duration"`

	// Visited lists every URL the crawl took off the frontier, sorted.
	Visited []string `json:"visited_urls"`

	// Words holds the site-wide word counts.
	Words *WordCounts `json:"overall_word_counts"`

	// Pages maps each processed URL to its record.
	Pages map[string]*PageRecord `json:"page_word_counts"`

	// Pending is the number of URLs still queued when the crawl stopped.
	// It is non-zero only when a page limit or cancellation ended the crawl.
	Pending int `json:"pending,omitempty"`

	// Cancelled is true if the crawl was interrupted before the frontier
	// was exhausted.
	Cancelled bool `json:"cancelled"`

	// Error contains any error that stopped the crawl early.
	Error error `json:"-"`

	// ErrorMessage is the string representation of Error for serialization.
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional
}

// Summary holds the headline numbers of a crawl.
type Summary struct {
	// TotalPages is the number of visited URLs, failed pages included.
	TotalPages int `json:"total_pages"`

	// TotalUniqueWords is the number of distinct words counted.
	TotalUniqueWords int `json:"total_unique_words"`

	// TotalWordOccurrences is the sum of all word counts.
	TotalWordOccurrences int `json:"total_word_occurrences"`

	// FailedPages is the number of visited pages that yielded no words
	// because of an error.
	FailedPages int `json:"failed_pages"`
}

// NewCrawlReport creates an empty report for seed.
func NewCrawlReport(seed, domain string) *CrawlReport {
	return &CrawlReport{
		Seed:        seed,
		Domain:      domain,
		DateCrawled: time.Now(),
		Visited:     make([]string, 0),
		Words:       NewWordCounts(),
		Pages:       make(map[string]*PageRecord),
	}
}

// Summary computes the headline numbers.
func (r *CrawlReport) Summary() Summary {
	return Summary{
		TotalPages:           len(r.Visited),
		TotalUniqueWords:     r.Words.Len(),
		TotalWordOccurrences: r.Words.Total(),
		FailedPages:          len(r.Failures()),
	}
}

// TopWords returns the n most frequent words site-wide.
func (r *CrawlReport) TopWords(n int) []WordCount {
	return r.Words.TopN(n)
}

// PageURLs returns the URLs that have a page record, sorted.
func (r *CrawlReport) PageURLs() []string {
	urls := make([]string, 0, len(r.Pages))
	for u := range r.Pages {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}

// Failures returns the records of pages that could not be processed,
// sorted by URL.
func (r *CrawlReport) Failures() []*PageRecord {
	failed := make([]*PageRecord, 0)
	for _, u := range r.PageURLs() {
		if rec := r.Pages[u]; rec.Failed() {
			failed = append(failed, rec)
		}
	}
	return failed
}

// SetError records err as the reason the crawl stopped early.
func (r *CrawlReport) SetError(err error) {
	r.Error = err
	if err != nil {
		r.ErrorMessage = err.Error()
	} else {
		r.ErrorMessage = ""
	}
}
