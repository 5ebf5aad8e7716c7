// Package stats accumulates per-page and site-wide word counts during a crawl
// and compares the results of two crawls.
package stats

import (
	"sync"

	"github.com/nao1215/wordspider/internal/model"
)

// Totals are the running numbers shown while a crawl progresses.
type Totals struct {
	// Pages is the number of page records, failed pages included.
	Pages int

	// UniqueWords is the number of distinct words site-wide.
	UniqueWords int

	// Occurrences is the sum of all site-wide counts.
	Occurrences int
}

// Aggregator merges page records into site-wide counts.
//
// Site-wide counts always equal the sum of every Record call. Recording the
// same URL twice replaces its page record, but both calls contribute to the
// site-wide counts.
type Aggregator struct {
	mu     sync.Mutex
	global *model.WordCounts
	pages  map[string]*model.PageRecord
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		global: model.NewWordCounts(),
		pages:  make(map[string]*model.PageRecord),
	}
}

// RecordWords tallies words for url and returns the new page record.
func (a *Aggregator) RecordWords(url string, words []string) *model.PageRecord {
	rec := model.NewPageRecord(url, words)
	a.Record(rec)
	return rec
}

// RecordFailure stores an empty record for a page that could not be
// processed.
func (a *Aggregator) RecordFailure(url string, err error) *model.PageRecord {
	rec := model.NewFailedPageRecord(url, err)
	a.Record(rec)
	return rec
}

// Record stores rec and adds its counts to the site-wide counts.
func (a *Aggregator) Record(rec *model.PageRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pages[rec.URL] = rec
	a.global.Merge(rec.Counts)
}

// Page returns the record for url.
func (a *Aggregator) Page(url string) (*model.PageRecord, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rec, ok := a.pages[url]
	return rec, ok
}

// Totals returns the running totals.
func (a *Aggregator) Totals() Totals {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Totals{
		Pages:       len(a.pages),
		UniqueWords: a.global.Len(),
		Occurrences: a.global.Total(),
	}
}

// TopN returns the n most frequent words site-wide.
func (a *Aggregator) TopN(n int) []model.WordCount {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.global.TopN(n)
}

// Fill copies the site-wide counts and page records into report.
func (a *Aggregator) Fill(report *model.CrawlReport) {
	a.mu.Lock()
	defer a.mu.Unlock()

	report.Words = a.global.Clone()
	report.Pages = make(map[string]*model.PageRecord, len(a.pages))
	for u, rec := range a.pages {
		report.Pages[u] = rec
	}
}
