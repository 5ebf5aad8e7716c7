package crawler

import (
	"github.com/nao1215/wordspider/internal/model"
	"github.com/nao1215/wordspider/internal/stats"
)

// PageEvent describes one processed page. It is delivered to the Observer
// from the crawl's coordinator goroutine, one event at a time, in the order
// pages finish.
type PageEvent struct {
	// Number is the 1-based position of the page in processing order.
	Number int

	// URL is the page URL.
	URL string

	// Domain is the page host.
	Domain string

	// Record is the page's word record. It is empty when Err is set.
	Record *model.PageRecord

	// NewLinks are the same-site URLs this page added to the frontier,
	// sorted.
	NewLinks []string

	// Queued is the number of URLs that were waiting in the frontier right
	// after this page was dequeued, before its links were offered.
	Queued int

	// Pending is the number of URLs waiting in the frontier after this page.
	Pending int

	// Totals are the running site-wide totals after this page.
	Totals stats.Totals

	// Err is why the page yielded no words, or nil.
	Err error
}

// Observer receives progress events while a crawl runs.
// Implementations must not block for long; the crawl waits for each call.
type Observer interface {
	PageProcessed(event PageEvent)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(event PageEvent)

// PageProcessed calls f(event).
func (f ObserverFunc) PageProcessed(event PageEvent) {
	f(event)
}

// Observers fans an event out to several observers in order.
type Observers []Observer

// PageProcessed forwards event to every non-nil observer.
func (o Observers) PageProcessed(event PageEvent) {
	for _, obs := range o {
		if obs != nil {
			obs.PageProcessed(event)
		}
	}
}

// nopObserver discards events.
type nopObserver struct{}

func (nopObserver) PageProcessed(PageEvent) {}
