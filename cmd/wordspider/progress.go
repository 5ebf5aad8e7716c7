package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"

	"github.com/nao1215/wordspider/internal/crawler"
	"github.com/nao1215/wordspider/internal/transport"
)

// maxListedLinks is how many new links the verbose progress lists per page.
const maxListedLinks = 5

// printStartBanner prints the lines shown before the first request.
func printStartBanner(w io.Writer, domain, seed string, delay time.Duration, quiet bool) {
	if quiet {
		fmt.Fprintf(w, "Starting crawl of %s\n", domain)
		return
	}
	fmt.Fprintf(w, "Starting crawl of domain: %s\n", domain)
	fmt.Fprintf(w, "Starting URL: %s\n", seed)
	fmt.Fprintf(w, "Delay between requests: %ss\n", (*delayValue)(&delay).String())
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

// verboseProgress prints a detailed block per page.
type verboseProgress struct {
	w io.Writer
}

// PageProcessed prints the page block.
func (p *verboseProgress) PageProcessed(ev crawler.PageEvent) {
	fmt.Fprintf(p.w, "\n[%d] Crawling: %s\n", ev.Number, ev.URL)
	fmt.Fprintf(p.w, "    Domain: %s\n", ev.Domain)
	fmt.Fprintf(p.w, "    Queue remaining: %d\n", ev.Queued)

	if ev.Err != nil {
		if errors.Is(ev.Err, transport.ErrUnsupportedContentType) {
			fmt.Fprintf(p.w, "    Skipping non-HTML content: %s\n", ev.Record.ContentType)
		}
		fmt.Fprintln(p.w, "    Failed to fetch content")
		return
	}

	fmt.Fprintf(p.w, "    Found %d words (%d unique)\n", ev.Record.WordTotal(), ev.Record.UniqueWords())

	if len(ev.NewLinks) == 0 {
		fmt.Fprintln(p.w, "    No new same-domain links found")
	} else {
		fmt.Fprintf(p.w, "    Discovered %d new same-domain links:\n", len(ev.NewLinks))
		for i, link := range ev.NewLinks {
			if i == maxListedLinks {
				fmt.Fprintf(p.w, "       ... and %d more\n", len(ev.NewLinks)-maxListedLinks)
				break
			}
			fmt.Fprintf(p.w, "       %d. %s\n", i+1, link)
		}
	}

	fmt.Fprintf(p.w, "    Running totals: %d pages, %d unique words, %d total words\n",
		ev.Totals.Pages, ev.Totals.UniqueWords, ev.Totals.Occurrences)
}

// quietProgress prints one line per page.
type quietProgress struct {
	w io.Writer
}

// PageProcessed prints the page line.
func (p *quietProgress) PageProcessed(ev crawler.PageEvent) {
	fmt.Fprintf(p.w, "[%d] %s\n", ev.Number, ev.URL)
}

// spinnerProgress shows a single updating terminal line instead of
// per-page output.
type spinnerProgress struct {
	s *spinner.Spinner
}

// newSpinnerProgress creates a spinner writing to w. Call Start before the
// crawl and Stop after it.
func newSpinnerProgress(w io.Writer) *spinnerProgress {
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " starting crawl"
	return &spinnerProgress{s: s}
}

// Start starts the animation.
func (p *spinnerProgress) Start() {
	p.s.Start()
}

// Stop stops the animation and clears the line.
func (p *spinnerProgress) Stop() {
	p.s.Stop()
}

// PageProcessed updates the spinner text.
func (p *spinnerProgress) PageProcessed(ev crawler.PageEvent) {
	p.s.Lock()
	p.s.Suffix = fmt.Sprintf(" [%d] %d pending, %d unique words  %s",
		ev.Number, ev.Pending, ev.Totals.UniqueWords, ev.URL)
	p.s.Unlock()
}

// Suffix returns the current spinner text.
func (p *spinnerProgress) Suffix() string {
	p.s.Lock()
	defer p.s.Unlock()
	return p.s.Suffix
}
