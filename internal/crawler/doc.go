// Package crawler walks every same-site page reachable from a seed URL and
// counts the words on each one.
//
// # Architecture
//
// The package is designed around the Spider type, which coordinates the
// crawl. A single coordinator goroutine owns the frontier and the word
// aggregator; a pool of workers fetches and parses pages and sends the
// results back. Because only the coordinator mutates crawl state, the
// visited set and the counts never need cross-goroutine locking beyond what
// their own packages provide.
//
// Design decision: We implement our own crawler rather than using a
// third-party framework because:
//  1. Scope is judged against the seed host with "www." ignored
//  2. Politeness is one delay shared by every worker, not per host
//  3. Progress must be reported page by page in processing order
//
// # Components
//
//   - Spider: the configured crawler; each Crawl call is independent
//   - Scope: decides which discovered links may be followed
//   - Observer: receives a PageEvent after every processed page
//
// # Politeness
//
// The crawler is designed to be polite:
//   - A shared rate limiter spaces request starts by the configured delay
//   - The number of concurrent fetches is bounded by the worker count
//   - An optional page limit stops the crawl early
//
// # Usage
//
//	fetcher := transport.NewHTTPFetcher(client)
//	extractor := text.NewExtractor(text.NewFilter(stopwords.Default()))
//	spider := crawler.NewSpider(fetcher, extractor, crawler.WithDelay(time.Second))
//	report, err := spider.Crawl(ctx, "https://example.com")
//
// # Cancellation
//
// Cancelling the context stops dispatching new pages. Crawl still returns
// the report built so far, marked as cancelled, along with ctx.Err().
package crawler
