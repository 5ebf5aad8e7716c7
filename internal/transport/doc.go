// Package transport fetches pages for the crawler.
//
// # Components
//
//   - HTTPFetcher: issues GET requests with browser-like headers and keeps
//     only successful HTML responses
//   - NewHTTPClient: builds the *http.Client, optionally routed through a
//     SOCKS5 proxy and carrying per-site headers and cookies
//   - CheckProxy: verifies a SOCKS5 proxy before a crawl starts
//   - EmbeddedTor: starts a private Tor daemon for crawling .onion sites
//
// # Usage
//
//	client, err := transport.NewHTTPClient(transport.ClientOptions{Timeout: 30 * time.Second})
//	fetcher := transport.NewHTTPFetcher(client)
//	resp, err := fetcher.Fetch(ctx, "https://example.com/")
package transport
