// Package main provides the entry point for the wordspider CLI.
//
// wordspider crawls every page of one website, counts the words it finds,
// and writes a frequency-ranked word list.
//
// Usage:
//
//	wordspider crawl --url https://example.com --output words.txt
//	wordspider history example.com
//
// See --help for all available options.
package main

// main is the entry point for wordspider.
func main() {
	Execute()
}
