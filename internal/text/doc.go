// Package text turns an HTML document into countable words and outgoing links.
//
// # Components
//
//   - Filter decides whether a token counts (length and stop-word checks)
//   - Tokenize splits visible text into lowercase ASCII words
//   - Extractor parses a page once and returns its words and absolute links
//
// # Text Rendering
//
// Visible text is the concatenation of every text node outside <script> and
// <style>, exactly as the browser DOM would hold it. Adjacent inline elements
// are not separated ("<b>foo</b><i>bar</i>" renders as "foobar"). The raw text
// is then cleaned line by line: each line is trimmed, split on runs of two
// spaces, and the non-empty phrases are joined with a single space.
//
// # Usage
//
//	filter := text.NewFilter(stopwords.Default())
//	extractor := text.NewExtractor(filter)
//	result, err := extractor.Extract(body, "https://example.com/")
package text
