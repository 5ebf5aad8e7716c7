package text

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/nao1215/wordspider/internal/urlnorm"
)

// Extraction is everything the crawler needs from one page.
type Extraction struct {
	// Title is the trimmed contents of the first <title> element.
	Title string

	// Text is the cleaned visible text of the page.
	Text string

	// Words are the accepted tokens in document order, duplicates included.
	Words []string

	// Links are the normalized absolute URLs of every <a href> on the page,
	// deduplicated, in document order. They are not filtered by domain.
	Links []string
}

// Extractor parses HTML and extracts words and links.
// It holds no per-page state and is safe for concurrent use.
type Extractor struct {
	filter *Filter
}

// NewExtractor creates an Extractor that counts the words filter accepts.
func NewExtractor(filter *Filter) *Extractor {
	if filter == nil {
		filter = NewFilter(nil)
	}
	return &Extractor{filter: filter}
}

// Extract parses body as HTML and returns its words and links.
// Relative links are resolved against pageURL. Links that do not resolve to
// an absolute URL with a host (mailto:, javascript:, malformed) are dropped.
//
// Malformed markup is repaired by the parser rather than rejected. An error
// wrapping ErrParse is returned only when the document or pageURL cannot be
// read at all; the Extraction is empty in that case.
func (e *Extractor) Extract(body []byte, pageURL string) (*Extraction, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return &Extraction{}, fmt.Errorf("%w: base URL %q: %w", ErrParse, pageURL, err)
	}

	// Scripting disabled so <noscript> content is parsed as markup and its
	// text is counted like any other element.
	root, err := html.ParseWithOptions(bytes.NewReader(body), html.ParseOptionEnableScripting(false))
	if err != nil {
		return &Extraction{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	doc := goquery.NewDocumentFromNode(root)

	result := &Extraction{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Links: extractLinks(doc, base),
	}

	doc.Find("script, style").Remove()
	result.Text = CleanText(doc.Text())
	result.Words = e.filter.Apply(Tokenize(result.Text))

	return result, nil
}

// extractLinks resolves every anchor href against base.
func extractLinks(doc *goquery.Document, base *url.URL) []string {
	seen := make(map[string]struct{})
	links := make([]string, 0)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		link := resolve(base, href)
		if link == "" {
			return
		}
		if _, dup := seen[link]; dup {
			return
		}
		seen[link] = struct{}{}
		links = append(links, link)
	})

	return links
}

// resolve joins href onto base and normalizes the result.
// It returns the empty string for references that do not yield a valid
// absolute URL.
func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	link := urlnorm.Normalize(base.ResolveReference(ref).String())
	if !urlnorm.IsValid(link) {
		return ""
	}
	return link
}
