package model

import (
	"encoding/hex"
	"time"

	"golang.org/x/crypto/sha3"
)

// PageRecord is the outcome of fetching one page.
//
// Every URL the crawl visits gets a PageRecord. Pages that could not be
// fetched or parsed get a record with no words and a non-empty Error, so the
// visited list and the page list always describe the same set of URLs.
type PageRecord struct {
	// URL is the normalized page URL.
	URL string `json:"url"`

	// Title is the page title from the <title> tag.
	Title string `json:"title,omitempty"`

	// StatusCode is the HTTP response status code, or 0 if no response
	// was received.
	StatusCode int `json:"status_code,omitempty"`

	// ContentType is the Content-Type header of the response.
	ContentType string `json:"content_type,omitempty"`

	// Counts holds the accepted words found on the page.
	Counts *WordCounts `json:"counts"`

	// Links is the number of new same-site links this page contributed to
	// the frontier.
	Links int `json:"links"`

	// Digest is the hex SHA3-256 of the response body.
	// Pages with identical bodies share a digest.
	Digest string `json:"digest,omitempty"`

	// FetchedAt is when the page was processed.
	FetchedAt time.Time `json:"fetched_at"`

	// Error describes why the page yielded no words. Empty on success.
	Error string `json:"error,omitempty"`
}

// NewPageRecord creates a record for url holding the given words.
func NewPageRecord(url string, words []string) *PageRecord {
	return &PageRecord{
		URL:       url,
		Counts:    CountWords(words),
		FetchedAt: time.Now(),
	}
}

// NewFailedPageRecord creates an empty record for a page that could not be
// processed.
func NewFailedPageRecord(url string, err error) *PageRecord {
	rec := NewPageRecord(url, nil)
	if err != nil {
		rec.Error = err.Error()
	}
	return rec
}

// Failed reports whether the page could not be processed.
func (p *PageRecord) Failed() bool {
	return p.Error != ""
}

// WordTotal returns the number of accepted word occurrences on the page.
func (p *PageRecord) WordTotal() int {
	return p.Counts.Total()
}

// UniqueWords returns the number of distinct accepted words on the page.
func (p *PageRecord) UniqueWords() int {
	return p.Counts.Len()
}

// Digest returns the hex SHA3-256 of body, or "" for an empty body.
func Digest(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	sum := sha3.Sum256(body)
	return hex.EncodeToString(sum[:])
}
