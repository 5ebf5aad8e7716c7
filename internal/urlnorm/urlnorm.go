// Package urlnorm canonicalizes URLs and answers same-site questions.
//
// Every URL that enters the crawl frontier passes through Normalize, so two
// spellings of the same address ("HTTP://Example.COM/a#top" and
// "http://example.com/a") are deduplicated. Normalization is deliberately
// narrow: scheme and host are lowercased and the fragment is dropped. Path,
// query and trailing slashes are preserved as written, so "/a" and "/a/" stay
// distinct pages.
package urlnorm

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/purell"
)

// normalizeFlags is the purell rule set applied by Normalize.
const normalizeFlags = purell.FlagLowercaseScheme |
	purell.FlagLowercaseHost |
	purell.FlagRemoveFragment

// wwwPrefix is ignored when comparing hosts for scope.
const wwwPrefix = "www."

// Normalize returns the canonical form of rawURL.
// A string that cannot be parsed normalizes to the empty string, which
// IsValid rejects.
func Normalize(rawURL string) string {
	normalized, err := purell.NormalizeURLString(strings.TrimSpace(rawURL), normalizeFlags)
	if err != nil {
		return ""
	}
	return normalized
}

// IsValid reports whether rawURL parses with both a scheme and a host.
// Relative references, mailto: and javascript: links are invalid.
func IsValid(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// Domain returns the lowercased host (including any port) of rawURL.
// It returns the empty string when rawURL has no host.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// ScopeKey returns the host used for same-site comparison: the lowercased
// host with a single leading "www." removed. It accepts either a full URL or
// a bare host name.
func ScopeKey(rawURL string) string {
	host := rawURL
	if strings.Contains(rawURL, "://") {
		host = Domain(rawURL)
	}
	host = strings.ToLower(host)
	return strings.TrimPrefix(host, wwwPrefix)
}

// SameDomain reports whether a and b live on the same site.
// Hosts are compared case-insensitively with a leading "www." ignored, so
// "https://www.example.com/x" and "http://example.com/y" match. URLs without
// a host never match.
func SameDomain(a, b string) bool {
	ka, kb := ScopeKey(a), ScopeKey(b)
	if ka == "" || kb == "" {
		return false
	}
	return ka == kb
}
