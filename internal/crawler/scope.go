package crawler

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/nao1215/wordspider/internal/urlnorm"
)

// Scope decides which discovered links the crawl may follow.
//
// Logic:
//  1. The link must be on the same site as the seed ("www." ignored)
//  2. If the path matches any ignore pattern, skip it
//  3. If follow patterns are set and the path matches none, skip it
//  4. Otherwise, follow it
//
// Scope is always judged against the seed, never against the page the link
// was found on.
type Scope struct {
	seed           string
	ignorePatterns []string
	followPatterns []string
}

// NewScope creates a Scope rooted at seed.
// Patterns use glob syntax (e.g., "/admin/*", "*.pdf").
func NewScope(seed string, ignorePatterns, followPatterns []string) *Scope {
	return &Scope{
		seed:           seed,
		ignorePatterns: ignorePatterns,
		followPatterns: followPatterns,
	}
}

// Allows reports whether link should be crawled.
func (s *Scope) Allows(link string) bool {
	if !urlnorm.SameDomain(s.seed, link) {
		return false
	}
	return s.matchesPatterns(link)
}

// Filter returns the links Allows accepts, in their original order.
func (s *Scope) Filter(links []string) []string {
	allowed := make([]string, 0, len(links))
	for _, link := range links {
		if s.Allows(link) {
			allowed = append(allowed, link)
		}
	}
	return allowed
}

// matchesPatterns applies the ignore and follow patterns to the path of
// targetURL.
func (s *Scope) matchesPatterns(targetURL string) bool {
	u, err := url.Parse(targetURL)
	if err != nil {
		return false
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	for _, pattern := range s.ignorePatterns {
		if matchPattern(pattern, path) {
			return false
		}
	}

	if len(s.followPatterns) > 0 {
		for _, pattern := range s.followPatterns {
			if matchPattern(pattern, path) {
				return true
			}
		}
		return false
	}

	return true
}

// matchPattern checks if a path matches a glob pattern.
// Patterns can use:
//   - * to match any sequence of non-separator characters
//   - ? to match any single character
//   - a trailing "/*" to match everything below a directory
//   - a leading "*." to match a file extension at any depth
//
// Examples:
//   - "/admin/*" matches "/admin", "/admin/dashboard", "/admin/users/edit"
//   - "*.pdf" matches "/docs/file.pdf"
//   - "/api/v?" matches "/api/v1", "/api/v2"
func matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if strings.HasPrefix(path, prefix+"/") || path == prefix {
			return true
		}
	}

	if strings.HasPrefix(pattern, "*.") {
		ext := strings.TrimPrefix(pattern, "*")
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	matched, err := filepath.Match(pattern, path)
	if err != nil {
		return false
	}
	if matched {
		return true
	}

	// Slash-free patterns such as "report-*" apply to the last segment.
	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		matched, err := filepath.Match(pattern, filepath.Base(path))
		if err == nil && matched {
			return true
		}
	}

	return false
}
