package config

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// SiteConfig holds crawl settings for a single domain.
type SiteConfig struct {
	// Cookie is an HTTP cookie sent with every request to this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty" toml:"cookie,omitempty"`

	// Headers are custom HTTP headers sent with every request to this site.
	Headers map[string]string `yaml:"headers,omitempty" toml:"headers,omitempty"`

	// Delay overrides the global request interval, e.g. "500ms" or "2s".
	Delay string `yaml:"delay,omitempty" toml:"delay,omitempty"`

	// MaxPages overrides the global page limit. Zero keeps the global value.
	MaxPages int `yaml:"maxPages,omitempty" toml:"maxPages,omitempty"`

	// IgnorePatterns are URL path patterns to skip.
	// Patterns use glob syntax and "/admin/*" also matches "/admin".
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty" toml:"ignorePatterns,omitempty"`

	// FollowPatterns restrict the crawl to matching URL paths.
	// The seed itself is always fetched.
	FollowPatterns []string `yaml:"followPatterns,omitempty" toml:"followPatterns,omitempty"`

	// StopWords are excluded in addition to the stop-word file.
	StopWords []string `yaml:"stopWords,omitempty" toml:"stopWords,omitempty"`
}

// ParseDelay parses Delay. ok is false when no delay is configured.
func (s SiteConfig) ParseDelay() (delay time.Duration, ok bool, err error) {
	if strings.TrimSpace(s.Delay) == "" {
		return 0, false, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(s.Delay))
	if err != nil || d < 0 {
		return 0, false, fmt.Errorf("%w: %q", ErrInvalidSiteDelay, s.Delay)
	}
	return d, true, nil
}

// File represents the structure of the .wordspider configuration file.
type File struct {
	// Sites maps a domain (host[:port], without scheme) to its settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty" toml:"sites,omitempty"`

	// Defaults apply to every site unless overridden per site.
	Defaults SiteConfig `yaml:"defaults,omitempty" toml:"defaults,omitempty"`
}

// GetSiteConfig returns the settings for domain: the defaults overlaid by
// the matching site entry. A leading "www." is ignored on both sides, so
// an entry for "example.com" also applies to "www.example.com".
func (cf *File) GetSiteConfig(domain string) SiteConfig {
	result := cf.Defaults
	result.Headers = maps.Clone(cf.Defaults.Headers)
	result.StopWords = append([]string(nil), cf.Defaults.StopWords...)

	site, ok := cf.lookup(domain)
	if !ok {
		return result
	}

	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if site.Delay != "" {
		result.Delay = site.Delay
	}
	if site.MaxPages != 0 {
		result.MaxPages = site.MaxPages
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(site.Headers))
		}
		maps.Copy(result.Headers, site.Headers)
	}
	if len(site.IgnorePatterns) > 0 {
		result.IgnorePatterns = site.IgnorePatterns
	}
	if len(site.FollowPatterns) > 0 {
		result.FollowPatterns = site.FollowPatterns
	}
	// Stop words accumulate rather than replace.
	result.StopWords = append(result.StopWords, site.StopWords...)

	return result
}

// lookup finds the site entry for domain, exact match first.
func (cf *File) lookup(domain string) (SiteConfig, bool) {
	domain = strings.ToLower(domain)
	if site, ok := cf.Sites[domain]; ok {
		return site, true
	}
	want := strings.TrimPrefix(domain, "www.")
	for key, site := range cf.Sites {
		if strings.TrimPrefix(strings.ToLower(key), "www.") == want {
			return site, true
		}
	}
	return SiteConfig{}, false
}
