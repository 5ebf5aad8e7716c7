package urlnorm

import "testing"

// TestNormalize tests URL canonicalization.
func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"removes fragment", "http://example.com/page#section", "http://example.com/page"},
		{"lowercase scheme", "HTTP://example.com/page", "http://example.com/page"},
		{"lowercase host", "http://EXAMPLE.COM/page", "http://example.com/page"},
		{"mixed case with fragment", "HTTPS://Example.COM/A#top", "https://example.com/A"},
		{"preserves path case", "http://example.com/About", "http://example.com/About"},
		{"preserves query", "http://example.com/search?q=test", "http://example.com/search?q=test"},
		{"preserves trailing slash", "http://example.com/docs/", "http://example.com/docs/"},
		{"keeps empty path", "http://example.com", "http://example.com"},
		{"keeps port", "http://Example.com:8080/x", "http://example.com:8080/x"},
		{"trims whitespace", "  http://example.com/x  ", "http://example.com/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"HTTP://Example.COM/a/b?x=1#frag",
		"https://www.example.com/",
		"http://example.com",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"absolute http", "http://example.com/page", true},
		{"absolute https", "https://example.com", true},
		{"relative path", "/about", false},
		{"mailto", "mailto:someone@example.com", false},
		{"javascript", "javascript:void(0)", false},
		{"empty", "", false},
		{"scheme only", "http://", false},
		{"garbage", "://bad", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsValid(tt.input); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDomain(t *testing.T) {
	t.Parallel()

	if got := Domain("https://WWW.Example.com:8443/path"); got != "www.example.com:8443" {
		t.Errorf("Domain() = %q, want %q", got, "www.example.com:8443")
	}
	if got := Domain("/relative"); got != "" {
		t.Errorf("Domain() of relative URL = %q, want empty", got)
	}
}

// TestSameDomain tests same-site detection.
func TestSameDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"same host", "http://example.com/a", "http://example.com/b", true},
		{"www ignored", "https://www.example.com/x", "http://example.com/y", true},
		{"case insensitive", "http://EXAMPLE.com/", "http://example.COM/", true},
		{"different host", "http://example.com/", "http://other.com/", false},
		{"subdomain differs", "http://blog.example.com/", "http://example.com/", false},
		{"port differs", "http://example.com:8080/", "http://example.com/", false},
		{"relative never matches", "/a", "/b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := SameDomain(tt.a, tt.b); got != tt.want {
				t.Errorf("SameDomain(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestScopeKey(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"https://www.Example.com/x": "example.com",
		"www.example.com":           "example.com",
		"Example.com":               "example.com",
		"http://wwwx.example.com/":  "wwwx.example.com",
	}
	for in, want := range tests {
		if got := ScopeKey(in); got != want {
			t.Errorf("ScopeKey(%q) = %q, want %q", in, got, want)
		}
	}
}
