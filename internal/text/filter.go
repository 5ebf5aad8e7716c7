package text

import (
	"github.com/nao1215/wordspider/internal/stopwords"
)

// DefaultMinWordLength is the shortest token that is counted.
const DefaultMinWordLength = 3

// Filter decides which tokens are counted as words.
// A Filter is read-only after construction and safe for concurrent use.
type Filter struct {
	// stopwords are excluded from counts.
	stopwords stopwords.Set

	// minLength is the minimum token length in bytes.
	minLength int
}

// FilterOption configures a Filter.
type FilterOption func(*Filter)

// WithMinLength sets the minimum token length. Values below 1 are ignored.
func WithMinLength(n int) FilterOption {
	return func(f *Filter) {
		if n > 0 {
			f.minLength = n
		}
	}
}

// NewFilter creates a Filter that rejects the given stop words.
// A nil set rejects nothing but short tokens.
func NewFilter(stop stopwords.Set, opts ...FilterOption) *Filter {
	f := &Filter{
		stopwords: stop,
		minLength: DefaultMinWordLength,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Accept reports whether token should be counted.
// Tokens shorter than the minimum length and stop words are rejected.
func (f *Filter) Accept(token string) bool {
	if len(token) < f.minLength {
		return false
	}
	return !f.stopwords.Contains(token)
}

// Apply returns the tokens that pass the filter, in their original order.
func (f *Filter) Apply(tokens []string) []string {
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if f.Accept(tok) {
			words = append(words, tok)
		}
	}
	return words
}
