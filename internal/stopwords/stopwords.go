// Package stopwords loads the list of words excluded from word counts.
//
// A stop-word file is plain text with one word per line. Lines are trimmed
// and lowercased; blank lines and lines starting with "#" are skipped.
// When the configured file does not exist, LoadOrCreate writes the built-in
// default list to that path so the user has something to edit next time.
package stopwords

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultFileName is the stop-word file used when none is configured.
const DefaultFileName = "ignore_words.txt"

//go:embed default.txt
var defaultList string

// fold lowercases s the same way page text is folded before tokenizing.
// A Caser is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Set is a set of lowercase stop words.
type Set map[string]struct{}

// New returns a Set containing words, lowercased and trimmed.
func New(words ...string) Set {
	s := make(Set, len(words))
	s.Add(words...)
	return s
}

// Add inserts words into the set. Empty entries are ignored.
func (s Set) Add(words ...string) {
	for _, w := range words {
		w = fold(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		s[w] = struct{}{}
	}
}

// Contains reports whether word is a stop word. The lookup is
// case-insensitive. Words are folded when the set is built, so lowercase
// ASCII input, which is all the tokenizer produces, is a plain map lookup.
func (s Set) Contains(word string) bool {
	if len(s) == 0 {
		return false
	}
	if !isLowerASCII(word) {
		word = fold(word)
	}
	_, ok := s[word]
	return ok
}

// isLowerASCII reports whether s has no uppercase or non-ASCII bytes, in
// which case folding would not change it.
func isLowerASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x80 || ('A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}

// Len returns the number of stop words.
func (s Set) Len() int {
	return len(s)
}

// Words returns the stop words sorted alphabetically.
func (s Set) Words() []string {
	words := make([]string, 0, len(s))
	for w := range s {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Parse reads a stop-word list from r.
func Parse(r io.Reader) (Set, error) {
	s := make(Set)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := fold(strings.TrimSpace(scanner.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return s, nil
}

// Load reads the stop-word file at path.
// A missing file yields an error wrapping fs.ErrNotExist.
func Load(path string) (Set, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by the user
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}
	defer f.Close()

	return Parse(f)
}

// LoadOrCreate reads the stop-word file at path, writing the default list
// there first if the file does not exist. The created result reports whether
// the file was written by this call.
func LoadOrCreate(path string) (set Set, created bool, err error) {
	set, err = Load(path)
	if err == nil {
		return set, false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, false, err
	}

	if err := WriteDefault(path); err != nil {
		return nil, false, err
	}

	set, err = Load(path)
	if err != nil {
		return nil, true, err
	}
	return set, true, nil
}

// WriteDefault writes the built-in stop-word list to path, creating parent
// directories as needed.
func WriteDefault(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("%w: %w", ErrCreate, err)
		}
	}
	if err := os.WriteFile(path, []byte(defaultList), 0o600); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCreate, path, err)
	}
	return nil
}

// DefaultText returns the built-in stop-word file contents.
func DefaultText() string {
	return defaultList
}

// Default returns the built-in stop-word list as a Set.
func Default() Set {
	s, err := Parse(strings.NewReader(defaultList))
	if err != nil {
		// The embedded list is static and always parses.
		return make(Set)
	}
	return s
}
