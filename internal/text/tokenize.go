package text

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tokenize lowercases s and returns every maximal run of ASCII letters.
// Digits, punctuation and non-ASCII letters separate tokens, so "co2" yields
// "co" and "naïve" yields "na" and "ve".
func Tokenize(s string) []string {
	// Full Unicode case mapping, so characters such as U+0130 fold to the
	// same letters the page reader would see.
	lowered := cases.Lower(language.Und).String(s)

	tokens := make([]string, 0, len(lowered)/6)
	start := -1
	for i := 0; i < len(lowered); i++ {
		if isASCIILetter(lowered[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, lowered[start:i])
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, lowered[start:])
	}
	return tokens
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// CleanText normalizes the whitespace of rendered page text.
// Each line is trimmed and split on double spaces; the non-empty phrases are
// joined with single spaces.
func CleanText(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	for _, line := range strings.FieldsFunc(raw, isLineBreak) {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			phrase = strings.TrimSpace(phrase)
			if phrase == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(phrase)
		}
	}
	return b.String()
}

// isLineBreak matches the characters that end a line of text: the usual
// newline forms plus vertical tab, form feed, file/group/record separators,
// NEL and the Unicode line and paragraph separators.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
