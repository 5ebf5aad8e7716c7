package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// WordCount is a word and how many times it occurred.
type WordCount struct {
	// Word is the lowercase word.
	Word string `json:"word"`

	// Count is the number of occurrences.
	Count int `json:"count"`
}

// WordCounts is a multiset of words that remembers the order in which words
// were first added.
//
// Ranking sorts by descending count and breaks ties by first-seen order, so
// two runs over the same input always rank equal counts the same way.
// The zero value is not usable; create one with NewWordCounts or CountWords.
// A WordCounts is not safe for concurrent mutation.
type WordCounts struct {
	counts map[string]int
	order  []string
	total  int
}

// NewWordCounts returns an empty WordCounts.
func NewWordCounts() *WordCounts {
	return &WordCounts{counts: make(map[string]int)}
}

// CountWords tallies words, duplicates included.
func CountWords(words []string) *WordCounts {
	c := NewWordCounts()
	for _, w := range words {
		c.Add(w, 1)
	}
	return c
}

// Add increases the count of word by n. Non-positive n and empty words are
// ignored.
func (c *WordCounts) Add(word string, n int) {
	if word == "" || n <= 0 {
		return
	}
	if _, ok := c.counts[word]; !ok {
		c.order = append(c.order, word)
	}
	c.counts[word] += n
	c.total += n
}

// Merge adds every count in other to c. Words new to c are appended in
// other's first-seen order.
func (c *WordCounts) Merge(other *WordCounts) {
	if other == nil {
		return
	}
	for _, w := range other.order {
		c.Add(w, other.counts[w])
	}
}

// Get returns the count of word, or 0.
func (c *WordCounts) Get(word string) int {
	if c == nil {
		return 0
	}
	return c.counts[word]
}

// Len returns the number of distinct words.
func (c *WordCounts) Len() int {
	if c == nil {
		return 0
	}
	return len(c.counts)
}

// Total returns the sum of all counts.
func (c *WordCounts) Total() int {
	if c == nil {
		return 0
	}
	return c.total
}

// TopN returns the n highest-ranked words. When n <= 0 or n exceeds the
// number of distinct words, every word is returned.
func (c *WordCounts) TopN(n int) []WordCount {
	if c == nil {
		return []WordCount{}
	}

	ranked := make([]WordCount, len(c.order))
	for i, w := range c.order {
		ranked[i] = WordCount{Word: w, Count: c.counts[w]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Map returns a copy of the counts as a plain map.
func (c *WordCounts) Map() map[string]int {
	m := make(map[string]int, c.Len())
	if c == nil {
		return m
	}
	for w, n := range c.counts {
		m[w] = n
	}
	return m
}

// Clone returns an independent copy of c.
func (c *WordCounts) Clone() *WordCounts {
	clone := NewWordCounts()
	clone.Merge(c)
	return clone
}

// MarshalJSON encodes the counts as a JSON object whose keys appear in rank
// order.
func (c *WordCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, wc := range c.TopN(0) {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(wc.Word)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(wc.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of word counts, keeping key order as
// first-seen order.
func (c *WordCounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("word counts must be a JSON object")
	}

	fresh := NewWordCounts()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		word, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected key %v in word counts", tok)
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("count for %q: %w", word, err)
		}
		fresh.Add(word, n)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*c = *fresh
	return nil
}
