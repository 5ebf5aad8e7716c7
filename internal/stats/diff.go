package stats

import (
	"sort"

	"github.com/nao1215/wordspider/internal/model"
)

// WordChange is a word whose count differs between two crawls.
type WordChange struct {
	Word     string `json:"word"`
	Previous int    `json:"previous"`
	Current  int    `json:"current"`
	Delta    int    `json:"delta"`
}

// WordDiff compares the site-wide counts of two crawls.
type WordDiff struct {
	// Added are words only the current crawl found, highest count first.
	Added []model.WordCount `json:"added"`

	// Removed are words only the previous crawl found, highest count first.
	Removed []model.WordCount `json:"removed"`

	// Changed are words found by both with different counts, largest
	// absolute change first.
	Changed []WordChange `json:"changed"`

	// Unchanged is the number of words with equal counts.
	Unchanged int `json:"unchanged"`
}

// DiffWords compares previous and current. Either may be nil.
// Ordering is deterministic: ties keep the rank order of the crawl the word
// came from.
func DiffWords(previous, current *model.WordCounts) *WordDiff {
	d := &WordDiff{
		Added:   make([]model.WordCount, 0),
		Removed: make([]model.WordCount, 0),
		Changed: make([]WordChange, 0),
	}

	for _, wc := range current.TopN(0) {
		before := previous.Get(wc.Word)
		switch {
		case before == 0:
			d.Added = append(d.Added, wc)
		case before != wc.Count:
			d.Changed = append(d.Changed, WordChange{
				Word:     wc.Word,
				Previous: before,
				Current:  wc.Count,
				Delta:    wc.Count - before,
			})
		default:
			d.Unchanged++
		}
	}
	for _, wc := range previous.TopN(0) {
		if current.Get(wc.Word) == 0 {
			d.Removed = append(d.Removed, wc)
		}
	}

	sort.SliceStable(d.Changed, func(i, j int) bool {
		return abs(d.Changed[i].Delta) > abs(d.Changed[j].Delta)
	})
	return d
}

// PageDiff compares the page sets of two crawls by content digest.
type PageDiff struct {
	// Added are URLs only the current crawl fetched successfully.
	Added []string `json:"added"`

	// Removed are URLs only the previous crawl fetched successfully.
	Removed []string `json:"removed"`

	// Modified are URLs fetched by both whose body digest changed.
	Modified []string `json:"modified"`

	// Unchanged is the number of URLs with identical bodies.
	Unchanged int `json:"unchanged"`
}

// DiffPages compares two url→digest maps. All lists are sorted.
func DiffPages(previous, current map[string]string) *PageDiff {
	d := &PageDiff{
		Added:    make([]string, 0),
		Removed:  make([]string, 0),
		Modified: make([]string, 0),
	}

	for u, digest := range current {
		before, ok := previous[u]
		switch {
		case !ok:
			d.Added = append(d.Added, u)
		case before != digest:
			d.Modified = append(d.Modified, u)
		default:
			d.Unchanged++
		}
	}
	for u := range previous {
		if _, ok := current[u]; !ok {
			d.Removed = append(d.Removed, u)
		}
	}

	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	sort.Strings(d.Modified)
	return d
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
