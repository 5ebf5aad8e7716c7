package stats

import (
	"strings"
	"testing"

	"github.com/nao1215/wordspider/internal/model"
)

func TestDiffWords(t *testing.T) {
	t.Parallel()

	t.Run("classifies words", func(t *testing.T) {
		t.Parallel()

		previous := model.CountWords(strings.Fields("spider spider web web web old crawler"))
		current := model.CountWords(strings.Fields("spider spider spider spider web fresh fresh crawler"))

		d := DiffWords(previous, current)

		if len(d.Added) != 1 || d.Added[0] != (model.WordCount{Word: "fresh", Count: 2}) {
			t.Errorf("Added = %v", d.Added)
		}
		if len(d.Removed) != 1 || d.Removed[0].Word != "old" {
			t.Errorf("Removed = %v", d.Removed)
		}
		if d.Unchanged != 1 {
			t.Errorf("Unchanged = %d, want 1 (crawler)", d.Unchanged)
		}
		if len(d.Changed) != 2 {
			t.Fatalf("Changed = %v", d.Changed)
		}
		// spider +2 and web -2 tie on magnitude; spider ranks first in current.
		if d.Changed[0].Word != "spider" || d.Changed[0].Delta != 2 {
			t.Errorf("Changed[0] = %+v", d.Changed[0])
		}
		if d.Changed[1].Word != "web" || d.Changed[1].Delta != -2 {
			t.Errorf("Changed[1] = %+v", d.Changed[1])
		}
	})

	t.Run("largest change first", func(t *testing.T) {
		t.Parallel()

		previous := model.CountWords(strings.Fields("aaa bbb"))
		current := model.CountWords(strings.Fields("aaa aaa bbb bbb bbb bbb bbb"))

		d := DiffWords(previous, current)
		if len(d.Changed) != 2 || d.Changed[0].Word != "bbb" {
			t.Errorf("Changed = %v", d.Changed)
		}
	})

	t.Run("nil previous makes everything new", func(t *testing.T) {
		t.Parallel()

		d := DiffWords(nil, model.CountWords([]string{"cat", "dog"}))
		if len(d.Added) != 2 || len(d.Removed) != 0 || len(d.Changed) != 0 {
			t.Errorf("unexpected diff %+v", d)
		}
	})
}

func TestDiffPages(t *testing.T) {
	t.Parallel()

	previous := map[string]string{
		"https://example.com/":      "aaa",
		"https://example.com/about": "bbb",
		"https://example.com/gone":  "ccc",
	}
	current := map[string]string{
		"https://example.com/":      "aaa",
		"https://example.com/about": "changed",
		"https://example.com/new":   "ddd",
	}

	d := DiffPages(previous, current)

	if strings.Join(d.Added, ",") != "https://example.com/new" {
		t.Errorf("Added = %v", d.Added)
	}
	if strings.Join(d.Removed, ",") != "https://example.com/gone" {
		t.Errorf("Removed = %v", d.Removed)
	}
	if strings.Join(d.Modified, ",") != "https://example.com/about" {
		t.Errorf("Modified = %v", d.Modified)
	}
	if d.Unchanged != 1 {
		t.Errorf("Unchanged = %d, want 1", d.Unchanged)
	}
}
