package stats

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/nao1215/wordspider/internal/model"
)

func TestAggregator(t *testing.T) {
	t.Parallel()

	t.Run("global equals sum of pages", func(t *testing.T) {
		t.Parallel()

		a := NewAggregator()
		a.RecordWords("http://example.com/", []string{"cat", "dog", "cat"})
		a.RecordWords("http://example.com/a", []string{"dog", "fish"})

		totals := a.Totals()
		if totals.Pages != 2 || totals.UniqueWords != 3 || totals.Occurrences != 5 {
			t.Errorf("Totals() = %+v", totals)
		}

		top := a.TopN(1)
		if len(top) != 1 || top[0] != (model.WordCount{Word: "cat", Count: 2}) {
			t.Errorf("TopN(1) = %v", top)
		}
	})

	t.Run("ties keep first-seen order", func(t *testing.T) {
		t.Parallel()

		a := NewAggregator()
		a.RecordWords("http://example.com/", []string{"cat", "dog", "bird", "cat", "dog"})
		a.RecordWords("http://example.com/a", []string{"dog", "cat"})

		want := []model.WordCount{{Word: "cat", Count: 3}, {Word: "dog", Count: 3}}
		if got := a.TopN(2); !reflect.DeepEqual(got, want) {
			t.Errorf("TopN(2) = %v, want %v", got, want)
		}
	})

	t.Run("failure adds no words", func(t *testing.T) {
		t.Parallel()

		a := NewAggregator()
		rec := a.RecordFailure("http://example.com/missing", errors.New("HTTP 404"))
		if !rec.Failed() {
			t.Error("expected failed record")
		}

		totals := a.Totals()
		if totals.Pages != 1 || totals.Occurrences != 0 {
			t.Errorf("Totals() = %+v", totals)
		}
	})

	t.Run("re-recording replaces page but adds to global", func(t *testing.T) {
		t.Parallel()

		a := NewAggregator()
		a.RecordWords("http://example.com/", []string{"cat"})
		a.RecordWords("http://example.com/", []string{"cat", "cat"})

		rec, ok := a.Page("http://example.com/")
		if !ok || rec.WordTotal() != 2 {
			t.Errorf("page record = %+v", rec)
		}
		if got := a.Totals().Occurrences; got != 3 {
			t.Errorf("Occurrences = %d, want 3", got)
		}
	})

	t.Run("fill copies into report", func(t *testing.T) {
		t.Parallel()

		a := NewAggregator()
		a.RecordWords("http://example.com/", []string{"alpha", "beta"})

		report := model.NewCrawlReport("http://example.com/", "example.com")
		a.Fill(report)

		if report.Words.Total() != 2 || len(report.Pages) != 1 {
			t.Errorf("report words=%d pages=%d", report.Words.Total(), len(report.Pages))
		}

		a.RecordWords("http://example.com/b", []string{"gamma"})
		if report.Words.Total() != 2 {
			t.Error("report should not change after Fill")
		}
	})

	t.Run("concurrent records", func(t *testing.T) {
		t.Parallel()

		a := NewAggregator()
		var wg sync.WaitGroup
		for i := range 10 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				a.RecordWords(string(rune('a'+i)), []string{"word"})
			}(i)
		}
		wg.Wait()

		if got := a.Totals(); got.Pages != 10 || got.Occurrences != 10 {
			t.Errorf("Totals() = %+v", got)
		}
	})
}
