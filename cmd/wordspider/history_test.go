package main

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/wordspider/internal/database"
	"github.com/nao1215/wordspider/internal/model"
)

// historyFixture stores three crawls of example.com and one of other.test.
// It returns the database directory and the example.com crawl IDs, oldest
// first.
func historyFixture(t *testing.T) (string, []int64) {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "db")
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	crawls := []map[string][]string{
		{
			"https://example.com/":  {"gopher", "gopher", "tunnel"},
			"https://example.com/a": {"burrow"},
		},
		{
			"https://example.com/":  {"gopher", "gopher", "gopher", "meadow"},
			"https://example.com/a": {"burrow"},
		},
		{
			"https://example.com/":  {"gopher", "meadow", "meadow"},
			"https://example.com/b": {"river"},
		},
	}

	ids := make([]int64, 0, len(crawls))
	for i, pages := range crawls {
		r := newHistoryReport("example.com", base.AddDate(0, 0, i*10), pages)
		id, err := db.SaveCrawl(context.Background(), r)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	other := newHistoryReport("other.test", base, map[string][]string{"https://other.test/": {"lonely"}})
	if _, err := db.SaveCrawl(context.Background(), other); err != nil {
		t.Fatal(err)
	}

	return dir, ids
}

// newHistoryReport builds a finished report whose page digests derive from
// the page words.
func newHistoryReport(domain string, start time.Time, pages map[string][]string) *model.CrawlReport {
	r := model.NewCrawlReport("https://"+domain+"/", domain)
	r.DateCrawled = start
	r.Duration = time.Second
	for u, words := range pages {
		rec := model.NewPageRecord(u, words)
		rec.StatusCode = 200
		rec.Digest = model.Digest([]byte(strings.Join(words, " ")))
		r.Pages[u] = rec
		r.Words.Merge(rec.Counts)
		r.Visited = append(r.Visited, u)
	}
	return r
}

// runHistory executes the history command with args.
func runHistory(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewHistoryCmd()
	var buf strings.Builder
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestHistoryCommand(t *testing.T) {
	t.Parallel()

	// Subtests share one database file and run sequentially.
	dbDir, ids := historyFixture(t)

	t.Run("list domains", func(t *testing.T) {
		out, err := runHistory(t, "--list-domains", "--db-dir", dbDir)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "Crawled domains (2)") {
			t.Errorf("unexpected output:\n%s", out)
		}
		if strings.Index(out, "example.com") > strings.Index(out, "other.test") {
			t.Errorf("domains not sorted:\n%s", out)
		}
	})

	t.Run("list crawls of a domain", func(t *testing.T) {
		out, err := runHistory(t, "--list", "https://Example.com/some/page", "--db-dir", dbDir)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "Crawl history for example.com (3 crawls)") {
			t.Errorf("unexpected output:\n%s", out)
		}
		// Newest first.
		newest := strings.Index(out, "  "+strconv.FormatInt(ids[2], 10)+" ")
		oldest := strings.Index(out, "  "+strconv.FormatInt(ids[0], 10)+" ")
		if newest < 0 || oldest < 0 || newest > oldest {
			t.Errorf("crawls not listed newest first:\n%s", out)
		}
	})

	t.Run("compare latest two crawls", func(t *testing.T) {
		out, err := runHistory(t, "example.com", "--db-dir", dbDir)
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{
			"Crawl Comparison: example.com",
			"[+] river: 1",
			"[-] burrow: 1",
			"[~] gopher: 3 -> 1 (-2)",
			"[~] meadow: 1 -> 2 (+1)",
			"Pages: 1 added, 1 removed, 1 modified, 0 unchanged",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output does not contain %q:\n%s", want, out)
			}
		}
	})

	t.Run("compare with a specific crawl as JSON", func(t *testing.T) {
		out, err := runHistory(t, "example.com", "--with-crawl-id", strconv.FormatInt(ids[0], 10),
			"--json", "--db-dir", dbDir)
		if err != nil {
			t.Fatal(err)
		}

		var result ComparisonResult
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		if result.PreviousCrawl.ID != ids[0] || result.CurrentCrawl.ID != ids[2] {
			t.Errorf("compared %d with %d, want %d with %d",
				result.PreviousCrawl.ID, result.CurrentCrawl.ID, ids[0], ids[2])
		}
		added := make([]string, 0, len(result.Words.Added))
		for _, wc := range result.Words.Added {
			added = append(added, wc.Word)
		}
		if strings.Join(added, ",") != "meadow,river" {
			t.Errorf("added words = %v, want [meadow river]", added)
		}
		if len(result.Words.Removed) != 2 {
			t.Errorf("removed words = %v, want burrow and tunnel", result.Words.Removed)
		}
	})

	t.Run("compare since a date", func(t *testing.T) {
		out, err := runHistory(t, "example.com", "--since", "2025-03-05", "--db-dir", dbDir)
		if err != nil {
			t.Fatal(err)
		}
		// The first crawl on or after 2025-03-05 is the second one.
		if !strings.Contains(out, "Previous crawl: #"+strconv.FormatInt(ids[1], 10)) {
			t.Errorf("unexpected previous crawl:\n%s", out)
		}
	})

	t.Run("markdown comparison", func(t *testing.T) {
		out, err := runHistory(t, "example.com", "--markdown", "--db-dir", dbDir)
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"# Crawl Comparison: example.com", "## New Words (1)", "## Removed Words (1)", "## Changed Counts (2)", "gopher"} {
			if !strings.Contains(out, want) {
				t.Errorf("output does not contain %q:\n%s", want, out)
			}
		}
	})

	t.Run("show one crawl", func(t *testing.T) {
		out, err := runHistory(t, "--show", strconv.FormatInt(ids[1], 10), "--top", "2", "--db-dir", dbDir)
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"Crawl " + strconv.FormatInt(ids[1], 10) + ": example.com", "Top 2 words:", " 1. gopher: 3"} {
			if !strings.Contains(out, want) {
				t.Errorf("output does not contain %q:\n%s", want, out)
			}
		}
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name    string
			args    []string
			wantErr string
		}{
			{"no domain", []string{"--db-dir", dbDir}, "domain is required"},
			{"json and markdown", []string{"example.com", "--json", "--markdown", "--db-dir", dbDir}, "mutually exclusive"},
			{"single crawl", []string{"other.test", "--db-dir", dbDir}, "at least 2 crawls"},
			{"unknown domain", []string{"unknown.test", "--db-dir", dbDir}, "no crawl history found"},
			{"latest as previous", []string{"example.com", "--with-crawl-id", strconv.FormatInt(ids[2], 10), "--db-dir", dbDir}, "latest crawl"},
			{"unknown crawl id", []string{"example.com", "--with-crawl-id", "9999", "--db-dir", dbDir}, "not found"},
			{"bad date", []string{"example.com", "--since", "March", "--db-dir", dbDir}, "invalid date format"},
			{"date after all crawls", []string{"example.com", "--since", "2030-01-01", "--db-dir", dbDir}, "no crawls found since"},
			{"unknown show id", []string{"--show", "9999", "--db-dir", dbDir}, "not found"},
			{"missing database", []string{"--list-domains", "--db-dir", filepath.Join(t.TempDir(), "none")}, "no crawl history"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := runHistory(t, tt.args...)
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q does not contain %q", err, tt.wantErr)
				}
			})
		}
	})
}

func TestDomainArg(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"example.com", "example.com"},
		{"Example.COM/", "example.com"},
		{"https://Example.com:8080/path", "example.com:8080"},
		{" http://www.example.com ", "www.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := domainArg(tt.input); got != tt.want {
				t.Errorf("domainArg(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatDelta(t *testing.T) {
	t.Parallel()

	if got := formatDelta(3); got != "+3" {
		t.Errorf("formatDelta(3) = %q", got)
	}
	if got := formatDelta(-2); got != "-2" {
		t.Errorf("formatDelta(-2) = %q", got)
	}
	if got := formatDelta(0); got != "0" {
		t.Errorf("formatDelta(0) = %q", got)
	}
}
