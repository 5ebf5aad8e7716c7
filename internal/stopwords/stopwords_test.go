package stopwords

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("skips comments and blank lines", func(t *testing.T) {
		t.Parallel()

		input := "# header\n\nThe\n  AND  \n#comment\nfoo\n"
		set, err := Parse(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if set.Len() != 3 {
			t.Fatalf("expected 3 words, got %d: %v", set.Len(), set.Words())
		}
		for _, w := range []string{"the", "and", "foo"} {
			if !set.Contains(w) {
				t.Errorf("expected %q in set", w)
			}
		}
		if set.Contains("# header") {
			t.Error("comment line should not be a stop word")
		}
	})

	t.Run("contains is case insensitive", func(t *testing.T) {
		t.Parallel()

		set := New("Hello")
		if !set.Contains("HELLO") {
			t.Error("expected case-insensitive match")
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		set, err := Parse(strings.NewReader(""))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if set.Contains("the") {
			t.Error("empty set should contain nothing")
		}
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("expected fs.ErrNotExist, got %v", err)
		}
		if !errors.Is(err, ErrRead) {
			t.Errorf("expected ErrRead, got %v", err)
		}
	})

	t.Run("existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "words.txt")
		if err := os.WriteFile(path, []byte("alpha\nbeta\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		set, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if set.Len() != 2 {
			t.Errorf("expected 2 words, got %d", set.Len())
		}
	})
}

func TestLoadOrCreate(t *testing.T) {
	t.Parallel()

	t.Run("creates default when missing", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", DefaultFileName)
		set, created, err := LoadOrCreate(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !created {
			t.Error("expected created to be true")
		}
		if !set.Contains("the") || !set.Contains("which") {
			t.Error("expected default stop words to be loaded")
		}

		data, err := os.ReadFile(path) //nolint:gosec // test file
		if err != nil {
			t.Fatalf("default file not written: %v", err)
		}
		if !strings.HasPrefix(string(data), "# Common English words to ignore") {
			t.Errorf("unexpected default file header: %q", strings.SplitN(string(data), "\n", 2)[0])
		}
	})

	t.Run("keeps existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultFileName)
		if err := os.WriteFile(path, []byte("custom\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		set, created, err := LoadOrCreate(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created {
			t.Error("expected created to be false")
		}
		if set.Len() != 1 || !set.Contains("custom") {
			t.Errorf("unexpected set: %v", set.Words())
		}
	})
}

func TestDefault(t *testing.T) {
	t.Parallel()

	set := Default()
	if set.Len() != 77 {
		t.Errorf("expected 77 default stop words, got %d", set.Len())
	}
	for _, w := range []string{"a", "the", "part", "oil"} {
		if !set.Contains(w) {
			t.Errorf("expected default list to contain %q", w)
		}
	}
}

func TestContains(t *testing.T) {
	set := New("The", "Über")

	tests := []struct {
		word string
		want bool
	}{
		{"the", true},
		{"THE", true},
		{"über", true},
		{"ÜBER", true},
		{"cat", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := set.Contains(tt.word); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}

	// Not parallel: AllocsPerRun measures process-wide allocations.
	allocs := testing.AllocsPerRun(100, func() {
		set.Contains("gopher")
		set.Contains("the")
	})
	if allocs != 0 {
		t.Errorf("lowercase lookups allocated %v times per run", allocs)
	}
}
