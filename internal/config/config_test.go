package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/wordspider/internal/frontier"
	"github.com/nao1215/wordspider/internal/report"
	"github.com/nao1215/wordspider/internal/transport"
)

// TestNewConfig documents the defaults; a failure here means a default
// changed and the change should be intentional.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Delay is 1 second", func(t *testing.T) {
		t.Parallel()
		if cfg.Delay != time.Second {
			t.Errorf("expected Delay to be 1s, got %v", cfg.Delay)
		}
	})

	t.Run("default Timeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected Timeout to be 30s, got %v", cfg.Timeout)
		}
	})

	t.Run("default Workers is 1", func(t *testing.T) {
		t.Parallel()
		if cfg.Workers != 1 {
			t.Errorf("expected Workers to be 1, got %d", cfg.Workers)
		}
	})

	t.Run("default MinWordLength is 3", func(t *testing.T) {
		t.Parallel()
		if cfg.MinWordLength != 3 {
			t.Errorf("expected MinWordLength to be 3, got %d", cfg.MinWordLength)
		}
	})

	t.Run("default order is unordered", func(t *testing.T) {
		t.Parallel()
		order, err := cfg.CrawlOrder()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order != frontier.OrderUnordered {
			t.Errorf("expected OrderUnordered, got %v", order)
		}
	})

	t.Run("default MaxPages is unlimited", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxPages != 0 {
			t.Errorf("expected MaxPages to be 0, got %d", cfg.MaxPages)
		}
	})

	t.Run("default IgnoreFile is ignore_words.txt", func(t *testing.T) {
		t.Parallel()
		if cfg.IgnoreFile != "ignore_words.txt" {
			t.Errorf("expected ignore_words.txt, got %q", cfg.IgnoreFile)
		}
	})

	t.Run("default UserAgent is browser-like", func(t *testing.T) {
		t.Parallel()
		if cfg.UserAgent != transport.DefaultUserAgent {
			t.Errorf("unexpected UserAgent %q", cfg.UserAgent)
		}
	})

	t.Run("default Top is 10", func(t *testing.T) {
		t.Parallel()
		if cfg.Top != 10 {
			t.Errorf("expected Top to be 10, got %d", cfg.Top)
		}
	})

	t.Run("default DBDir is the XDG data directory", func(t *testing.T) {
		t.Parallel()
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("Tor and saving are off", func(t *testing.T) {
		t.Parallel()
		if cfg.UseTor || cfg.SaveToDB || cfg.Insecure {
			t.Error("expected UseTor, SaveToDB and Insecure to be false")
		}
	})
}

// TestConfigValidate tests one validation rule per case.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.Seed = "https://example.com/"
		cfg.OutputFile = "words.txt"
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "valid config passes", modify: func(*Config) {}},
		{name: "zero delay is allowed", modify: func(c *Config) { c.Delay = 0 }},
		{name: "missing seed", modify: func(c *Config) { c.Seed = "" }, wantErr: ErrNoSeed},
		{name: "missing output", modify: func(c *Config) { c.OutputFile = "" }, wantErr: ErrNoOutput},
		{name: "zero timeout", modify: func(c *Config) { c.Timeout = 0 }, wantErr: ErrInvalidTimeout},
		{name: "zero workers", modify: func(c *Config) { c.Workers = 0 }, wantErr: ErrInvalidWorkers},
		{name: "negative delay", modify: func(c *Config) { c.Delay = -time.Second }, wantErr: ErrInvalidDelay},
		{name: "negative max pages", modify: func(c *Config) { c.MaxPages = -1 }, wantErr: ErrInvalidMaxPages},
		{name: "negative body size", modify: func(c *Config) { c.MaxBodySize = -1 }, wantErr: ErrInvalidMaxBodySize},
		{name: "zero word length", modify: func(c *Config) { c.MinWordLength = 0 }, wantErr: ErrInvalidMinWordLength},
		{name: "negative top", modify: func(c *Config) { c.Top = -1 }, wantErr: ErrInvalidTop},
		{
			name:    "proxy and tor together",
			modify:  func(c *Config) { c.UseTor = true; c.ProxyAddress = "127.0.0.1:9050" },
			wantErr: ErrConflictingProxy,
		},
		{name: "unknown order", modify: func(c *Config) { c.Order = "random" }, wantErr: frontier.ErrUnknownOrder},
		{name: "unknown format", modify: func(c *Config) { c.Format = "xml" }, wantErr: report.ErrUnknownFormat},
		{
			name: "bad site delay",
			modify: func(c *Config) {
				c.SiteConfigs = &File{Sites: map[string]SiteConfig{"example.com": {Delay: "soon"}}}
			},
			wantErr: ErrInvalidSiteDelay,
		},
		{
			name:    "bad default delay",
			modify:  func(c *Config) { c.SiteConfigs = &File{Defaults: SiteConfig{Delay: "-1s"}} },
			wantErr: ErrInvalidSiteDelay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigOutputFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
		output string
		want   report.Format
	}{
		{name: "json extension", output: "out.json", want: report.FormatJSON},
		{name: "csv extension", output: "out.CSV", want: report.FormatCSV},
		{name: "unknown extension falls back to text", output: "out.words", want: report.FormatText},
		{name: "explicit format wins", format: "md", output: "out.json", want: report.FormatMarkdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			cfg.Format = tt.format
			cfg.OutputFile = tt.output

			got, err := cfg.OutputFormat()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSiteConfigParseDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		delay   string
		want    time.Duration
		wantOK  bool
		wantErr bool
	}{
		{name: "empty", delay: "", wantOK: false},
		{name: "milliseconds", delay: "500ms", want: 500 * time.Millisecond, wantOK: true},
		{name: "zero", delay: "0s", want: 0, wantOK: true},
		{name: "padded", delay: " 2s ", want: 2 * time.Second, wantOK: true},
		{name: "garbage", delay: "fast", wantErr: true},
		{name: "negative", delay: "-3s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok, err := SiteConfig{Delay: tt.delay}.ParseDelay()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSiteDelay) {
					t.Fatalf("expected ErrInvalidSiteDelay, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("expected (%v, %v), got (%v, %v)", tt.want, tt.wantOK, got, ok)
			}
		})
	}
}

func TestFileGetSiteConfig(t *testing.T) {
	t.Parallel()

	file := &File{
		Defaults: SiteConfig{
			Cookie:    "default=1",
			Delay:     "1s",
			Headers:   map[string]string{"X-Default": "yes"},
			StopWords: []string{"lorem"},
		},
		Sites: map[string]SiteConfig{
			"example.com": {
				Cookie:         "session=abc",
				MaxPages:       50,
				Headers:        map[string]string{"Authorization": "Bearer t"},
				IgnorePatterns: []string{"/admin/*"},
				StopWords:      []string{"ipsum"},
			},
			"www.docs.test": {
				Delay:          "250ms",
				FollowPatterns: []string{"/guide/*"},
			},
		},
	}

	t.Run("unknown domain gets defaults", func(t *testing.T) {
		t.Parallel()

		got := file.GetSiteConfig("other.org")
		if got.Cookie != "default=1" || got.Delay != "1s" {
			t.Errorf("expected defaults, got %+v", got)
		}
		if got.MaxPages != 0 {
			t.Errorf("expected MaxPages 0, got %d", got.MaxPages)
		}
	})

	t.Run("site values override defaults", func(t *testing.T) {
		t.Parallel()

		got := file.GetSiteConfig("example.com")
		if got.Cookie != "session=abc" {
			t.Errorf("expected site cookie, got %q", got.Cookie)
		}
		if got.Delay != "1s" {
			t.Errorf("expected default delay to survive, got %q", got.Delay)
		}
		if got.MaxPages != 50 {
			t.Errorf("expected MaxPages 50, got %d", got.MaxPages)
		}
		if len(got.IgnorePatterns) != 1 || got.IgnorePatterns[0] != "/admin/*" {
			t.Errorf("unexpected ignore patterns %v", got.IgnorePatterns)
		}
	})

	t.Run("headers are merged", func(t *testing.T) {
		t.Parallel()

		got := file.GetSiteConfig("example.com")
		if got.Headers["X-Default"] != "yes" || got.Headers["Authorization"] != "Bearer t" {
			t.Errorf("expected merged headers, got %v", got.Headers)
		}
	})

	t.Run("stop words accumulate", func(t *testing.T) {
		t.Parallel()

		got := file.GetSiteConfig("example.com")
		if strings.Join(got.StopWords, ",") != "lorem,ipsum" {
			t.Errorf("expected lorem,ipsum, got %v", got.StopWords)
		}
	})

	t.Run("merging does not mutate defaults", func(t *testing.T) {
		t.Parallel()

		_ = file.GetSiteConfig("example.com")
		if len(file.Defaults.Headers) != 1 || len(file.Defaults.StopWords) != 1 {
			t.Errorf("defaults were modified: %+v", file.Defaults)
		}
	})

	t.Run("www prefix is ignored both ways", func(t *testing.T) {
		t.Parallel()

		if got := file.GetSiteConfig("www.example.com"); got.Cookie != "session=abc" {
			t.Errorf("expected www.example.com to match example.com, got %q", got.Cookie)
		}
		if got := file.GetSiteConfig("docs.test"); got.Delay != "250ms" {
			t.Errorf("expected docs.test to match www.docs.test, got %q", got.Delay)
		}
	})

	t.Run("domain lookup is case-insensitive", func(t *testing.T) {
		t.Parallel()

		if got := file.GetSiteConfig("EXAMPLE.com"); got.MaxPages != 50 {
			t.Errorf("expected case-insensitive match, got %+v", got)
		}
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.wordspider")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".wordspider")
		content := `defaults:
  delay: 2s
  stopWords:
    - lorem
sites:
  example.com:
    cookie: "session=xyz"
    maxPages: 40
    headers:
      Authorization: "Bearer token"
    ignorePatterns:
      - "/admin/*"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Defaults.Delay != "2s" {
			t.Errorf("expected default delay 2s, got %q", cfg.Defaults.Delay)
		}
		site, ok := cfg.Sites["example.com"]
		if !ok {
			t.Fatal("expected example.com in sites")
		}
		if site.MaxPages != 40 || site.Cookie != "session=xyz" {
			t.Errorf("unexpected site config %+v", site)
		}
		if site.Headers["Authorization"] != "Bearer token" {
			t.Error("expected Authorization header")
		}
	})

	t.Run("loads TOML by extension", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "wordspider.toml")
		content := `[defaults]
delay = "750ms"

[sites."example.com"]
cookie = "session=toml"
followPatterns = ["/blog/*"]
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Defaults.Delay != "750ms" {
			t.Errorf("expected default delay 750ms, got %q", cfg.Defaults.Delay)
		}
		site := cfg.Sites["example.com"]
		if site.Cookie != "session=toml" || len(site.FollowPatterns) != 1 {
			t.Errorf("unexpected site config %+v", site)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".wordspider")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("initializes nil Sites map", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".wordspider")
		if err := os.WriteFile(configPath, []byte("defaults:\n  cookie: a=b\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Sites == nil {
			t.Error("expected Sites map to be initialized")
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if got := FindConfigFile(configPath); got != configPath {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile("/nonexistent/path/config.yaml"); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{
		"data":   XDGDataDir(),
		"config": XDGConfigDir(),
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if filepath.Base(dir) != AppName {
				t.Errorf("expected %s dir to end in %q, got %q", name, AppName, dir)
			}
		})
	}
}
