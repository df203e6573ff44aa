package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"subsearch/internal/config"
	"subsearch/internal/providers"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "subsearch", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Paths.LogDir != filepath.Join(tempHome, ".local", "share", "subsearch", "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Paths.TempDir == "" || !filepath.IsAbs(cfg.Paths.TempDir) {
		t.Fatalf("expected absolute temp dir, got %q", cfg.Paths.TempDir)
	}
	if cfg.Search.MatchThreshold != 90 {
		t.Fatalf("expected default threshold 90, got %d", cfg.Search.MatchThreshold)
	}
	if cfg.Search.Language != "en" {
		t.Fatalf("expected default language en, got %q", cfg.Search.Language)
	}
	if !cfg.Search.HearingImpaired || !cfg.Search.NonHearingImpaired {
		t.Fatal("expected both HI filters enabled by default")
	}
	if len(cfg.Search.Providers) != len(config.ProviderNames) {
		t.Fatalf("expected all providers by default, got %v", cfg.Search.Providers)
	}
	if cfg.Search.ArchiveExtension != "zip" {
		t.Fatalf("unexpected archive extension %q", cfg.Search.ArchiveExtension)
	}
}

func TestLoadParsesFileAndNormalizes(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[search]
language = "French"
match_threshold = 80
providers = ["Subscene", " yifysubtitles ", "subscene"]
video_extensions = ["MKV", ".mp4"]
archive_extension = ".ZIP"

[endpoints]
subscene = "http://localhost:9000/"

[paths]
temp_dir = "` + filepath.ToSlash(filepath.Join(dir, "queue")) + `"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected %q to be loaded, got %q (exists=%v)", path, resolved, exists)
	}
	if cfg.Search.Language != "fr" {
		t.Fatalf("expected language normalized to fr, got %q", cfg.Search.Language)
	}
	if got := strings.Join(cfg.Search.Providers, ","); got != "subscene,yifysubtitles" {
		t.Fatalf("unexpected providers %q", got)
	}
	if got := strings.Join(cfg.Search.VideoExtensions, ","); got != ".mkv,.mp4" {
		t.Fatalf("unexpected extensions %q", got)
	}
	if cfg.Search.ArchiveExtension != "zip" {
		t.Fatalf("unexpected archive extension %q", cfg.Search.ArchiveExtension)
	}
	if cfg.Endpoints.Subscene != "http://localhost:9000" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Endpoints.Subscene)
	}
	if cfg.Paths.TempDir != filepath.Join(dir, "queue") {
		t.Fatalf("unexpected temp dir %q", cfg.Paths.TempDir)
	}
	prefs := cfg.Preferences()
	if prefs.Threshold != 80 || prefs.Language != "fr" {
		t.Fatalf("unexpected preferences %+v", prefs)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[search]\nthreshold = 80\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestValidateReturnsConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"no hi filter", func(c *config.Config) { c.Search.HearingImpaired = false; c.Search.NonHearingImpaired = false }, "search.hearing_impaired"},
		{"threshold high", func(c *config.Config) { c.Search.MatchThreshold = 101 }, "search.match_threshold"},
		{"threshold negative", func(c *config.Config) { c.Search.MatchThreshold = -1 }, "search.match_threshold"},
		{"unknown provider", func(c *config.Config) { c.Search.Providers = []string{"addic7ed"} }, "search.providers"},
		{"no providers", func(c *config.Config) { c.Search.Providers = nil }, "search.providers"},
		{"unknown language", func(c *config.Config) { c.Search.Language = "klingon" }, "search.language"},
		{"bad endpoint", func(c *config.Config) { c.Endpoints.IMDb = "imdb.com" }, "endpoints.imdb"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			cfgErr, ok := err.(*providers.ConfigError)
			if !ok {
				t.Fatalf("expected *providers.ConfigError, got %T (%v)", err, err)
			}
			if cfgErr.Field != tt.field {
				t.Fatalf("field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}
	if decoded.Search.MatchThreshold != config.Default().Search.MatchThreshold {
		t.Fatalf("sample threshold %d differs from default", decoded.Search.MatchThreshold)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}

func TestDurations(t *testing.T) {
	cfg := config.Default()
	if cfg.ProviderTimeout().Seconds() != 60 {
		t.Fatalf("unexpected provider timeout %v", cfg.ProviderTimeout())
	}
	if cfg.RetryBackoff().Milliseconds() != 500 {
		t.Fatalf("unexpected retry backoff %v", cfg.RetryBackoff())
	}
}
