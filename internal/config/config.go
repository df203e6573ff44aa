package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"subsearch/internal/providers"
)

//go:embed sample_config.toml
var sampleConfig string

// Search contains the subtitle filters and provider selection.
type Search struct {
	Language               string   `toml:"language"`
	HearingImpaired        bool     `toml:"hearing_impaired"`
	NonHearingImpaired     bool     `toml:"non_hearing_impaired"`
	ForeignOnly            bool     `toml:"foreign_only"`
	MatchThreshold         int      `toml:"match_threshold"`
	ManualFallback         bool     `toml:"manual_fallback"`
	Providers              []string `toml:"providers"`
	ProviderTimeoutSeconds int      `toml:"provider_timeout_seconds"`
	MaxConcurrent          int      `toml:"max_concurrent"`
	VideoExtensions        []string `toml:"video_extensions"`
	ArchiveExtension       string   `toml:"archive_extension"`
}

// Endpoints contains provider base URLs.
type Endpoints struct {
	Subscene              string `toml:"subscene"`
	OpenSubtitles         string `toml:"opensubtitles"`
	OpenSubtitlesHash     string `toml:"opensubtitles_hash"`
	OpenSubtitlesDownload string `toml:"opensubtitles_download"`
	YifySubtitles         string `toml:"yifysubtitles"`
	IMDb                  string `toml:"imdb"`
}

// HTTP contains transport settings shared by every provider.
type HTTP struct {
	UserAgent             string `toml:"user_agent"`
	TimeoutSeconds        int    `toml:"timeout_seconds"`
	RetryAttempts         int    `toml:"retry_attempts"`
	RetryInitialBackoffMS int    `toml:"retry_initial_backoff_ms"`
}

// Paths contains working directories.
type Paths struct {
	TempDir   string `toml:"temp_dir"`
	LogDir    string `toml:"log_dir"`
	HistoryDB string `toml:"history_db"`
}

// History controls the search history database.
type History struct {
	Enabled bool `toml:"enabled"`
	Keep    int  `toml:"keep"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format     string `toml:"format"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// Config encapsulates all configuration values for subsearch.
//
// Configuration sections by subsystem:
//   - Search: language and HI filters, threshold, provider selection
//   - Endpoints: provider base URLs
//   - HTTP: user agent, timeouts, retry policy
//   - Paths: queue temp dir, log dir, history database
//   - History: search history retention
//   - Logging: log format, level, and rotation
type Config struct {
	Search    Search    `toml:"search"`
	Endpoints Endpoints `toml:"endpoints"`
	HTTP      HTTP      `toml:"http"`
	Paths     Paths     `toml:"paths"`
	History   History   `toml:"history"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("subsearch.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the temp and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.TempDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Preferences returns the search filters as the providers consume them.
func (c *Config) Preferences() providers.Preferences {
	return providers.Preferences{
		Language:           c.Search.Language,
		HearingImpaired:    c.Search.HearingImpaired,
		NonHearingImpaired: c.Search.NonHearingImpaired,
		ForeignOnly:        c.Search.ForeignOnly,
		Threshold:          c.Search.MatchThreshold,
		ManualFallback:     c.Search.ManualFallback,
	}
}

// ProviderEndpoints returns the configured base URLs.
func (c *Config) ProviderEndpoints() providers.Endpoints {
	return providers.Endpoints{
		Subscene:              c.Endpoints.Subscene,
		OpenSubtitles:         c.Endpoints.OpenSubtitles,
		OpenSubtitlesHash:     c.Endpoints.OpenSubtitlesHash,
		OpenSubtitlesDownload: c.Endpoints.OpenSubtitlesDownload,
		YifySubtitles:         c.Endpoints.YifySubtitles,
		IMDb:                  c.Endpoints.IMDb,
	}
}

// ProviderTimeout bounds a single provider's query and resolution work.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Search.ProviderTimeoutSeconds) * time.Second
}

// HTTPTimeout bounds a single HTTP request.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// RetryBackoff is the delay before the first retry of a failed request.
func (c *Config) RetryBackoff() time.Duration {
	return time.Duration(c.HTTP.RetryInitialBackoffMS) * time.Millisecond
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders cfg as TOML.
func Encode(cfg *Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
