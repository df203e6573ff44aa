package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"subsearch/internal/language"
	"subsearch/internal/providers"
)

func (c *Config) normalize() error {
	c.normalizeSearch()
	c.normalizeEndpoints()
	c.normalizeHTTP()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeSearch() {
	lang := strings.TrimSpace(c.Search.Language)
	if lang == "" {
		if value, ok := os.LookupEnv("SUBSEARCH_LANGUAGE"); ok {
			lang = strings.TrimSpace(value)
		}
	}
	if lang == "" {
		lang = defaultLanguage
	}
	if code := language.ToISO2(lang); code != "" {
		lang = code
	}
	c.Search.Language = lang

	names := make([]string, 0, len(c.Search.Providers))
	seen := make(map[string]struct{}, len(c.Search.Providers))
	for _, name := range c.Search.Providers {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	c.Search.Providers = names

	exts := make([]string, 0, len(c.Search.VideoExtensions))
	for _, ext := range c.Search.VideoExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	if len(exts) == 0 {
		exts = append(exts, defaultVideoExtensions...)
	}
	c.Search.VideoExtensions = exts

	c.Search.ArchiveExtension = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.Search.ArchiveExtension)), ".")
	if c.Search.ArchiveExtension == "" {
		c.Search.ArchiveExtension = defaultArchiveExtension
	}
	if c.Search.ProviderTimeoutSeconds <= 0 {
		c.Search.ProviderTimeoutSeconds = defaultProviderTimeoutSeconds
	}
	if c.Search.MaxConcurrent <= 0 {
		c.Search.MaxConcurrent = defaultMaxConcurrent
	}
}

func (c *Config) normalizeEndpoints() {
	defaults := endpointsFrom(providers.DefaultEndpoints())
	fill := func(value *string, fallback string) {
		trimmed := strings.TrimRight(strings.TrimSpace(*value), "/")
		if trimmed == "" {
			trimmed = fallback
		}
		*value = trimmed
	}
	fill(&c.Endpoints.Subscene, defaults.Subscene)
	fill(&c.Endpoints.OpenSubtitles, defaults.OpenSubtitles)
	fill(&c.Endpoints.OpenSubtitlesHash, defaults.OpenSubtitlesHash)
	fill(&c.Endpoints.OpenSubtitlesDownload, defaults.OpenSubtitlesDownload)
	fill(&c.Endpoints.YifySubtitles, defaults.YifySubtitles)
	fill(&c.Endpoints.IMDb, defaults.IMDb)
}

func (c *Config) normalizeHTTP() {
	c.HTTP.UserAgent = strings.TrimSpace(c.HTTP.UserAgent)
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = defaultUserAgent
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		c.HTTP.TimeoutSeconds = defaultHTTPTimeoutSeconds
	}
	if c.HTTP.RetryAttempts <= 0 {
		c.HTTP.RetryAttempts = defaultRetryAttempts
	}
	if c.HTTP.RetryInitialBackoffMS <= 0 {
		c.HTTP.RetryInitialBackoffMS = defaultRetryBackoffMS
	}
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		c.Paths.TempDir = filepath.Join(os.TempDir(), "subsearch")
	}
	var err error
	if c.Paths.TempDir, err = expandPath(c.Paths.TempDir); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
	if c.Logging.MaxAgeDays < 0 {
		c.Logging.MaxAgeDays = 0
	}
}
