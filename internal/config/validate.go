package config

import (
	"net/url"
	"slices"
	"strings"

	"subsearch/internal/language"
	"subsearch/internal/providers"
)

// Validate ensures the configuration is usable. Every failure is a
// *providers.ConfigError.
func (c *Config) Validate() error {
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateEndpoints(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSearch() error {
	if !language.Known(c.Search.Language) {
		return providers.NewConfigError("search.language", "unsupported language %q", c.Search.Language)
	}
	if !c.Search.HearingImpaired && !c.Search.NonHearingImpaired {
		return providers.NewConfigError("search.hearing_impaired", "at least one of hearing_impaired or non_hearing_impaired must be true")
	}
	if c.Search.MatchThreshold < 0 || c.Search.MatchThreshold > 100 {
		return providers.NewConfigError("search.match_threshold", "must be between 0 and 100, got %d", c.Search.MatchThreshold)
	}
	if len(c.Search.Providers) == 0 {
		return providers.NewConfigError("search.providers", "at least one provider must be listed")
	}
	for _, name := range c.Search.Providers {
		if !slices.Contains(ProviderNames, name) {
			return providers.NewConfigError("search.providers", "unknown provider %q (valid: %s)", name, strings.Join(ProviderNames, ", "))
		}
	}
	return nil
}

func (c *Config) validateEndpoints() error {
	checks := []struct {
		field string
		value string
	}{
		{"endpoints.subscene", c.Endpoints.Subscene},
		{"endpoints.opensubtitles", c.Endpoints.OpenSubtitles},
		{"endpoints.opensubtitles_hash", c.Endpoints.OpenSubtitlesHash},
		{"endpoints.opensubtitles_download", c.Endpoints.OpenSubtitlesDownload},
		{"endpoints.yifysubtitles", c.Endpoints.YifySubtitles},
		{"endpoints.imdb", c.Endpoints.IMDb},
	}
	for _, check := range checks {
		parsed, err := url.Parse(check.value)
		if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return providers.NewConfigError(check.field, "must be an absolute http(s) URL, got %q", check.value)
		}
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && c.History.Keep < 0 {
		return providers.NewConfigError("history.keep", "must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return providers.NewConfigError("logging.format", "unsupported value %q (console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return providers.NewConfigError("logging.level", "unsupported value %q", c.Logging.Level)
	}
	return nil
}
