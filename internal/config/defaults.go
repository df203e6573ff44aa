package config

import "subsearch/internal/providers"

const (
	defaultConfigPath             = "~/.config/subsearch/config.toml"
	defaultLanguage               = "en"
	defaultMatchThreshold         = 90
	defaultProviderTimeoutSeconds = 60
	defaultMaxConcurrent          = 4
	defaultArchiveExtension       = "zip"
	defaultUserAgent              = "subsearch/dev"
	defaultHTTPTimeoutSeconds     = 30
	defaultRetryAttempts          = 3
	defaultRetryBackoffMS         = 500
	defaultLogDir                 = "~/.local/share/subsearch/logs"
	defaultHistoryDB              = "~/.local/share/subsearch/history.db"
	defaultHistoryKeep            = 200
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultLogMaxSizeMB           = 10
	defaultLogMaxBackups          = 5
	defaultLogMaxAgeDays          = 30
)

// ProviderNames lists every provider subsearch ships, in the default query order.
var ProviderNames = []string{"opensubtitles_hash", "subscene", "opensubtitles", "yifysubtitles"}

var defaultVideoExtensions = []string{
	".avi", ".mp4", ".mkv", ".mpg", ".mpeg", ".mov", ".rm", ".vob",
	".wmv", ".flv", ".3gp", ".3g2", ".swf", ".mswmm", ".m4v", ".ts",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Search: Search{
			Language:               defaultLanguage,
			HearingImpaired:        true,
			NonHearingImpaired:     true,
			MatchThreshold:         defaultMatchThreshold,
			Providers:              append([]string(nil), ProviderNames...),
			ProviderTimeoutSeconds: defaultProviderTimeoutSeconds,
			MaxConcurrent:          defaultMaxConcurrent,
			VideoExtensions:        append([]string(nil), defaultVideoExtensions...),
			ArchiveExtension:       defaultArchiveExtension,
		},
		Endpoints: endpointsFrom(providers.DefaultEndpoints()),
		HTTP: HTTP{
			UserAgent:             defaultUserAgent,
			TimeoutSeconds:        defaultHTTPTimeoutSeconds,
			RetryAttempts:         defaultRetryAttempts,
			RetryInitialBackoffMS: defaultRetryBackoffMS,
		},
		Paths: Paths{
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		History: History{
			Enabled: true,
			Keep:    defaultHistoryKeep,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}

func endpointsFrom(e providers.Endpoints) Endpoints {
	return Endpoints{
		Subscene:              e.Subscene,
		OpenSubtitles:         e.OpenSubtitles,
		OpenSubtitlesHash:     e.OpenSubtitlesHash,
		OpenSubtitlesDownload: e.OpenSubtitlesDownload,
		YifySubtitles:         e.YifySubtitles,
		IMDb:                  e.IMDb,
	}
}
