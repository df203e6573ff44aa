package testsupport

import (
	"path/filepath"
	"testing"

	"subsearch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.TempDir = filepath.Join(base, "queue")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.HistoryDB = filepath.Join(base, "history.db")
	cfgVal.HTTP.RetryAttempts = 1
	cfgVal.HTTP.RetryInitialBackoffMS = 1
	cfgVal.Search.ProviderTimeoutSeconds = 5

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithEndpoints points every provider endpoint at baseURL.
func WithEndpoints(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Endpoints = config.Endpoints{
			Subscene:              baseURL,
			OpenSubtitles:         baseURL,
			OpenSubtitlesHash:     baseURL,
			OpenSubtitlesDownload: baseURL,
			YifySubtitles:         baseURL,
			IMDb:                  baseURL,
		}
	}
}

// WithThreshold overrides the acceptance threshold.
func WithThreshold(threshold int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Search.MatchThreshold = threshold
	}
}

// WithProviders overrides the provider selection.
func WithProviders(names ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Search.Providers = append([]string(nil), names...)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.TempDir)
}
