// Package builtin wires the shipped subtitle providers into a registry and
// builds their shared HTTP fetcher from configuration.
package builtin

import (
	"log/slog"

	"subsearch/internal/config"
	"subsearch/internal/providers"
	"subsearch/internal/providers/opensubtitles"
	"subsearch/internal/providers/subscene"
	"subsearch/internal/providers/yifysubtitles"
	"subsearch/internal/scrape"
)

// Registry returns a registry holding every shipped provider in the default
// query order.
func Registry() *providers.Registry {
	reg := providers.NewRegistry()
	reg.Register(opensubtitles.HashName, opensubtitles.HashFactory)
	reg.Register(subscene.Name, subscene.Factory)
	reg.Register(opensubtitles.TitleName, opensubtitles.TitleFactory)
	reg.Register(yifysubtitles.Name, yifysubtitles.Factory)
	return reg
}

// Deps builds the provider dependencies described by cfg.
func Deps(cfg *config.Config, logger *slog.Logger) providers.Deps {
	attempts := uint(0)
	if cfg.HTTP.RetryAttempts > 0 {
		attempts = uint(cfg.HTTP.RetryAttempts)
	}
	fetcher := scrape.NewHTTPFetcher(scrape.Config{
		UserAgent:      cfg.HTTP.UserAgent,
		Timeout:        cfg.HTTPTimeout(),
		Attempts:       attempts,
		InitialBackoff: cfg.RetryBackoff(),
		Logger:         logger,
	})
	return providers.Deps{Fetcher: fetcher, Logger: logger}
}

// Build instantiates the providers selected in cfg.
func Build(cfg *config.Config, logger *slog.Logger) ([]providers.Provider, error) {
	return Registry().Build(cfg.Search.Providers, Deps(cfg, logger))
}
