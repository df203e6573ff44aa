// Package config loads, normalizes, and validates subsearch configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the SUBSEARCH_LANGUAGE
// environment fallback. Validation failures are reported as
// *providers.ConfigError so the CLI treats bad settings the same way a
// provider treats an impossible session filter.
package config
