// Package search fans a release out to the configured providers, scores
// every listed subtitle against the release name, and splits the candidates
// into accepted and rejected sets per provider.
//
// Providers run concurrently, each under its own timeout, and each
// provider's listing is classified inside that provider's goroutine as soon
// as it arrives. A provider that fails contributes nothing; only
// configuration errors abort the search.
package search
