// Package logging assembles the structured slog loggers used across
// subsearch.
//
// It owns the console and JSON handlers, routes file output through a
// rotating lumberjack writer, and exposes attribute helpers so providers and
// the searcher emit the same field names (component, provider, search_id,
// event_type). A no-op logger is provided for tests and wiring code that
// cannot fail.
package logging
