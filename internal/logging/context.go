package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldProvider names the subtitle source a line belongs to.
	FieldProvider = "provider"
	// FieldSearchID correlates every line of one search.
	FieldSearchID = "search_id"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to try next.
	FieldErrorHint = "error_hint"
	// FieldDecisionType names the decision being logged (e.g. candidate_match).
	FieldDecisionType = "decision_type"
)

type contextKey int

const (
	searchIDKey contextKey = iota
	providerKey
)

// WithSearchID tags ctx with the search identifier.
func WithSearchID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, searchIDKey, id)
}

// SearchIDFromContext returns the search identifier stored in ctx.
func SearchIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(searchIDKey).(string)
	return id, ok && id != ""
}

// WithProvider tags ctx with the provider currently being queried.
func WithProvider(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, providerKey, name)
}

// ProviderFromContext returns the provider name stored in ctx.
func ProviderFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	name, ok := ctx.Value(providerKey).(string)
	return name, ok && name != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := SearchIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSearchID, id))
	}
	if name, ok := ProviderFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldProvider, name))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
