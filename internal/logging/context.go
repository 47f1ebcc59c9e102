package logging

import (
	"context"
	"log/slog"
)

type contextKey int

const (
	runIDKey contextKey = iota
	documentKey
)

// WithRunID returns a context carrying a batch run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// WithDocument returns a context carrying the document being processed.
func WithDocument(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, documentKey, name)
}

// ContextFields extracts standardized slog attributes from ctx.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := ctx.Value(runIDKey).(string); ok && id != "" {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if name, ok := ctx.Value(documentKey).(string); ok && name != "" {
		fields = append(fields, slog.String(FieldDocument, name))
	}
	return fields
}

// WithContext returns a logger augmented with fields derived from ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		args = append(args, f)
	}
	return logger.With(args...)
}
