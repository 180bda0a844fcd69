package logger

import (
	"context"
	"errors"
	"log/slog"
)

// fanoutHandler duplicates each record to every child handler. Needed to feed
// both the console/file handler and the Sentry handler from one logger.
type fanoutHandler struct {
	handlers []slog.Handler
}

// NewFanoutHandler returns a handler delegating to all of the given handlers.
func NewFanoutHandler(handlers ...slog.Handler) slog.Handler {
	return &fanoutHandler{handlers: handlers}
}

// Enabled reports whether any child handles records at the given level.
func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, next := range h.handlers {
		if next.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

// Handle delegates the record to every child that accepts its level.
func (h *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, next := range h.handlers {
		if !next.Enabled(ctx, record.Level) {
			continue
		}
		if err := next.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// WithAttrs returns a fan-out over the children with the attributes applied.
func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, 0, len(h.handlers))
	for _, child := range h.handlers {
		next = append(next, child.WithAttrs(attrs))
	}

	return &fanoutHandler{handlers: next}
}

// WithGroup returns a fan-out over the children with the group applied.
func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, 0, len(h.handlers))
	for _, child := range h.handlers {
		next = append(next, child.WithGroup(name))
	}

	return &fanoutHandler{handlers: next}
}
