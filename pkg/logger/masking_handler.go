package logger

import (
	"context"
	"log/slog"
	"strings"
)

var defaultSensitiveKeys = []string{
	"password",
	"token",
	"secret",
	"api_key",
	"authorization",
	"dsn",
}

// MaskingHandler wraps a slog.Handler and masks sensitive attributes before
// delegating.
type MaskingHandler struct {
	next slog.Handler
	keys []string
}

// NewMaskingHandler creates a handler that masks sensitive fields before
// passing records downstream. Extra keys extend the default sensitive set.
func NewMaskingHandler(next slog.Handler, extraKeys ...string) *MaskingHandler {
	keys := append(append([]string(nil), defaultSensitiveKeys...), extraKeys...)

	return &MaskingHandler{next: next, keys: keys}
}

// Enabled reports whether the handler handles records at the given level.
func (h *MaskingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// WithAttrs returns a new handler with additional (masked) attributes.
func (h *MaskingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		masked = append(masked, h.mask(attr))
	}

	return &MaskingHandler{next: h.next.WithAttrs(masked), keys: h.keys}
}

// WithGroup returns a new handler with an appended group name.
func (h *MaskingHandler) WithGroup(name string) slog.Handler {
	return &MaskingHandler{next: h.next.WithGroup(name), keys: h.keys}
}

// Handle masks sensitive attributes and delegates to the wrapped handler.
func (h *MaskingHandler) Handle(ctx context.Context, record slog.Record) error {
	masked := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)

	record.Attrs(func(attr slog.Attr) bool {
		masked.AddAttrs(h.mask(attr))
		return true
	})

	return h.next.Handle(ctx, masked)
}

func (h *MaskingHandler) mask(attr slog.Attr) slog.Attr {
	for _, key := range h.keys {
		if strings.EqualFold(attr.Key, key) {
			attr.Value = slog.StringValue("***")
			break
		}
	}

	return attr
}
