// Package logger builds the process-wide structured logger and the log
// middleware used by the diagnostics server.
package logger

import (
	"io"
	"log/slog"
	"os"

	slogsentry "github.com/samber/slog-sentry/v2"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig controls optional rotated file output.
type FileConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	Path       string `mapstructure:"path" yaml:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// Config describes how the process logger is assembled.
type Config struct {
	Level  string     `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string     `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=text json"`
	File   FileConfig `mapstructure:"file" yaml:"file"`

	// Sentry attaches a Sentry handler for warn-and-above records. The
	// caller is responsible for sentry.Init and the flush-on-shutdown hook.
	Sentry bool `mapstructure:"sentry" yaml:"sentry"`
}

// New assembles a slog.Logger: stdout (plus rotated file output when
// enabled), optional Sentry fan-out, and masking of sensitive attributes.
func New(cfg Config) *slog.Logger {
	var w io.Writer = os.Stdout
	if cfg.File.Enabled {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		})
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	if cfg.Sentry {
		sentryHandler := slogsentry.Option{Level: slog.LevelWarn}.NewSentryHandler()
		handler = NewFanoutHandler(handler, sentryHandler)
	}

	return slog.New(NewMaskingHandler(handler))
}

// ParseLevel maps a config level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
