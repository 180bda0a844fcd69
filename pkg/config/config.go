// Package config provides configuration loading, validation and hot-reload
// for the lastcall daemon.
package config

import (
	"fmt"
	"os"
	"syscall"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/Proton-105/lastcall/pkg/logger"
)

// Config holds the full runtime configuration.
type Config struct {
	AppEnv string `mapstructure:"-" yaml:"app_env"`

	Log      logger.Config  `mapstructure:"log" yaml:"log"`
	Shutdown ShutdownConfig `mapstructure:"shutdown" yaml:"shutdown"`
	HTTP     HTTPConfig     `mapstructure:"http" yaml:"http"`
	DB       DBConfig       `mapstructure:"db" yaml:"db"`
	Redis    RedisConfig    `mapstructure:"redis" yaml:"redis"`
	Jobs     JobsConfig     `mapstructure:"jobs" yaml:"jobs"`
	Sentry   SentryConfig   `mapstructure:"sentry" yaml:"sentry"`
	Telegram TelegramConfig `mapstructure:"telegram" yaml:"telegram"`
}

// ShutdownConfig configures the shutdown coordinator.
type ShutdownConfig struct {
	Signals        []string      `mapstructure:"signals" yaml:"signals" validate:"omitempty,dive,oneof=SIGHUP SIGINT SIGQUIT SIGABRT SIGTERM SIGUSR1 SIGUSR2"`
	PerHookTimeout time.Duration `mapstructure:"per_hook_timeout" yaml:"per_hook_timeout" validate:"omitempty,gt=0"`
	GlobalTimeout  time.Duration `mapstructure:"global_timeout" yaml:"global_timeout" validate:"omitempty,gt=0"`
}

var signalsByName = map[string]os.Signal{
	"SIGHUP":  syscall.SIGHUP,
	"SIGINT":  syscall.SIGINT,
	"SIGQUIT": syscall.SIGQUIT,
	"SIGABRT": syscall.SIGABRT,
	"SIGTERM": syscall.SIGTERM,
	"SIGUSR1": syscall.SIGUSR1,
	"SIGUSR2": syscall.SIGUSR2,
}

// ParseSignals resolves the configured signal names to os.Signal values.
func (c ShutdownConfig) ParseSignals() ([]os.Signal, error) {
	signals := make([]os.Signal, 0, len(c.Signals))
	for _, name := range c.Signals {
		sig, ok := signalsByName[name]
		if !ok {
			return nil, fmt.Errorf("unknown signal name %q", name)
		}
		signals = append(signals, sig)
	}

	return signals, nil
}

// HTTPConfig configures the diagnostics HTTP server.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"omitempty,gt=0"`
}

// DBConfig configures the PostgreSQL connection.
type DBConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     string `mapstructure:"port" yaml:"port"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	Name     string `mapstructure:"name" yaml:"name"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// RedisConfig configures the Redis connection.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	DB       int    `mapstructure:"db" yaml:"db"`
}

// JobsConfig configures the background job worker.
type JobsConfig struct {
	Enabled     bool           `mapstructure:"enabled" yaml:"enabled"`
	Concurrency int            `mapstructure:"concurrency" yaml:"concurrency" validate:"omitempty,gte=1"`
	Queues      map[string]int `mapstructure:"queues" yaml:"queues"`
}

// SentryConfig configures error reporting.
type SentryConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	DSN         string `mapstructure:"dsn" yaml:"dsn,omitempty"`
	Environment string `mapstructure:"environment" yaml:"environment"`
}

// TelegramConfig configures the shutdown operator notification.
type TelegramConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Token   string `mapstructure:"token" yaml:"token,omitempty"`
	ChatID  int64  `mapstructure:"chat_id" yaml:"chat_id"`
}

// Dump renders the effective configuration as YAML with secrets redacted.
func (c Config) Dump() (string, error) {
	redacted := c
	if redacted.DB.Password != "" {
		redacted.DB.Password = "***"
	}
	if redacted.Redis.Password != "" {
		redacted.Redis.Password = "***"
	}
	if redacted.Sentry.DSN != "" {
		redacted.Sentry.DSN = "***"
	}
	if redacted.Telegram.Token != "" {
		redacted.Telegram.Token = "***"
	}

	out, err := yaml.Marshal(redacted)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	return string(out), nil
}
