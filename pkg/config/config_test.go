package config

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "development.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return dir
}

func TestLoadFrom_Defaults(t *testing.T) {
	dir := writeConfig(t, "{}\n")

	cfg, _, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []string{"SIGINT", "SIGTERM", "SIGABRT", "SIGUSR2"}, cfg.Shutdown.Signals)
	assert.Equal(t, 5*time.Second, cfg.Shutdown.PerHookTimeout)
	assert.Equal(t, 10*time.Second, cfg.Shutdown.GlobalTimeout)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestLoadFrom_FileOverrides(t *testing.T) {
	dir := writeConfig(t, `
log:
  level: debug
  format: text
shutdown:
  signals: [SIGTERM]
  per_hook_timeout: 2s
  global_timeout: 6s
`)

	cfg, _, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"SIGTERM"}, cfg.Shutdown.Signals)
	assert.Equal(t, 2*time.Second, cfg.Shutdown.PerHookTimeout)
	assert.Equal(t, 6*time.Second, cfg.Shutdown.GlobalTimeout)
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	dir := writeConfig(t, "{}\n")
	t.Setenv("SHUTDOWN_GLOBAL_TIMEOUT", "3s")

	cfg, _, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Shutdown.GlobalTimeout)
}

func TestLoadFrom_ValidationFailure(t *testing.T) {
	dir := writeConfig(t, `
log:
  level: loud
`)

	_, _, err := LoadFrom(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")
}

func TestLoadFrom_RejectsUnknownSignalName(t *testing.T) {
	dir := writeConfig(t, `
shutdown:
  signals: [SIGBOGUS]
`)

	_, _, err := LoadFrom(dir)
	require.Error(t, err)
}

func TestParseSignals(t *testing.T) {
	cfg := ShutdownConfig{Signals: []string{"SIGINT", "SIGTERM", "SIGUSR2"}}

	signals, err := cfg.ParseSignals()
	require.NoError(t, err)
	assert.Equal(t, []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR2}, signals)
}

func TestParseSignals_Unknown(t *testing.T) {
	cfg := ShutdownConfig{Signals: []string{"SIGWAT"}}

	_, err := cfg.ParseSignals()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SIGWAT")
}

func TestDump_RedactsSecrets(t *testing.T) {
	cfg := Config{
		DB:       DBConfig{Password: "pgpass"},
		Redis:    RedisConfig{Password: "redispass"},
		Sentry:   SentryConfig{DSN: "https://key@sentry.example/1"},
		Telegram: TelegramConfig{Token: "123:abc"},
	}

	out, err := cfg.Dump()
	require.NoError(t, err)

	assert.NotContains(t, out, "pgpass")
	assert.NotContains(t, out, "redispass")
	assert.NotContains(t, out, "sentry.example")
	assert.NotContains(t, out, "123:abc")
	assert.Contains(t, out, "***")
}
