package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration for the environment named by APP_ENV from
// ./configs, overlays environment variables, validates and returns it.
func Load() (*Config, *viper.Viper, error) {
	return LoadFrom("./configs")
}

// LoadFrom is Load with an explicit config directory.
func LoadFrom(dir string) (*Config, *viper.Viper, error) {
	// Missing env files are fine; values then come from the process
	// environment only.
	_ = godotenv.Load(".env.local", ".env")

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	v.SetConfigFile(fmt.Sprintf("%s/%s.yaml", dir, env))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := unmarshal(v)
	if err != nil {
		return nil, nil, err
	}
	cfg.AppEnv = env

	return cfg, v, nil
}

// Watch re-reads and validates the configuration whenever the config file
// changes, passing the result to onChange. Invalid updates are logged and
// dropped, keeping the previous configuration in effect.
func Watch(v *viper.Viper, log *slog.Logger, onChange func(*Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("config file changed",
			slog.String("file", e.Name),
			slog.String("op", e.Op.String()),
		)

		cfg, err := unmarshal(v)
		if err != nil {
			log.Warn("ignoring invalid config update", slog.Any("error", err))
			return
		}

		onChange(cfg)
	})
	v.WatchConfig()
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("shutdown.signals", []string{"SIGINT", "SIGTERM", "SIGABRT", "SIGUSR2"})
	v.SetDefault("shutdown.per_hook_timeout", "5s")
	v.SetDefault("shutdown.global_timeout", "10s")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", "4s")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.sslmode", "disable")

	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("jobs.concurrency", 10)
	v.SetDefault("jobs.queues", map[string]int{"default": 1})
}
