package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	sentry "github.com/getsentry/sentry-go"

	"github.com/Proton-105/lastcall/internal/health"
	"github.com/Proton-105/lastcall/internal/jobs"
	"github.com/Proton-105/lastcall/internal/notify"
	"github.com/Proton-105/lastcall/internal/server"
	"github.com/Proton-105/lastcall/pkg/config"
	"github.com/Proton-105/lastcall/pkg/logger"
	"github.com/Proton-105/lastcall/pkg/metrics"
	lastcallredis "github.com/Proton-105/lastcall/pkg/redis"
	"github.com/Proton-105/lastcall/pkg/shutdown"

	_ "github.com/lib/pq"
)

func main() {
	dumpConfig := flag.Bool("dump-config", false, "print the effective configuration and exit")
	flag.Parse()

	cfg, v, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	if *dumpConfig {
		out, err := cfg.Dump()
		if err != nil {
			fmt.Fprintf(os.Stderr, "dump config: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
		return
	}

	log := logger.New(cfg.Log)

	if cfg.Sentry.Enabled {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		})
		if err != nil {
			log.Error("sentry init failed", slog.Any("error", err))
			os.Exit(1)
		}
	}

	signals, err := cfg.Shutdown.ParseSignals()
	if err != nil {
		log.Error("invalid shutdown signals", slog.Any("error", err))
		os.Exit(1)
	}

	coord := shutdown.New(shutdown.Config{
		Signals:         signals,
		Logger:          log,
		PerHookTimeout:  cfg.Shutdown.PerHookTimeout,
		ShutdownTimeout: cfg.Shutdown.GlobalTimeout,
		OnTrigger:       metrics.RecordTrigger,
		OnHookResult: func(r shutdown.HookResult) {
			metrics.RecordHook(r.Name, string(r.Status), r.Duration)
		},
		OnComplete: metrics.RecordShutdown,
	})
	defer coord.Disconnect()

	startCtx := context.Background()
	checker := health.NewChecker(log)

	var db *sql.DB
	if cfg.DB.Enabled {
		db, err = sql.Open("postgres", cfg.DB.DSN())
		if err != nil {
			log.Error("open database", slog.Any("error", err))
			os.Exit(1)
		}
		if err := db.PingContext(startCtx); err != nil {
			log.Error("ping database", slog.Any("error", err))
			os.Exit(1)
		}
		checker.AddCheck("postgres", health.Database(db))
	}

	var rdb *lastcallredis.Client
	if cfg.Redis.Enabled {
		rdb, err = lastcallredis.New(startCtx, lastcallredis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Error("connect redis", slog.Any("error", err))
			os.Exit(1)
		}
		checker.AddCheck("redis", rdb)
	}

	var worker *jobs.Worker
	if cfg.Jobs.Enabled {
		worker = jobs.NewWorker(cfg.Redis.Addr, cfg.Jobs.Concurrency, cfg.Jobs.Queues, log)
		worker.Handle(jobs.TypeHeartbeat, jobs.HandleHeartbeat(log))
		if err := worker.Start(); err != nil {
			log.Error("start job worker", slog.Any("error", err))
			os.Exit(1)
		}
	}

	var notifier *notify.Telegram
	if cfg.Telegram.Enabled {
		notifier, err = notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, log)
		if err != nil {
			log.Error("telegram init failed", slog.Any("error", err))
			os.Exit(1)
		}
	}

	srv := server.New(log, cfg.HTTP.Addr, cfg.HTTP.ShutdownTimeout, checker.Handler())
	if err := srv.Start(); err != nil {
		log.Error("start http server", slog.Any("error", err))
		os.Exit(1)
	}

	// Hooks run in registration order: stop serving first, close backends
	// last so draining requests can still reach them.
	coord.AddHook("http-server", srv.Shutdown)
	if worker != nil {
		coord.AddHook("job-worker", worker.Shutdown)
	}
	if notifier != nil {
		coord.AddHook("notify-operator", notifier.NotifyShutdown)
	}
	if rdb != nil {
		coord.AddHook("redis", func(context.Context) error { return rdb.Close() })
	}
	if db != nil {
		coord.AddHook("postgres", func(context.Context) error { return db.Close() })
	}
	if cfg.Sentry.Enabled {
		coord.AddHook("sentry-flush", func(context.Context) error {
			if !sentry.Flush(2 * time.Second) {
				return errors.New("sentry flush timed out")
			}
			return nil
		})
	}

	metrics.SetRegisteredHooks(coord.HookCount())

	config.Watch(v, log, func(*config.Config) {
		log.Warn("configuration changed on disk, restart to apply")
	})

	log.Info("lastcall daemon started",
		slog.String("env", cfg.AppEnv),
		slog.String("addr", srv.Addr()),
		slog.Int("hooks", coord.HookCount()),
	)

	<-coord.Context().Done()

	// The coordinator exits the process once the hook sequence finishes.
	select {}
}
