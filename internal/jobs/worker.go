// Package jobs runs the background task worker whose lifecycle is managed by
// the shutdown coordinator.
package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Worker owns an asynq server and its handler mux. Shutdown has the
// shutdown.HookFunc signature so it can be registered with the coordinator
// directly.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *slog.Logger
}

// NewWorker constructs a Worker processing tasks from the given Redis
// instance.
func NewWorker(redisAddr string, concurrency int, queues map[string]int, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.Default()
	}
	if concurrency <= 0 {
		concurrency = 10
	}
	if len(queues) == 0 {
		queues = map[string]int{"default": 1}
	}

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency:    concurrency,
			Queues:         queues,
			RetryDelayFunc: asynq.DefaultRetryDelayFunc,
		},
	)

	return &Worker{
		server: server,
		mux:    asynq.NewServeMux(),
		log:    log,
	}
}

// Handle wires a task type to the provided handler.
func (w *Worker) Handle(taskType string, handler asynq.Handler) {
	w.mux.Handle(taskType, handler)
}

// Start begins processing tasks in the background.
func (w *Worker) Start() error {
	w.log.Info("job worker starting")

	return w.server.Start(w.mux)
}

// Shutdown stops the worker, waiting for in-flight tasks to finish. The
// hook's time budget applies; asynq re-queues tasks that do not finish.
func (w *Worker) Shutdown(ctx context.Context) error {
	_ = ctx

	w.log.Info("job worker shutting down")
	w.server.Shutdown()

	return nil
}
