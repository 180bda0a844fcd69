package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
)

// TypeHeartbeat is the periodic no-op task the daemon uses to verify the
// worker pipeline end to end.
const TypeHeartbeat = "lastcall:heartbeat"

// NewHeartbeatTask builds a heartbeat task.
func NewHeartbeatTask() *asynq.Task {
	return asynq.NewTask(TypeHeartbeat, nil)
}

// HandleHeartbeat returns the handler for heartbeat tasks.
func HandleHeartbeat(log *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		log.Debug("heartbeat task processed", slog.String("type", t.Type()))
		return nil
	}
}
