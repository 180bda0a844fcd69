package shutdown

import (
	"context"
	"errors"
	"time"
)

// HookFunc is a cleanup operation executed during shutdown. The context
// carries the hook's time budget; honoring it is advisory, the coordinator
// never forcibly stops a running hook.
type HookFunc func(ctx context.Context) error

// Hook describes a named shutdown hook. Immutable once registered.
type Hook struct {
	Name string
	Fn   HookFunc
}

// HookStatus classifies the outcome of a single hook execution.
type HookStatus string

const (
	StatusOK      HookStatus = "ok"
	StatusError   HookStatus = "error"
	StatusTimeout HookStatus = "timeout"
	StatusSkipped HookStatus = "skipped"
)

// Sentinel errors carried in HookResult.Err for timeout outcomes. Hook
// failures carry the hook's own error instead.
var (
	ErrHookTimeout   = errors.New("shutdown hook timed out")
	ErrGlobalTimeout = errors.New("global shutdown timeout exceeded")
)

// HookResult reports the outcome of one hook to the OnHookResult observer.
type HookResult struct {
	Name     string
	Status   HookStatus
	Duration time.Duration
	Err      error
}
