package shutdown

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// FatalSignal is the synthetic signal identity used when an unhandled fatal
// error, rather than an OS signal, triggers the shutdown sequence. Using a
// real signal keeps the audit trail uniform across trigger kinds.
const FatalSignal = syscall.SIGUSR2

const (
	DefaultPerHookTimeout  = 5 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// DefaultSignals returns the canonical set of termination signals the
// coordinator intercepts when none are configured.
func DefaultSignals() []os.Signal {
	return []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGABRT, syscall.SIGUSR2}
}

// Config configures a Coordinator. The zero value is usable: default signal
// set, silent logger, 5s per-hook budget, 10s global budget.
type Config struct {
	// Signals to intercept. Defaults to DefaultSignals().
	Signals []os.Signal

	// Logger receives the structured shutdown audit trail. Defaults to a
	// silent logger.
	Logger *slog.Logger

	// PerHookTimeout bounds a single hook's execution.
	PerHookTimeout time.Duration

	// ShutdownTimeout bounds the entire shutdown sequence. Once reached,
	// remaining hooks are skipped and the process exits with code 1.
	ShutdownTimeout time.Duration

	// OnTrigger is called once when a trigger starts the shutdown sequence.
	OnTrigger func(signal string)

	// OnHookResult is called after each hook's race settles.
	OnHookResult func(HookResult)

	// OnComplete is called with the trigger identity, total sequence
	// duration and exit code, immediately before the process exits.
	OnComplete func(signal string, total time.Duration, code int)

	// Test seams. Production code leaves these nil.
	exit   func(code int)
	notify func(c chan<- os.Signal, sig ...os.Signal)
	stop   func(c chan<- os.Signal)
}

func (c Config) withDefaults() Config {
	if len(c.Signals) == 0 {
		c.Signals = DefaultSignals()
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	if c.PerHookTimeout <= 0 {
		c.PerHookTimeout = DefaultPerHookTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.exit == nil {
		c.exit = os.Exit
	}
	if c.notify == nil {
		c.notify = signal.Notify
	}
	if c.stop == nil {
		c.stop = signal.Stop
	}
	return c
}
