// Package shutdown coordinates graceful process termination. A Coordinator
// intercepts termination signals and unhandled fatal errors, runs registered
// cleanup hooks sequentially in registration order under per-hook and global
// time budgets, and exits the process with a status code derived from the
// collected outcomes. The first trigger wins; later triggers while a shutdown
// is in flight are logged and ignored.
package shutdown

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Coordinator owns the hook registry, the one-shot cancellation context and
// the signal subscriptions. Construct one per process with New.
type Coordinator struct {
	cfg Config
	log *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	hooks []Hook

	shuttingDown atomic.Bool

	sigCh          chan os.Signal
	stopCh         chan struct{}
	disconnectOnce sync.Once
}

// New builds a Coordinator, subscribes it to the configured signals and
// starts watching for triggers. Construction cannot fail.
func New(cfg Config) *Coordinator {
	cfg = cfg.withDefaults()

	ctx, cancel := context.WithCancel(context.Background())

	c := &Coordinator{
		cfg:    cfg,
		log:    cfg.Logger,
		ctx:    ctx,
		cancel: cancel,
		sigCh:  make(chan os.Signal, len(cfg.Signals)),
		stopCh: make(chan struct{}),
	}

	c.cfg.notify(c.sigCh, cfg.Signals...)
	go c.watch()

	return c
}

// AddHook appends a named hook to the registry. Hooks run in registration
// order. Registering after shutdown has begun is permitted but has no effect
// on the in-flight run.
func (c *Coordinator) AddHook(name string, fn HookFunc) {
	if fn == nil {
		return
	}

	c.mu.Lock()
	c.hooks = append(c.hooks, Hook{Name: name, Fn: fn})
	c.mu.Unlock()

	c.log.Info("registered shutdown hook", slog.String("hook", name))
}

// Context returns the cancellation context. It is cancelled exactly once,
// when the shutdown sequence begins, and is never reset. Downstream code can
// watch it to abort in-flight work.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// HookCount reports the current registry length.
func (c *Coordinator) HookCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.hooks)
}

// Disconnect unsubscribes the coordinator from all signal delivery and stops
// the trigger watcher. Idempotent. It does not clear the registry or reset
// shutdown state.
func (c *Coordinator) Disconnect() {
	c.disconnectOnce.Do(func() {
		c.cfg.stop(c.sigCh)
		close(c.stopCh)
	})
}

// Fatal treats err as an unhandled fatal error: it logs the error and funnels
// it into the shutdown sequence under the synthetic FatalSignal identity.
func (c *Coordinator) Fatal(err error) {
	c.log.Error("unhandled fatal error", slog.Any("error", err))
	c.handleSignal(FatalSignal)
}

// Recover bridges panics into the fatal trigger path. Use it deferred at the
// top of goroutines whose failure should take the process down cleanly:
//
//	defer coord.Recover()
func (c *Coordinator) Recover() {
	r := recover()
	if r == nil {
		return
	}

	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", r)
	}

	c.Fatal(err)
}

func (c *Coordinator) watch() {
	for {
		select {
		case sig := <-c.sigCh:
			go c.handleSignal(sig)
		case <-c.stopCh:
			return
		}
	}
}

// handleSignal is the trigger state machine. The CAS latch makes it safe for
// concurrent triggers: the first caller runs the whole sequence, everyone
// else logs and returns.
func (c *Coordinator) handleSignal(sig os.Signal) {
	if !c.shuttingDown.CompareAndSwap(false, true) {
		c.log.Warn("ignoring signal, shutdown already in progress", slog.String("signal", sig.String()))
		return
	}

	c.log.Info("processing exit signal", slog.String("signal", sig.String()))

	if c.cfg.OnTrigger != nil {
		c.cfg.OnTrigger(sig.String())
	}

	start := time.Now()
	c.cancel()

	// One deadline for the whole sequence. Once it expires, Done stays
	// closed, so every remaining hook race resolves immediately.
	deadline, cancelDeadline := context.WithTimeout(context.Background(), c.cfg.ShutdownTimeout)
	defer cancelDeadline()

	c.mu.Lock()
	hooks := append([]Hook(nil), c.hooks...)
	c.mu.Unlock()

	var hadError, forceExit bool

	for _, h := range hooks {
		c.log.Info("processing shutdown hook", slog.String("hook", h.Name))

		res := c.runHook(deadline, h)
		res.Name = h.Name

		switch res.Status {
		case StatusOK:
			c.log.Info("shutdown hook completed", slog.String("hook", h.Name))
		case StatusTimeout:
			hadError = true
			c.log.Warn("shutdown hook timed out", slog.String("hook", h.Name))
		case StatusError:
			hadError = true
			c.log.Error("shutdown hook failed", slog.String("hook", h.Name), slog.Any("error", res.Err))
		case StatusSkipped:
			forceExit = true
		}

		if c.cfg.OnHookResult != nil {
			c.cfg.OnHookResult(res)
		}
	}

	c.log.Info("exit signal processing completed", slog.String("signal", sig.String()))

	if hadError {
		c.log.Warn("some shutdown hooks did not complete gracefully")
	}
	if forceExit {
		c.log.Warn("global shutdown timeout reached, forcing exit")
	}

	code := 0
	if hadError || forceExit {
		code = 1
	}

	if c.cfg.OnComplete != nil {
		c.cfg.OnComplete(sig.String(), time.Since(start), code)
	}

	c.log.Info("process exiting", slog.Int("code", code))
	c.cfg.exit(code)
}

// runHook races one hook against its per-hook timer and the shared global
// deadline. A hung hook keeps running in the background once a timeout wins;
// the coordinator only stops waiting for it.
func (c *Coordinator) runHook(deadline context.Context, h Hook) HookResult {
	// Short-circuit without starting the hook once the global deadline has
	// already passed.
	select {
	case <-deadline.Done():
		return HookResult{Status: StatusSkipped, Err: ErrGlobalTimeout}
	default:
	}

	start := time.Now()

	hookCtx, cancelHook := context.WithTimeout(deadline, c.cfg.PerHookTimeout)
	defer cancelHook()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("hook panicked: %v", r)
			}
		}()
		done <- h.Fn(hookCtx)
	}()

	timer := time.NewTimer(c.cfg.PerHookTimeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			return HookResult{Status: StatusError, Duration: time.Since(start), Err: err}
		}
		return HookResult{Status: StatusOK, Duration: time.Since(start)}
	case <-timer.C:
		return HookResult{Status: StatusTimeout, Duration: time.Since(start), Err: ErrHookTimeout}
	case <-deadline.Done():
		return HookResult{Status: StatusSkipped, Duration: time.Since(start), Err: ErrGlobalTimeout}
	}
}
