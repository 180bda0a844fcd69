// Package health aggregates component liveness probes and serves them over
// HTTP for the diagnostics endpoint.
package health

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
)

// Checkable represents a component that can report its health status.
type Checkable interface {
	HealthCheck(ctx context.Context) error
}

// CheckableFunc adapts a plain function to the Checkable interface.
type CheckableFunc func(ctx context.Context) error

// HealthCheck implements Checkable.
func (f CheckableFunc) HealthCheck(ctx context.Context) error {
	return f(ctx)
}

// Database adapts a *sql.DB to the Checkable interface.
func Database(db *sql.DB) Checkable {
	return CheckableFunc(func(ctx context.Context) error {
		return db.PingContext(ctx)
	})
}

// Checker aggregates health checks for multiple components.
type Checker struct {
	log    *slog.Logger
	checks map[string]Checkable
}

// NewChecker instantiates a Checker with the provided logger.
func NewChecker(log *slog.Logger) *Checker {
	if log == nil {
		log = slog.Default()
	}

	return &Checker{
		log:    log,
		checks: make(map[string]Checkable),
	}
}

// AddCheck registers a checkable component by name.
func (c *Checker) AddCheck(name string, check Checkable) {
	if name == "" || check == nil {
		return
	}

	c.checks[name] = check
}

// Check runs all registered health checks and returns per-component statuses
// plus whether every check passed.
func (c *Checker) Check(ctx context.Context) (map[string]string, bool) {
	results := make(map[string]string, len(c.checks))
	healthy := true

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := c.checks[name].HealthCheck(ctx); err != nil {
			results[name] = err.Error()
			healthy = false
			c.log.Error("health check failed", slog.String("component", name), slog.Any("error", err))
			continue
		}

		results[name] = "OK"
	}

	return results, healthy
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Handler serves the aggregate health status as JSON, responding 503 when
// any component check fails.
func (c *Checker) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		results, healthy := c.Check(r.Context())

		resp := healthResponse{Status: "ok", Checks: results}
		code := http.StatusOK
		if !healthy {
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			c.log.Error("encode health response", slog.Any("error", err))
		}
	})
}
