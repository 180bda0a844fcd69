// Package metrics exposes Prometheus collectors for the shutdown lifecycle.
// The Record functions are wired to the coordinator's observer callbacks.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	shutdownTriggersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shutdown_triggers_total",
			Help: "Total number of shutdown triggers labeled by signal",
		},
		[]string{"signal"},
	)
	shutdownHooksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shutdown_hooks_total",
			Help: "Shutdown hook outcomes labeled by hook and status",
		},
		[]string{"hook", "status"},
	)
	hookDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shutdown_hook_duration_seconds",
			Help:    "Duration of individual shutdown hooks in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"hook"},
	)
	shutdownDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shutdown_duration_seconds",
			Help:    "Total duration of the shutdown sequence in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	shutdownExitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shutdown_exits_total",
			Help: "Process exits performed by the coordinator labeled by signal and code",
		},
		[]string{"signal", "code"},
	)
	registeredHooks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shutdown_registered_hooks",
			Help: "Current number of registered shutdown hooks",
		},
	)
)

// RecordTrigger counts a shutdown trigger by signal identity.
func RecordTrigger(signal string) {
	if signal == "" {
		signal = "unknown"
	}

	shutdownTriggersTotal.WithLabelValues(signal).Inc()
}

// RecordHook counts a hook outcome and records its duration.
func RecordHook(hook, status string, duration time.Duration) {
	if hook == "" {
		hook = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	shutdownHooksTotal.WithLabelValues(hook, status).Inc()
	hookDurationSeconds.WithLabelValues(hook).Observe(duration.Seconds())
}

// RecordShutdown records the completed sequence duration and the exit code.
// Scraping this before the process exits requires push-style collection; the
// counters still make single-run outcomes visible in tests and logs.
func RecordShutdown(signal string, total time.Duration, code int) {
	if signal == "" {
		signal = "unknown"
	}

	shutdownDurationSeconds.Observe(total.Seconds())
	shutdownExitsTotal.WithLabelValues(signal, strconv.Itoa(code)).Inc()
}

// SetRegisteredHooks updates the registered-hook gauge.
func SetRegisteredHooks(count int) {
	registeredHooks.Set(float64(count))
}
