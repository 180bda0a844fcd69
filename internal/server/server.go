// Package server hosts the diagnostics HTTP endpoints (/healthz, /metrics)
// and hands the coordinator a ready-made shutdown hook.
package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Proton-105/lastcall/pkg/logger"
)

// Server wraps http.Server for the diagnostics endpoints. Its Shutdown
// method has the shutdown.HookFunc signature and is registered with the
// coordinator directly.
type Server struct {
	httpServer      *http.Server
	log             *slog.Logger
	shutdownTimeout time.Duration
	addr            string
}

// New builds the diagnostics server. The health handler is mounted at
// /healthz and Prometheus metrics at /metrics.
func New(log *slog.Logger, addr string, shutdownTimeout time.Duration, health http.Handler) *Server {
	if log == nil {
		log = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", health)
	mux.Handle("/metrics", promhttp.Handler())

	handler := logger.Middleware(requestLogger(log)(mux))

	return &Server{
		httpServer:      &http.Server{Addr: addr, Handler: handler},
		log:             log,
		shutdownTimeout: shutdownTimeout,
	}
}

// Start binds the listen address and serves in the background. Serve errors
// other than http.ErrServerClosed are logged, not returned; the coordinator
// owns process termination.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.addr = ln.Addr().String()

	s.log.Info("http server listening", slog.String("addr", s.addr))

	go func() {
		err := s.httpServer.Serve(ln)
		if err != nil && err != http.ErrServerClosed {
			s.log.Error("http server error", slog.Any("error", err))
		}
	}()

	return nil
}

// Addr returns the bound listen address, useful when Start was given ":0".
func (s *Server) Addr() string {
	return s.addr
}

// Shutdown drains in-flight requests, bounded by the configured shutdown
// timeout when it is tighter than the hook budget in ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
	}

	s.log.Info("shutting down http server", slog.String("addr", s.addr))

	return s.httpServer.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger logs each request with its correlation identifier.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			log.Debug("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", recorder.status),
				slog.String("correlation_id", logger.CorrelationIDFromContext(r.Context())),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
