package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/aryankumar/fleetdeck/internal/cluster"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the session to panels over HTTP
type Server struct {
	logger     *slog.Logger
	session    *cluster.Session
	address    string
	server     *http.Server
	ready      chan struct{}
	inShutdown atomic.Bool
}

// New creates a server bound to address. Nothing listens until Start.
func New(logger *slog.Logger, session *cluster.Session, address string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if address == "" {
		address = defaultAddress
	}

	return &Server{
		logger:  logger,
		session: session,
		address: address,
		ready:   make(chan struct{}),
	}
}

// Routes builds the router
func (s *Server) Routes() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(s.logRequests)

	router.Get("/-/healthz", s.handleHealthz)
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/contexts", s.handleListContexts)
		r.Put("/contexts/current", s.handleSwitchContext)
		r.Delete("/contexts/{name}", s.handleRemoveContext)

		r.Post("/sweeps", s.handleSweep)
		r.Get("/sweeps/latest", s.handleLatestSweep)

		r.Get("/metrics", s.handleAggregateMetrics)

		r.Delete("/resources/{kind}/{namespace}/{name}", s.handleDeleteResource)

		r.Route("/namespaces/{namespace}/deployments/{name}", func(r chi.Router) {
			r.Get("/revisions", s.handleRevisions)
			r.Post("/rollback", s.handleRollback)
			r.Post("/pause", s.handlePause)
			r.Post("/resume", s.handleResume)
			r.Post("/restart", s.handleRestart)
		})
	})

	return router
}

// Start listens on the configured address and serves in a goroutine
func (s *Server) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "http server is shutting down, skipping start")
		return nil
	}

	s.server = &http.Server{
		Addr:              s.address,
		Handler:           s.Routes(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}

	lc := &net.ListenConfig{
		KeepAliveConfig: net.KeepAliveConfig{Enable: true},
	}

	listener, err := lc.Listen(ctx, "tcp", s.address)
	if err != nil {
		return fmt.Errorf("listen tcp %s: %w", s.address, err)
	}

	s.logger.InfoContext(ctx, "http server listening", "addr", listener.Addr().String())

	go func() {
		close(s.ready)

		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.ErrorContext(ctx, "http server error", "error", err)
		}
	}()

	return nil
}

// Ready is closed once the server accepts connections
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		return nil
	}

	s.logger.InfoContext(ctx, "shutting down http server")

	if s.server == nil {
		return nil
	}

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	s.logger.InfoContext(ctx, "http server closed")
	return nil
}

// logRequests logs each request through slog
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.DebugContext(r.Context(), "request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"traceID", middleware.GetReqID(r.Context()))
	})
}
