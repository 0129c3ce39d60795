// Package server exposes the alert webhook, direct signal queries, health
// and Prometheus metrics over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/assist-by/signalhub/internal/alert"
	"github.com/assist-by/signalhub/internal/logger"
)

const ServiceName = "signalhub"

// Options configures the HTTP server.
type Options struct {
	Host            string
	Port            int
	WebhookSecret   string
	ShutdownTimeout time.Duration
}

// Server wires the alert pipeline to HTTP routes.
type Server struct {
	opts    Options
	parser  *alert.Parser
	handler *alert.Handler
	router  *alert.Router
	now     func() time.Time
}

func New(opts Options, handler *alert.Handler, router *alert.Router) *Server {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		opts:    opts,
		parser:  alert.NewParser(),
		handler: handler,
		router:  router,
		now:     time.Now,
	}
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port))
}

// Handler builds the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(mux.MiddlewareFunc(MetricsMiddleware()))

	router.HandleFunc("/", s.Health).Methods(http.MethodGet)
	router.HandleFunc("/health", s.Health).Methods(http.MethodGet)
	router.HandleFunc("/webhook", s.Webhook).Methods(http.MethodPost)
	router.HandleFunc("/alert", s.Webhook).Methods(http.MethodPost)
	router.HandleFunc("/signal/{ticker}", s.Signal).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return ChainMiddleware(
		RecoveryMiddleware(),
		LoggingMiddleware(),
	)(router)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server",
			logger.String("addr", srv.Addr),
			logger.Any("channels", s.router.Channels()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
