// Package server exposes the librarian tool and resource registry over
// plain JSON HTTP. The agent-protocol framing itself is left to clients;
// this transport only carries tool invocations and resource reads.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"librarian/pkg/config"
	"librarian/pkg/librarian"
	"librarian/pkg/logger"
)

// Server serves the registry over HTTP
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	registry   *librarian.Registry
	logger     logger.Logger
}

// New creates a server for the given registry
func New(cfg config.ServerConfig, registry *librarian.Registry, log logger.Logger) *Server {
	if log == nil {
		log = logger.GetLogger()
	}

	s := &Server{
		registry: registry,
		logger:   log,
	}

	router := mux.NewRouter()
	router.Use(requestIDMiddleware)
	router.Use(loggingMiddleware(log))
	router.Use(recoveryMiddleware(log))

	router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	router.HandleFunc("/tools", s.handleListTools).Methods(http.MethodGet)
	router.HandleFunc("/tools/{name}", s.handleCallTool).Methods(http.MethodPost)

	router.HandleFunc("/resources", s.handleListResources).Methods(http.MethodGet)
	router.HandleFunc("/resources/read", s.handleReadResource).Methods(http.MethodGet)

	s.router = router
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// Handler returns the underlying router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving in a blocking call.
// Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.InfoWithFields("starting HTTP server", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
