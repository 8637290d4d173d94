package http

import (
	"context"
	"net/http"
	"time"

	"CacheFacade/internal/logger"
	"CacheFacade/internal/ratelimit"
	"CacheFacade/internal/telemetry"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server with all dependencies
type Server struct {
	handler  *Handler
	logger   logger.Service
	metrics  *telemetry.Metrics
	gatherer prometheus.Gatherer
	server   *http.Server
}

// ServerOption customises a Server
type ServerOption func(*Server)

// WithMetrics records request metrics in m and serves gatherer on /metrics
func WithMetrics(m *telemetry.Metrics, gatherer prometheus.Gatherer) ServerOption {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// NewServer creates a new HTTP server
func NewServer(
	addr string,
	handler *Handler,
	logger logger.Service,
	rateLimiter ratelimit.Service,
	readTimeout, writeTimeout time.Duration,
	opts ...ServerOption,
) *Server {
	router := mux.NewRouter()

	srv := &Server{
		handler: handler,
		logger:  logger,
		server: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
	}
	for _, opt := range opts {
		opt(srv)
	}

	// Register middleware (order matters: logging -> metrics -> rate limiting -> cors -> recovery)
	router.Use(loggingMiddleware(logger))
	if srv.metrics != nil {
		router.Use(metricsMiddleware(srv.metrics))
	}
	router.Use(rateLimitingMiddleware(rateLimiter, logger))
	router.Use(corsMiddleware())
	router.Use(recoveryMiddleware(logger))

	srv.registerRoutes(router)

	return srv
}

// registerRoutes sets up all API routes
func (s *Server) registerRoutes(router *mux.Router) {
	router.HandleFunc("/health", s.handler.HealthCheck).Methods("GET")
	if s.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/cache/{key}", s.handler.GetEntry).Methods("GET")
	api.HandleFunc("/cache/{key}", s.handler.AddEntry).Methods("POST")
	api.HandleFunc("/cache/{key}", s.handler.PutEntry).Methods("PUT")
	api.HandleFunc("/cache/{key}", s.handler.RemoveEntry).Methods("DELETE")
	api.HandleFunc("/cache/{key}/value", s.handler.GetValue).Methods("GET")
	api.HandleFunc("/cache/{key}/exists", s.handler.Exists).Methods("GET")
	api.HandleFunc("/counters/{key}/increment", s.handler.IncrementCounter).Methods("POST")

	// Preflight requests are answered by corsMiddleware
	router.PathPrefix("/").Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"Cache Facade API","version":"1.0.0","endpoints":["/health","/metrics","/api/cache/{key}","/api/cache/{key}/value","/api/cache/{key}/exists","/api/counters/{key}/increment"]}`))
	}).Methods("GET")
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.LogInfo(context.Background(), logger.OpServerStart, "Starting HTTP server", map[string]interface{}{
		"addr": s.server.Addr,
	})

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.LogInfo(ctx, logger.OpServerShutdown, "Shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}
