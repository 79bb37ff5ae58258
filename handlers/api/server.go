package api

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/santhosh-thouda/podcast-summarizer/config"
	"github.com/santhosh-thouda/podcast-summarizer/middleware"
	"github.com/santhosh-thouda/podcast-summarizer/models"
	"github.com/santhosh-thouda/podcast-summarizer/services/summarize"
	"github.com/sirupsen/logrus"
)

// Server serves the summarization API.
type Server struct {
	summarize *SummarizeHandler
	config    *config.Config
	logger    *logrus.Logger
	server    *http.Server
	startTime time.Time
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// NewServer creates the API server. WithServices must be among the options.
func NewServer(cfg *config.Config, opts ...ServerOption) *Server {
	s := &Server{
		config:    cfg,
		logger:    logrus.StandardLogger(),
		startTime: time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// WithServices sets up the handlers with the provided services
func WithServices(summarizeSvc summarize.Service) ServerOption {
	return func(s *Server) {
		s.summarize = NewSummarizeHandler(summarizeSvc)
	}
}

// WithLogger sets a custom logger for the server
func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// Handler returns the routed handler with the middleware stack applied.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.WithField("port", s.config.ServerPort).Info("Starting server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// routes sets up all the routes for the API
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /summarize", s.summarize.HandleSummarize)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.middleware(mux)
}

// middleware sets up the middleware chain
func (s *Server) middleware(handler http.Handler) http.Handler {
	middlewares := []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.Logging(s.logger),
		middleware.Recovery(s.logger),
		middleware.CORS(s.config.CORS),
	}

	if s.config.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			s.config.RateLimit.RequestsPerMinute,
			s.config.RateLimit.BurstSize,
		)
		middlewares = append(middlewares, limiter.Middleware)
	}

	middlewares = append(middlewares,
		middleware.BodyLimit(s.config.MaxUploadBytes),
		middleware.Timeout(s.config.RequestTimeout),
	)

	return middleware.Chain(handler, middlewares...)
}

type healthDebug struct {
	models.HealthResponse
	Goroutines int    `json:"goroutines"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	GCCycles   uint32 `json:"gc_cycles"`
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := models.HealthResponse{
		Status:  "ok",
		Version: s.config.Version,
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
	}

	if !s.config.Debug {
		respondJSON(w, r, http.StatusOK, status)
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	respondJSON(w, r, http.StatusOK, healthDebug{
		HealthResponse: status,
		Goroutines:     runtime.NumGoroutine(),
		HeapAlloc:      m.HeapAlloc,
		GCCycles:       m.NumGC,
	})
}
