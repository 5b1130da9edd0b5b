package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stratiq/ai-service/internal/application/analysis"
	"go.uber.org/zap"
)

// Server represents the HTTP API server
type Server struct {
	router   *gin.Engine
	server   *http.Server
	analysis *analysis.Service
	logger   *zap.Logger

	maxBodyBytes int64
	// paths holds every mounted route path, filled once by setupRoutes.
	paths map[string]bool
}

// Config holds HTTP server configuration
type Config struct {
	Host string
	Port int

	Analysis *analysis.Service

	// Metrics records per-request metrics when set.
	Metrics HTTPMetrics
	// MetricsHandler is mounted on /metrics when set.
	MetricsHandler http.Handler

	CORS         CORSConfig
	MaxBodyBytes int64

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	Logger *zap.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	svc := cfg.Analysis
	if svc == nil {
		svc = analysis.NewService(nil, logger)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	s := &Server{
		router:       router,
		analysis:     svc,
		logger:       logger,
		maxBodyBytes: cfg.MaxBodyBytes,
	}

	router.Use(requestID())
	router.Use(requestLogger(logger))
	if cfg.Metrics != nil {
		router.Use(requestMetrics(cfg.Metrics))
	}
	router.Use(recovery(logger))
	router.Use(corsMiddleware(cfg.CORS, s.isMounted))

	s.setupRoutes(cfg.MetricsHandler)

	s.server = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// setupRoutes configures API routes
func (s *Server) setupRoutes(metricsHandler http.Handler) {
	s.router.GET("/", s.handleRoot)
	s.router.GET("/health", s.handleHealth)

	if metricsHandler != nil {
		s.router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	// Feature endpoints
	s.router.POST(PathStrategyAnalyze, s.withBodyLimit(s.handleAnalyzeStrategy)...)
	s.router.GET(PathRecallInsights, s.handleRecallInsights)
	s.router.POST(PathRiskCalculate, s.withBodyLimit(s.handleCalculateRisk)...)
	s.router.GET(PathMarketSentiment, s.handleMarketSentiment)

	s.router.NoRoute(handleNotFound)
	s.router.NoMethod(handleMethodNotAllowed)

	s.paths = make(map[string]bool)
	for _, route := range s.router.Routes() {
		s.paths[route.Path] = true
	}
}

// withBodyLimit prefixes a body-reading handler with the configured size cap
func (s *Server) withBodyLimit(handler gin.HandlerFunc) []gin.HandlerFunc {
	if s.maxBodyBytes <= 0 {
		return []gin.HandlerFunc{handler}
	}
	return []gin.HandlerFunc{bodyLimit(s.maxBodyBytes), handler}
}

func (s *Server) isMounted(path string) bool {
	return s.paths[path]
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Serve accepts connections on an existing listener
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("serving HTTP", zap.String("addr", ln.Addr().String()))

	if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to serve HTTP: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server shut down complete")
	return nil
}
