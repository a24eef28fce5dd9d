// Package http exposes the scan engine over a JSON HTTP API.
package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	scanService driving.ScanService
	authService driving.AuthService // nil disables auth entirely

	taskQueue driven.TaskQueue // optional, for readiness
	db        Pinger           // optional, for readiness
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string

	// AllowedOrigins for CORS; defaults to none.
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server. authService may be nil, in which case
// every endpoint is public; taskQueue and db may be nil and only affect the
// readiness check.
func NewServer(
	cfg Config,
	scanService driving.ScanService,
	authService driving.AuthService,
	taskQueue driven.TaskQueue,
	db Pinger,
) *Server {
	s := &Server{
		router:      http.NewServeMux(),
		version:     cfg.Version,
		scanService: scanService,
		authService: authService,
		taskQueue:   taskQueue,
		db:          db,
	}

	var handler http.Handler = s.router
	handler = NewCORSMiddleware(cfg.AllowedOrigins).Handler(handler)
	handler = NewLoggingMiddleware().Handler(handler)
	handler = NewRecoveryMiddleware().Handler(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // synchronous scans can be slow
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.authService)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Auth endpoint (public)
	s.router.HandleFunc("POST /api/v1/auth/login", s.handleLogin)

	// Scan endpoints
	s.router.Handle("POST /api/v1/scans",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleScan)))
	s.router.Handle("POST /api/v1/scans/async",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleScanAsync)))

	// Result endpoints
	s.router.Handle("GET /api/v1/results/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetResult)))
	s.router.Handle("GET /api/v1/results/{id}/export/{format}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleExportResult)))

	// Task endpoint
	s.router.Handle("GET /api/v1/tasks/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetTask)))

	// Registry endpoints
	s.router.Handle("GET /api/v1/companies/search",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleSearch)))
	s.router.Handle("GET /api/v1/rate-limit",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleRateLimit)))

	// Cache browsing endpoints
	s.router.Handle("GET /api/v1/cache/companies",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleCachedCompanies)))
	s.router.Handle("GET /api/v1/cache/companies/{number}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleCachedScans)))
}

// Handler returns the server's root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
