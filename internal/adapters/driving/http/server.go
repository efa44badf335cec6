package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/custodia-labs/resumelens/internal/core/ports/driving"
)

// DefaultMaxUploadBytes bounds document uploads.
const DefaultMaxUploadBytes = 10 << 20

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	handler    http.Handler
	version    string
	maxUpload  int64
	logger     *slog.Logger

	// Services
	sessionService driving.SessionService
	docService     driving.DocumentService
	searchService  driving.SearchService
	ragService     driving.RAGService

	// Infrastructure
	runtimeConfig *domain.RuntimeConfig
	redisClient   Pinger // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Version        string
	CORSOrigins    []string
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8000,
		Version:        "dev",
		CORSOrigins:    []string{"http://localhost:3000"},
		MaxUploadBytes: DefaultMaxUploadBytes,
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	sessionService driving.SessionService,
	docService driving.DocumentService,
	searchService driving.SearchService,
	ragService driving.RAGService,
	runtimeConfig *domain.RuntimeConfig,
	redisClient Pinger, // can be nil
) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}

	s := &Server{
		router:         http.NewServeMux(),
		version:        cfg.Version,
		maxUpload:      maxUpload,
		logger:         logger.With("component", "http"),
		sessionService: sessionService,
		docService:     docService,
		searchService:  searchService,
		ragService:     ragService,
		runtimeConfig:  runtimeConfig,
		redisClient:    redisClient,
	}

	s.setupRoutes()

	// Outermost first: recover, log, then CORS.
	s.handler = NewRecoveryMiddleware(s.logger).Handler(
		NewLoggingMiddleware(s.logger).Handler(
			NewCORSMiddleware(cfg.CORSOrigins).Handler(s.router)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // RAG answers wait on the LLM
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health endpoints
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)
	s.router.HandleFunc("GET /swagger/doc.json", s.handleSwagger)

	// Session endpoints
	s.router.HandleFunc("POST /api/session/create", s.handleCreateSession)
	s.router.HandleFunc("GET /api/session/{id}", s.handleGetSession)
	s.router.HandleFunc("DELETE /api/session/{id}", s.handleDeleteSession)
	s.router.HandleFunc("GET /api/stats", s.handleStats)

	// Document pipeline
	s.router.HandleFunc("POST /api/document/extract", s.handleExtract)
	s.router.HandleFunc("POST /api/chunk", s.handleChunk)
	s.router.HandleFunc("POST /api/embed", s.handleEmbed)

	// Retrieval
	s.router.HandleFunc("POST /api/search", s.handleSearch)
	s.router.HandleFunc("POST /api/rag/chat", s.handleRAGChat)
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
