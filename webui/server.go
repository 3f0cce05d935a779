package webui

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// AuthProvider supplies session authentication and the account endpoints.
// Implemented by auth.Middleware; defined here so webui does not import the
// auth package (auth imports webui for the session store).
type AuthProvider interface {
	// Middleware rejects requests without a valid session and stashes the
	// username in the request context.
	Middleware(next http.Handler) http.Handler
	LoginHandler() http.HandlerFunc
	RegisterHandler() http.HandlerFunc
	LogoutHandler() http.HandlerFunc
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// AITimeout bounds each upstream LLM call.
	AITimeout time.Duration

	// MaxUploadBytes caps the describe endpoint's multipart body.
	MaxUploadBytes int64

	// MaxImageEdge is the downscale bound for uploaded images.
	MaxImageEdge int
}

// DefaultServerConfig returns a ServerConfig with production defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            "0.0.0.0:3000",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    120 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		AITimeout:       90 * time.Second,
		MaxUploadBytes:  10 << 20,
		MaxImageEdge:    1024,
	}
}

// Server is the HTTP front of the application. It wires the chat client,
// the favorites store and the auth provider behind a ServeMux with request
// logging.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	config     ServerConfig
	logger     *zap.Logger

	chat      ChatClient
	favorites FavoritesStore
	auth      AuthProvider

	aiTimeout      time.Duration
	maxUploadBytes int64
	maxImageEdge   int
}

// NewServer creates a Server. The auth provider may be nil, which leaves
// the favorites endpoints unauthenticated (useful in tests and local dev).
func NewServer(config ServerConfig, chat ChatClient, favorites FavoritesStore, auth AuthProvider, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		mux:            http.NewServeMux(),
		config:         config,
		logger:         logger,
		chat:           chat,
		favorites:      favorites,
		auth:           auth,
		aiTimeout:      config.AITimeout,
		maxUploadBytes: config.MaxUploadBytes,
		maxImageEdge:   config.MaxImageEdge,
	}
	s.setupRoutes()

	loggingMw := NewLoggingMiddleware(logger, []string{"/api/health"})
	s.httpServer = &http.Server{
		Addr:         config.Addr,
		Handler:      loggingMw.Handler(s.mux),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	logger.Info("server created",
		zap.String("addr", config.Addr),
		zap.Bool("auth_enabled", auth != nil),
	)
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/modes", s.handleModes)
	s.mux.HandleFunc("/api/generate", s.handleGenerate)
	s.mux.HandleFunc("/api/describe", s.handleDescribe)

	s.mux.Handle("/api/favorites", s.protect(http.HandlerFunc(s.handleFavorites)))
	s.mux.Handle("/api/favorites/", s.protect(http.HandlerFunc(s.handleFavoriteByID)))

	if s.auth != nil {
		s.mux.HandleFunc("/api/login", s.auth.LoginHandler())
		s.mux.HandleFunc("/api/register", s.auth.RegisterHandler())
		s.mux.HandleFunc("/api/logout", s.auth.LogoutHandler())
	}
}

// protect wraps a handler with session auth when an auth provider is set.
func (s *Server) protect(next http.Handler) http.Handler {
	if s.auth != nil {
		return s.auth.Middleware(next)
	}
	return next
}

// Start listens until the server is shut down. Blocks.
func (s *Server) Start() error {
	s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown error: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Handler exposes the wrapped mux for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
