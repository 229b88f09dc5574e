package http

import (
	"context"
	"errors"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/joshdurbin/url-shortener-dashboard/internal/config"
	"github.com/joshdurbin/url-shortener-dashboard/internal/session"
)

// Server represents the HTTP server
type Server struct {
	handler *Handler
	server  *http.Server
	port    string
	logger  *zap.Logger
}

// NewServer creates a new HTTP server. metricsHandler may be nil when the
// Prometheus endpoint is disabled.
func NewServer(cfg *config.Config, handler *Handler, gate *session.Gate, metricsHandler http.Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := NewRouter(handler)
	if metricsHandler != nil && cfg.Metrics.Enabled {
		mux.Handle("GET "+cfg.Metrics.Path, metricsHandler)
	}

	finalHandler := Chain(mux,
		RequestID,
		NewLoggingMiddleware(logger, cfg.Logging.Verbose).Middleware,
		Recovery(logger),
		gate.Middleware,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      finalHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		handler: handler,
		server:  server,
		port:    cfg.Server.Port,
		logger:  logger,
	}
}

// NewRouter registers the page, API and health routes
func NewRouter(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /login", h.LoginPage)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /signup", h.SignupPage)
	mux.HandleFunc("POST /signup", h.Signup)
	mux.HandleFunc("GET /dashboard", h.DashboardPage)
	mux.HandleFunc("POST /dashboard/delete/{code}", h.DeleteLink)
	mux.HandleFunc("GET /create", h.CreatePage)
	mux.HandleFunc("POST /create", h.CreateLink)
	mux.HandleFunc("GET /metrics", h.MetricsPage)
	mux.HandleFunc("GET /settings", h.SettingsPage)
	mux.HandleFunc("POST /settings/theme", h.Theme)
	mux.HandleFunc("POST /logout", h.Logout)

	// API endpoints
	mux.HandleFunc("GET /api/links", h.APIListLinks)
	mux.HandleFunc("POST /api/links", h.APICreateLink)
	mux.HandleFunc("DELETE /api/links/{code}", h.APIDeleteLink)
	mux.HandleFunc("GET /api/metrics", h.APIMetrics)

	mux.HandleFunc("GET /healthz", h.Health)

	return mux
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("server starting", zap.String("port", s.port))
	return s.server.ListenAndServe()
}

// Serve accepts connections on ln until Shutdown is called
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("server starting", zap.String("addr", ln.Addr().String()))
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.server.Addr
}

// Handler returns the fully wrapped HTTP handler (useful for testing)
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
