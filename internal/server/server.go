// Package server provides the HTTP server implementation.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/rental-inventory/internal/config"
	"github.com/vyrodovalexey/rental-inventory/internal/handler"
	"github.com/vyrodovalexey/rental-inventory/internal/middleware"
	"github.com/vyrodovalexey/rental-inventory/web"
)

// writeTimeout covers an add-item request, which waits for description
// generation before responding.
const writeTimeout = 60 * time.Second

// Dependencies are the application services the server exposes.
type Dependencies struct {
	Inventory handler.Inventory
	Toasts    handler.ToastSource
}

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	probeServer *http.Server
	router      *mux.Router
	probeRouter *mux.Router
	config      *config.Config
	logger      *zap.Logger
	wsHandler   *handler.WebSocketHandler
	initErr     error
}

// New creates a new Server instance. Errors found while building the
// routes are reported by Start.
func New(cfg *config.Config, logger *zap.Logger, deps Dependencies) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		probeRouter: mux.NewRouter(),
		config:      cfg,
		logger:      logger,
	}

	s.setupMiddleware()
	s.setupRoutes(deps)
	s.setupProbeRoutes(deps)
	s.setupHTTPServer()

	return s
}

// setupMiddleware configures the middleware chain.
func (s *Server) setupMiddleware() {
	allowedOrigins := []string{"*"}
	allowedMethods := []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodDelete,
		http.MethodOptions,
	}
	allowedHeaders := []string{
		"Content-Type",
		middleware.RequestIDHeader,
	}

	// Apply middleware in order (first applied = outermost)
	s.router.Use(mux.MiddlewareFunc(middleware.Recovery(s.logger)))
	s.router.Use(mux.MiddlewareFunc(middleware.RequestID()))

	if s.config.MetricsEnabled {
		s.router.Use(mux.MiddlewareFunc(middleware.Metrics()))
	}

	s.router.Use(mux.MiddlewareFunc(middleware.Logging(s.logger)))
	s.router.Use(mux.MiddlewareFunc(middleware.MaxBodySize(s.config.MaxUploadBytes)))
	s.router.Use(mux.MiddlewareFunc(middleware.CORS(allowedOrigins, allowedMethods, allowedHeaders)))
}

// setupRoutes configures the page, API and WebSocket routes.
func (s *Server) setupRoutes(deps Dependencies) {
	handler.NewAPIHandler(deps.Inventory, s.logger).RegisterRoutes(s.router)

	s.wsHandler = handler.NewWebSocketHandler(deps.Toasts, s.logger)
	s.wsHandler.RegisterRoutes(s.router)

	if s.config.MetricsEnabled {
		s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	templates, err := handler.LoadTemplates()
	if err != nil {
		s.initErr = fmt.Errorf("loading templates: %w", err)
		return
	}

	static, err := web.StaticFS()
	if err != nil {
		s.logger.Warn("static assets unavailable", zap.Error(err))
	}

	handler.NewWebHandler(deps.Inventory, templates, static, s.logger).RegisterRoutes(s.router)
}

// setupProbeRoutes configures the probe router. Probes bypass the
// application middleware.
func (s *Server) setupProbeRoutes(deps Dependencies) {
	api := handler.NewAPIHandler(deps.Inventory, s.logger)
	s.probeRouter.HandleFunc("/health", api.HealthCheck).Methods(http.MethodGet)
	s.probeRouter.HandleFunc("/ready", api.ReadyCheck).Methods(http.MethodGet)

	if s.config.MetricsEnabled {
		s.probeRouter.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}
}

// setupHTTPServer configures the application and probe servers.
func (s *Server) setupHTTPServer() {
	s.httpServer = &http.Server{
		Addr:              s.config.Address(),
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	if s.config.ProbePort > 0 {
		s.probeServer = &http.Server{
			Addr:              s.config.ProbeAddress(),
			Handler:           s.probeRouter,
			ReadTimeout:       5 * time.Second,
			ReadHeaderTimeout: 2 * time.Second,
			WriteTimeout:      5 * time.Second,
			IdleTimeout:       30 * time.Second,
			MaxHeaderBytes:    1 << 20,
		}
	}
}

// Start starts the HTTP server and, when configured, the probe server in
// the background. It blocks until the application server stops.
func (s *Server) Start() error {
	if s.initErr != nil {
		return s.initErr
	}

	if s.probeServer != nil {
		s.logger.Info("starting probe server", zap.String("address", s.config.ProbeAddress()))
		go func() {
			if err := s.probeServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("probe server failed", zap.Error(err))
			}
		}()
	}

	s.logger.Info("starting server",
		zap.String("address", s.config.Address()),
		zap.Bool("metrics_enabled", s.config.MetricsEnabled),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server listen and serve: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	// Close all WebSocket connections first
	if s.wsHandler != nil {
		s.wsHandler.CloseAllConnections()
	}

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}
	if s.probeServer != nil {
		if err := s.probeServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("probe server shutdown: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Router returns the server's router for testing purposes.
func (s *Server) Router() *mux.Router {
	return s.router
}

// ProbeRouter returns the probe router for testing purposes.
func (s *Server) ProbeRouter() *mux.Router {
	return s.probeRouter
}
