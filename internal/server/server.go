package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"openroutersidebar/internal/cache"
	"openroutersidebar/internal/catalog"
	"openroutersidebar/internal/config"
	"openroutersidebar/internal/connect"
	"openroutersidebar/internal/core"
	"openroutersidebar/internal/metrics"
	"openroutersidebar/internal/storage"

	"github.com/gin-gonic/gin"
)

// Server application server
type Server struct {
	port    string
	ginMode string

	httpClient *http.Client
	router     *gin.Engine

	modelCache     *cache.LRUCache
	metricsService *metrics.MetricsService
	catalog        *catalog.Client
	manager        *connect.Manager
	sessions       core.SessionStore

	config config.ServerConfig

	rateLimiter *rateLimiter

	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

// NewServer creates a new server instance
func NewServer(cfg config.ServerConfig) (*Server, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required in ServerConfig")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session store is required in ServerConfig")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := createOptimizedHTTPClient(cfg.HTTPClientSettings)
	modelCache := cache.NewCache()
	metricsService := metrics.NewMetricsService(cfg.Logger)

	catalogClient := catalog.NewClient(catalog.ClientConfig{
		APIBase:    cfg.APIBase,
		HTTPClient: httpClient,
		Cache:      modelCache,
		CacheTTL:   cfg.ModelsCacheTTL,
		Metrics:    metricsService,
		Logger:     cfg.Logger,
	})

	manager, err := connect.NewManager(connect.ManagerConfig{
		Catalog:    catalogClient,
		Exchanger:  connect.NewExchanger(cfg.APIBase, httpClient, metricsService, cfg.Logger),
		ConnectURL: cfg.ConnectURL(),
		Logger:     cfg.Logger,
	})
	if err != nil {
		modelCache.Stop()
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}

	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = core.DefaultRateLimit
	}

	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	server := &Server{
		port:           cfg.Port,
		ginMode:        cfg.GinMode,
		httpClient:     httpClient,
		modelCache:     modelCache,
		metricsService: metricsService,
		catalog:        catalogClient,
		manager:        manager,
		sessions:       cfg.Sessions,
		config:         cfg,
		rateLimiter:    newRateLimiter(shutdownCtx, rateLimit),
		shutdownCtx:    shutdownCtx,
		shutdownCancel: shutdownCancel,
	}

	if err := server.setupRoutes(); err != nil {
		_ = server.Close()
		return nil, err
	}

	return server, nil
}

func createOptimizedHTTPClient(settings config.HTTPClientSettings) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          settings.MaxIdleConns,
		MaxIdleConnsPerHost:   settings.MaxIdleConnsPerHost,
		MaxConnsPerHost:       settings.MaxConnsPerHost,
		IdleConnTimeout:       settings.IdleConnTimeout,
		TLSHandshakeTimeout:   settings.TLSHandshakeTimeout,
		ExpectContinueTimeout: core.HTTPExpectContinueTimeout,
		ForceAttemptHTTP2:     true,
		ResponseHeaderTimeout: core.HTTPResponseHeaderTimeout,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   settings.RequestTimeout,
	}
}

// Handler exposes the router, mainly for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run runs the server
func (s *Server) Run() error {
	s.setupGracefulShutdown()

	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.config.HTTPClientSettings.RequestTimeout*2 + 10*time.Second,
	}

	go func() {
		<-s.shutdownCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			s.config.Logger.Error("Server shutdown error: %v", err)
		}
	}()

	s.config.Logger.Info("Server starting on port %s (public URL %s)", s.port, s.config.PublicURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (s *Server) setupGracefulShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-quit:
			s.config.Logger.Info("Shutdown signal received, shutting down gracefully...")
			s.shutdownCancel()
		case <-s.shutdownCtx.Done():
		}
		signal.Stop(quit)
	}()
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"sessionStore": storage.Kind(s.sessions),
	})
}

func (s *Server) getStatsData(c *gin.Context) {
	c.JSON(http.StatusOK, s.metricsService.Snapshot())
}

func (s *Server) secureCookies() bool {
	return strings.HasPrefix(s.config.PublicURL, "https://")
}

// Close releases background workers. The session store is owned by the caller.
func (s *Server) Close() error {
	if s.shutdownCancel != nil {
		s.shutdownCancel()
	}

	var closeErr error
	if s.modelCache != nil {
		if err := s.modelCache.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close model cache: %w", err))
		}
	}
	if s.httpClient != nil {
		s.httpClient.CloseIdleConnections()
	}
	return closeErr
}
