// Package api implements the HTTP API: the consumer-facing price lookup
// plus observability and utility endpoints.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sammenlign/pricefeed/internal/config/server"
	"github.com/sammenlign/pricefeed/internal/logger"
)

// Server wraps the gin engine and the underlying http.Server.
type Server struct {
	engine  *gin.Engine
	httpSrv *http.Server
	log     logger.Interface
}

// Handlers groups the route handlers the server mounts.
type Handlers struct {
	Prices   *PricesHandler
	Offers   *OffersHandler
	Jobs     *JobsHandler
	Health   *HealthHandler
	Clicks   *ClicksHandler
	URLCheck *URLCheckHandler
}

// NewServer creates the HTTP server and mounts all routes.
func NewServer(cfg *server.Config, h Handlers, debug bool, log logger.Interface) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	setupRoutes(engine, h)

	return &Server{
		engine: engine,
		httpSrv: &http.Server{
			Addr:         cfg.Address,
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: log.WithComponent("api"),
	}
}

// setupRoutes configures all API routes.
func setupRoutes(router *gin.Engine, h Handlers) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/prices/:provider", h.Prices.GetPrice)
		v1.GET("/offers", h.Offers.ListOffers)
		v1.GET("/jobs", h.Jobs.ListJobs)
		v1.GET("/jobs/stale-running", h.Jobs.ListStaleRunning)
		v1.GET("/providers/:provider/health", h.Health.GetProviderHealth)
		v1.GET("/providers/health", h.Health.ListProviderHealth)
		v1.POST("/clicks", h.Clicks.LogClick)
		v1.POST("/urlcheck", h.URLCheck.ValidateBatch)
	}
}

// Start runs the server until it fails or is shut down.
func (s *Server) Start() error {
	s.log.Info("Starting API server", "address", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown drains the server within the given context's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Stopping API server")
	return s.httpSrv.Shutdown(ctx)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
