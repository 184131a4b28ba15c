// Package http assembles the gin route tree and the HTTP server for the
// query-builder API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PatQuery-Bridge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatQuery-Bridge/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/PatQuery-Bridge/internal/interfaces/http/handlers"
	"github.com/turtacn/PatQuery-Bridge/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware dependencies the route
// tree needs.  Nil optional fields disable the corresponding feature.
type RouterConfig struct {
	QueryHandler  *handlers.QueryHandler
	HealthHandler *handlers.HealthHandler

	Logger           logging.Logger
	MetricsCollector prometheus.MetricsCollector
	AppMetrics       *prometheus.AppMetrics

	CORS        *middleware.CORSConfig
	RateLimiter middleware.RateLimiter
	RateLimit   middleware.RateLimitConfig

	// Mode selects the gin mode: debug, release, or test.
	Mode string
}

// NewRouter builds the full route tree: global middleware, public health and
// metrics endpoints, and the /api/v1/query group.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.Logger != nil {
		r.Use(middleware.Logging(cfg.Logger))
	}
	if cfg.AppMetrics != nil {
		r.Use(middleware.Metrics(cfg.AppMetrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter, cfg.RateLimit))
	}

	// Public probes.
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	// API v1.
	api := r.Group("/api/v1")
	if cfg.QueryHandler != nil {
		q := api.Group("/query")
		q.POST("/generate", cfg.QueryHandler.Generate)
		q.POST("/parse", cfg.QueryHandler.Parse)
		q.POST("/convert", cfg.QueryHandler.Convert)
		q.POST("/detect", cfg.QueryHandler.Detect)
	}

	return r
}

//Personal.AI order the ending
