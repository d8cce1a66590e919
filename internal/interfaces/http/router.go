// Package http assembles the gin engine for the public API: middleware
// chain, versioned routes, health probes, and the Prometheus scrape
// endpoint.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/metrics"
	"github.com/turtacn/RxGene-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/RxGene-Intelligence/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and cross-cutting dependencies the
// route tree needs. Nil handlers simply leave their routes unregistered,
// which keeps partial wiring possible in tests.
type RouterConfig struct {
	ResolutionHandler *handlers.ResolutionHandler
	QueryHandler      *handlers.QueryHandler
	HealthHandler     *handlers.HealthHandler

	MetricsHandler http.Handler
	AppMetrics     *metrics.AppMetrics

	CORS   middleware.CORSConfig
	Logger logging.Logger

	// Debug switches gin into debug mode; the default is release mode so
	// production logs stay clean.
	Debug bool
}

// NewRouter builds the complete engine. Middleware order matters: request
// ids come first so recovery and access logs can report them, and recovery
// wraps everything that can panic.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(logger, cfg.AppMetrics))
	engine.Use(middleware.AccessLog(logger, middleware.DefaultLoggingConfig()))
	engine.Use(middleware.CORS(cfg.CORS))
	engine.Use(middleware.Metrics(cfg.AppMetrics))

	if cfg.HealthHandler != nil {
		engine.GET("/healthz", cfg.HealthHandler.Liveness)
		engine.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsHandler != nil {
		engine.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	api := engine.Group("/api/v1")
	if cfg.ResolutionHandler != nil {
		api.POST("/resolve", cfg.ResolutionHandler.Resolve)
		api.GET("/aliases/:domain/stats", cfg.ResolutionHandler.AliasStats)
	}
	if cfg.QueryHandler != nil {
		api.POST("/interactions", cfg.QueryHandler.Interactions)
	}

	return engine
}

//Personal.AI order the ending
